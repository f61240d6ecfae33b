package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rbright/piservo/internal/daemontest"
)

// runPiservo executes one CLI invocation with a fresh command tree,
// capturing combined output. Logging is redirected under the test temp dir.
func runPiservo(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runPiservoState(t, t.TempDir(), args...)
}

// runPiservoState is runPiservo with a caller-owned state dir, for tests
// that inspect the JSONL log afterwards.
func runPiservoState(t *testing.T, stateDir string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_STATE_HOME", stateDir)

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

// daemonArgs returns the flags pointing every invocation at the fake daemon
// and at a nonexistent config file so defaults apply.
func daemonArgs(t *testing.T, daemon *daemontest.Server) []string {
	t.Helper()
	return []string{
		"--socket", daemon.Path(),
		"--config", filepath.Join(t.TempDir(), "config.toml"),
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := runPiservo(t, "version")
	require.NoError(t, err)
	require.Contains(t, out, "piservo")
}

func TestSetupSetAndGetFlow(t *testing.T) {
	daemon := daemontest.Start(t)
	base := daemonArgs(t, daemon)

	out, err := runPiservo(t, append(base, "setup", "0", "17")...)
	require.NoError(t, err)
	require.Contains(t, out, "channel 0 configured on GPIO 17")

	_, err = runPiservo(t, append(base, "set-range", "0", "1000", "2000")...)
	require.NoError(t, err)

	_, err = runPiservo(t, append(base, "set-pulse", "0", "1500")...)
	require.NoError(t, err)

	out, err = runPiservo(t, append(base, "get", "pulse", "0")...)
	require.NoError(t, err)
	require.Equal(t, "1500\n", out)

	out, err = runPiservo(t, append(base, "get", "range", "0")...)
	require.NoError(t, err)
	require.Equal(t, "1000 2000\n", out)
}

func TestEnableDisableAndState(t *testing.T) {
	daemon := daemontest.Start(t)
	base := daemonArgs(t, daemon)

	_, err := runPiservo(t, append(base, "setup", "2", "27")...)
	require.NoError(t, err)

	out, err := runPiservo(t, append(base, "get", "state", "2")...)
	require.NoError(t, err)
	require.Equal(t, "gpio=27 disabled\n", out)

	out, err = runPiservo(t, append(base, "enable", "2")...)
	require.NoError(t, err)
	require.Contains(t, out, "channel 2 enabled")

	out, err = runPiservo(t, append(base, "get", "state", "2")...)
	require.NoError(t, err)
	require.Equal(t, "gpio=27 enabled\n", out)

	_, err = runPiservo(t, append(base, "disable", "2")...)
	require.NoError(t, err)
}

func TestStatusShowsConfiguredAndEmptyChannels(t *testing.T) {
	daemon := daemontest.Start(t)
	base := daemonArgs(t, daemon)

	_, err := runPiservo(t, append(base, "setup", "0", "17")...)
	require.NoError(t, err)

	out, err := runPiservo(t, append(base, "status")...)
	require.NoError(t, err)
	require.Contains(t, out, "17")
	require.Contains(t, out, "1000-2000")
	require.Contains(t, out, "not configured")
}

func TestCenterPreset(t *testing.T) {
	daemon := daemontest.Start(t)

	configPath := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(configPath, []byte(`
[servos.pan]
channel = 0
gpio = 17
min_pulse = 1200
max_pulse = 1800
`), 0o600))

	out, err := runPiservo(t, "--socket", daemon.Path(), "--config", configPath, "center", "pan")
	require.NoError(t, err)
	require.Contains(t, out, "pan centered at 1500 us (channel 0)")

	out, err = runPiservo(t, "--socket", daemon.Path(), "--config", configPath, "get", "pulse", "0")
	require.NoError(t, err)
	require.Equal(t, "1500\n", out)
}

func TestCenterUnknownPreset(t *testing.T) {
	daemon := daemontest.Start(t)

	configPath := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(configPath, []byte(`
[servos.pan]
channel = 0
gpio = 17
`), 0o600))

	_, err := runPiservo(t, "--socket", daemon.Path(), "--config", configPath, "center", "tilt")
	require.Error(t, err)
	require.Contains(t, err.Error(), `no servo preset "tilt"`)
	require.Contains(t, err.Error(), "available: pan")
}

func TestNonIntegerChannelArg(t *testing.T) {
	daemon := daemontest.Start(t)

	_, err := runPiservo(t, append(daemonArgs(t, daemon), "setup", "zero", "17")...)
	require.Error(t, err)
	require.Contains(t, err.Error(), "channel must be an integer")
}

func TestDaemonRejectionSurfaces(t *testing.T) {
	daemon := daemontest.Start(t)

	_, err := runPiservo(t, append(daemonArgs(t, daemon), "enable", "9")...)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Invalid channel 9")
}

func TestDoctorCommand(t *testing.T) {
	daemon := daemontest.Start(t)

	out, err := runPiservo(t, append(daemonArgs(t, daemon), "doctor")...)
	require.NoError(t, err)
	require.Contains(t, out, "[OK] socket")
	require.Contains(t, out, "[OK] daemon")
}

func TestDoctorCommandFailsWithoutDaemon(t *testing.T) {
	tmp := t.TempDir()

	out, err := runPiservo(t,
		"--socket", filepath.Join(tmp, "piservod.sock"),
		"--config", filepath.Join(tmp, "config.toml"),
		"doctor",
	)
	require.Error(t, err)
	require.Contains(t, err.Error(), "checks failed")
	require.Contains(t, out, "[FAIL] socket")
}

func TestFailedCommandWritesFailureLog(t *testing.T) {
	daemon := daemontest.Start(t)
	stateDir := t.TempDir()

	_, err := runPiservoState(t, stateDir, append(daemonArgs(t, daemon), "enable", "9")...)
	require.Error(t, err)

	contents, readErr := os.ReadFile(filepath.Join(stateDir, "piservo", "log.jsonl"))
	require.NoError(t, readErr)
	log := string(contents)
	require.Contains(t, log, `"msg":"command start"`)
	require.Contains(t, log, `"msg":"command failed"`)
	require.Contains(t, log, "Invalid channel 9")
}

func TestSuccessfulCommandWritesCompletionLog(t *testing.T) {
	daemon := daemontest.Start(t)
	stateDir := t.TempDir()

	_, err := runPiservoState(t, stateDir, append(daemonArgs(t, daemon), "setup", "0", "17")...)
	require.NoError(t, err)

	contents, readErr := os.ReadFile(filepath.Join(stateDir, "piservo", "log.jsonl"))
	require.NoError(t, readErr)
	log := string(contents)
	require.Contains(t, log, `"msg":"command start"`)
	require.Contains(t, log, `"msg":"command complete"`)
	require.NotContains(t, log, `"msg":"command failed"`)
}

func TestInvalidConfigRejected(t *testing.T) {
	daemon := daemontest.Start(t)

	configPath := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(configPath, []byte("timeout_ms = 0\n"), 0o600))

	_, err := runPiservo(t, "--socket", daemon.Path(), "--config", configPath, "status")
	require.Error(t, err)
	require.Contains(t, err.Error(), "timeout_ms")
}
