// Package doctor runs runtime readiness diagnostics for config, socket, and
// daemon reachability.
package doctor

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rbright/piservo/internal/config"
	"github.com/rbright/piservo/internal/piservod"
)

// Check is one doctor assertion result.
type Check struct {
	Name    string
	Pass    bool
	Message string
}

// Report is the full doctor output contract.
type Report struct {
	Checks []Check
}

// OK returns true when all checks pass.
func (r Report) OK() bool {
	for _, check := range r.Checks {
		if !check.Pass {
			return false
		}
	}
	return true
}

// String renders the report as user-facing text output.
func (r Report) String() string {
	var b strings.Builder
	for _, check := range r.Checks {
		status := "OK"
		if !check.Pass {
			status = "FAIL"
		}
		b.WriteString(fmt.Sprintf("[%s] %s: %s\n", status, check.Name, check.Message))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Run executes config/socket/daemon checks for a loaded config.
func Run(cfg config.Loaded) Report {
	checks := []Check{{
		Name:    "config",
		Pass:    true,
		Message: fmt.Sprintf("loaded %q", cfg.Path),
	}}

	checks = append(checks, checkSocketPath(cfg.Config.SocketPath))
	checks = append(checks, checkDaemon(cfg.Config))

	return Report{Checks: checks}
}

// checkSocketPath validates that the daemon socket exists on disk.
func checkSocketPath(path string) Check {
	info, err := os.Stat(path)
	if err != nil {
		return Check{Name: "socket", Pass: false, Message: fmt.Sprintf("socket %s not found (is the daemon running?)", path)}
	}
	if info.Mode()&os.ModeSocket == 0 {
		return Check{Name: "socket", Pass: false, Message: fmt.Sprintf("%s exists but is not a socket", path)}
	}
	return Check{Name: "socket", Pass: true, Message: fmt.Sprintf("found %s", path)}
}

// checkDaemon connects and sends one probe command. Any single-line answer,
// including a classified rejection, proves the daemon is alive.
func checkDaemon(cfg config.Config) Check {
	err := piservod.With(cfg.SocketPath, cfg.Timeout(), func(client *piservod.Client) error {
		_, probeErr := client.State(0)
		return probeErr
	})
	if err == nil {
		return Check{Name: "daemon", Pass: true, Message: "piservod is responding"}
	}

	var daemonErr *piservod.DaemonError
	if errors.As(err, &daemonErr) {
		return Check{Name: "daemon", Pass: true, Message: fmt.Sprintf("piservod is responding (probe answered: %s)", daemonErr.Message)}
	}
	return Check{Name: "daemon", Pass: false, Message: err.Error()}
}
