package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rbright/piservo/internal/piservod"
)

// Typical hobby-servo pulse bounds; presets outside these still load but
// draw a warning.
const (
	typicalMinPulse = 500
	typicalMaxPulse = 2500
)

// Validate enforces config invariants and returns non-fatal warnings.
// Preset checks are config-file sanity only; protocol operations still defer
// all validation to the daemon.
func Validate(cfg Config) ([]Warning, error) {
	if strings.TrimSpace(cfg.SocketPath) == "" {
		return nil, fmt.Errorf("socket_path must not be empty")
	}
	if cfg.TimeoutMS <= 0 {
		return nil, fmt.Errorf("timeout_ms must be > 0")
	}

	warnings := make([]Warning, 0)
	if cfg.TimeoutMS > 10000 {
		warnings = append(warnings, Warning{
			Message: fmt.Sprintf("timeout_ms=%d is unusually large for a local daemon", cfg.TimeoutMS),
		})
	}

	names := make([]string, 0, len(cfg.Servos))
	for name := range cfg.Servos {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		preset := cfg.Servos[name]
		if preset.Channel < 0 || preset.Channel >= piservod.NumChannels {
			return nil, fmt.Errorf("servos.%s.channel must be in [0,%d]", name, piservod.NumChannels-1)
		}
		if preset.GPIO < 0 {
			return nil, fmt.Errorf("servos.%s.gpio must be >= 0", name)
		}

		// Zero min and max select the facade defaults.
		if preset.MinPulse == 0 && preset.MaxPulse == 0 {
			continue
		}
		if preset.MinPulse >= preset.MaxPulse {
			return nil, fmt.Errorf("servos.%s: min_pulse must be less than max_pulse", name)
		}
		if preset.MinPulse < typicalMinPulse || preset.MaxPulse > typicalMaxPulse {
			warnings = append(warnings, Warning{
				Message: fmt.Sprintf("servos.%s: range [%d,%d] is outside the typical %d-%d us servo range",
					name, preset.MinPulse, preset.MaxPulse, typicalMinPulse, typicalMaxPulse),
			})
		}
	}

	return warnings, nil
}
