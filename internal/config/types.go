// Package config resolves, parses, validates, and defaults piservo
// configuration.
package config

import "time"

// Config is the fully materialized runtime configuration used by piservo.
type Config struct {
	SocketPath string                 `toml:"socket_path"`
	TimeoutMS  int                    `toml:"timeout_ms"`
	Servos     map[string]ServoConfig `toml:"servos"`
}

// ServoConfig is one named servo preset addressable from the CLI.
type ServoConfig struct {
	Channel  int `toml:"channel"`
	GPIO     int `toml:"gpio"`
	MinPulse int `toml:"min_pulse"`
	MaxPulse int `toml:"max_pulse"`
}

// Warning is a non-fatal parse/validation message.
type Warning struct {
	Message string
}

// Timeout returns the per-command timeout as a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}
