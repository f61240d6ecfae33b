package config

import "github.com/rbright/piservo/internal/piservod"

// Default returns the canonical runtime configuration used when no file is
// present.
func Default() Config {
	return Config{
		SocketPath: piservod.DefaultSocketPath,
		TimeoutMS:  1000,
		Servos:     map[string]ServoConfig{},
	}
}
