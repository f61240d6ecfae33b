package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rbright/piservo/internal/config"
	"github.com/rbright/piservo/internal/logging"
	"github.com/rbright/piservo/internal/piservod"
)

// commandContext carries lazily resolved config, flags, and the logger
// shared across subcommands.
type commandContext struct {
	socketFlag  *string
	configFlag  *string
	timeoutFlag *time.Duration

	configOnce sync.Once
	loaded     config.Loaded
	configErr  error

	logOnce    sync.Once
	logRuntime logging.Runtime
	log        *slog.Logger
}

func newCommandContext(socketFlag, configFlag *string, timeoutFlag *time.Duration) *commandContext {
	return &commandContext{
		socketFlag:  socketFlag,
		configFlag:  configFlag,
		timeoutFlag: timeoutFlag,
	}
}

// ensureConfig loads the config file once, surfacing warnings on stderr.
func (c *commandContext) ensureConfig() (config.Loaded, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		loaded, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		for _, w := range loaded.Warnings {
			fmt.Fprintf(os.Stderr, "warning: %s\n", w.Message)
		}
		c.loaded = loaded
	})
	return c.loaded, c.configErr
}

// socketPath prefers the --socket flag over the config file.
func (c *commandContext) socketPath() string {
	if c.socketFlag != nil && strings.TrimSpace(*c.socketFlag) != "" {
		return strings.TrimSpace(*c.socketFlag)
	}
	return c.loaded.Config.SocketPath
}

// timeout prefers the --timeout flag over the config file.
func (c *commandContext) timeout() time.Duration {
	if c.timeoutFlag != nil && *c.timeoutFlag > 0 {
		return *c.timeoutFlag
	}
	return c.loaded.Config.Timeout()
}

// withClient runs fn against a connected client and disconnects on every
// exit path. Each CLI invocation is one connect/use/disconnect cycle.
func (c *commandContext) withClient(fn func(*piservod.Client) error) error {
	if _, err := c.ensureConfig(); err != nil {
		return err
	}
	return piservod.With(c.socketPath(), c.timeout(), fn)
}

// logger builds the JSONL logger once. A logging setup failure degrades to
// a discard logger rather than blocking the command.
func (c *commandContext) logger() *slog.Logger {
	c.logOnce.Do(func() {
		runtime, err := logging.New()
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: setup logging: %v\n", err)
			c.log = slog.New(slog.NewTextHandler(io.Discard, nil))
			return
		}
		c.logRuntime = runtime
		c.log = runtime.Logger
	})
	return c.log
}

// closeLogging flushes the log file; safe when logging never started.
func (c *commandContext) closeLogging() {
	if c.logRuntime.Logger != nil {
		_ = c.logRuntime.Close()
	}
}
