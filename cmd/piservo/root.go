package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var socketFlag string
	var configFlag string
	var timeoutFlag time.Duration

	ctx := newCommandContext(&socketFlag, &configFlag, &timeoutFlag)

	rootCmd := &cobra.Command{
		Use:           "piservo",
		Short:         "Control servos through the piservod daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			if _, err := ctx.ensureConfig(); err != nil {
				return err
			}
			ctx.logger().Info("command start", "command", cmd.Name(), "args", args)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if cmd.Name() != "version" {
				ctx.logger().Info("command complete", "command", cmd.Name())
			}
			ctx.closeLogging()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&socketFlag, "socket", "", "Path to the piservod unix socket")
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().DurationVar(&timeoutFlag, "timeout", 0, "Per-command response timeout")

	rootCmd.AddCommand(newSetupCommand(ctx))
	rootCmd.AddCommand(newEnableCommand(ctx))
	rootCmd.AddCommand(newDisableCommand(ctx))
	rootCmd.AddCommand(newSetPulseCommand(ctx))
	rootCmd.AddCommand(newSetRangeCommand(ctx))
	rootCmd.AddCommand(newGetCommand(ctx))
	rootCmd.AddCommand(newStatusCommand(ctx))
	rootCmd.AddCommand(newCenterCommand(ctx))
	rootCmd.AddCommand(newDoctorCommand(ctx))
	rootCmd.AddCommand(newVersionCommand())

	attachFailureLogging(ctx, rootCmd)

	return rootCmd
}

// attachFailureLogging wraps every RunE so failing commands land in the
// JSONL log before the process reports them. cobra skips PersistentPostRun
// when RunE returns an error, so the error path has to log and close the
// runtime itself.
func attachFailureLogging(ctx *commandContext, cmd *cobra.Command) {
	if runE := cmd.RunE; runE != nil && cmd.Name() != "version" {
		cmd.RunE = func(c *cobra.Command, args []string) error {
			err := runE(c, args)
			if err != nil {
				ctx.logger().Error("command failed", "command", c.Name(), "error", err.Error())
				ctx.closeLogging()
			}
			return err
		}
	}
	for _, sub := range cmd.Commands() {
		attachFailureLogging(ctx, sub)
	}
}

// parseIntArg parses a decimal CLI argument. Semantic bounds (channel range,
// gpio validity) stay with the daemon.
func parseIntArg(value, name string) (int, error) {
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", name, value)
	}
	return parsed, nil
}
