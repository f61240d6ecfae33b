package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rbright/piservo/internal/piservod"
)

func newSetupCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "setup <channel> <gpio>",
		Short: "Assign a GPIO pin to a servo channel",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			channel, err := parseIntArg(args[0], "channel")
			if err != nil {
				return err
			}
			gpio, err := parseIntArg(args[1], "gpio")
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *piservod.Client) error {
				if err := client.Setup(channel, gpio); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "channel %d configured on GPIO %d\n", channel, gpio)
				return nil
			})
		},
	}
}

func newEnableCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "enable <channel>",
		Short: "Enable PWM output on a channel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			channel, err := parseIntArg(args[0], "channel")
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *piservod.Client) error {
				if err := client.Enable(channel); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "channel %d enabled\n", channel)
				return nil
			})
		},
	}
}

func newDisableCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "disable <channel>",
		Short: "Disable PWM output on a channel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			channel, err := parseIntArg(args[0], "channel")
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *piservod.Client) error {
				if err := client.Disable(channel); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "channel %d disabled\n", channel)
				return nil
			})
		},
	}
}

func newSetPulseCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set-pulse <channel> <microseconds>",
		Short: "Set the pulse width for a channel",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			channel, err := parseIntArg(args[0], "channel")
			if err != nil {
				return err
			}
			pulse, err := parseIntArg(args[1], "pulse")
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *piservod.Client) error {
				if err := client.SetPulse(channel, pulse); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "channel %d pulse set to %d us\n", channel, pulse)
				return nil
			})
		},
	}
}

func newSetRangeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set-range <channel> <min> <max>",
		Short: "Set the pulse width bounds for a channel",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			channel, err := parseIntArg(args[0], "channel")
			if err != nil {
				return err
			}
			minPulse, err := parseIntArg(args[1], "min")
			if err != nil {
				return err
			}
			maxPulse, err := parseIntArg(args[2], "max")
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *piservod.Client) error {
				if err := client.SetRange(channel, minPulse, maxPulse); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "channel %d range set to [%d, %d] us\n", channel, minPulse, maxPulse)
				return nil
			})
		},
	}
}
