package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rbright/piservo/internal/piservod"
)

func newGetCommand(ctx *commandContext) *cobra.Command {
	getCmd := &cobra.Command{
		Use:   "get",
		Short: "Query channel state from the daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	getCmd.AddCommand(&cobra.Command{
		Use:   "pulse <channel>",
		Short: "Print the current pulse width",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			channel, err := parseIntArg(args[0], "channel")
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *piservod.Client) error {
				pulse, err := client.Pulse(channel)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d\n", pulse)
				return nil
			})
		},
	})

	getCmd.AddCommand(&cobra.Command{
		Use:   "range <channel>",
		Short: "Print the configured pulse width bounds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			channel, err := parseIntArg(args[0], "channel")
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *piservod.Client) error {
				minPulse, maxPulse, err := client.Range(channel)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d %d\n", minPulse, maxPulse)
				return nil
			})
		},
	})

	getCmd.AddCommand(&cobra.Command{
		Use:   "state <channel>",
		Short: "Print the GPIO assignment and enable flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			channel, err := parseIntArg(args[0], "channel")
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *piservod.Client) error {
				state, err := client.State(channel)
				if err != nil {
					return err
				}
				enabled := "disabled"
				if state.Enabled {
					enabled = "enabled"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "gpio=%d %s\n", state.GPIO, enabled)
				return nil
			})
		},
	})

	return getCmd
}
