package main

import (
	"errors"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/rbright/piservo/internal/piservod"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the state of all daemon channels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *piservod.Client) error {
				tw := table.NewWriter()
				tw.SetStyle(table.StyleRounded)
				tw.AppendHeader(table.Row{"Channel", "GPIO", "Output", "Range (us)", "Pulse (us)"})
				tw.SetColumnConfigs([]table.ColumnConfig{
					{Number: 1, Align: text.AlignRight},
					{Number: 2, Align: text.AlignRight},
					{Number: 5, Align: text.AlignRight},
				})

				for channel := 0; channel < piservod.NumChannels; channel++ {
					row, err := statusRow(client, channel)
					if err != nil {
						return err
					}
					tw.AppendRow(row)
				}

				fmt.Fprintln(cmd.OutOrStdout(), tw.Render())
				return nil
			})
		},
	}
}

// statusRow queries one channel. An unconfigured channel is a normal row,
// not a failure.
func statusRow(client *piservod.Client, channel int) (table.Row, error) {
	state, err := client.State(channel)
	if errors.Is(err, piservod.ErrChannelNotConfigured) {
		return table.Row{channel, "-", "not configured", "-", "-"}, nil
	}
	if err != nil {
		return nil, err
	}

	minPulse, maxPulse, err := client.Range(channel)
	if err != nil {
		return nil, err
	}
	pulse, err := client.Pulse(channel)
	if err != nil {
		return nil, err
	}

	output := "disabled"
	if state.Enabled {
		output = "enabled"
	}
	return table.Row{
		channel,
		state.GPIO,
		output,
		fmt.Sprintf("%d-%d", minPulse, maxPulse),
		pulse,
	}, nil
}
