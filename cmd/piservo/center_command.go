package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rbright/piservo/internal/config"
	"github.com/rbright/piservo/internal/piservod"
	"github.com/rbright/piservo/internal/servo"
)

func newCenterCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "center <preset>",
		Short: "Configure, enable, and center a servo preset from the config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			name := args[0]
			preset, ok := loaded.Config.Servos[name]
			if !ok {
				return fmt.Errorf("no servo preset %q in %s%s", name, loaded.Path, presetHint(loaded.Config.Servos))
			}

			return ctx.withClient(func(client *piservod.Client) error {
				s, err := servo.New(client, preset.Channel, preset.GPIO, preset.MinPulse, preset.MaxPulse)
				if err != nil {
					return err
				}
				if err := s.Enable(); err != nil {
					return err
				}
				if err := s.Center(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s centered at %d us (channel %d)\n", name, s.CenterPulse(), s.Channel())
				return nil
			})
		},
	}
}

func presetHint(presets map[string]config.ServoConfig) string {
	if len(presets) == 0 {
		return " (no presets defined)"
	}
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return " (available: " + strings.Join(names, ", ") + ")"
}
