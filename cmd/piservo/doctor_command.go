package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rbright/piservo/internal/doctor"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Run readiness checks against the daemon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			// Flag overrides apply to the doctor probe too.
			loaded.Config.SocketPath = ctx.socketPath()
			loaded.Config.TimeoutMS = int(ctx.timeout().Milliseconds())

			report := doctor.Run(loaded)
			fmt.Fprintln(cmd.OutOrStdout(), report.String())
			if !report.OK() {
				return errors.New("one or more checks failed")
			}
			return nil
		},
	}
}
