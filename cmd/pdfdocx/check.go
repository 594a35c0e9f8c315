package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/backmassage/pdfdocx/internal/check"
	"github.com/backmassage/pdfdocx/internal/display"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the conversion engine with a sample PDF",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(cmd, nil, true)
			if err != nil {
				return err
			}
					log, eng, err := setup(&cfg)
			if err != nil {
				return err
			}
			defer log.Close()

			display.PrintBanner(cmd.OutOrStdout())
			if !check.RunCheck(cmd.Context(), &cfg, eng, log, os.Stderr) {
				return errFailed
			}
			return nil
		},
	}
}
