package main

import (
	"github.com/spf13/cobra"

	"github.com/backmassage/pdfdocx/internal/pipeline"
)

func newScanCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [flags] <file-or-dir>...",
		Short: "List what convert would do without converting",
		Long: `scan resolves inputs exactly like convert, then inspects each source
(PDF header, version, encryption marker, size) and prints whether it would
be converted, skipped or rejected. Nothing is written.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runScan(cmd, args)
		},
	}
	bindConvertFlags(cmd, a)
	return cmd
}

func (a *app) runScan(cmd *cobra.Command, args []string) error {
	cfg, err := a.loadConfig(cmd, args, false)
	if err != nil {
		return err
	}
	log, _, err := setup(&cfg)
	if err != nil {
		return err
	}
	defer log.Close()

	rows := pipeline.Scan(cmd.Context(), &cfg, log, cmd.OutOrStdout())
	if len(rows) == 0 {
		return errFailed
	}
	return nil
}
