package main

import (
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/backmassage/pdfdocx/internal/check"
	"github.com/backmassage/pdfdocx/internal/config"
	"github.com/backmassage/pdfdocx/internal/display"
	"github.com/backmassage/pdfdocx/internal/pipeline"
	"github.com/backmassage/pdfdocx/internal/term"
)

func newConvertCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert [flags] <file-or-dir>...",
		Short: "Convert PDF files to DOCX",
		Example: `  pdfdocx convert -o out/ reports/
  pdfdocx convert -o out/ -w 4 -t 120 --no-recursive a.pdf b.pdf scans/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConvert(cmd, args)
		},
	}
	bindConvertFlags(cmd, a)
	return cmd
}

func bindConvertFlags(cmd *cobra.Command, a *app) {
	config.BindConvertFlags(cmd.Flags(), &a.flags)
}

func (a *app) runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := a.loadConfig(cmd, args, false)
	if err != nil {
		return err
	}
	log, eng, err := setup(&cfg)
	if err != nil {
		return err
	}
	defer log.Close()
	log = log.With("run", uuid.NewString()[:8])

	display.PrintBanner(cmd.OutOrStdout())
	log.Info("=== pdfdocx v%s (%s) ===", version, commit)

	// Fail fast if the converter cannot run at all.
	if err := check.CheckDeps(&cfg); err != nil {
		log.Error("%v", err)
		log.Error("Run 'pdfdocx check' for details, or use --engine fitz")
		return errFailed
	}

	var bar *display.ProgressBar
	var onProgress pipeline.ProgressFunc
	if cfg.ShowProgress && term.IsTerminal(os.Stderr) {
		onProgress = func(completed, total int) {
			if bar == nil {
				bar = display.NewProgressBar(os.Stderr, total, "Converting")
			}
			bar.Update(completed, total)
		}
	}

	res := pipeline.Run(cmd.Context(), &cfg, log, eng, onProgress)
	if bar != nil {
		bar.Finish()
	}

	display.PrintSummary(cmd.OutOrStdout(), res.Summary())
	if res.Failed() {
		return errFailed
	}
	return nil
}
