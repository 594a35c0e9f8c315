package main

import (
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/backmassage/pdfdocx/internal/check"
	"github.com/backmassage/pdfdocx/internal/logging"
	"github.com/backmassage/pdfdocx/internal/term"
	"github.com/backmassage/pdfdocx/internal/tui"
)

func newTUICmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui [flags] <file-or-dir>...",
		Short: "Convert with an interactive dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTUI(cmd, args)
		},
	}
	bindConvertFlags(cmd, a)
	return cmd
}

func (a *app) runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := a.loadConfig(cmd, args, false)
	if err != nil {
		return err
	}
	if err := check.CheckDeps(&cfg); err != nil {
		return err
	}

	// The dashboard owns the terminal; logs only reach --log.
	term.Configure(cfg.ColorMode)
	quiet, err := logging.New(io.Discard, &cfg)
	if err != nil {
		return err
	}
	log, eng, err := withEngine(&cfg, quiet)
	if err != nil {
		return err
	}
	defer log.Close()

	res, err := tui.Run(cmd.Context(), &cfg, log, eng, tea.WithOutput(os.Stderr))
	if err != nil {
		return err
	}
	if res.Failed() {
		return errFailed
	}
	return nil
}
