package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/backmassage/pdfdocx/internal/config"
	"github.com/backmassage/pdfdocx/internal/engine"
	"github.com/backmassage/pdfdocx/internal/logging"
)

// errFailed makes the process exit 1 after the failure was already reported.
var errFailed = errors.New("one or more files failed")

// app carries flag state shared by the subcommands.
type app struct {
	flags config.FlagValues
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "pdfdocx",
		Short: "Batch PDF to DOCX converter",
		Long: `pdfdocx converts PDF files to Word documents in parallel.

Inputs may be files or directories; directories are scanned for files matching
--pattern (recursively unless --no-recursive). Each source becomes
<output>/<name>.docx. Existing documents are skipped unless --overwrite is set.

Settings are read from defaults, then --config (YAML), then .env and PDFDOCX_*
variables, then flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	config.BindPersistentFlags(root.PersistentFlags(), &a.flags)

	root.AddCommand(
		newConvertCmd(a),
		newTUICmd(a),
		newScanCmd(a),
		newCheckCmd(a),
		newVersionCmd(),
	)
	return root
}

// loadConfig layers file, env and flags for cmd and validates the result.
func (a *app) loadConfig(cmd *cobra.Command, args []string, checkOnly bool) (config.Config, error) {
	cfg, err := config.Load(cmd.Flags(), &a.flags, args)
	if err != nil {
		return cfg, err
	}
	cfg.CheckOnly = checkOnly
	return cfg, cfg.Validate()
}

// setup builds the stderr logger and the engine for cfg.
func setup(cfg *config.Config) (*logging.Logger, engine.Engine, error) {
	log, err := logging.NewLogger(cfg)
	if err != nil {
		return nil, nil, err
	}
	return withEngine(cfg, log)
}

func withEngine(cfg *config.Config, log *logging.Logger) (*logging.Logger, engine.Engine, error) {
	eng, err := engine.New(cfg, log)
	if err != nil {
		log.Close()
		return nil, nil, err
	}
	return log, eng, nil
}
