package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/backmassage/pdfdocx/internal/config"
	"github.com/backmassage/pdfdocx/internal/display"
	"github.com/backmassage/pdfdocx/internal/engine"
	"github.com/backmassage/pdfdocx/internal/logging"
	"github.com/backmassage/pdfdocx/internal/naming"
)

const diagNoInputs = "no PDF files found for the given inputs"

// Prepare creates the output directory and resolves the inputs of cfg,
// applying cfg.MaxFiles. When the run cannot start, failure holds the
// sentinel result to report and files is nil.
func Prepare(cfg *config.Config, log *logging.Logger) (files []string, failure *BatchResult) {
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		cat, _ := classify(err)
		r := SetupFailure(fmt.Sprintf("cannot create output directory %s: %v", cfg.OutputDir, err), cat)
		log.Error("%s", r.Errors[0].Diagnostic)
		return nil, &r
	}

	files, warnings := Resolve(cfg.Inputs, cfg.Pattern, cfg.Recursive)
	for _, w := range warnings {
		log.Warn("%s", w)
	}
	if len(files) == 0 {
		r := SetupFailure(diagNoInputs, CategoryValidation)
		log.Warn("%s", diagNoInputs)
		return nil, &r
	}
	log.Info("Found %d unique PDF file(s)", len(files))

	if cfg.MaxFiles > 0 && len(files) > cfg.MaxFiles {
		log.Info("Limiting to %d of %d files", cfg.MaxFiles, len(files))
		files = files[:cfg.MaxFiles]
	}

	for dst, srcs := range naming.FindCollisions(files, cfg.OutputDir) {
		log.Warn("%d sources write %s (last one wins): %s",
			len(srcs), filepath.Base(dst), strings.Join(srcs, ", "))
	}
	return files, nil
}

// OptionsFromConfig maps cfg onto batch options. Hooks are left unset.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		OutputDir: cfg.OutputDir,
		Workers:   cfg.Workers,
		Overwrite: cfg.Overwrite,
		Timeout:   cfg.Timeout,
	}
}

// Run is the front-end entry point: prepare, convert, log a summary.
// It always returns a complete result; setup failures come back as a
// single error entry with an empty Path.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger, eng engine.Engine, onProgress ProgressFunc) BatchResult {
	files, failure := Prepare(cfg, log)
	if failure != nil {
		return *failure
	}

	b := NewBatchFromConfig(cfg, eng, log)
	opts := OptionsFromConfig(cfg)
	opts.OnProgress = onProgress
	opts.OnOutcome = func(o Outcome) { logOutcome(log, o) }

	logBatchHeader(cfg, log, eng, len(files))
	res := b.Process(ctx, files, opts)
	if ctx.Err() != nil {
		log.Warn("Interrupted")
	}
	logSummary(log, res)
	return res
}

// --- Logging helpers ---

func logOutcome(log *logging.Logger, o Outcome) {
	name := filepath.Base(o.Path)
	switch o.Kind {
	case KindOK:
		log.Success("Converted %s (%s, %s)", name, display.FormatBytes(o.OutputBytes), display.FormatElapsed(o.Elapsed))
	case KindSkipped:
		log.Info("Skip (exists): %s", filepath.Base(o.Dest))
	case KindError:
		log.Error("%s: %s", name, o.Diagnostic)
	}
}

func logBatchHeader(cfg *config.Config, log *logging.Logger, eng engine.Engine, n int) {
	log.Info("Converting %d file(s) with %d worker(s)", n, max(1, cfg.Workers))
	log.Info("Engine: %s", eng.Name())
	log.Info("Output: %s", cfg.OutputDir)
	if cfg.Timeout > 0 {
		log.Info("Timeout per file: %s", cfg.Timeout)
	}
	if cfg.StartPage > 0 || cfg.EndPage != engine.AllPages {
		end := "last"
		if cfg.EndPage != engine.AllPages {
			end = fmt.Sprint(cfg.EndPage)
		}
		log.Info("Pages: %d to %s", cfg.StartPage, end)
	}
	if cfg.Overwrite {
		log.Info("Existing .docx files will be replaced")
	}
}

func logSummary(log *logging.Logger, res BatchResult) {
	log.Info("==============================")
	log.Info("Done: %d converted, %d skipped, %d failed in %s",
		res.Counts[KindOK], res.Counts[KindSkipped], res.Counts[KindError], display.FormatElapsed(res.Elapsed))
	if res.Counts[KindOK] > 0 {
		log.Info("  Input %s -> output %s",
			display.FormatBytes(res.TotalInputBytes), display.FormatBytes(res.TotalOutputBytes))
	}
}
