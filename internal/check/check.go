// Package check provides system diagnostics (the check command) and the
// pre-run dependency validation (CheckDeps) for the configured engine.
package check

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/backmassage/pdfdocx/internal/config"
	"github.com/backmassage/pdfdocx/internal/display"
	"github.com/backmassage/pdfdocx/internal/engine"
	"github.com/backmassage/pdfdocx/internal/pipeline"
)

// Sentinel errors returned by CheckDeps.
var (
	ErrEngineNotFound = errors.New("converter command not found on PATH")
	ErrSmokeFailed    = errors.New("smoke conversion failed")
)

// smokeTimeout bounds the sample conversion run by RunCheck.
const smokeTimeout = 60 * time.Second

// Logger is the minimal logging interface needed by RunCheck.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
}

// CheckDeps fails fast when the configured engine cannot run at all.
// The fitz engine is linked in and always available.
func CheckDeps(cfg *config.Config) error {
	if cfg.Engine != config.EngineCommand {
		return nil
	}
	if _, err := exec.LookPath(cfg.EngineCommand); err != nil {
		return fmt.Errorf("%w: %s", ErrEngineNotFound, cfg.EngineCommand)
	}
	return nil
}

// RunCheck prints what the configured engine needs and converts a generated
// one-page PDF with it. It reports whether every step passed. progress
// receives the spinner; pass io.Discard to hide it.
func RunCheck(ctx context.Context, cfg *config.Config, eng engine.Engine, log Logger, progress io.Writer) bool {
	log.Info("=== System Check ===")
	log.Info("Engine: %s", eng.Name())

	ok := true
	if cfg.Engine == config.EngineCommand {
		ok = checkCommand(ctx, cfg, log)
	} else {
		log.Success("fitz: MuPDF text extraction is built in")
	}
	if !ok {
		return false
	}

	sp := display.NewSpinner(progress, "Generating a sample PDF...")
	sp.Start()
	err := smoke(ctx, cfg, eng, sp)
	sp.Stop()
	if err != nil {
		log.Error("Smoke test: %v", err)
		return false
	}
	log.Success("Smoke test: sample PDF converted")
	return true
}

// checkCommand verifies the converter is on PATH and logs its version.
func checkCommand(ctx context.Context, cfg *config.Config, log Logger) bool {
	path, err := exec.LookPath(cfg.EngineCommand)
	if err != nil {
		log.Error("%s not found on PATH", cfg.EngineCommand)
		return false
	}
	log.Success("%s: %s", cfg.EngineCommand, path)

	vctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	out, err := exec.CommandContext(vctx, path, "--version").CombinedOutput()
	if err != nil {
		log.Warn("%s --version failed: %v", cfg.EngineCommand, err)
		return true
	}
	if v := firstLine(string(out)); v != "" {
		log.Info("  version: %s", v)
	}
	log.Info("  args: %s", strings.Join(cfg.EngineArgs, " "))
	return true
}

// smoke converts a generated PDF through the regular task path so the
// check exercises the same code a real run does.
func smoke(ctx context.Context, cfg *config.Config, eng engine.Engine, sp *display.Spinner) error {
	dir, err := os.MkdirTemp("", "pdfdocx-check-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	src := filepath.Join(dir, "sample.pdf")
	if err := writeSamplePDF(src); err != nil {
		return fmt.Errorf("generate sample: %w", err)
	}
	sp.UpdateMessage("Converting the sample with " + eng.Name() + "...")

	ctx, cancel := context.WithTimeout(ctx, smokeTimeout)
	defer cancel()
	b := pipeline.NewBatchFromConfig(cfg, eng, nil)
	b.StartPage, b.EndPage = 0, engine.AllPages
	o := b.ConvertOne(ctx, src, filepath.Join(dir, "out"), true)
	if o.Kind != pipeline.KindOK {
		return fmt.Errorf("%w: %s", ErrSmokeFailed, o.Diagnostic)
	}
	if o.OutputBytes == 0 {
		return fmt.Errorf("%w: empty output", ErrSmokeFailed)
	}
	return nil
}

func writeSamplePDF(path string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Helvetica", "", 14)
	pdf.AddPage()
	pdf.Cell(40, 10, "pdfdocx system check")
	return pdf.OutputFileAndClose(path)
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
