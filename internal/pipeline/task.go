package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/backmassage/pdfdocx/internal/config"
	"github.com/backmassage/pdfdocx/internal/engine"
	"github.com/backmassage/pdfdocx/internal/logging"
	"github.com/backmassage/pdfdocx/internal/naming"
	"github.com/backmassage/pdfdocx/internal/probe"
)

// Diagnostics shared by tasks and tests.
const (
	diagExists        = "destination already exists"
	diagMissing       = "source file does not exist"
	diagEmpty         = "source file is empty"
	diagNotPDF        = "source is not a PDF"
	diagDirectory     = "source is a directory"
	diagOutOfMemory   = "insufficient memory to convert this file"
	diagNotStarted    = "interrupted before start"
	diagInterrupted   = "interrupted"
	timeoutDiagPrefix = "Timeout > "
)

// Batch converts files with one engine. A Batch may run several Process
// calls in sequence; its commit guard is shared by all of them.
type Batch struct {
	Engine       engine.Engine
	Log          *logging.Logger
	StartPage    int
	EndPage      int // engine.AllPages for the whole document.
	VerifyHeader bool

	guard naming.Guard
}

// NewBatch returns a Batch that converts every page with eng.
func NewBatch(eng engine.Engine, log *logging.Logger) *Batch {
	if log == nil {
		log = logging.Nop()
	}
	return &Batch{Engine: eng, Log: log, EndPage: engine.AllPages}
}

// NewBatchFromConfig applies the page range and header check from cfg.
func NewBatchFromConfig(cfg *config.Config, eng engine.Engine, log *logging.Logger) *Batch {
	b := NewBatch(eng, log)
	b.StartPage = cfg.StartPage
	b.EndPage = cfg.EndPage
	b.VerifyHeader = cfg.VerifyHeader
	return b
}

// ConvertOne converts a single source into outputDir/<stem>.docx. It never
// panics on filesystem or engine failures; they are returned as error
// outcomes. An engine panic propagates after the session has been closed.
func (b *Batch) ConvertOne(ctx context.Context, src, outputDir string, overwrite bool) Outcome {
	start := time.Now()
	o := b.convert(ctx, src, outputDir, overwrite)
	o.Elapsed = time.Since(start)
	return o
}

func (b *Batch) convert(ctx context.Context, src, outputDir string, overwrite bool) Outcome {
	o := Outcome{Path: src}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return failed(o, err)
	}

	dst := naming.OutputPath(src, outputDir)
	o.Dest = dst
	if !overwrite {
		if _, err := os.Stat(dst); err == nil {
			o.Kind = KindSkipped
			o.Diagnostic = diagExists
			return o
		}
	}

	fi, err := os.Stat(src)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return invalid(o, diagMissing)
	case err != nil:
		return failed(o, err)
	case fi.IsDir():
		return invalid(o, diagDirectory)
	case fi.Size() == 0:
		return invalid(o, diagEmpty)
	}
	o.InputBytes = fi.Size()

	if b.VerifyHeader || b.Log.DebugEnabled() {
		pr, err := probe.Probe(ctx, src)
		if err != nil {
			return failed(o, err)
		}
		b.Log.Debug("%s: %s", src, pr)
		if b.VerifyHeader && !pr.IsPDF() {
			return invalid(o, diagNotPDF)
		}
	}

	tmp := naming.TempPath(dst)
	defer os.Remove(tmp) // No-op once committed.

	if err := b.runEngine(ctx, src, tmp); err != nil {
		return failed(o, err)
	}
	if err := b.guard.Commit(ctx, tmp, dst); err != nil {
		return failed(o, err)
	}

	if fi, err := os.Stat(dst); err == nil {
		o.OutputBytes = fi.Size()
	}
	o.Kind = KindOK
	return o
}

// runEngine opens a session and converts src into dst. The session is
// closed on every exit path; a close failure is only logged.
func (b *Batch) runEngine(ctx context.Context, src, dst string) error {
	sess, err := b.Engine.Open(ctx, src)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sess.Close(); cerr != nil {
			b.Log.Warn("Close failed for %s: %v", src, cerr)
		}
	}()
	return sess.Convert(ctx, dst, b.StartPage, b.EndPage)
}

func invalid(o Outcome, diagnostic string) Outcome {
	o.Kind = KindError
	o.Category = CategoryValidation
	o.Diagnostic = diagnostic
	return o
}

func failed(o Outcome, err error) Outcome {
	o.Kind = KindError
	o.Category, o.Diagnostic = classify(err)
	return o
}

// classify maps an error to a category and a human-readable diagnostic.
func classify(err error) (Category, string) {
	switch {
	case errors.Is(err, engine.ErrOutOfMemory), errors.Is(err, syscall.ENOMEM):
		return CategoryMemory, diagOutOfMemory
	case errors.Is(err, engine.ErrPermission), errors.Is(err, fs.ErrPermission):
		return CategoryPermission, "permission denied: " + err.Error()
	case errors.Is(err, naming.ErrRevoked), errors.Is(err, context.Canceled):
		return CategoryUnclassified, diagInterrupted
	default:
		return CategoryUnclassified, fmt.Sprintf("%s: %v", errorTypeName(err), err)
	}
}

// errorTypeName returns the dynamic type of the first error in err's chain
// that is not a plain wrapper, e.g. "engine.ExecError" or "fs.PathError".
func errorTypeName(err error) string {
	for e := err; e != nil; e = errors.Unwrap(e) {
		name := strings.TrimPrefix(fmt.Sprintf("%T", e), "*")
		switch name {
		case "fmt.wrapError", "fmt.wrapErrors", "errors.errorString", "errors.joinError":
			continue
		}
		return name
	}
	return "error"
}
