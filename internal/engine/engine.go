package engine

import (
	"context"
	"fmt"
	"os"

	"github.com/backmassage/pdfdocx/internal/config"
	"github.com/backmassage/pdfdocx/internal/logging"
)

// AllPages as the end page converts through the last page of the document.
const AllPages = -1

// Engine opens conversion sessions. Implementations must be safe for
// concurrent use; each session is used by a single goroutine.
type Engine interface {
	Name() string
	Open(ctx context.Context, src string) (Session, error)
}

// Session converts one opened source document.
type Session interface {
	// Convert writes pages [start, end) of the source to dst. end == AllPages
	// means through the last page.
	Convert(ctx context.Context, dst string, start, end int) error
	Close() error
}

// New returns the engine selected by cfg.Engine.
func New(cfg *config.Config, log *logging.Logger) (Engine, error) {
	switch cfg.Engine {
	case config.EngineCommand:
		e := &CommandEngine{
			Command: cfg.EngineCommand,
			Args:    cfg.EngineArgs,
			Log:     log,
		}
		if cfg.Verbose {
			e.Stderr = os.Stderr
		}
		return e, nil
	case config.EngineFitz:
		return &FitzEngine{}, nil
	default:
		return nil, fmt.Errorf("unknown engine %q", cfg.Engine)
	}
}
