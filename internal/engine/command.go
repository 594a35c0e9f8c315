package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/backmassage/pdfdocx/internal/logging"
)

// waitDelay bounds how long Convert waits for stderr to drain after the
// converter is killed; grandchildren may hold the pipe open.
const waitDelay = 2 * time.Second

// CommandEngine converts by running an external program once per file.
type CommandEngine struct {
	Command string
	Args    []string // Template; see BuildArgs.

	// Stderr, when non-nil, receives the converter's stderr in real time
	// in addition to the captured copy used for classification.
	Stderr io.Writer
	Log    *logging.Logger
}

// Name implements Engine.
func (e *CommandEngine) Name() string { return "command:" + e.Command }

// Open implements Engine. The process is not started until Convert.
func (e *CommandEngine) Open(ctx context.Context, src string) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &commandSession{engine: e, src: src}, nil
}

type commandSession struct {
	engine *CommandEngine
	src    string
}

// Convert runs the converter and checks that it produced dst.
func (s *commandSession) Convert(ctx context.Context, dst string, start, end int) error {
	e := s.engine
	args := BuildArgs(e.Args, s.src, dst, start, end)
	if e.Log != nil {
		e.Log.Debug("exec: %s %s", e.Command, strings.Join(args, " "))
	}

	cmd := exec.CommandContext(ctx, e.Command, args...)
	cmd.WaitDelay = waitDelay

	var stderrBuf bytes.Buffer
	if e.Stderr != nil {
		cmd.Stderr = io.MultiWriter(&stderrBuf, e.Stderr)
	} else {
		cmd.Stderr = &stderrBuf
	}

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("conversion interrupted: %w", ctxErr)
		}
		stderr := stderrBuf.String()
		class := ClassifyStderr(stderr)
		if class == nil && errors.Is(err, os.ErrPermission) {
			class = ErrPermission
		}
		return &ExecError{Command: e.Command, Stderr: stderr, Err: err, Class: class}
	}

	if _, err := os.Stat(dst); err != nil {
		return fmt.Errorf("%s exited cleanly but wrote no output: %w", e.Command, err)
	}
	return nil
}

// Close is a no-op; the process has already exited.
func (s *commandSession) Close() error { return nil }
