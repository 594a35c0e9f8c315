// Package logging provides the leveled logger used across pdfdocx.
//
// It keeps a printf-style surface (Info, Success, Warn, Error, Debug) on top
// of zerolog. Console output is human-readable by default or JSON with
// --log-format json; an optional log file always receives plain, uncolored
// lines.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/backmassage/pdfdocx/internal/config"
	"github.com/backmassage/pdfdocx/internal/term"
)

const timeFormat = "2006-01-02 15:04:05"

// Logger provides leveled, optionally colored logging with an optional file sink.
// Child loggers created by [Logger.With] share the parent's file.
type Logger struct {
	zl   zerolog.Logger
	file *fileSink
}

type fileSink struct {
	mu sync.Mutex
	f  *os.File
}

// NewLogger configures terminal colors from cfg and returns a Logger writing
// to stderr. Call Close when done if cfg.LogFile was set.
func NewLogger(cfg *config.Config) (*Logger, error) {
	term.Configure(cfg.ColorMode)
	return New(os.Stderr, cfg)
}

// New returns a Logger writing console output to w. Colors follow the
// current [term] state.
func New(w io.Writer, cfg *config.Config) (*Logger, error) {
	var console io.Writer
	if cfg.LogFormat == config.LogJSON {
		console = w
	} else {
		console = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: timeFormat,
			NoColor:    !term.Enabled(),
		}
	}

	l := &Logger{}
	out := console
	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		l.file = &fileSink{f: f}
		plain := zerolog.ConsoleWriter{Out: f, TimeFormat: timeFormat, NoColor: true}
		out = zerolog.MultiLevelWriter(console, plain)
	}

	level := zerolog.InfoLevel
	if cfg.Verbose {
		level = zerolog.DebugLevel
	}
	l.zl = zerolog.New(out).Level(level).With().Timestamp().Logger()
	return l, nil
}

// Nop returns a Logger that discards everything. Useful in tests.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

// With returns a child logger that adds key=val to every line.
func (l *Logger) With(key, val string) *Logger {
	return &Logger{zl: l.zl.With().Str(key, val).Logger(), file: l.file}
}

// Close closes the log file if one was opened. Safe to call more than once.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	l.file.mu.Lock()
	defer l.file.mu.Unlock()
	if l.file.f == nil {
		return nil
	}
	err := l.file.f.Close()
	l.file.f = nil
	return err
}

// DebugEnabled reports whether Debug lines are emitted.
func (l *Logger) DebugEnabled() bool {
	return l.zl.GetLevel() <= zerolog.DebugLevel
}

// Info logs at INFO level.
func (l *Logger) Info(format string, args ...interface{}) {
	l.zl.Info().Msg(fmt.Sprintf(format, args...))
}

// Success logs at INFO level with a check mark and success=true.
func (l *Logger) Success(format string, args ...interface{}) {
	l.zl.Info().Bool("success", true).Msg(term.Green.Sprint("✓ ") + fmt.Sprintf(format, args...))
}

// Warn logs at WARN level.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.zl.Warn().Msg(fmt.Sprintf(format, args...))
}

// Error logs at ERROR level.
func (l *Logger) Error(format string, args ...interface{}) {
	l.zl.Error().Msg(fmt.Sprintf(format, args...))
}

// Debug logs at DEBUG level; dropped unless the logger was built with Verbose.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.zl.Debug().Msg(fmt.Sprintf(format, args...))
}
