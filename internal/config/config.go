// Package config holds runtime configuration: defaults, YAML and environment
// layering, CLI flag binding, and validation.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// --- Enum types for validated string fields ---

// EngineKind selects the conversion backend.
type EngineKind string

const (
	EngineCommand EngineKind = "command" // External converter process (default: pdf2docx).
	EngineFitz    EngineKind = "fitz"    // In-process text extraction via MuPDF.
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// LogFormat selects the console log encoding.
type LogFormat string

const (
	LogConsole LogFormat = "console" // Human-readable lines (default).
	LogJSON    LogFormat = "json"    // One JSON object per line.
)

// DefaultPattern is the glob used to find PDFs inside input directories.
const DefaultPattern = "*.pdf"

// Config holds all runtime settings. It is populated by [DefaultConfig],
// optionally overlaid by a YAML file ([LoadFile]) and PDFDOCX_* environment
// variables ([ApplyEnv]), and finally by CLI flags ([Load]) before being
// passed by pointer to the packages that need it.
type Config struct {
	// Inputs (files or directories; positional args and --input).
	Inputs    []string `yaml:"inputs"`
	OutputDir string   `yaml:"output"`
	Pattern   string   `yaml:"pattern"`   // Default: "*.pdf".
	Recursive bool     `yaml:"recursive"` // Default: true. Cleared by --no-recursive.
	MaxFiles  int      `yaml:"max_files"` // 0 means no cap.

	// Batch behavior.
	Workers      int           `yaml:"workers"`          // Default: NumCPU-1, at least 1.
	Timeout      time.Duration `yaml:"timeout_per_file"` // 0 disables per-file timeouts.
	Overwrite    bool          `yaml:"overwrite"`
	VerifyHeader bool          `yaml:"verify_header"` // Reject sources without a %PDF- header.

	// Conversion engine.
	Engine        EngineKind `yaml:"engine"`         // Default: "command".
	EngineCommand string     `yaml:"engine_command"` // Default: "pdf2docx".
	EngineArgs    []string   `yaml:"engine_args"`    // Placeholders: {input} {output} {start} {end}.
	StartPage     int        `yaml:"start_page"`     // Default: 0 (first page).
	EndPage       int        `yaml:"end_page"`       // Default: -1 (through the last page).

	// Display and logging.
	Verbose      bool      `yaml:"verbose"`
	ShowProgress bool      `yaml:"progress"` // Default: true. Cleared by --no-progress.
	ColorMode    ColorMode `yaml:"color"`    // Default: "auto".
	LogFile      string    `yaml:"log_file"` // Optional append-only log file.
	LogFormat    LogFormat `yaml:"log_format"`
	CheckOnly    bool      `yaml:"-"` // Set by the check command.
}

// DefaultConfig returns a Config with every default applied. Used as the base
// before file, environment and flag overrides.
func DefaultConfig() Config {
	return Config{
		Pattern:       DefaultPattern,
		Recursive:     true,
		Workers:       DefaultWorkers(),
		Engine:        EngineCommand,
		EngineCommand: "pdf2docx",
		EngineArgs:    []string{"convert", "{input}", "{output}", "--start={start}", "--end={end}"},
		StartPage:     0,
		EndPage:       -1,
		ShowProgress:  true,
		ColorMode:     ColorAuto,
		LogFormat:     LogConsole,
	}
}

// DefaultWorkers leaves one CPU for the control goroutine and the terminal.
func DefaultWorkers() int {
	return max(1, runtime.NumCPU()-1)
}

// LoadFile overlays the YAML document at path onto cfg. Keys absent from the
// file keep their current values.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks enum fields and numeric ranges. When not in CheckOnly mode
// it also requires at least one input and an output directory.
func (c *Config) Validate() error {
	switch c.Engine {
	case EngineCommand, EngineFitz:
		// valid
	default:
		return fmt.Errorf("invalid engine %q (use 'command' or 'fitz')", c.Engine)
	}

	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return fmt.Errorf("invalid color mode %q (use 'auto', 'always' or 'never')", c.ColorMode)
	}

	switch c.LogFormat {
	case LogConsole, LogJSON:
		// valid
	default:
		return fmt.Errorf("invalid log format %q (use 'console' or 'json')", c.LogFormat)
	}

	if c.Engine == EngineCommand && strings.TrimSpace(c.EngineCommand) == "" {
		return errors.New("engine command must not be empty")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1 (got %d)", c.Workers)
	}
	if c.MaxFiles < 0 {
		return fmt.Errorf("max files must not be negative (got %d)", c.MaxFiles)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout per file must be positive (got %s)", c.Timeout)
	}
	if c.StartPage < 0 {
		return fmt.Errorf("start page must not be negative (got %d)", c.StartPage)
	}
	if c.EndPage >= 0 && c.EndPage <= c.StartPage {
		return fmt.Errorf("end page %d must be after start page %d (end is exclusive)", c.EndPage, c.StartPage)
	}
	if strings.TrimSpace(c.Pattern) == "" {
		return errors.New("pattern must not be empty")
	}
	if _, err := filepath.Match(c.Pattern, ""); err != nil {
		return fmt.Errorf("invalid pattern %q: %w", c.Pattern, err)
	}

	if c.CheckOnly {
		return nil
	}
	if len(c.Inputs) == 0 {
		return errors.New("need at least one input file or directory")
	}
	if c.OutputDir == "" {
		return errors.New("need an output directory (--output)")
	}
	return nil
}
