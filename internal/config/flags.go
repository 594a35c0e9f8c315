package config

// This file binds CLI flags and layers them over file and environment config.
// Flags are captured into FlagValues rather than written straight into Config;
// only flags the user actually passed (pflag Changed) override lower layers.
// Negated flags (e.g. --no-recursive) are applied last.

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// FlagValues holds the raw values of every conversion flag until [Load]
// decides which of them override the lower config layers.
type FlagValues struct {
	ConfigFile string
	EnvFile    string

	inputs       []string
	output       string
	pattern      string
	recursive    bool
	maxFiles     int
	workers      int
	timeoutSecs  float64
	overwrite    bool
	verifyHeader bool

	engine        EngineKind
	engineCommand string
	engineArgs    []string
	startPage     int
	endPage       int

	verbose   bool
	progress  bool
	color     ColorMode
	logFile   string
	logFormat LogFormat

	noRecursive bool
	noProgress  bool
	noColor     bool
}

// BindPersistentFlags registers the flags shared by every subcommand.
func BindPersistentFlags(fs *pflag.FlagSet, fv *FlagValues) {
	def := DefaultConfig()
	fs.StringVar(&fv.ConfigFile, "config", "", "YAML config file")
	fs.StringVar(&fv.EnvFile, "env-file", ".env", "dotenv file with PDFDOCX_* variables")
	fs.BoolVarP(&fv.verbose, "verbose", "v", false, "verbose output (debug logs, converter stderr)")
	fs.Var(&colorModeValue{p: &fv.color, def: def.ColorMode}, "color", "color output: auto | always | never")
	fs.BoolVar(&fv.noColor, "no-color", false, "disable colored output")
	fs.StringVarP(&fv.logFile, "log", "l", "", "append logs to file")
	fs.Var(&logFormatValue{p: &fv.logFormat, def: def.LogFormat}, "log-format", "console log encoding: console | json")
	fs.Var(&engineValue{p: &fv.engine, def: def.Engine}, "engine", "conversion engine: command | fitz")
	fs.StringVar(&fv.engineCommand, "engine-command", def.EngineCommand, "converter executable for the command engine")
	fs.StringSliceVar(&fv.engineArgs, "engine-arg", nil, "converter argument template (repeatable; {input} {output} {start} {end})")
}

// BindConvertFlags registers the flags of the convert and tui commands.
func BindConvertFlags(fs *pflag.FlagSet, fv *FlagValues) {
	def := DefaultConfig()
	fs.StringSliceVarP(&fv.inputs, "input", "i", nil, "input file or directory (repeatable; positional args also accepted)")
	fs.StringVarP(&fv.output, "output", "o", "", "output directory for .docx files")
	fs.StringVarP(&fv.pattern, "pattern", "p", def.Pattern, "glob applied to file names inside input directories")
	fs.BoolVarP(&fv.recursive, "recursive", "r", def.Recursive, "descend into subdirectories")
	fs.BoolVar(&fv.noRecursive, "no-recursive", false, "only scan the top level of input directories")
	fs.IntVarP(&fv.maxFiles, "max-files", "m", 0, "convert at most N files (0 = all)")
	fs.IntVarP(&fv.workers, "workers", "w", def.Workers, "number of concurrent conversions")
	fs.Float64VarP(&fv.timeoutSecs, "timeout-per-file", "t", 0, "seconds before a file is abandoned (0 = no limit)")
	fs.BoolVarP(&fv.overwrite, "overwrite", "f", false, "replace existing .docx files")
	fs.BoolVar(&fv.verifyHeader, "verify-header", false, "reject sources without a %PDF- header")
	fs.IntVar(&fv.startPage, "start-page", def.StartPage, "first page to convert (0-based)")
	fs.IntVar(&fv.endPage, "end-page", def.EndPage, "last page to convert, exclusive (-1 = through the end)")
	fs.BoolVar(&fv.progress, "progress", def.ShowProgress, "show a progress bar")
	fs.BoolVar(&fv.noProgress, "no-progress", false, "hide the progress bar")
}

// Load builds the effective Config: defaults, then the YAML file named by
// --config, then .env and PDFDOCX_* variables, then flags the user passed.
// Positional args are appended to --input.
func Load(fs *pflag.FlagSet, fv *FlagValues, args []string) (Config, error) {
	cfg := DefaultConfig()
	if fv.ConfigFile != "" {
		if err := LoadFile(fv.ConfigFile, &cfg); err != nil {
			return cfg, err
		}
	}
	if err := LoadDotEnv(fv.EnvFile); err != nil {
		return cfg, err
	}
	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}

	applyChangedFlags(fs, fv, &cfg)
	applyNegatedFlags(fv, &cfg)

	cfg.Inputs = append(cfg.Inputs, args...)
	if cfg.OutputDir != "" {
		cfg.OutputDir = NormalizeDirArg(cfg.OutputDir)
	}
	return cfg, nil
}

// applyChangedFlags copies each explicitly set flag into cfg.
func applyChangedFlags(fs *pflag.FlagSet, fv *FlagValues, cfg *Config) {
	set := func(name string, apply func()) {
		if f := fs.Lookup(name); f != nil && f.Changed {
			apply()
		}
	}
	set("input", func() { cfg.Inputs = append([]string(nil), fv.inputs...) })
	set("output", func() { cfg.OutputDir = fv.output })
	set("pattern", func() { cfg.Pattern = fv.pattern })
	set("recursive", func() { cfg.Recursive = fv.recursive })
	set("max-files", func() { cfg.MaxFiles = fv.maxFiles })
	set("workers", func() { cfg.Workers = fv.workers })
	set("timeout-per-file", func() { cfg.Timeout = SecondsToDuration(fv.timeoutSecs) })
	set("overwrite", func() { cfg.Overwrite = fv.overwrite })
	set("verify-header", func() { cfg.VerifyHeader = fv.verifyHeader })
	set("engine", func() { cfg.Engine = fv.engine })
	set("engine-command", func() { cfg.EngineCommand = fv.engineCommand })
	set("engine-arg", func() { cfg.EngineArgs = append([]string(nil), fv.engineArgs...) })
	set("start-page", func() { cfg.StartPage = fv.startPage })
	set("end-page", func() { cfg.EndPage = fv.endPage })
	set("verbose", func() { cfg.Verbose = fv.verbose })
	set("progress", func() { cfg.ShowProgress = fv.progress })
	set("color", func() { cfg.ColorMode = fv.color })
	set("log", func() { cfg.LogFile = fv.logFile })
	set("log-format", func() { cfg.LogFormat = fv.logFormat })
}

// applyNegatedFlags applies --no-* switches; they win over their positive forms.
func applyNegatedFlags(fv *FlagValues, cfg *Config) {
	if fv.noRecursive {
		cfg.Recursive = false
	}
	if fv.noProgress {
		cfg.ShowProgress = false
	}
	if fv.noColor {
		cfg.ColorMode = ColorNever
	}
}

// pflag.Value adapters so enum types can be bound with fs.Var.

type engineValue struct {
	p   *EngineKind
	def EngineKind
}

func (e *engineValue) String() string {
	if *e.p == "" {
		return string(e.def)
	}
	return string(*e.p)
}
func (e *engineValue) Type() string { return "engine" }
func (e *engineValue) Set(s string) error {
	switch k := EngineKind(strings.ToLower(s)); k {
	case EngineCommand, EngineFitz:
		*e.p = k
	default:
		return fmt.Errorf("invalid engine %q (use 'command' or 'fitz')", s)
	}
	return nil
}

type colorModeValue struct {
	p   *ColorMode
	def ColorMode
}

func (c *colorModeValue) String() string {
	if *c.p == "" {
		return string(c.def)
	}
	return string(*c.p)
}
func (c *colorModeValue) Type() string { return "mode" }
func (c *colorModeValue) Set(s string) error {
	switch m := ColorMode(strings.ToLower(s)); m {
	case ColorAuto, ColorAlways, ColorNever:
		*c.p = m
	default:
		return fmt.Errorf("invalid color mode %q (use 'auto', 'always' or 'never')", s)
	}
	return nil
}

type logFormatValue struct {
	p   *LogFormat
	def LogFormat
}

func (l *logFormatValue) String() string {
	if *l.p == "" {
		return string(l.def)
	}
	return string(*l.p)
}
func (l *logFormatValue) Type() string { return "format" }
func (l *logFormatValue) Set(s string) error {
	switch f := LogFormat(strings.ToLower(s)); f {
	case LogConsole, LogJSON:
		*l.p = f
	default:
		return fmt.Errorf("invalid log format %q (use 'console' or 'json')", s)
	}
	return nil
}
