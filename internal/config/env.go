package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment variable read by [ApplyEnv].
const EnvPrefix = "PDFDOCX_"

// LoadDotEnv loads variables from a .env file into the process environment.
// Variables already set are not overridden. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays PDFDOCX_* environment variables onto cfg. Unset or empty
// variables are ignored.
func ApplyEnv(cfg *Config) error {
	if v := env("OUTPUT"); v != "" {
		cfg.OutputDir = NormalizeDirArg(v)
	}
	if v := env("PATTERN"); v != "" {
		cfg.Pattern = v
	}
	if v := env("ENGINE"); v != "" {
		cfg.Engine = EngineKind(strings.ToLower(v))
	}
	if v := env("ENGINE_COMMAND"); v != "" {
		cfg.EngineCommand = v
	}
	if v := env("LOG"); v != "" {
		cfg.LogFile = v
	}
	if v := env("LOG_FORMAT"); v != "" {
		cfg.LogFormat = LogFormat(strings.ToLower(v))
	}
	if v := env("COLOR"); v != "" {
		cfg.ColorMode = ColorMode(strings.ToLower(v))
	}

	if v := env("WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sWORKERS must be a whole number (got %q)", EnvPrefix, v)
		}
		cfg.Workers = n
	}
	if v := env("MAX_FILES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sMAX_FILES must be a whole number (got %q)", EnvPrefix, v)
		}
		cfg.MaxFiles = n
	}
	if v := env("TIMEOUT"); v != "" {
		d, err := ParseTimeout(v)
		if err != nil {
			return fmt.Errorf("%sTIMEOUT: %w", EnvPrefix, err)
		}
		cfg.Timeout = d
	}

	for name, dst := range map[string]*bool{
		"RECURSIVE":     &cfg.Recursive,
		"OVERWRITE":     &cfg.Overwrite,
		"VERBOSE":       &cfg.Verbose,
		"PROGRESS":      &cfg.ShowProgress,
		"VERIFY_HEADER": &cfg.VerifyHeader,
	} {
		v := env(name)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s%s must be true or false (got %q)", EnvPrefix, name, v)
		}
		*dst = b
	}
	return nil
}

// ParseTimeout accepts either a Go duration ("90s", "2m") or a bare number of
// seconds ("2.5").
func ParseTimeout(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		return SecondsToDuration(secs), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q (use seconds or a duration like 90s)", s)
	}
	return d, nil
}

// SecondsToDuration converts fractional seconds to a Duration.
func SecondsToDuration(secs float64) time.Duration {
	return time.Duration(secs * float64(time.Second))
}

func env(name string) string {
	return strings.TrimSpace(os.Getenv(EnvPrefix + name))
}
