package engine

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Sentinel errors for failures that callers report with a fixed message.
var (
	ErrOutOfMemory = errors.New("out of memory")
	ErrPermission  = errors.New("permission denied")
)

// Pre-compiled regexes for classifying converter stderr. Checked in order by
// [ClassifyStderr]; the first match wins.
var (
	reOutOfMemory = regexp.MustCompile(
		`MemoryError|(?i:out of memory)|Cannot allocate memory|std::bad_alloc`)

	rePermission = regexp.MustCompile(
		`PermissionError|(?i:permission denied)|Operation not permitted`)
)

// ClassifyStderr maps converter stderr to a sentinel error, or nil when no
// known pattern matches.
func ClassifyStderr(stderr string) error {
	switch {
	case reOutOfMemory.MatchString(stderr):
		return ErrOutOfMemory
	case rePermission.MatchString(stderr):
		return ErrPermission
	}
	return nil
}

// ExecError is returned when the converter process fails. errors.Is matches
// both the underlying run error and the classified sentinel, if any.
type ExecError struct {
	Command string
	Stderr  string
	Err     error
	Class   error // ErrOutOfMemory, ErrPermission or nil
}

func (e *ExecError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Command, e.Err)
	if last := lastLine(e.Stderr); last != "" {
		msg += ": " + last
	}
	return msg
}

// Unwrap exposes both the run error and the classification.
func (e *ExecError) Unwrap() []error {
	if e.Class == nil {
		return []error{e.Err}
	}
	return []error{e.Class, e.Err}
}

// lastLine returns the last non-blank line of s, where tracebacks and most
// CLI tools put the actual message.
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			return l
		}
	}
	return ""
}
