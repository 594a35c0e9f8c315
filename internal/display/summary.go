package display

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/backmassage/pdfdocx/internal/term"
)

// generalLabel names error entries that do not belong to a file.
const generalLabel = "General"

// ErrorLine is one failed file (or a run-wide failure when Path is empty).
type ErrorLine struct {
	Path       string
	Diagnostic string
	Group      string
}

// Summary is everything the end-of-run report shows.
type Summary struct {
	OK, Skipped, Failed int
	Errors              []ErrorLine
	InputBytes          int64
	OutputBytes         int64
	Elapsed             time.Duration
}

// Label returns the display name of an error entry.
func (e ErrorLine) Label() string {
	if e.Path == "" {
		return generalLabel
	}
	return filepath.Base(e.Path)
}

// PrintSummary writes the counts and every error detail to w.
func PrintSummary(w io.Writer, s Summary) {
	rule := strings.Repeat("=", 60)
	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, term.Cyan.Sprint("CONVERSION SUMMARY"))
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%s %d\n", term.Green.Sprint("✓ Converted :"), s.OK)
	fmt.Fprintf(w, "%s %d\n", term.Yellow.Sprint("» Skipped   :"), s.Skipped)
	fmt.Fprintf(w, "%s %d\n", term.Red.Sprint("✗ Failed    :"), s.Failed)
	if s.OK > 0 {
		fmt.Fprintf(w, "  Size      : %s -> %s", FormatBytes(s.InputBytes), FormatBytes(s.OutputBytes))
		if r := FormatRatio(s.InputBytes, s.OutputBytes); r != "" {
			fmt.Fprintf(w, " (%s)", r)
		}
		fmt.Fprintln(w)
	}
	if s.Elapsed > 0 {
		fmt.Fprintf(w, "  Elapsed   : %s\n", FormatElapsed(s.Elapsed))
	}
	fmt.Fprintln(w, rule)

	if len(s.Errors) == 0 {
		return
	}
	thin := strings.Repeat("-", 60)
	fmt.Fprintln(w)
	fmt.Fprintln(w, term.Red.Sprint("ERROR DETAILS:"))
	fmt.Fprintln(w, thin)
	for _, e := range s.Errors {
		label := e.Label()
		if e.Group != "" {
			label += term.Faint.Sprintf(" [%s]", e.Group)
		}
		fmt.Fprintf(w, "  %s\n", label)
		fmt.Fprintf(w, "     -> %s\n", e.Diagnostic)
	}
	fmt.Fprintln(w, thin)
}
