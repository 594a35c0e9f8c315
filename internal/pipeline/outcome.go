package pipeline

import (
	"time"

	"github.com/backmassage/pdfdocx/internal/display"
)

// Kind is the terminal status of one file.
type Kind string

const (
	KindOK      Kind = "ok"
	KindSkipped Kind = "skipped"
	KindError   Kind = "error"
)

// Category classifies an error outcome. Skipped and ok outcomes carry none.
type Category string

const (
	CategoryNone         Category = ""
	CategoryValidation   Category = "validation"
	CategoryMemory       Category = "memory"
	CategoryPermission   Category = "permission"
	CategoryTimeout      Category = "timeout"
	CategoryUnclassified Category = "unclassified"
)

// Group collapses categories into validation, resource, timeout or
// unclassified. Memory and permission failures are both resource failures.
func (c Category) Group() string {
	switch c {
	case CategoryMemory, CategoryPermission:
		return "resource"
	default:
		return string(c)
	}
}

// Outcome is the result of converting one file. It is built once by the
// task (or by the orchestrator for timeouts) and passed by value.
type Outcome struct {
	Kind        Kind
	Path        string // Source as given.
	Dest        string // Destination .docx; empty when never computed.
	Diagnostic  string
	Category    Category
	InputBytes  int64
	OutputBytes int64
	Elapsed     time.Duration
}

// FileError is one entry in [BatchResult.Errors]. An empty Path marks a
// setup failure that applies to the whole run.
type FileError struct {
	Path       string
	Diagnostic string
	Category   Category
}

// BatchResult aggregates a run. Only the orchestrating goroutine mutates it.
type BatchResult struct {
	Counts           map[Kind]int
	Errors           []FileError // Completion order.
	TotalInputBytes  int64       // Sum over ok outcomes.
	TotalOutputBytes int64
	Elapsed          time.Duration
}

func newBatchResult() BatchResult {
	return BatchResult{Counts: make(map[Kind]int)}
}

// SetupFailure returns a result holding only a sentinel error entry.
func SetupFailure(diagnostic string, cat Category) BatchResult {
	r := newBatchResult()
	r.Errors = append(r.Errors, FileError{Diagnostic: diagnostic, Category: cat})
	return r
}

func (r *BatchResult) record(o Outcome) {
	r.Counts[o.Kind]++
	switch o.Kind {
	case KindError:
		r.Errors = append(r.Errors, FileError{Path: o.Path, Diagnostic: o.Diagnostic, Category: o.Category})
	case KindOK:
		r.TotalInputBytes += o.InputBytes
		r.TotalOutputBytes += o.OutputBytes
	}
}

// Total returns the number of recorded outcomes.
func (r BatchResult) Total() int {
	n := 0
	for _, c := range r.Counts {
		n += c
	}
	return n
}

// Failed reports whether any file failed or the run could not start.
func (r BatchResult) Failed() bool {
	return len(r.Errors) > 0
}

// IsSetupFailure reports whether the run stopped before any file was tried.
func (r BatchResult) IsSetupFailure() bool {
	return r.Total() == 0 && len(r.Errors) == 1 && r.Errors[0].Path == ""
}

// Summary converts r into the end-of-run report model.
func (r BatchResult) Summary() display.Summary {
	s := display.Summary{
		OK:          r.Counts[KindOK],
		Skipped:     r.Counts[KindSkipped],
		Failed:      r.Counts[KindError],
		InputBytes:  r.TotalInputBytes,
		OutputBytes: r.TotalOutputBytes,
		Elapsed:     r.Elapsed,
	}
	for _, e := range r.Errors {
		s.Errors = append(s.Errors, display.ErrorLine{Path: e.Path, Diagnostic: e.Diagnostic, Group: e.Category.Group()})
	}
	return s
}
