package pipeline

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/backmassage/pdfdocx/internal/config"
	"github.com/backmassage/pdfdocx/internal/display"
	"github.com/backmassage/pdfdocx/internal/logging"
	"github.com/backmassage/pdfdocx/internal/naming"
	"github.com/backmassage/pdfdocx/internal/probe"
	"github.com/backmassage/pdfdocx/internal/term"
)

// ScanRow is what a dry run learned about one resolved source.
type ScanRow struct {
	Path      string
	Dest      string
	Size      int64
	Version   string
	IsPDF     bool
	Encrypted bool
	Exists    bool // Destination already present.
	Collides  bool // Another source maps to the same destination.
	ProbeErr  error
}

// Action is what a real run would do with the row.
func (r ScanRow) Action(overwrite bool) string {
	switch {
	case r.ProbeErr != nil:
		return "error"
	case r.Exists && !overwrite:
		return "skip"
	case r.Size == 0:
		return "error"
	default:
		return "convert"
	}
}

// Scan resolves inputs like [Run] but converts nothing. It probes each
// source, prints a table to w and logs a summary with size outliers.
func Scan(ctx context.Context, cfg *config.Config, log *logging.Logger, w io.Writer) []ScanRow {
	files, warnings := Resolve(cfg.Inputs, cfg.Pattern, cfg.Recursive)
	for _, msg := range warnings {
		log.Warn("%s", msg)
	}
	if len(files) == 0 {
		log.Warn("%s", diagNoInputs)
		return nil
	}
	if cfg.MaxFiles > 0 && len(files) > cfg.MaxFiles {
		files = files[:cfg.MaxFiles]
	}

	collisions := naming.FindCollisions(files, cfg.OutputDir)
	collided := make(map[string]bool)
	for _, srcs := range collisions {
		for _, s := range srcs {
			collided[s] = true
		}
	}

	rows := make([]ScanRow, 0, len(files))
	for _, path := range files {
		if ctx.Err() != nil {
			log.Warn("Interrupted")
			break
		}
		row := ScanRow{Path: path, Dest: naming.OutputPath(path, cfg.OutputDir), Collides: collided[path]}
		if _, err := os.Stat(row.Dest); err == nil {
			row.Exists = true
		}
		pr, err := probe.Probe(ctx, path)
		if err != nil {
			row.ProbeErr = err
		} else {
			row.Size = pr.Size
			row.Version = pr.Version
			row.IsPDF = pr.IsPDF()
			row.Encrypted = pr.Encrypted
		}
		rows = append(rows, row)
	}

	sizes := make([]float64, 0, len(rows))
	for _, r := range rows {
		if r.Size > 0 {
			sizes = append(sizes, float64(r.Size))
		}
	}
	bounds := computeStats(sizes)

	printScanTable(w, rows, bounds, cfg.Overwrite)
	printScanSummary(log, rows, bounds, cfg.Overwrite)
	return rows
}

// iqrBounds holds the IQR-based thresholds for outlier classification.
type iqrBounds struct {
	q1, q3    float64
	outlierLo float64 // Q1 - 1.5*IQR
	outlierHi float64 // Q3 + 1.5*IQR
	valid     bool
}

func computeStats(vals []float64) iqrBounds {
	if len(vals) < 4 {
		return iqrBounds{}
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)

	q1 := percentile(sorted, 25)
	q3 := percentile(sorted, 75)
	iqr := q3 - q1
	return iqrBounds{
		q1:        q1,
		q3:        q3,
		outlierLo: q1 - 1.5*iqr,
		outlierHi: q3 + 1.5*iqr,
		valid:     iqr > 0,
	}
}

func (b *iqrBounds) isOutlier(v float64) bool {
	return b.valid && v > 0 && (v < b.outlierLo || v > b.outlierHi)
}

// percentile computes the p-th percentile using linear interpolation.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	rank := (p / 100) * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi || hi >= len(sorted) {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

func rowNotes(r ScanRow, b iqrBounds) []string {
	var notes []string
	if r.ProbeErr != nil {
		notes = append(notes, "unreadable")
	} else if !r.IsPDF {
		notes = append(notes, "no %PDF- header")
	}
	if r.Encrypted {
		notes = append(notes, "encrypted")
	}
	if r.Collides {
		notes = append(notes, "name collision")
	}
	if b.isOutlier(float64(r.Size)) {
		notes = append(notes, "size outlier")
	}
	return notes
}

func printScanTable(w io.Writer, rows []ScanRow, b iqrBounds, overwrite bool) {
	nameW, actW := len("File"), len("Action")
	for _, r := range rows {
		nameW = max(nameW, len(filepath.Base(r.Path)))
	}
	nameW = min(nameW, 50)
	const verW, sizeW = 7, 10

	header := fmt.Sprintf("  %-*s  %-*s  %-*s  %-*s  %s", nameW, "File", verW, "Version", sizeW, "Size", actW+2, "Action", "Notes")
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, "  "+strings.Repeat("─", len(header)-2))

	for _, r := range rows {
		name := filepath.Base(r.Path)
		if len(name) > nameW {
			name = name[:nameW-1] + "…"
		}
		ver := r.Version
		if ver == "" {
			ver = "-"
		}

		// Pad plain text before coloring so escape bytes don't skew alignment.
		act := r.Action(overwrite)
		actCell := fmt.Sprintf("%-*s", actW+2, act)
		switch act {
		case "error":
			actCell = term.Red.Sprint(actCell)
		case "skip":
			actCell = term.Yellow.Sprint(actCell)
		}

		fmt.Fprintf(w, "  %-*s  %-*s  %-*s  %s  %s\n",
			nameW, name, verW, ver, sizeW, display.FormatBytes(r.Size), actCell,
			strings.Join(rowNotes(r, b), ", "))
	}
	fmt.Fprintln(w)
}

func printScanSummary(log *logging.Logger, rows []ScanRow, b iqrBounds, overwrite bool) {
	counts := map[string]int{}
	var outliers int
	var total int64
	for _, r := range rows {
		counts[r.Action(overwrite)]++
		total += r.Size
		if b.isOutlier(float64(r.Size)) {
			outliers++
		}
	}

	log.Info("Scanned %d files (%s)", len(rows), display.FormatBytes(total))
	log.Info("  Would convert %d, skip %d, fail %d", counts["convert"], counts["skip"], counts["error"])
	if b.valid {
		log.Info("  Size IQR: %s to %s", display.FormatBytes(int64(b.q1)), display.FormatBytes(int64(b.q3)))
	}
	if outliers > 0 {
		log.Warn("  %d size outlier(s) flagged", outliers)
	}
}
