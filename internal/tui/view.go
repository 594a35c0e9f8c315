package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/backmassage/pdfdocx/internal/display"
	"github.com/backmassage/pdfdocx/internal/pipeline"
)

// maxErrorsShown caps the error list on the summary screen.
const maxErrorsShown = 10

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	skipStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	runningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	summaryStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
)

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.Title) + "\n\n")

	if m.Done {
		b.WriteString(m.viewSummary())
		return lipgloss.NewStyle().Margin(1, 2).Render(b.String())
	}

	status := m.spin.View() + " Converting"
	if m.Quitting {
		status = runningStyle.Render("Stopping: waiting for running conversions...")
	}
	b.WriteString(status + "\n\n")
	b.WriteString(m.progress.ViewAs(m.Percent()))
	b.WriteString(fmt.Sprintf("  %d/%d\n\n", m.Completed, m.Total))
	b.WriteString(m.counts() + "\n\n")

	for _, o := range m.Recent {
		b.WriteString(outcomeLine(o) + "\n")
	}
	b.WriteString(dimStyle.Render("\nq: stop"))
	return lipgloss.NewStyle().Margin(1, 2).Render(b.String())
}

func (m Model) counts() string {
	return fmt.Sprintf("%s  %s  %s",
		okStyle.Render(fmt.Sprintf("✓ %d converted", m.OK)),
		skipStyle.Render(fmt.Sprintf("» %d skipped", m.Skipped)),
		failStyle.Render(fmt.Sprintf("✗ %d failed", m.Failed)))
}

func outcomeLine(o pipeline.Outcome) string {
	name := filepath.Base(o.Path)
	switch o.Kind {
	case pipeline.KindOK:
		return okStyle.Render("✓ ") + name + dimStyle.Render(" "+display.FormatElapsed(o.Elapsed))
	case pipeline.KindSkipped:
		return skipStyle.Render("» ") + name + dimStyle.Render(" exists")
	default:
		return failStyle.Render("✗ ") + name + dimStyle.Render(" "+o.Diagnostic)
	}
}

func (m Model) viewSummary() string {
	if m.Result == nil {
		return failStyle.Render("Batch ended without a result.") + "\n"
	}
	res := *m.Result
	s := res.Summary()

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s\n%s\n%s\n",
		okStyle.Render(fmt.Sprintf("✓ Converted : %d", s.OK)),
		skipStyle.Render(fmt.Sprintf("» Skipped   : %d", s.Skipped)),
		failStyle.Render(fmt.Sprintf("✗ Failed    : %d", s.Failed))))
	if s.OK > 0 {
		b.WriteString(fmt.Sprintf("  %s -> %s\n", display.FormatBytes(s.InputBytes), display.FormatBytes(s.OutputBytes)))
	}
	if s.Elapsed > 0 {
		b.WriteString(dimStyle.Render("  in "+display.FormatElapsed(s.Elapsed)) + "\n")
	}
	if m.OutputDir != "" && s.OK > 0 {
		b.WriteString(dimStyle.Render("  output: "+m.OutputDir) + "\n")
	}

	if len(s.Errors) > 0 {
		b.WriteString("\n" + failStyle.Render("Errors:") + "\n")
		for i, e := range s.Errors {
			if i == maxErrorsShown {
				b.WriteString(dimStyle.Render(fmt.Sprintf("  ... and %d more", len(s.Errors)-maxErrorsShown)) + "\n")
				break
			}
			b.WriteString(fmt.Sprintf("  %s: %s\n", e.Label(), e.Diagnostic))
		}
	}
	return summaryStyle.Render(strings.TrimRight(b.String(), "\n")) + "\n"
}
