package display

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
	"github.com/schollz/progressbar/v3"
)

// ProgressBar is a determinate bar counting converted files.
type ProgressBar struct {
	bar *progressbar.ProgressBar
}

// NewProgressBar creates a bar for total files on w (normally stderr).
func NewProgressBar(w io.Writer, total int, description string) *ProgressBar {
	bar := progressbar.NewOptions64(
		int64(total),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionSetWriter(w),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files"),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)
	return &ProgressBar{bar: bar}
}

// Set moves the bar to completed files.
func (p *ProgressBar) Set(completed int) {
	_ = p.bar.Set(completed)
}

// Update matches the batch progress callback signature.
func (p *ProgressBar) Update(completed, total int) {
	if int64(total) != p.bar.GetMax64() {
		p.bar.ChangeMax(total)
	}
	p.Set(completed)
}

// Finish completes the bar.
func (p *ProgressBar) Finish() {
	_ = p.bar.Finish()
}

// Spinner is an indeterminate activity indicator.
type Spinner struct {
	spinner *spinner.Spinner
}

// NewSpinner creates a spinner writing to w with the given message.
func NewSpinner(w io.Writer, message string) *Spinner {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
	s.Suffix = " " + message
	return &Spinner{spinner: s}
}

func (s *Spinner) Start() { s.spinner.Start() }

func (s *Spinner) Stop() { s.spinner.Stop() }

// UpdateMessage replaces the text shown after the spinner.
func (s *Spinner) UpdateMessage(message string) {
	s.spinner.Lock()
	s.spinner.Suffix = " " + message
	s.spinner.Unlock()
}
