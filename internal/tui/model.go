// Package tui is the interactive front end: a Bubble Tea program that
// follows a batch through pipeline events and ends on a summary screen.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/backmassage/pdfdocx/internal/pipeline"
)

// recentLimit is how many finished files the running view lists.
const recentLimit = 8

// eventMsg wraps one pipeline event.
type eventMsg pipeline.Event

// streamClosedMsg arrives if the event channel closes without EventDone.
type streamClosedMsg struct{}

// Model is the dashboard state. It is driven entirely by pipeline events
// and key presses; Result is set once EventDone arrives.
type Model struct {
	Title     string
	OutputDir string

	Total     int
	Completed int
	OK        int
	Skipped   int
	Failed    int
	Recent    []pipeline.Outcome

	Result   *pipeline.BatchResult
	Done     bool
	Quitting bool

	events   <-chan pipeline.Event
	cancel   context.CancelFunc
	progress progress.Model
	spin     spinner.Model
	width    int
}

// NewModel builds a model that reads events until EventDone. cancel is
// called when the user quits early; it may be nil.
func NewModel(events <-chan pipeline.Event, total int, outputDir string, cancel context.CancelFunc) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = runningStyle
	return Model{
		Title:     "pdfdocx",
		OutputDir: outputDir,
		Total:     total,
		events:    events,
		cancel:    cancel,
		progress:  progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		spin:      sp,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, waitForEvent(m.events))
}

// waitForEvent receives the next pipeline event.
func waitForEvent(events <-chan pipeline.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return streamClosedMsg{}
		}
		return eventMsg(ev)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			if m.Done {
				return m, tea.Quit
			}
			if !m.Quitting && m.cancel != nil {
				m.cancel()
			}
			m.Quitting = true
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = max(10, min(60, msg.Width-20))

	case eventMsg:
		ev := pipeline.Event(msg)
		if ev.Kind == pipeline.EventDone {
			res := ev.Result
			m.Result = &res
			m.Done = true
			m.Completed = ev.Completed
			return m, tea.Quit
		}
		m.record(ev)
		return m, waitForEvent(m.events)

	case streamClosedMsg:
		m.Done = true
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) record(ev pipeline.Event) {
	m.Completed = ev.Completed
	if ev.Total > 0 {
		m.Total = ev.Total
	}
	switch ev.Outcome.Kind {
	case pipeline.KindOK:
		m.OK++
	case pipeline.KindSkipped:
		m.Skipped++
	case pipeline.KindError:
		m.Failed++
	}
	m.Recent = append(m.Recent, ev.Outcome)
	if len(m.Recent) > recentLimit {
		m.Recent = m.Recent[len(m.Recent)-recentLimit:]
	}
}

// Percent is the completed fraction in [0, 1].
func (m Model) Percent() float64 {
	if m.Total == 0 {
		return 1
	}
	return float64(m.Completed) / float64(m.Total)
}
