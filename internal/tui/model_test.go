package tui

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/pdfdocx/internal/config"
	"github.com/backmassage/pdfdocx/internal/engine"
	"github.com/backmassage/pdfdocx/internal/logging"
	"github.com/backmassage/pdfdocx/internal/pipeline"
)

func TestUpdate_RecordsOutcomes(t *testing.T) {
	events := make(chan pipeline.Event)
	m := NewModel(events, 3, "/out", nil)

	newM, cmd := m.Update(eventMsg{Kind: pipeline.EventOutcome, Completed: 1, Total: 3,
		Outcome: pipeline.Outcome{Kind: pipeline.KindOK, Path: "/in/a.pdf"}})
	m = newM.(Model)
	assert.NotNil(t, cmd, "keeps listening for events")
	assert.Equal(t, 1, m.OK)
	assert.Equal(t, 1, m.Completed)

	newM, _ = m.Update(eventMsg{Kind: pipeline.EventOutcome, Completed: 2, Total: 3,
		Outcome: pipeline.Outcome{Kind: pipeline.KindError, Path: "/in/b.pdf", Diagnostic: "source file is empty"}})
	m = newM.(Model)
	assert.Equal(t, 1, m.Failed)
	assert.InDelta(t, 2.0/3.0, m.Percent(), 1e-9)

	view := m.View()
	assert.Contains(t, view, "a.pdf")
	assert.Contains(t, view, "source file is empty")
	assert.Contains(t, view, "2/3")
}

func TestUpdate_RecentIsBounded(t *testing.T) {
	m := NewModel(nil, 20, "", nil)
	for i := 1; i <= 20; i++ {
		newM, _ := m.Update(eventMsg{Kind: pipeline.EventOutcome, Completed: i, Total: 20,
			Outcome: pipeline.Outcome{Kind: pipeline.KindSkipped, Path: fmt.Sprintf("f%02d.pdf", i)}})
		m = newM.(Model)
	}
	require.Len(t, m.Recent, recentLimit)
	assert.Equal(t, "f20.pdf", m.Recent[recentLimit-1].Path)
	assert.Equal(t, 20, m.Skipped)
}

func TestUpdate_DoneShowsSummary(t *testing.T) {
	res := pipeline.SetupFailure("cannot create output directory /nope", pipeline.CategoryPermission)
	m := NewModel(nil, 0, "", nil)

	newM, cmd := m.Update(eventMsg{Kind: pipeline.EventDone, Result: res})
	m = newM.(Model)
	require.True(t, m.Done)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Contains(t, m.View(), "General: cannot create output directory /nope")
}

func TestView_CapsErrorList(t *testing.T) {
	var res pipeline.BatchResult
	res.Counts = map[pipeline.Kind]int{pipeline.KindError: 13}
	for i := range 13 {
		res.Errors = append(res.Errors, pipeline.FileError{Path: fmt.Sprintf("/in/bad%02d.pdf", i), Diagnostic: "boom"})
	}
	m := NewModel(nil, 13, "", nil)
	m.Result, m.Done = &res, true

	view := m.View()
	assert.Contains(t, view, "bad09.pdf")
	assert.NotContains(t, view, "bad10.pdf")
	assert.Contains(t, view, "... and 3 more")
}

func TestUpdate_QuitCancelsThenWaits(t *testing.T) {
	var cancelled int
	m := NewModel(nil, 2, "", func() { cancelled++ })

	newM, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	m = newM.(Model)
	assert.Nil(t, cmd, "running conversions finish first")
	assert.True(t, m.Quitting)
	assert.Equal(t, 1, cancelled)
	assert.Contains(t, m.View(), "Stopping")

	newM, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	m = newM.(Model)
	assert.Equal(t, 1, cancelled, "cancel runs once")

	m.Done = true
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestWaitForEvent_Closed(t *testing.T) {
	ch := make(chan pipeline.Event)
	close(ch)
	assert.IsType(t, streamClosedMsg{}, waitForEvent(ch)())
}

func TestRun_Headless(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in", "a.pdf")
	require.NoError(t, os.MkdirAll(filepath.Dir(src), 0o755))
	require.NoError(t, os.WriteFile(src, []byte("%PDF-1.4\n%%EOF\n"), 0o644))
	script := filepath.Join(dir, "fake-converter")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\ncp \"$2\" \"$3\"\n"), 0o755))

	cfg := config.DefaultConfig()
	cfg.Inputs = []string{filepath.Dir(src)}
	cfg.OutputDir = filepath.Join(dir, "out")
	cfg.EngineCommand = script
	eng, err := engine.New(&cfg, logging.Nop())
	require.NoError(t, err)

	var out bytes.Buffer
	res, err := Run(context.Background(), &cfg, logging.Nop(), eng,
		tea.WithInput(nil), tea.WithOutput(&out), tea.WithoutRenderer())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Counts[pipeline.KindOK])
	assert.FileExists(t, filepath.Join(cfg.OutputDir, "a.docx"))
}

func TestRun_SetupFailure(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Inputs = []string{t.TempDir()}
	cfg.OutputDir = t.TempDir()

	res, err := Run(context.Background(), &cfg, logging.Nop(), nil,
		tea.WithInput(nil), tea.WithOutput(io.Discard), tea.WithoutRenderer())
	require.NoError(t, err)
	assert.True(t, res.IsSetupFailure())
}
