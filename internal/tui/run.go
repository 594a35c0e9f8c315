package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/backmassage/pdfdocx/internal/config"
	"github.com/backmassage/pdfdocx/internal/engine"
	"github.com/backmassage/pdfdocx/internal/logging"
	"github.com/backmassage/pdfdocx/internal/pipeline"
)

// Run converts the inputs of cfg under the interactive view and returns
// the batch result. log should not write to the terminal the program owns.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger, eng engine.Engine, opts ...tea.ProgramOption) (pipeline.BatchResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var events <-chan pipeline.Event
	total := 0
	files, failure := pipeline.Prepare(cfg, log)
	if failure != nil {
		events = pipeline.StreamResult(*failure)
	} else {
		total = len(files)
		b := pipeline.NewBatchFromConfig(cfg, eng, log)
		events = b.Stream(ctx, files, pipeline.OptionsFromConfig(cfg))
	}

	final, err := tea.NewProgram(NewModel(events, total, cfg.OutputDir, cancel), opts...).Run()
	if err != nil {
		cancel()
		drain(events)
		return pipeline.BatchResult{}, fmt.Errorf("tui: %w", err)
	}

	m, ok := final.(Model)
	if !ok || m.Result == nil {
		// Quit before EventDone: the batch is already cancelled; wait for it.
		return waitResult(events), nil
	}
	return *m.Result, nil
}

// waitResult returns the result carried by EventDone, skipping anything
// before it.
func waitResult(events <-chan pipeline.Event) pipeline.BatchResult {
	var res pipeline.BatchResult
	for ev := range events {
		if ev.Kind == pipeline.EventDone {
			res = ev.Result
		}
	}
	return res
}

func drain(events <-chan pipeline.Event) {
	for range events {
	}
}
