package pipeline

import "context"

// EventKind distinguishes stream events.
type EventKind int

const (
	// EventOutcome carries one recorded outcome and the running count.
	EventOutcome EventKind = iota
	// EventDone carries the final result. It is always the last event.
	EventDone
)

// Event is one message on the channel returned by [Batch.Stream].
type Event struct {
	Kind      EventKind
	Outcome   Outcome // EventOutcome only.
	Completed int
	Total     int
	Result    BatchResult // EventDone only.
}

// Stream runs Process on its own goroutine and reports through a channel:
// one EventOutcome per file, then one EventDone, then the channel is
// closed. The channel is buffered to hold every event, so a slow consumer
// never stalls the batch. Hooks already set on opts still run.
func (b *Batch) Stream(ctx context.Context, files []string, opts Options) <-chan Event {
	events := make(chan Event, len(files)+1)
	total := len(files)

	userOutcome, userProgress := opts.OnOutcome, opts.OnProgress
	var last Outcome
	opts.OnOutcome = func(o Outcome) {
		last = o
		if userOutcome != nil {
			userOutcome(o)
		}
	}
	opts.OnProgress = func(completed, total int) {
		events <- Event{Kind: EventOutcome, Outcome: last, Completed: completed, Total: total}
		if userProgress != nil {
			userProgress(completed, total)
		}
	}

	go func() {
		defer close(events)
		res := b.Process(ctx, files, opts)
		events <- Event{Kind: EventDone, Completed: res.Total(), Total: total, Result: res}
	}()
	return events
}

// StreamResult wraps an already known result, such as a setup failure, as
// a closed stream holding a single EventDone.
func StreamResult(res BatchResult) <-chan Event {
	events := make(chan Event, 1)
	events <- Event{Kind: EventDone, Completed: res.Total(), Total: res.Total(), Result: res}
	close(events)
	return events
}
