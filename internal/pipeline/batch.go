package pipeline

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/backmassage/pdfdocx/internal/naming"
)

// maxPollInterval caps how long the orchestrator sleeps between timeout
// checks when no task completes.
const maxPollInterval = 5 * time.Second

// ProgressFunc is called after every recorded outcome with the number of
// outcomes recorded so far and the batch size.
type ProgressFunc func(completed, total int)

// Options configures one Process call.
type Options struct {
	OutputDir string
	Workers   int // Values below 1 are treated as 1.
	Overwrite bool
	Timeout   time.Duration // Per file, measured from submission. 0 disables.

	// Hooks run on the goroutine that called Process, in this order, after
	// each outcome has been recorded.
	OnOutcome  func(Outcome)
	OnProgress ProgressFunc
}

// task is the orchestrator's view of one submitted file.
type task struct {
	path      string
	submitted time.Time
	cancel    context.CancelFunc
}

// Process converts files concurrently and returns the aggregate result.
// Every file yields exactly one outcome. When opts.Timeout is set, a file
// still pending opts.Timeout after submission is cancelled and recorded as
// a timeout; whatever it produces later is discarded and it can no longer
// write its destination. Cancelling ctx stops queued files from starting.
func (b *Batch) Process(ctx context.Context, files []string, opts Options) BatchResult {
	res := newBatchResult()
	if len(files) == 0 {
		return res
	}
	began := time.Now()

	tasks := make([]task, len(files))
	jobs := make([]job, len(files))
	pending := make(map[int]bool, len(files))
	for i, f := range files {
		tctx, cancel := context.WithCancel(ctx)
		tasks[i] = task{path: f, submitted: time.Now(), cancel: cancel}
		jobs[i] = job{index: i, path: f, ctx: tctx}
		pending[i] = true
	}
	defer func() {
		for _, t := range tasks {
			t.cancel()
		}
	}()

	results := startPool(opts.Workers, jobs, func(ctx context.Context, path string) Outcome {
		return b.ConvertOne(ctx, path, opts.OutputDir, opts.Overwrite)
	}, b.Log)

	total := len(files)
	record := func(o Outcome) {
		res.record(o)
		if opts.OnOutcome != nil {
			opts.OnOutcome(o)
		}
		if opts.OnProgress != nil {
			opts.OnProgress(res.Total(), total)
		}
	}
	accept := func(r result) {
		b.guard.Release(jobs[r.index].ctx)
		if !pending[r.index] {
			return // Already recorded as a timeout.
		}
		delete(pending, r.index)
		record(r.outcome)
	}

	if opts.Timeout <= 0 {
		for len(pending) > 0 {
			accept(<-results)
		}
		res.Elapsed = time.Since(began)
		return res
	}

	interval := min(opts.Timeout/2, maxPollInterval)
	timer := time.NewTimer(interval)
	defer timer.Stop()

	for len(pending) > 0 {
		var drained []result
		select {
		case r, ok := <-results:
			if !ok {
				// Every worker has returned; only timer wakes remain.
				results = nil
				break
			}
			drained = append(drained, r)
		case <-timer.C:
		}
		drained, results = drainReady(results, drained)

		done := make(map[int]bool, len(drained))
		for _, r := range drained {
			done[r.index] = true
		}

		now := time.Now()
		for _, i := range sortedKeys(pending) {
			t := tasks[i]
			if done[i] || now.Sub(t.submitted) < opts.Timeout {
				continue
			}
			if !b.guard.Revoke(jobs[i].ctx, t.cancel) {
				continue // Committed just now; its result is on the way.
			}
			delete(pending, i)
			record(timedOut(t, opts, now))
		}
		for _, r := range drained {
			accept(r)
		}

		timer.Reset(interval)
	}
	res.Elapsed = time.Since(began)
	return res
}

// drainReady appends every result that can be received without blocking.
// It returns a nil channel once results has been closed.
func drainReady(results <-chan result, acc []result) ([]result, <-chan result) {
	for {
		select {
		case r, ok := <-results:
			if !ok {
				return acc, nil
			}
			acc = append(acc, r)
		default:
			return acc, results
		}
	}
}

func timedOut(t task, opts Options, now time.Time) Outcome {
	return Outcome{
		Kind:       KindError,
		Path:       t.path,
		Dest:       naming.OutputPath(t.path, opts.OutputDir),
		Category:   CategoryTimeout,
		Diagnostic: TimeoutDiagnostic(opts.Timeout),
		Elapsed:    now.Sub(t.submitted),
	}
}

// TimeoutDiagnostic formats the diagnostic recorded for a timed-out file,
// e.g. "Timeout > 30s" or "Timeout > 2.5s".
func TimeoutDiagnostic(d time.Duration) string {
	return timeoutDiagPrefix + strconv.FormatFloat(d.Seconds(), 'f', -1, 64) + "s"
}

func sortedKeys(m map[int]bool) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
