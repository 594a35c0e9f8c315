package pipeline

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/backmassage/pdfdocx/internal/logging"
)

// job is one submitted file. ctx is the task's own context; cancelling it
// keeps a queued job from starting.
type job struct {
	index int
	path  string
	ctx   context.Context
}

type result struct {
	index   int
	outcome Outcome
}

type runFunc func(ctx context.Context, path string) Outcome

// startPool runs jobs with at most workers executing at once, in
// submission order. Exactly one result per job is sent on the returned
// channel, which is buffered to len(jobs) so a worker never blocks on a
// reader that has stopped listening. The channel is closed once every
// started worker has returned.
func startPool(workers int, jobs []job, run runFunc, log *logging.Logger) <-chan result {
	results := make(chan result, len(jobs))
	sem := semaphore.NewWeighted(int64(max(1, workers)))

	var wg sync.WaitGroup
	go func() {
		for _, j := range jobs {
			if err := sem.Acquire(j.ctx, 1); err != nil {
				results <- result{j.index, notStarted(j.path)}
				continue
			}
			wg.Add(1)
			go func(j job) {
				defer wg.Done()
				defer sem.Release(1)
				results <- result{j.index, safeRun(j, run, log)}
			}(j)
		}
		wg.Wait()
		close(results)
	}()
	return results
}

// safeRun converts a panic in run into an error outcome.
func safeRun(j job, run runFunc, log *logging.Logger) (o Outcome) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("Panic while converting %s: %v", j.path, r)
			log.Debug("%s", debug.Stack())
			o = Outcome{
				Kind:       KindError,
				Path:       j.path,
				Category:   CategoryUnclassified,
				Diagnostic: fmt.Sprintf("panic: %v", r),
			}
		}
	}()
	return run(j.ctx, j.path)
}

func notStarted(path string) Outcome {
	return Outcome{Kind: KindError, Path: path, Category: CategoryUnclassified, Diagnostic: diagNotStarted}
}
