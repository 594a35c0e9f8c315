package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcess_Empty(t *testing.T) {
	res := NewBatch(newFakeEngine(), nil).Process(context.Background(), nil, Options{OutputDir: t.TempDir()})
	assert.Zero(t, res.Total())
	assert.False(t, res.Failed())
	assert.False(t, res.IsSetupFailure())
}

func TestProcess_BoundedConcurrencyAndProgress(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	eng := newFakeEngine()
	var files []string
	for i := range 5 {
		name := fmt.Sprintf("f%d.pdf", i)
		files = append(files, touch(t, dir, name))
		eng.delay[name] = 30 * time.Millisecond
	}

	var progress []int
	var outcomes []Outcome
	res := NewBatch(eng, nil).Process(context.Background(), files, Options{
		OutputDir:  out,
		Workers:    2,
		OnOutcome:  func(o Outcome) { outcomes = append(outcomes, o) },
		OnProgress: func(done, total int) { assert.Equal(t, 5, total); progress = append(progress, done) },
	})

	assert.Equal(t, map[Kind]int{KindOK: 5}, res.Counts)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, progress)
	assert.Len(t, outcomes, 5)
	assert.LessOrEqual(t, eng.maxRunning.Load(), int32(2))
	assert.Equal(t, int64(5*len(samplePDF)), res.TotalInputBytes)
	assert.Positive(t, res.TotalOutputBytes)
	assert.Positive(t, res.Elapsed)
	for i := range 5 {
		assert.FileExists(t, filepath.Join(out, fmt.Sprintf("f%d.docx", i)))
	}
}

func TestProcess_MixedOutcomes(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		touch(t, dir, "a.pdf"),
		touchEmpty(t, dir, "broken.pdf"),
		touch(t, dir, "c.pdf"),
	}
	res := NewBatch(newFakeEngine(), nil).Process(context.Background(), files, Options{OutputDir: dir, Workers: 3})

	assert.Equal(t, 2, res.Counts[KindOK])
	assert.Equal(t, 1, res.Counts[KindError])
	assert.Equal(t, len(files), res.Total())
	require.Len(t, res.Errors, 1)
	assert.Equal(t, files[1], res.Errors[0].Path)
	assert.Equal(t, diagEmpty, res.Errors[0].Diagnostic)
	assert.True(t, res.Failed())
}

func TestProcess_RerunSkipsEverything(t *testing.T) {
	dir := t.TempDir()
	files := []string{touch(t, dir, "a.pdf"), touch(t, dir, "b.pdf")}
	b := NewBatch(newFakeEngine(), nil)
	opts := Options{OutputDir: filepath.Join(dir, "out"), Workers: 2}

	first := b.Process(context.Background(), files, opts)
	assert.Equal(t, 2, first.Counts[KindOK])

	second := b.Process(context.Background(), files, opts)
	assert.Equal(t, map[Kind]int{KindSkipped: 2}, second.Counts)
	assert.False(t, second.Failed())
	assert.Zero(t, second.TotalInputBytes, "skips add no bytes")
}

func TestProcess_ZeroWorkersMeansOne(t *testing.T) {
	dir := t.TempDir()
	eng := newFakeEngine()
	files := []string{touch(t, dir, "a.pdf"), touch(t, dir, "b.pdf"), touch(t, dir, "c.pdf")}
	for _, f := range files {
		eng.delay[filepath.Base(f)] = 10 * time.Millisecond
	}

	res := NewBatch(eng, nil).Process(context.Background(), files, Options{OutputDir: dir, Workers: 0})
	assert.Equal(t, 3, res.Counts[KindOK])
	assert.Equal(t, int32(1), eng.maxRunning.Load())
}

func TestProcess_PanicBecomesError(t *testing.T) {
	dir := t.TempDir()
	eng := newFakeEngine()
	eng.panics["bad.pdf"] = true
	files := []string{touch(t, dir, "bad.pdf"), touch(t, dir, "good.pdf")}

	res := NewBatch(eng, nil).Process(context.Background(), files, Options{OutputDir: dir, Workers: 2})
	assert.Equal(t, 1, res.Counts[KindOK])
	assert.Equal(t, 1, res.Counts[KindError])
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "panic: converter exploded", res.Errors[0].Diagnostic)
	assert.Equal(t, CategoryUnclassified, res.Errors[0].Category)
}

func TestProcess_TimeoutRevokesHungConversion(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	eng := newFakeEngine()
	eng.ignoreCtx = true
	eng.delay["hung.pdf"] = time.Second
	files := []string{touch(t, dir, "hung.pdf"), touch(t, dir, "queued.pdf")}

	res := processWithin(t, 3*time.Second, NewBatch(eng, nil), files, Options{
		OutputDir: out,
		Workers:   1,
		Timeout:   100 * time.Millisecond,
	})

	assert.Less(t, res.Elapsed, 900*time.Millisecond, "orchestrator does not wait for the hung task")
	assert.Equal(t, map[Kind]int{KindError: 2}, res.Counts)
	for _, e := range res.Errors {
		assert.Equal(t, "Timeout > 0.1s", e.Diagnostic)
		assert.Equal(t, CategoryTimeout, e.Category)
	}

	// Let the abandoned conversion finish; it must not publish anything.
	require.Eventually(t, func() bool { return eng.finished.Load() == 1 }, 3*time.Second, 20*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), eng.opened.Load(), "queued file never started")
	assert.NoFileExists(t, filepath.Join(out, "hung.docx"))
	assert.NoFileExists(t, filepath.Join(out, "queued.docx"))
	assertNoPartFiles(t, out)
}

func TestProcess_TimeoutOnlyHitsSlowFiles(t *testing.T) {
	dir := t.TempDir()
	eng := newFakeEngine()
	eng.delay["slow.pdf"] = 10 * time.Second
	files := []string{touch(t, dir, "slow.pdf"), touch(t, dir, "fast.pdf")}

	res := processWithin(t, 3*time.Second, NewBatch(eng, nil), files, Options{
		OutputDir: dir,
		Workers:   2,
		Timeout:   300 * time.Millisecond,
	})

	assert.Equal(t, 1, res.Counts[KindOK])
	assert.Equal(t, 1, res.Counts[KindError])
	require.Len(t, res.Errors, 1)
	assert.Equal(t, files[0], res.Errors[0].Path)
	assert.Equal(t, "Timeout > 0.3s", res.Errors[0].Diagnostic)
	assert.FileExists(t, filepath.Join(dir, "fast.docx"))
}

func TestProcess_TimeoutWithQuickFiles(t *testing.T) {
	dir := t.TempDir()
	var files []string
	for i := range 4 {
		files = append(files, touch(t, dir, fmt.Sprintf("f%d.pdf", i)))
	}
	res := processWithin(t, 3*time.Second, NewBatch(newFakeEngine(), nil), files, Options{
		OutputDir: dir,
		Workers:   2,
		Timeout:   5 * time.Second,
	})
	assert.Equal(t, map[Kind]int{KindOK: 4}, res.Counts)
	assert.Less(t, res.Elapsed, 2*time.Second, "completions wake the loop before the poll interval")
}

func TestProcess_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	eng := newFakeEngine()
	files := []string{touch(t, dir, "a.pdf"), touch(t, dir, "b.pdf")}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := NewBatch(eng, nil).Process(ctx, files, Options{OutputDir: dir, Workers: 1})
	assert.Equal(t, map[Kind]int{KindError: 2}, res.Counts)
	for _, e := range res.Errors {
		assert.Equal(t, diagNotStarted, e.Diagnostic)
	}
	assert.Zero(t, eng.opened.Load())
}

func TestProcess_CancelMidRun(t *testing.T) {
	dir := t.TempDir()
	eng := newFakeEngine()
	eng.delay["a.pdf"] = 5 * time.Second
	files := []string{touch(t, dir, "a.pdf"), touch(t, dir, "b.pdf")}
	ctx, cancel := context.WithCancel(context.Background())

	var once sync.Once
	go func() {
		assert.Eventually(t, func() bool { return eng.running.Load() == 1 }, 2*time.Second, 5*time.Millisecond)
		once.Do(cancel)
	}()
	res := NewBatch(eng, nil).Process(ctx, files, Options{OutputDir: dir, Workers: 1})
	once.Do(cancel)

	assert.Equal(t, 2, res.Counts[KindError])
	diags := map[string]string{}
	for _, e := range res.Errors {
		diags[filepath.Base(e.Path)] = e.Diagnostic
	}
	assert.Equal(t, diagInterrupted, diags["a.pdf"])
	assert.Equal(t, diagNotStarted, diags["b.pdf"])
}

func TestProcess_TimeoutReturnsWhenAllFilesFinish(t *testing.T) {
	dir := t.TempDir()
	eng := newFakeEngine()
	eng.delay["a.pdf"] = 150 * time.Millisecond
	files := []string{touch(t, dir, "a.pdf"), touch(t, dir, "b.pdf")}

	res := processWithin(t, 3*time.Second, NewBatch(eng, nil), files, Options{
		OutputDir: dir,
		Workers:   2,
		Timeout:   10 * time.Second,
	})
	assert.Equal(t, map[Kind]int{KindOK: 2}, res.Counts)
}

func TestProcess_TimeoutNeverReportsCommittedFiles(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	eng := newFakeEngine()
	eng.ignoreCtx = true
	var files []string
	// Conversions finishing around the deadline race the revocation.
	for i := range 12 {
		name := fmt.Sprintf("f%02d.pdf", i)
		files = append(files, touch(t, dir, name))
		eng.delay[name] = time.Duration(80+i*5) * time.Millisecond
	}

	res := processWithin(t, 3*time.Second, NewBatch(eng, nil), files, Options{
		OutputDir: out,
		Workers:   len(files),
		Timeout:   100 * time.Millisecond,
	})
	require.Equal(t, len(files), res.Total())
	require.Eventually(t, func() bool { return eng.finished.Load() == int32(len(files)) }, 3*time.Second, 10*time.Millisecond)
	time.Sleep(50 * time.Millisecond)

	timedOut := map[string]bool{}
	for _, e := range res.Errors {
		require.Equal(t, CategoryTimeout, e.Category)
		timedOut[e.Path] = true
	}
	for _, f := range files {
		dst := filepath.Join(out, strings.TrimSuffix(filepath.Base(f), ".pdf")+".docx")
		if timedOut[f] {
			assert.NoFileExists(t, dst)
		} else {
			assert.FileExists(t, dst)
		}
	}
	assertNoPartFiles(t, out)
}

// processWithin runs Process and fails the test if it has not returned
// after d.
func processWithin(t *testing.T, d time.Duration, b *Batch, files []string, opts Options) BatchResult {
	t.Helper()
	done := make(chan BatchResult, 1)
	go func() { done <- b.Process(context.Background(), files, opts) }()
	select {
	case res := <-done:
		return res
	case <-time.After(d):
		t.Fatalf("Process did not return within %s", d)
		return BatchResult{}
	}
}

func TestTimeoutDiagnostic(t *testing.T) {
	assert.Equal(t, "Timeout > 30s", TimeoutDiagnostic(30*time.Second))
	assert.Equal(t, "Timeout > 2.5s", TimeoutDiagnostic(2500*time.Millisecond))
	assert.Equal(t, "Timeout > 0.1s", TimeoutDiagnostic(100*time.Millisecond))
}

func TestStream_EventsThenDone(t *testing.T) {
	dir := t.TempDir()
	files := []string{touch(t, dir, "a.pdf"), touch(t, dir, "b.pdf"), touchEmpty(t, dir, "c.pdf")}

	var hooked int
	events := NewBatch(newFakeEngine(), nil).Stream(context.Background(), files, Options{
		OutputDir: dir,
		Workers:   2,
		OnOutcome: func(Outcome) { hooked++ },
	})

	var got []Event
	for ev := range events {
		got = append(got, ev)
	}
	require.Len(t, got, 4)
	for i, ev := range got[:3] {
		assert.Equal(t, EventOutcome, ev.Kind)
		assert.Equal(t, i+1, ev.Completed)
		assert.Equal(t, 3, ev.Total)
		assert.NotEmpty(t, ev.Outcome.Path)
	}
	done := got[3]
	assert.Equal(t, EventDone, done.Kind)
	assert.Equal(t, 3, done.Result.Total())
	assert.Equal(t, 1, done.Result.Counts[KindError])
	assert.Equal(t, 3, hooked)
}

func TestStreamResult(t *testing.T) {
	events := StreamResult(SetupFailure("nope", CategoryValidation))
	ev, ok := <-events
	require.True(t, ok)
	assert.Equal(t, EventDone, ev.Kind)
	assert.True(t, ev.Result.IsSetupFailure())
	_, ok = <-events
	assert.False(t, ok)
}

func TestSetupFailure(t *testing.T) {
	r := SetupFailure("cannot start", CategoryPermission)
	assert.Zero(t, r.Total())
	assert.True(t, r.Failed())
	assert.True(t, r.IsSetupFailure())
	assert.Empty(t, r.Errors[0].Path)
}

func TestBatchResult_Summary(t *testing.T) {
	res := newBatchResult()
	res.record(Outcome{Kind: KindOK, InputBytes: 100, OutputBytes: 40})
	res.record(Outcome{Kind: KindSkipped})
	res.record(Outcome{Kind: KindError, Path: "x.pdf", Diagnostic: "out", Category: CategoryMemory})

	s := res.Summary()
	assert.Equal(t, 1, s.OK)
	assert.Equal(t, 1, s.Skipped)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, int64(100), s.InputBytes)
	require.Len(t, s.Errors, 1)
	assert.Equal(t, "resource", s.Errors[0].Group)
}
