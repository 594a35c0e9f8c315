package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/backmassage/pdfdocx/internal/engine"
)

const samplePDF = "%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n"

// touch creates dir/name with PDF-looking content and returns its path.
func touch(t *testing.T, dir, name string) string {
	t.Helper()
	return write(t, dir, name, samplePDF)
}

// touchEmpty creates a zero-byte file.
func touchEmpty(t *testing.T, dir, name string) string {
	t.Helper()
	return write(t, dir, name, "")
}

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func basenames(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = filepath.Base(p)
	}
	return out
}

// fakeEngine writes a tiny file per conversion. Behaviour is keyed by the
// source's base name.
type fakeEngine struct {
	mu        sync.Mutex
	delay     map[string]time.Duration
	fail      map[string]error
	panics    map[string]bool
	closeErr  error
	pages     [2]int // Last requested range.
	ignoreCtx bool   // Keep sleeping after cancellation, like a hung converter.

	opened     atomic.Int32
	closed     atomic.Int32
	running    atomic.Int32
	maxRunning atomic.Int32
	finished   atomic.Int32
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		delay:  map[string]time.Duration{},
		fail:   map[string]error{},
		panics: map[string]bool{},
	}
}

func (f *fakeEngine) Name() string { return "fake" }

func (f *fakeEngine) Open(ctx context.Context, src string) (engine.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.opened.Add(1)
	return &fakeSession{f: f, src: src}, nil
}

type fakeSession struct {
	f   *fakeEngine
	src string
}

func (s *fakeSession) Convert(ctx context.Context, dst string, start, end int) error {
	f := s.f
	cur := f.running.Add(1)
	defer f.running.Add(-1)
	for {
		prev := f.maxRunning.Load()
		if cur <= prev || f.maxRunning.CompareAndSwap(prev, cur) {
			break
		}
	}
	defer f.finished.Add(1)

	name := filepath.Base(s.src)
	f.mu.Lock()
	d, err, boom := f.delay[name], f.fail[name], f.panics[name]
	f.pages = [2]int{start, end}
	f.mu.Unlock()

	if d > 0 {
		if f.ignoreCtx {
			time.Sleep(d)
		} else {
			select {
			case <-time.After(d):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	if boom {
		panic("converter exploded")
	}
	if err != nil {
		return err
	}
	return os.WriteFile(dst, []byte("docx:"+name), 0o644)
}

func (s *fakeSession) Close() error {
	s.f.closed.Add(1)
	return s.f.closeErr
}
