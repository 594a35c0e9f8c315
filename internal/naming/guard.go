package naming

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
)

// ErrRevoked is returned by [Guard.Commit] when the task lost ownership of
// its destination (timed out or interrupted) before committing.
var ErrRevoked = errors.New("destination ownership revoked")

// Guard serializes destination commits against task revocation. A task
// writes into a temporary file and calls Commit; the orchestrator revokes a
// timed-out task with Revoke. Both take the same lock, so once Revoke has
// returned true the revoked task can never create or replace its
// destination, and once it has returned false the task had already
// committed.
type Guard struct {
	mu        sync.Mutex
	committed map[context.Context]struct{}
}

// Commit renames tmp to dst unless ctx is already done, in which case tmp
// is removed and ErrRevoked is returned.
func (g *Guard) Commit(ctx context.Context, tmp, dst string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := ctx.Err(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("%w: %w", ErrRevoked, err)
	}
	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if g.committed == nil {
		g.committed = make(map[context.Context]struct{})
	}
	g.committed[ctx] = struct{}{}
	return nil
}

// Revoke cancels the task owning ctx under the commit lock and reports
// true. A task that has already committed is left alone and Revoke
// reports false.
func (g *Guard) Revoke(ctx context.Context, cancel context.CancelFunc) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.committed[ctx]; ok {
		return false
	}
	cancel()
	return true
}

// Release forgets the commit recorded for ctx once its outcome is known.
func (g *Guard) Release(ctx context.Context) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.committed, ctx)
}
