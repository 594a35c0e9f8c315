package naming

import "sync"

// ClaimTracker records which source claimed each destination path during a
// run. Destinations are flattened, so two sources with the same stem in
// different directories map to the same file; the tracker lets callers warn
// about it. It does not rename anything: the last writer wins.
// All methods are goroutine-safe.
type ClaimTracker struct {
	mu     sync.Mutex
	owners map[string]string // destination path → first source that claimed it
}

// NewClaimTracker creates a ready-to-use tracker.
func NewClaimTracker() *ClaimTracker {
	return &ClaimTracker{owners: make(map[string]string)}
}

// Claim registers src as a writer of dst. When a different source already
// claimed dst, that source is returned with collided=true.
func (ct *ClaimTracker) Claim(src, dst string) (owner string, collided bool) {
	ct.mu.Lock()
	defer ct.mu.Unlock()

	owner, exists := ct.owners[dst]
	if !exists || owner == src {
		ct.owners[dst] = src
		return src, false
	}
	return owner, true
}

// FindCollisions maps each destination claimed by more than one of sources
// to its claimants, in input order.
func FindCollisions(sources []string, outputDir string) map[string][]string {
	ct := NewClaimTracker()
	out := make(map[string][]string)
	for _, src := range sources {
		dst := OutputPath(src, outputDir)
		owner, collided := ct.Claim(src, dst)
		if !collided {
			continue
		}
		if len(out[dst]) == 0 {
			out[dst] = append(out[dst], owner)
		}
		out[dst] = append(out[dst], src)
	}
	return out
}
