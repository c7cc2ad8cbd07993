package likes

import "sync"

// pairLocks serializes updates per target so that two concurrent
// read-modify-write cycles for the same target cannot interleave and
// double-apply counter deltas. Different targets never contend.
type pairLocks struct {
	mu    sync.Mutex
	locks map[string]*targetLock
}

type targetLock struct {
	mu   sync.Mutex
	refs int
}

func newPairLocks() *pairLocks {
	return &pairLocks{locks: make(map[string]*targetLock)}
}

// lock acquires the mutex for targetID and returns the release func.
// Entries are refcounted so the map does not grow with every target ever seen.
func (p *pairLocks) lock(targetID string) func() {
	p.mu.Lock()
	tl, ok := p.locks[targetID]
	if !ok {
		tl = &targetLock{}
		p.locks[targetID] = tl
	}
	tl.refs++
	p.mu.Unlock()

	tl.mu.Lock()

	return func() {
		tl.mu.Unlock()

		p.mu.Lock()
		tl.refs--
		if tl.refs == 0 {
			delete(p.locks, targetID)
		}
		p.mu.Unlock()
	}
}
