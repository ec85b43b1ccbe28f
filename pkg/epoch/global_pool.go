package epoch

import (
	"sync"
	"weak"

	"rcu/pkg/goid"
)

// GlobalPool is a process-wide registry of weak references to Counters,
// one per goroutine that has ever called Register. It is intended to be
// shared across many Slots: doing so amortizes registration (a goroutine
// registers once, no matter how many Slots it reads) at the cost of larger
// writer scans (every Slot's writer waits on every registered Counter,
// including ones it never touches).
//
// The registry is never compacted, and the goroutine-local cache keeps
// every registered Counter reachable, so entries accumulate for the life
// of the process. Appends are rare — once per goroutine ever — so the
// registry itself is guarded by a plain sync.RWMutex rather than anything
// more elaborate.
type GlobalPool struct {
	mu       sync.RWMutex
	counters []weak.Pointer[Counter]

	localMu sync.Mutex
	local   map[int64]*Counter
}

// NewGlobalPool returns an empty, ready-to-use GlobalPool.
func NewGlobalPool() *GlobalPool {
	return &GlobalPool{local: make(map[int64]*Counter)}
}

// Register returns the calling goroutine's Counter, registering a fresh
// one in the pool on first call from that goroutine. Every call looks up
// the goroutine id and takes localMu to read the local cache; only the
// first call from a goroutine also takes the registry's write lock.
func (p *GlobalPool) Register() *Counter {
	id := goid.Current()

	p.localMu.Lock()
	if c, ok := p.local[id]; ok {
		p.localMu.Unlock()
		return c
	}
	c := NewCounter()
	p.local[id] = c
	p.localMu.Unlock()

	p.mu.Lock()
	p.counters = append(p.counters, weak.Make(c))
	p.mu.Unlock()

	return c
}

// RegisteredCount reports how many Counters have ever been registered,
// including those of goroutines that have exited. Exposed for tests and
// diagnostics.
func (p *GlobalPool) RegisteredCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.counters)
}

func (p *GlobalPool) snapshot() []weak.Pointer[Counter] {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]weak.Pointer[Counter], len(p.counters))
	copy(out, p.counters)
	return out
}

// WaitForEpochs implements Pool.
func (p *GlobalPool) WaitForEpochs() {
	waitForEpochs(p.snapshot)
}
