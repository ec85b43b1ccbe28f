package epoch

import "weak"

// ArrayPool is a fixed collection of Counters supplied explicitly by the
// caller, used in tests where the binding between a Counter and its
// goroutine is made by hand rather than discovered through registration.
type ArrayPool struct {
	counters []*Counter
}

// NewArrayPool copies counters into a new ArrayPool. The caller retains
// ownership of the originals; ArrayPool only observes them.
func NewArrayPool(counters []*Counter) *ArrayPool {
	cp := make([]*Counter, len(counters))
	copy(cp, counters)
	return &ArrayPool{counters: cp}
}

// WaitForEpochs implements Pool by delegating to the same scan loop as
// GlobalPool, downgrading each owned Counter to a weak.Pointer per call
// rather than duplicating the scan logic.
func (p *ArrayPool) WaitForEpochs() {
	waitForEpochs(func() []weak.Pointer[Counter] {
		out := make([]weak.Pointer[Counter], len(p.counters))
		for i, c := range p.counters {
			out[i] = weak.Make(c)
		}
		return out
	})
}
