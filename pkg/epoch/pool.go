package epoch

import (
	"runtime"
	"weak"
)

// Pool is the quiescence-scan capability a Slot depends on before it may
// reclaim a retired payload. A Pool's WaitForEpochs must not return until,
// for every Counter currently registered, at least one of the following
// has been observed since the call began: the Counter was even at sample
// time, its value later differed from its odd sample value, or its weak
// reference failed to upgrade (its owner is gone).
//
// Two realizations are provided: GlobalPool (a process-wide registry with
// goroutine-local registration) and ArrayPool (a fixed set of Counters
// supplied by the caller, for tests with explicit counter-to-goroutine
// binding). Both satisfy this interface without sharing state.
type Pool interface {
	WaitForEpochs()
}

// sample is a Counter observed odd, paired with the value it was odd at.
type sample struct {
	w   weak.Pointer[Counter]
	val uint32
}

// waitForEpochs implements the scan loop shared by GlobalPool and
// ArrayPool: snapshot the registry, discard entries already even or
// already dead, then spin-and-shrink the pending set until every
// remaining entry has changed value or died.
func waitForEpochs(getCounters func() []weak.Pointer[Counter]) {
	all := getCounters()
	pending := make([]sample, 0, len(all))
	for _, w := range all {
		c := w.Value()
		if c == nil {
			continue // owner gone: quiescent by definition
		}
		v := c.Epoch()
		if v%2 == 0 {
			continue // already quiescent
		}
		pending = append(pending, sample{w: w, val: v})
	}

	for len(pending) > 0 {
		next := pending[:0]
		for _, s := range pending {
			c := s.w.Value()
			if c == nil {
				continue // owner exited mid-scan
			}
			if c.Epoch() == s.val {
				// Same odd value: still the same read critical section.
				next = append(next, s)
			}
		}
		pending = next
		if len(pending) > 0 {
			// Busy-spin with a scheduling hint rather than sleeping: the
			// expected wait is a handful of instructions in a reader's
			// critical section, not anything worth a timer.
			runtime.Gosched()
		}
	}
}
