// Package epoch implements the per-goroutine epoch counter and the pool
// abstraction that scans those counters to license safe reclamation.
//
// Even values mean "outside a read critical section", odd values mean
// "inside one", and a writer is licensed to reclaim a retired payload once
// it has observed every registered counter to be even, or to have changed
// value since the scan began.
package epoch

import (
	"sync/atomic"

	"rcu/internal/rcuerr"
)

// Counter is a single goroutine's epoch marker. A Counter must never be
// entered concurrently by more than one goroutine — ownership is the
// caller's responsibility.
//
// The counter is a 32-bit word rather than a single byte: Go's atomic
// package costs the same instruction either way, so there is no reason to
// keep wraparound a practical concern at this width.
type Counter struct {
	v atomic.Uint32
}

// NewCounter returns a fresh, quiescent (even) Counter.
func NewCounter() *Counter {
	return &Counter{}
}

// EnterRCS marks the calling goroutine as having entered its read critical
// section. It panics (via rcuerr.Invariant) if the counter was not even
// beforehand — that can only happen if the counter is shared between two
// concurrent readers, which is always a caller bug.
func (c *Counter) EnterRCS() {
	old := c.v.Add(1) - 1
	if old%2 != 0 {
		rcuerr.Invariant("epoch: EnterRCS observed an odd counter", "old", old)
	}
}

// LeaveRCS marks the calling goroutine as having left its read critical
// section. It panics if the counter was not odd beforehand.
func (c *Counter) LeaveRCS() {
	old := c.v.Add(1) - 1
	if old%2 == 0 {
		rcuerr.Invariant("epoch: LeaveRCS observed an even counter", "old", old)
	}
}

// Epoch loads the counter's current value.
func (c *Counter) Epoch() uint32 {
	return c.v.Load()
}
