// Package rwrcu is a mutex-backed implementation of the same read/replace
// contract as pkg/rcuslot, used as an oracle in differential tests: simple
// enough to trust by inspection, so that pkg/rcuslot.Slot's lock-free
// behavior can be checked against it under the same workloads.
package rwrcu

import (
	"sync"

	"rcu/pkg/arc"
	"rcu/pkg/epoch"
	"rcu/pkg/rcuslot"
)

// Slot is the lock-based counterpart to rcuslot.Slot. It ignores any
// *epoch.Counter passed to its Raw variants: a held mutex already
// serializes readers and writers, so there is no quiescence to track.
type Slot[T any] struct {
	mu    sync.RWMutex
	value *arc.Arc[T]
}

// NewSlot constructs a Slot holding initial.
func NewSlot[T any](initial T) *Slot[T] {
	return &Slot[T]{value: arc.New(initial, nil)}
}

// Read returns an owned Snapshot of the current value, exactly like
// rcuslot.Slot.Read.
func (s *Slot[T]) Read() rcuslot.Snapshot[T, T] {
	s.mu.RLock()
	root := s.value
	root.IncStrong()
	s.mu.RUnlock()
	return rcuslot.NewSnapshot(root)
}

// RawRead accepts a *epoch.Counter for interface parity with rcuslot.Slot
// but does not use it: the held read lock is this implementation's only
// synchronization. Like rcuslot.Slot.RawRead, the returned Arc is owning:
// the caller must eventually DecStrong it exactly once.
func (s *Slot[T]) RawRead(_ *epoch.Counter) *arc.Arc[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.value.IncStrong()
	return s.value
}

// Replace installs newValue and returns the displaced value, under the
// write lock.
func (s *Slot[T]) Replace(newValue T) *arc.Arc[T] {
	return s.ReplaceArc(arc.New(newValue, nil))
}

// ReplaceArc installs newRoot directly and returns the displaced root.
func (s *Slot[T]) ReplaceArc(newRoot *arc.Arc[T]) *arc.Arc[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	old := s.value
	s.value = newRoot
	return old
}

// TryUpdate applies f to the current value while holding the write lock
// for the whole read-modify-publish sequence — unlike rcuslot.Slot, there
// is no optimistic retry, because the lock already excludes other writers.
func (s *Slot[T]) TryUpdate(f func(T) (T, bool)) (*arc.Arc[T], bool) {
	return s.RawTryUpdate(f, nil)
}

// RawTryUpdate is TryUpdate for interface parity with rcuslot.Slot; the
// *epoch.Counter argument is ignored.
func (s *Slot[T]) RawTryUpdate(f func(T) (T, bool), _ *epoch.Counter) (*arc.Arc[T], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, ok := f(*s.value.Get())
	if !ok {
		return nil, false
	}
	old := s.value
	s.value = arc.New(next, nil)
	return old, true
}

// Close releases the slot's own strong reference to the current value.
// There are no in-flight readers to wait for: Read always completes
// before returning, having already taken its own strong count.
func (s *Slot[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.value != nil {
		s.value.DecStrong()
		s.value = nil
	}
}

var _ rcuslot.Rcu[int] = (*Slot[int])(nil)
