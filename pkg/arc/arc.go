// Package arc provides a minimal atomically reference-counted box.
//
// Go's runtime owns garbage collection for us, so nothing here exists to
// avoid memory leaks. It exists because rcuslot needs something to play the
// role of a host-runtime Arc<T>/Weak<T>: a handle whose strong count can be
// bumped while a reader is mid-flight, and whose last-drop can be observed
// so the epoch-reclamation protocol above it is actually testable (drop
// exactly once, no use after the count reaches zero).
package arc

import (
	"sync/atomic"

	"rcu/internal/rcuerr"
)

// Arc is an atomically reference-counted, immutable box around a value of
// type T. The zero value is not usable; construct with New.
type Arc[T any] struct {
	value  T
	strong *atomic.Int64
	weak   *atomic.Int64
	onDrop func(T)
}

// New wraps value in a fresh Arc with one strong count. onDrop, if non-nil,
// is invoked exactly once, when the last strong count is released.
func New[T any](value T, onDrop func(T)) *Arc[T] {
	strong := new(atomic.Int64)
	strong.Store(1)
	weak := new(atomic.Int64)
	// The implicit weak count owned collectively by all strong holders,
	// released alongside the final strong decrement. Upgrade does not
	// consult the weak count; it succeeds or fails on the strong count
	// alone.
	weak.Store(1)
	return &Arc[T]{value: value, strong: strong, weak: weak, onDrop: onDrop}
}

// Get returns a pointer to the boxed value. The pointer is valid for as
// long as the caller holds a strong count on this Arc.
func (a *Arc[T]) Get() *T {
	return &a.value
}

// IncStrong increments the strong count. The caller must already hold a
// strong count (directly or transitively, e.g. via a Slot's publication) —
// incrementing a reference whose count has already reached zero is an
// invariant violation, not a recoverable error.
func (a *Arc[T]) IncStrong() {
	for {
		old := a.strong.Load()
		if old <= 0 {
			rcuerr.Invariant("arc: IncStrong on a reference with zero strong count")
		}
		if a.strong.CompareAndSwap(old, old+1) {
			return
		}
	}
}

// DecStrong releases one strong count. When the count reaches zero, onDrop
// (if any) is invoked exactly once and the implicit weak count is released.
func (a *Arc[T]) DecStrong() {
	if a.strong.Add(-1) == 0 {
		if a.onDrop != nil {
			a.onDrop(a.value)
		}
		a.decWeak()
	}
}

// StrongCount returns the current strong count, for diagnostics and tests.
func (a *Arc[T]) StrongCount() int64 {
	return a.strong.Load()
}

func (a *Arc[T]) decWeak() {
	a.weak.Add(-1)
}

// Downgrade produces a Weak reference that does not keep the value alive.
type Weak[T any] struct {
	arc *Arc[T]
}

// Downgrade creates a Weak handle to a, incrementing its weak count.
func Downgrade[T any](a *Arc[T]) Weak[T] {
	a.weak.Add(1)
	return Weak[T]{arc: a}
}

// Upgrade attempts to produce a new strong reference. It fails (ok == false)
// once the Arc's strong count has already reached zero.
func (w Weak[T]) Upgrade() (a *Arc[T], ok bool) {
	if w.arc == nil {
		return nil, false
	}
	for {
		old := w.arc.strong.Load()
		if old <= 0 {
			return nil, false
		}
		if w.arc.strong.CompareAndSwap(old, old+1) {
			return w.arc, true
		}
	}
}
