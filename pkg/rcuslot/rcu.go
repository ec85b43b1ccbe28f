package rcuslot

import "rcu/pkg/arc"

// Rcu is the capability both Slot and pkg/rwrcu's mutex-backed Slot
// provide: read the current value, replace it wholesale, or update it
// conditionally. Slot's Read never waits behind a writer; the rwrcu
// Slot's Read takes a read lock and so waits while a writer holds the
// write lock. Tests use this
// interface to run the same scenario against both implementations and
// check they agree, with the lock-based implementation serving as an
// oracle for the lock-free one.
type Rcu[T any] interface {
	Read() Snapshot[T, T]
	Replace(newValue T) *arc.Arc[T]
	TryUpdate(f func(T) (T, bool)) (*arc.Arc[T], bool)
	Close()
}

var (
	_ Rcu[int] = (*Slot[int])(nil)
)
