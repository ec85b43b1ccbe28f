package rcuslot

import "rcu/pkg/arc"

// Snapshot is a reader-held handle bundling a strong payload reference (the
// root) with a view into it that may be narrower than the whole payload.
// As long as a Snapshot is alive, the payload it was read from is kept
// alive by its strong count — reclamation of a retired payload elsewhere
// is harmless, since each Snapshot independently extends that payload's
// lifetime.
//
// Go has no generic methods, so operations that need to introduce a new
// type parameter (Map, TryMap, SameEpoch) are free functions alongside
// this type rather than methods on it.
type Snapshot[T, M any] struct {
	root *arc.Arc[T]
	view *M
}

// newSnapshot builds the identity snapshot for a freshly read root: its
// view is the whole payload.
func newSnapshot[T any](root *arc.Arc[T]) Snapshot[T, T] {
	return Snapshot[T, T]{root: root, view: root.Get()}
}

// NewSnapshot is newSnapshot exported for other implementations of Rcu —
// such as pkg/rwrcu — that own an *arc.Arc[T] strong reference and need to
// hand it to a caller as a Snapshot.
func NewSnapshot[T any](root *arc.Arc[T]) Snapshot[T, T] {
	return newSnapshot(root)
}

// View returns the snapshot's current view. The returned pointer is valid
// for as long as the Snapshot has not been Released.
func (s Snapshot[T, M]) View() *M {
	return s.view
}

// Root borrows the whole root payload, regardless of how narrow the
// current view is.
func (s Snapshot[T, M]) Root() *T {
	return s.root.Get()
}

// PtrEqual reports whether two snapshots' views are the identical address
// — not merely equal values.
func (s Snapshot[T, M]) PtrEqual(other Snapshot[T, M]) bool {
	return s.view == other.view
}

// Clone duplicates the snapshot, incrementing the root's strong count. The
// view is unchanged. The caller must Release both the original and the
// clone independently.
func (s Snapshot[T, M]) Clone() Snapshot[T, M] {
	s.root.IncStrong()
	return Snapshot[T, M]{root: s.root, view: s.view}
}

// Release gives up this Snapshot's strong count on the root payload and
// clears the Snapshot, so a second Release on the same variable, or a
// Release on a zero-value Snapshot, is a no-op. Copies of the Snapshot
// value made before the Release are not cleared and share the same
// strong count; releasing one of them as well releases it twice.
func (s *Snapshot[T, M]) Release() {
	if s.root != nil {
		s.root.DecStrong()
		s.root = nil
		s.view = nil
	}
}

// Map consumes reference and produces a new Snapshot sharing the same
// root but viewing a narrower (or simply different) field, projected by f.
// Ownership of the root's strong count transfers to the returned Snapshot:
// callers must not use or Release reference after calling Map.
func Map[T, M, N any](reference Snapshot[T, M], f func(*M) *N) Snapshot[T, N] {
	return Snapshot[T, N]{root: reference.root, view: f(reference.view)}
}

// TryMap is Map, except f may decline to produce a view. On failure,
// reference is left untouched and owned by the caller — nothing is
// transferred. On success, ownership of the root transfers to the returned
// Snapshot exactly as in Map.
func TryMap[T, M, N any](reference Snapshot[T, M], f func(*M) (*N, bool)) (Snapshot[T, N], bool) {
	n, ok := f(reference.view)
	if !ok {
		var zero Snapshot[T, N]
		return zero, false
	}
	return Snapshot[T, N]{root: reference.root, view: n}, true
}

// SameEpoch reports whether two snapshots — possibly viewing different
// projections — were derived from the same payload instance.
func SameEpoch[T, M1, M2 any](a Snapshot[T, M1], b Snapshot[T, M2]) bool {
	return a.root == b.root
}
