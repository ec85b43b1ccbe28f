package rcuslot

import (
	"sync/atomic"
	"unsafe"

	"rcu/internal/rcuerr"
	"rcu/pkg/arc"
	"rcu/pkg/epoch"
)

// Slot holds a single shared value behind an atomically-swapped pointer,
// publishing replacements to readers without ever blocking a reader behind
// a lock.
type Slot[T any] struct {
	active unsafe.Pointer // *arc.Arc[T]
	pool   epoch.Pool
}

// registrar is satisfied by pools — GlobalPool in practice — that can mint
// and cache a Counter for whichever goroutine calls Register. ArrayPool
// deliberately does not implement it: its Counter-to-goroutine binding is
// made by hand by the caller, per pkg/epoch/array_pool.go's own doc
// comment, so Slot cannot auto-register on an ArrayPool's behalf.
type registrar interface {
	Register() *epoch.Counter
}

// NewSlot constructs a Slot holding initial, registering its readers with
// pool. Most callers pass an *epoch.GlobalPool; tests that need precise
// control over which Counters a writer waits on pass a fixed
// *epoch.ArrayPool instead and drive RawRead/RawTryUpdate directly.
func NewSlot[T any](initial T, pool epoch.Pool) *Slot[T] {
	root := arc.New(initial, nil)
	s := &Slot[T]{pool: pool}
	atomic.StorePointer(&s.active, unsafe.Pointer(root))
	return s
}

func (s *Slot[T]) loadRoot() *arc.Arc[T] {
	return (*arc.Arc[T])(atomic.LoadPointer(&s.active))
}

// RawRead is the unsafe primitive underneath Read: it enters the given
// epoch.Counter's critical section, acquire-loads the active pointer,
// bumps its strong count while still inside the critical section, then
// leaves. Bumping the strong count before LeaveRCS is what makes this
// safe — a concurrent writer's WaitForEpochs cannot observe this counter
// quiescent (and therefore cannot reclaim the payload) until after the
// increment has already happened. The returned Arc is owning: the caller
// must eventually DecStrong it exactly once.
func (s *Slot[T]) RawRead(counter *epoch.Counter) *arc.Arc[T] {
	counter.EnterRCS()
	root := s.loadRoot()
	root.IncStrong()
	counter.LeaveRCS()
	return root
}

// Read returns an owned Snapshot of the slot's current value. It registers
// the calling goroutine's epoch.Counter with the pool (amortized across
// repeated calls), then delegates to RawRead.
func (s *Slot[T]) Read() Snapshot[T, T] {
	c := s.counterForCurrentGoroutine()
	return newSnapshot(s.RawRead(c))
}

// Replace installs newValue as the slot's current value and returns a
// strong reference to the value it displaced. The caller owns that
// reference and is responsible for eventually releasing it (typically via
// an Arc-aware drop bookkeeping helper in tests, or simply letting Go's GC
// reclaim it once no reader holds a Snapshot referencing it).
func (s *Slot[T]) Replace(newValue T) *arc.Arc[T] {
	return s.ReplaceArc(arc.New(newValue, nil))
}

// ReplaceArc installs newRoot directly, for callers that already built an
// Arc (for example to carry a custom onDrop hook for drop-accounting
// tests). It blocks until quiescence before returning the displaced root:
// a reader may have already loaded the displaced pointer via RawRead but
// not yet bumped its strong count, and handing the displaced root back to
// the caller before that reader is guaranteed past the bump would let the
// caller's DecStrong race the reader's IncStrong down to a freed value.
func (s *Slot[T]) ReplaceArc(newRoot *arc.Arc[T]) *arc.Arc[T] {
	old := (*arc.Arc[T])(atomic.SwapPointer(&s.active, unsafe.Pointer(newRoot)))
	s.pool.WaitForEpochs()
	return old
}

// TryUpdate reads the current value, applies f, and — if f reports ok —
// attempts to publish the result with a compare-and-swap against the root
// observed at read time. It retries on a lost race (a concurrent Replace
// or TryUpdate). If f ever reports !ok, TryUpdate stops and returns
// (nil, false) without publishing anything.
func (s *Slot[T]) TryUpdate(f func(T) (T, bool)) (*arc.Arc[T], bool) {
	c := s.counterForCurrentGoroutine()
	return s.RawTryUpdate(f, c)
}

// RawTryUpdate is TryUpdate for a caller that already owns a registered
// epoch.Counter, avoiding the per-call registry lookup.
//
// Each iteration takes its own RawRead of the current value (an owning
// reference, protected against concurrent reclamation the same way Read
// is), applies f, and either publishes the result or reclaims it. On a
// successful CAS, the read's own strong count is released once
// WaitForEpochs confirms no concurrent reader is still mid-bump on the
// displaced value, and the displaced root — still carrying the count the
// Slot itself used to hold — is returned to the caller. On a failed CAS,
// both the read's scratch strong count and the abandoned candidate's
// strong count are reclaimed locally before retrying.
func (s *Slot[T]) RawTryUpdate(f func(T) (T, bool), c *epoch.Counter) (*arc.Arc[T], bool) {
	for {
		oldRoot := s.RawRead(c)
		current := *oldRoot.Get()

		next, ok := f(current)
		if !ok {
			oldRoot.DecStrong()
			return nil, false
		}

		newRoot := arc.New(next, nil)
		if atomic.CompareAndSwapPointer(&s.active, unsafe.Pointer(oldRoot), unsafe.Pointer(newRoot)) {
			s.pool.WaitForEpochs()
			oldRoot.DecStrong()
			return oldRoot, true
		}

		oldRoot.DecStrong()
		newRoot.DecStrong()
	}
}

// Close waits for every currently in-flight reader to leave its critical
// section and then releases the slot's own strong reference to the
// current value. It does not wait for Snapshots readers already hold —
// those keep the payload alive independently via their own strong counts.
func (s *Slot[T]) Close() {
	s.pool.WaitForEpochs()
	root := (*arc.Arc[T])(atomic.SwapPointer(&s.active, nil))
	if root != nil {
		root.DecStrong()
	}
}

func (s *Slot[T]) counterForCurrentGoroutine() *epoch.Counter {
	gp, ok := s.pool.(registrar)
	if !ok {
		rcuerr.Invariant("rcuslot: Read/TryUpdate need a registering pool; use RawRead/RawTryUpdate with an explicit Counter for a fixed pool", "pool_type", s.pool)
	}
	return gp.Register()
}
