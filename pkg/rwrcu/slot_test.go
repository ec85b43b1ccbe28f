package rwrcu

import (
	"testing"

	"rcu/pkg/arc"
)

func TestSlotReadReflectsCurrentValue(t *testing.T) {
	s := NewSlot(1)
	snap := s.Read()
	defer snap.Release()
	if *snap.View() != 1 {
		t.Fatalf("View() = %d, want 1", *snap.View())
	}
}

func TestSlotReplaceReturnsDisplacedValue(t *testing.T) {
	s := NewSlot(1)
	old := s.Replace(2)
	defer old.DecStrong()
	if *old.Get() != 1 {
		t.Fatalf("Replace returned %d, want 1", *old.Get())
	}

	snap := s.Read()
	defer snap.Release()
	if *snap.View() != 2 {
		t.Fatalf("View() = %d, want 2", *snap.View())
	}
}

func TestSlotTryUpdateAppliesUnderLock(t *testing.T) {
	s := NewSlot(1)
	old, ok := s.TryUpdate(func(v int) (int, bool) { return v + 41, true })
	if !ok {
		t.Fatalf("expected TryUpdate to succeed")
	}
	defer old.DecStrong()

	snap := s.Read()
	defer snap.Release()
	if *snap.View() != 42 {
		t.Fatalf("View() = %d, want 42", *snap.View())
	}
}

func TestSlotTryUpdateDeclined(t *testing.T) {
	s := NewSlot(1)
	_, ok := s.TryUpdate(func(int) (int, bool) { return 0, false })
	if ok {
		t.Fatalf("expected TryUpdate to fail")
	}
	snap := s.Read()
	defer snap.Release()
	if *snap.View() != 1 {
		t.Fatalf("View() = %d, want unchanged 1", *snap.View())
	}
}

func TestSlotCloseDropsExactlyOnce(t *testing.T) {
	drops := 0
	s := NewSlot(1)
	s.ReplaceArc(arc.New(3, func(int) { drops++ })).DecStrong()
	s.Close()
	if drops != 1 {
		t.Fatalf("drops = %d, want 1", drops)
	}
}
