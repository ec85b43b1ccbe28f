package epoch

import (
	"testing"

	"rcu/internal/rcuerr"
)

func TestCounterParity(t *testing.T) {
	c := NewCounter()
	if got := c.Epoch(); got != 0 {
		t.Fatalf("new counter epoch = %d, want 0", got)
	}

	c.EnterRCS()
	if got := c.Epoch(); got%2 != 1 {
		t.Fatalf("after EnterRCS epoch = %d, want odd", got)
	}

	c.LeaveRCS()
	if got := c.Epoch(); got%2 != 0 {
		t.Fatalf("after LeaveRCS epoch = %d, want even", got)
	}
}

func TestCounterRepeatedRCS(t *testing.T) {
	c := NewCounter()
	for i := 0; i < 1000; i++ {
		c.EnterRCS()
		c.LeaveRCS()
	}
	if got := c.Epoch(); got != 2000 {
		t.Fatalf("epoch after 1000 RCS = %d, want 2000", got)
	}
}

func TestCounterEnterTwiceInvariant(t *testing.T) {
	c := NewCounter()
	c.EnterRCS()

	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic on double EnterRCS")
		}
		if _, ok := r.(*rcuerr.InvariantError); !ok {
			t.Fatalf("expected *rcuerr.InvariantError, got %T: %v", r, r)
		}
	}()
	c.EnterRCS()
}

func TestCounterLeaveWithoutEnterInvariant(t *testing.T) {
	c := NewCounter()

	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic on LeaveRCS without EnterRCS")
		}
	}()
	c.LeaveRCS()
}
