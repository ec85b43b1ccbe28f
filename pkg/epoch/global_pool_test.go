package epoch

import (
	"sync"
	"testing"
	"time"
)

func TestGlobalPoolRegisterIsStableWithinGoroutine(t *testing.T) {
	p := NewGlobalPool()
	a := p.Register()
	b := p.Register()
	if a != b {
		t.Fatalf("Register on the same goroutine returned different counters")
	}
	if got := p.RegisteredCount(); got != 1 {
		t.Fatalf("RegisteredCount = %d, want 1", got)
	}
}

func TestGlobalPoolRegisterPerGoroutine(t *testing.T) {
	p := NewGlobalPool()
	const n = 50
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			c := p.Register()
			c.EnterRCS()
			c.LeaveRCS()
		}()
	}
	wg.Wait()

	if got := p.RegisteredCount(); got != n {
		t.Fatalf("RegisteredCount = %d, want %d", got, n)
	}
}

func TestGlobalPoolWaitForEpochsQuiescentImmediately(t *testing.T) {
	p := NewGlobalPool()
	for i := 0; i < 5; i++ {
		p.Register()
	}
	// All counters are even (no reader ever entered); this must return
	// promptly.
	done := make(chan struct{})
	go func() {
		p.WaitForEpochs()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("WaitForEpochs did not return for an all-quiescent pool")
	}
}

func TestGlobalPoolWaitForEpochsBlocksUntilLeave(t *testing.T) {
	p := NewGlobalPool()
	c := p.Register()
	c.EnterRCS()

	done := make(chan struct{})
	go func() {
		p.WaitForEpochs()
		close(done)
	}()

	select {
	case <-done:
		t.Fatalf("WaitForEpochs returned while a reader was still inside its RCS")
	case <-time.After(50 * time.Millisecond):
	}

	c.LeaveRCS()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("WaitForEpochs did not return after the reader left")
	}
}
