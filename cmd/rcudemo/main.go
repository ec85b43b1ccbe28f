// cmd/rcudemo/main.go
//
// rcudemo - runs a small read-heavy/write-light workload against a
// pkg/rcuslot.Slot and reports how many reads and updates each side
// completed.
//
// Usage:
//
//	rcudemo [readers] [duration-seconds]
//
// Defaults to 8 readers for 2 seconds against a single writer.
package main

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"rcu/pkg/epoch"
	"rcu/pkg/rcuslot"
)

func main() {
	readers := 8
	duration := 2 * time.Second

	if len(os.Args) > 1 {
		n, err := strconv.Atoi(os.Args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid reader count %q: %v\n", os.Args[1], err)
			os.Exit(1)
		}
		readers = n
	}
	if len(os.Args) > 2 {
		secs, err := strconv.Atoi(os.Args[2])
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid duration %q: %v\n", os.Args[2], err)
			os.Exit(1)
		}
		duration = time.Duration(secs) * time.Second
	}

	pool := epoch.NewGlobalPool()
	slot := rcuslot.NewSlot(0, pool)
	defer slot.Close()

	stop := make(chan struct{})
	var reads, updates int64

	var wg sync.WaitGroup
	wg.Add(readers)
	for i := 0; i < readers; i++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				snap := slot.Read()
				_ = *snap.View()
				snap.Release()
				atomic.AddInt64(&reads, 1)
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			old, ok := slot.TryUpdate(func(v int) (int, bool) { return v + 1, true })
			if ok {
				old.DecStrong()
				atomic.AddInt64(&updates, 1)
			}
		}
	}()

	time.Sleep(duration)
	close(stop)
	wg.Wait()

	final := slot.Read()
	defer final.Release()
	fmt.Printf("readers=%d duration=%s reads=%d updates=%d final=%d\n",
		readers, duration, atomic.LoadInt64(&reads), atomic.LoadInt64(&updates), *final.View())
}
