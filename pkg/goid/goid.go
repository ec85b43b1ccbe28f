// Package goid extracts the calling goroutine's runtime-assigned id.
//
// Go exposes no public per-goroutine storage, so epoch.GlobalPool uses a
// goroutine id as the key for its registration cache instead (see
// epoch.GlobalPool.Register). The id is extracted by parsing the first
// line of runtime.Stack's output, rather than reading the runtime's
// internal goroutine struct through an unsafe, version-specific offset.
// epoch.GlobalPool.Register calls Current on every call, not only on a
// goroutine's first registration, so this parse runs on every
// rcuslot.Slot.Read and TryUpdate against a GlobalPool.
package goid

import "runtime"

// Current returns the runtime-assigned id of the calling goroutine.
//
// The id is stable for the lifetime of the goroutine and is never reused
// while that goroutine is alive, but Go may reuse the numeric value after
// the goroutine exits. Callers must not persist it past the goroutine's
// lifetime as a durable identity.
func Current() int64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	return parse(buf[:n])
}

// parse extracts the numeric id from a "goroutine 123 [running]:..." line.
func parse(buf []byte) int64 {
	const prefix = "goroutine "
	if len(buf) < len(prefix) || string(buf[:len(prefix)]) != prefix {
		return 0
	}

	var id int64
	for i := len(prefix); i < len(buf); i++ {
		c := buf[i]
		if c < '0' || c > '9' {
			break
		}
		id = id*10 + int64(c-'0')
	}
	return id
}
