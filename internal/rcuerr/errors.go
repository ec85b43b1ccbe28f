// Package rcuerr defines the error taxonomy for the rcu module: an
// Code-tagged error type carrying structured context, built on fmt from
// the standard library.
package rcuerr

import (
	"fmt"
)

// Code categorizes an error raised by the rcu module.
type Code string

const (
	// CodeInvariant marks an invariant violation: an epoch counter was
	// observed with the wrong parity, or a reference count was used after
	// it reached zero. These are program-abort class errors — the process
	// is expected to terminate, since the violated invariant underpins
	// memory safety.
	CodeInvariant Code = "RCU_INVARIANT_VIOLATION"
)

// InvariantError is raised (via panic) when an internal concurrency
// invariant is broken. There is deliberately no recoverable path for this
// class of error.
type InvariantError struct {
	Code    Code
	Message string
	Fields  map[string]any
}

func (e *InvariantError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s %v", e.Code, e.Message, e.Fields)
}

// Invariant panics with an *InvariantError built from msg and the given
// key/value context pairs (fields given as alternating key, value).
func Invariant(msg string, kv ...any) {
	fields := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		fields[key] = kv[i+1]
	}
	panic(&InvariantError{Code: CodeInvariant, Message: msg, Fields: fields})
}
