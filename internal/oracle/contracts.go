// Package oracle is the boundary to the external text-completion capability.
// The rest of the pipeline only ever sees the two failure kinds defined
// here; raw transport errors never cross this boundary.
package oracle

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Request is one completion call: a system instruction plus user content,
// with the sampling and budget knobs fixed per call type.
type Request struct {
	System      string
	User        string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
}

// Oracle is the interface the pipeline depends on. Implementations must be
// safe for concurrent calls; each chunk task issues exactly one.
type Oracle interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// ErrTimeout marks a call that exceeded its deadline. Checked with
// errors.Is; the orchestrator treats it as a per-chunk failure only.
var ErrTimeout = errors.New("oracle call timed out")

// CallError wraps any non-timeout transport-level failure.
type CallError struct {
	Message string
	Cause   error
}

func (e *CallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("oracle call failed: %s: %v", e.Message, e.Cause)
	}
	return "oracle call failed: " + e.Message
}

func (e *CallError) Unwrap() error {
	return e.Cause
}

// Classify converts a transport error into one of the two typed failures.
func Classify(message string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	return &CallError{Message: message, Cause: err}
}
