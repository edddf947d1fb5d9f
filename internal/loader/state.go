package loader

import (
	"errors"
	"time"
)

// Phase identifies which member of a FetchState is active.
type Phase int

const (
	PhaseIdle      Phase = iota // no request issued yet
	PhasePending                // request in flight
	PhaseSucceeded              // completed with a payload
	PhaseFailed                 // completed with an error
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePending:
		return "pending"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the phase ends a fetch cycle.
func (p Phase) Terminal() bool {
	return p == PhaseSucceeded || p == PhaseFailed
}

// FetchState is the lifecycle of one retrieval. Exactly one phase is active.
// Fields are unexported so a value can only come from Idle, Pending,
// Succeeded or Failed; a pending state never carries data or an error.
type FetchState[T any] struct {
	phase     Phase
	data      T
	err       error
	settledAt time.Time
}

// Idle returns the initial state.
func Idle[T any]() FetchState[T] {
	return FetchState[T]{phase: PhaseIdle}
}

// Pending returns the in-flight state.
func Pending[T any]() FetchState[T] {
	return FetchState[T]{phase: PhasePending}
}

// Succeeded returns a completed state holding data.
func Succeeded[T any](data T) FetchState[T] {
	return FetchState[T]{phase: PhaseSucceeded, data: data, settledAt: time.Now()}
}

// Failed returns a completed state holding err. A nil err is replaced
// with ErrUnknown so Failed always has a message.
func Failed[T any](err error) FetchState[T] {
	if err == nil || err.Error() == "" {
		err = ErrUnknown
	}
	return FetchState[T]{phase: PhaseFailed, err: err, settledAt: time.Now()}
}

// ErrUnknown stands in for failures that carry no message.
var ErrUnknown = errors.New("unknown error")

// Phase returns the active phase.
func (s FetchState[T]) Phase() Phase { return s.phase }

func (s FetchState[T]) Idle() bool      { return s.phase == PhaseIdle }
func (s FetchState[T]) Pending() bool   { return s.phase == PhasePending }
func (s FetchState[T]) Succeeded() bool { return s.phase == PhaseSucceeded }
func (s FetchState[T]) Failed() bool    { return s.phase == PhaseFailed }

// Data returns the payload and true only when the state is Succeeded.
func (s FetchState[T]) Data() (T, bool) {
	if s.phase != PhaseSucceeded {
		var zero T
		return zero, false
	}
	return s.data, true
}

// Err returns the failure, or nil unless the state is Failed.
func (s FetchState[T]) Err() error {
	if s.phase != PhaseFailed {
		return nil
	}
	return s.err
}

// Message returns the human-readable failure text, or "" unless Failed.
func (s FetchState[T]) Message() string {
	if s.phase != PhaseFailed {
		return ""
	}
	return s.err.Error()
}

// SettledAt returns when a terminal state was reached.
func (s FetchState[T]) SettledAt() time.Time { return s.settledAt }

func (s FetchState[T]) String() string {
	if s.phase == PhaseFailed {
		return "failed: " + s.Message()
	}
	return s.phase.String()
}
