// Package loader drives a single remote fetch through its lifecycle
// and publishes the resulting FetchState.
package loader

import (
	"context"
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// SettledMsg is sent when a triggered fetch reaches a terminal state.
// Models match on Key, then read the typed state via Loader.State().
type SettledMsg struct {
	Key string
}

// FetchFunc retrieves the payload for a loader.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// Hooks observes loader activity. Implementations must not call back
// into the loader.
type Hooks interface {
	OnTransition(key string, from, to Phase)
	OnSettle(key string, to Phase, err error, duration time.Duration)
}

// Loader owns one FetchState and is its only writer.
//
// At most one retrieval is in flight: Trigger while Pending returns nil
// and the running fetch is left alone. Reset discards whatever is in
// flight by bumping the generation.
type Loader[T any] struct {
	mu         sync.Mutex
	key        string
	state      FetchState[T]
	fetchFn    FetchFunc[T]
	hooks      Hooks
	version    uint64
	generation uint64
	done       chan struct{} // closed when the in-flight fetch settles
}

// Option configures a Loader.
type Option[T any] func(*Loader[T])

// WithHooks attaches observability hooks.
func WithHooks[T any](h Hooks) Option[T] {
	return func(l *Loader[T]) { l.hooks = h }
}

// New creates an Idle loader.
func New[T any](key string, fetchFn FetchFunc[T], opts ...Option[T]) *Loader[T] {
	l := &Loader[T]{
		key:     key,
		state:   Idle[T](),
		fetchFn: fetchFn,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Key returns the loader's identifier.
func (l *Loader[T]) Key() string { return l.key }

// State returns the current state. Never blocks on I/O.
func (l *Loader[T]) State() FetchState[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Version increments on every state transition.
func (l *Loader[T]) Version() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.version
}

// Trigger moves the loader to Pending and returns a Cmd that performs the
// retrieval and emits SettledMsg. Returns nil if a fetch is in flight.
// Pending is visible through State() as soon as Trigger returns.
func (l *Loader[T]) Trigger(ctx context.Context) tea.Cmd {
	l.mu.Lock()
	if l.state.Pending() {
		l.mu.Unlock()
		return nil
	}
	gen := l.generation
	done := make(chan struct{})
	l.done = done
	from := l.transitionLocked(Pending[T]())
	l.mu.Unlock()

	l.notifyTransition(from, PhasePending)

	return func() tea.Msg {
		start := time.Now()
		data, err := l.fetch(ctx)
		if !l.settle(gen, done, data, err, time.Since(start)) {
			return nil
		}
		return SettledMsg{Key: l.key}
	}
}

// Run triggers a fetch and waits for it to settle. If a fetch is already
// in flight, Run waits for that one instead of starting another.
func (l *Loader[T]) Run(ctx context.Context) FetchState[T] {
	if cmd := l.Trigger(ctx); cmd != nil {
		cmd()
		return l.State()
	}

	l.mu.Lock()
	done := l.done
	l.mu.Unlock()
	if done != nil {
		select {
		case <-done:
		case <-ctx.Done():
		}
	}
	return l.State()
}

// Reset returns the loader to Idle. A fetch in flight still runs to
// completion but its result is dropped.
func (l *Loader[T]) Reset() {
	l.mu.Lock()
	l.generation++
	done := l.done
	l.done = nil
	from := l.transitionLocked(Idle[T]())
	l.mu.Unlock()

	if done != nil {
		close(done)
	}
	if from != PhaseIdle {
		l.notifyTransition(from, PhaseIdle)
	}
}

// fetch calls fetchFn, turning a panic into an error so the loader
// never stays Pending.
func (l *Loader[T]) fetch(ctx context.Context) (data T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			data = zero
			err = fmt.Errorf("fetch %s panicked: %v", l.key, r)
		}
	}()
	return l.fetchFn(ctx)
}

// settle applies the outcome of the fetch started at generation gen.
// Returns false if the loader was reset in the meantime.
func (l *Loader[T]) settle(gen uint64, done chan struct{}, data T, err error, d time.Duration) bool {
	l.mu.Lock()
	if l.generation != gen {
		l.mu.Unlock()
		return false
	}
	next := Succeeded(data)
	if err != nil {
		next = Failed[T](err)
	}
	from := l.transitionLocked(next)
	l.done = nil
	l.mu.Unlock()

	close(done)
	l.notifyTransition(from, next.Phase())
	if l.hooks != nil {
		l.hooks.OnSettle(l.key, next.Phase(), next.Err(), d)
	}
	return true
}

func (l *Loader[T]) transitionLocked(next FetchState[T]) Phase {
	from := l.state.Phase()
	l.state = next
	l.version++
	return from
}

func (l *Loader[T]) notifyTransition(from, to Phase) {
	if l.hooks != nil {
		l.hooks.OnTransition(l.key, from, to)
	}
}
