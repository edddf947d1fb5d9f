package loader

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHooks struct {
	mu          sync.Mutex
	transitions [][2]Phase
	settled     []Phase
}

func (h *recordingHooks) OnTransition(key string, from, to Phase) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.transitions = append(h.transitions, [2]Phase{from, to})
}

func (h *recordingHooks) OnSettle(key string, to Phase, err error, d time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.settled = append(h.settled, to)
}

func TestLoaderStartsIdle(t *testing.T) {
	l := New("places", func(ctx context.Context) ([]string, error) {
		return nil, nil
	})
	assert.True(t, l.State().Idle())
	assert.Equal(t, uint64(0), l.Version())
}

func TestLoaderPendingBeforeResolution(t *testing.T) {
	proceed := make(chan struct{})
	l := New("places", func(ctx context.Context) ([]string, error) {
		<-proceed
		return []string{"p1"}, nil
	})

	cmd := l.Trigger(context.Background())
	require.NotNil(t, cmd)
	assert.True(t, l.State().Pending())

	_, ok := l.State().Data()
	assert.False(t, ok)
	assert.NoError(t, l.State().Err())

	close(proceed)
	msg := cmd()
	assert.Equal(t, SettledMsg{Key: "places"}, msg)
	assert.True(t, l.State().Succeeded())
}

func TestLoaderSuccessPreservesOrder(t *testing.T) {
	l := New("places", func(ctx context.Context) ([]string, error) {
		return []string{"p2", "p1", "p3"}, nil
	})

	state := l.Run(context.Background())
	require.True(t, state.Succeeded())
	data, ok := state.Data()
	require.True(t, ok)
	assert.Equal(t, []string{"p2", "p1", "p3"}, data)
	assert.False(t, state.SettledAt().IsZero())
}

func TestLoaderEmptyPayloadIsSuccess(t *testing.T) {
	l := New("places", func(ctx context.Context) ([]string, error) {
		return []string{}, nil
	})

	state := l.Run(context.Background())
	assert.True(t, state.Succeeded())
	assert.False(t, state.Pending())
	assert.Empty(t, state.Message())
	data, _ := state.Data()
	assert.Empty(t, data)
}

func TestLoaderFailureDropsStalePayload(t *testing.T) {
	calls := 0
	l := New("places", func(ctx context.Context) ([]string, error) {
		calls++
		if calls == 1 {
			return []string{"p1"}, nil
		}
		return nil, errors.New("connection reset")
	})

	require.True(t, l.Run(context.Background()).Succeeded())

	state := l.Run(context.Background())
	require.True(t, state.Failed())
	assert.Equal(t, "connection reset", state.Message())
	_, ok := state.Data()
	assert.False(t, ok)
}

func TestLoaderFailedAlwaysHasMessage(t *testing.T) {
	l := New("places", func(ctx context.Context) (int, error) {
		return 0, errors.New("")
	})

	state := l.Run(context.Background())
	require.True(t, state.Failed())
	assert.NotEmpty(t, state.Message())
	assert.ErrorIs(t, state.Err(), ErrUnknown)
}

func TestLoaderPanicSettlesAsFailed(t *testing.T) {
	l := New("places", func(ctx context.Context) (int, error) {
		panic("boom")
	})

	state := l.Run(context.Background())
	require.True(t, state.Failed())
	assert.Contains(t, state.Message(), "boom")
}

func TestLoaderTriggerIgnoredWhilePending(t *testing.T) {
	var count atomic.Int32
	started := make(chan struct{})
	proceed := make(chan struct{})

	l := New("places", func(ctx context.Context) (int, error) {
		count.Add(1)
		close(started)
		<-proceed
		return 42, nil
	})

	cmd1 := l.Trigger(context.Background())
	require.NotNil(t, cmd1)

	result := make(chan any, 1)
	go func() { result <- cmd1() }()
	<-started

	assert.Nil(t, l.Trigger(context.Background()))

	close(proceed)
	assert.Equal(t, SettledMsg{Key: "places"}, <-result)
	assert.Equal(t, int32(1), count.Load())
}

func TestLoaderRetriggerFromTerminal(t *testing.T) {
	l := New("places", func(ctx context.Context) (int, error) {
		return 1, nil
	})

	require.True(t, l.Run(context.Background()).Succeeded())

	cmd := l.Trigger(context.Background())
	require.NotNil(t, cmd)
	assert.True(t, l.State().Pending())
	cmd()
	assert.True(t, l.State().Succeeded())
}

func TestLoaderRunJoinsInFlightFetch(t *testing.T) {
	started := make(chan struct{})
	proceed := make(chan struct{})
	var once sync.Once
	var count atomic.Int32

	l := New("places", func(ctx context.Context) (int, error) {
		count.Add(1)
		once.Do(func() { close(started) })
		<-proceed
		return 7, nil
	})

	cmd := l.Trigger(context.Background())
	go cmd()
	<-started

	joined := make(chan FetchState[int], 1)
	go func() { joined <- l.Run(context.Background()) }()

	// Give Run time to find the in-flight fetch.
	time.Sleep(20 * time.Millisecond)
	close(proceed)
	state := <-joined
	data, ok := state.Data()
	require.True(t, ok)
	assert.Equal(t, 7, data)
	assert.Equal(t, int32(1), count.Load())
}

func TestLoaderResetDiscardsInFlight(t *testing.T) {
	proceed := make(chan struct{})
	l := New("places", func(ctx context.Context) (int, error) {
		<-proceed
		return 1, nil
	})

	cmd := l.Trigger(context.Background())
	require.NotNil(t, cmd)

	l.Reset()
	assert.True(t, l.State().Idle())

	close(proceed)
	assert.Nil(t, cmd())
	assert.True(t, l.State().Idle())
}

func TestLoaderHooksSeeEveryTransition(t *testing.T) {
	hooks := &recordingHooks{}
	l := New("places", func(ctx context.Context) (int, error) {
		return 0, errors.New("down")
	}, WithHooks[int](hooks))

	l.Run(context.Background())

	assert.Equal(t, [][2]Phase{
		{PhaseIdle, PhasePending},
		{PhasePending, PhaseFailed},
	}, hooks.transitions)
	assert.Equal(t, []Phase{PhaseFailed}, hooks.settled)
	assert.Equal(t, uint64(2), l.Version())
}
