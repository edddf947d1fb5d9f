package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/basecamp/places-cli/internal/loader"
)

func TestLoaderHooksRecordsMetrics(t *testing.T) {
	collector := NewSessionCollector()
	h := NewLoaderHooks(nil, collector)

	h.OnTransition("places", loader.PhaseIdle, loader.PhasePending)
	h.OnTransition("places", loader.PhasePending, loader.PhaseFailed)
	h.OnSettle("places", loader.PhaseFailed, errors.New("down"), 40*time.Millisecond)

	sum := collector.Summary()
	assert.Equal(t, 2, sum.Transitions)
	assert.Equal(t, 1, sum.TotalFetches)
	assert.Equal(t, 1, sum.FailedFetches)
	assert.Equal(t, 40*time.Millisecond, sum.AvgLatency())
}

func TestLoaderHooksLogLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	h := NewLoaderHooks(zap.New(core), nil)

	h.OnTransition("places", loader.PhaseIdle, loader.PhasePending)
	h.OnSettle("places", loader.PhaseSucceeded, nil, time.Millisecond)
	h.OnSettle("places", loader.PhaseFailed, errors.New("Failed to fetch places"), time.Millisecond)

	entries := logs.AllUntimed()
	if assert.Len(t, entries, 3) {
		assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
		assert.Equal(t, "pending", entries[0].ContextMap()["to"])
		assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
		assert.Equal(t, zapcore.WarnLevel, entries[2].Level)
		assert.Equal(t, "Failed to fetch places", entries[2].ContextMap()["error"])
	}
}

func TestLoaderHooksDrivenByLoader(t *testing.T) {
	collector := NewSessionCollector()
	h := NewLoaderHooks(nil, collector)

	l := loader.New("places", func(ctx context.Context) (int, error) {
		return 1, nil
	}, loader.WithHooks[int](h))
	l.Run(context.Background())
	l.Run(context.Background())

	sum := collector.Summary()
	assert.Equal(t, 2, sum.TotalFetches)
	assert.Equal(t, 0, sum.FailedFetches)
	assert.Equal(t, 4, sum.Transitions)
}
