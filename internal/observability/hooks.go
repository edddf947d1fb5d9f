package observability

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/basecamp/places-cli/internal/loader"
)

// Verify LoaderHooks implements loader.Hooks at compile time.
var _ loader.Hooks = (*LoaderHooks)(nil)

// LoaderHooks records loader activity in a collector and logs it.
// Transitions log at debug, settles at info (success) or warn (failure);
// the logger's level decides what is printed.
type LoaderHooks struct {
	mu        sync.Mutex
	logger    *zap.Logger
	collector *SessionCollector
}

// NewLoaderHooks creates hooks. A nil logger discards log output and a
// nil collector skips metrics.
func NewLoaderHooks(logger *zap.Logger, collector *SessionCollector) *LoaderHooks {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoaderHooks{
		logger:    logger,
		collector: collector,
	}
}

// SetLogger swaps the logger at runtime.
func (h *LoaderHooks) SetLogger(logger *zap.Logger) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.logger = logger
}

// OnTransition implements loader.Hooks.
func (h *LoaderHooks) OnTransition(key string, from, to loader.Phase) {
	h.mu.Lock()
	logger := h.logger
	collector := h.collector
	h.mu.Unlock()

	if collector != nil {
		collector.RecordTransition()
	}
	logger.Debug("state transition",
		zap.String("loader", key),
		zap.Stringer("from", from),
		zap.Stringer("to", to))
}

// OnSettle implements loader.Hooks.
func (h *LoaderHooks) OnSettle(key string, to loader.Phase, err error, duration time.Duration) {
	h.mu.Lock()
	logger := h.logger
	collector := h.collector
	h.mu.Unlock()

	if collector != nil {
		collector.RecordFetch(err != nil, duration)
	}
	if err != nil {
		logger.Warn("fetch failed",
			zap.String("loader", key),
			zap.Duration("duration", duration),
			zap.Error(err))
		return
	}
	logger.Info("fetch completed",
		zap.String("loader", key),
		zap.Duration("duration", duration))
}
