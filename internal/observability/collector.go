// Package observability provides logging, metrics collection and loader
// hooks for CLI sessions.
package observability

import (
	"sync"
	"time"
)

// SessionMetrics aggregates fetch metrics for an entire CLI session.
type SessionMetrics struct {
	StartTime     time.Time
	EndTime       time.Time
	TotalFetches  int
	FailedFetches int
	Transitions   int
	TotalLatency  time.Duration
}

// AvgLatency returns the mean settle time, or 0 if nothing settled.
func (m SessionMetrics) AvgLatency() time.Duration {
	if m.TotalFetches == 0 {
		return 0
	}
	return m.TotalLatency / time.Duration(m.TotalFetches)
}

// Map returns the metrics in the shape used by output meta.
func (m SessionMetrics) Map() map[string]any {
	return map[string]any{
		"fetches":        m.TotalFetches,
		"failed":         m.FailedFetches,
		"transitions":    m.Transitions,
		"avg_latency_ms": m.AvgLatency().Milliseconds(),
		"elapsed_ms":     m.EndTime.Sub(m.StartTime).Milliseconds(),
	}
}

// SessionCollector accumulates metrics across a CLI session.
// It is safe for concurrent use.
type SessionCollector struct {
	mu sync.Mutex

	startTime     time.Time
	totalFetches  int
	failedFetches int
	transitions   int
	totalLatency  time.Duration
}

// NewSessionCollector creates a new SessionCollector.
func NewSessionCollector() *SessionCollector {
	return &SessionCollector{
		startTime: time.Now(),
	}
}

// RecordTransition counts a state change.
func (c *SessionCollector) RecordTransition() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.transitions++
}

// RecordFetch records a settled fetch.
func (c *SessionCollector) RecordFetch(failed bool, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.totalFetches++
	c.totalLatency += duration
	if failed {
		c.failedFetches++
	}
}

// Summary returns aggregated metrics for the session.
func (c *SessionCollector) Summary() SessionMetrics {
	c.mu.Lock()
	defer c.mu.Unlock()

	return SessionMetrics{
		StartTime:     c.startTime,
		EndTime:       time.Now(),
		TotalFetches:  c.totalFetches,
		FailedFetches: c.failedFetches,
		Transitions:   c.transitions,
		TotalLatency:  c.totalLatency,
	}
}
