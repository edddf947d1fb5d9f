package observability

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestSessionCollectorSummary(t *testing.T) {
	c := NewSessionCollector()
	c.RecordFetch(false, 10*time.Millisecond)
	c.RecordFetch(true, 30*time.Millisecond)
	c.RecordTransition()

	sum := c.Summary()
	assert.Equal(t, 2, sum.TotalFetches)
	assert.Equal(t, 1, sum.FailedFetches)
	assert.Equal(t, 1, sum.Transitions)
	assert.Equal(t, 20*time.Millisecond, sum.AvgLatency())

	m := sum.Map()
	assert.Equal(t, 2, m["fetches"])
	assert.Equal(t, int64(20), m["avg_latency_ms"])
}

func TestLevelForVerbosity(t *testing.T) {
	assert.Equal(t, zapcore.WarnLevel, LevelForVerbosity(0))
	assert.Equal(t, zapcore.InfoLevel, LevelForVerbosity(1))
	assert.Equal(t, zapcore.DebugLevel, LevelForVerbosity(2))
	assert.Equal(t, zapcore.DebugLevel, LevelForVerbosity(5))
}

func TestNewLoggerToRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, 0)
	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "WARN shown")
}
