package loader

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFetchStateExclusive(t *testing.T) {
	states := []FetchState[[]string]{
		Idle[[]string](),
		Pending[[]string](),
		Succeeded([]string{"a"}),
		Failed[[]string](errors.New("x")),
	}
	for _, s := range states {
		active := 0
		for _, b := range []bool{s.Idle(), s.Pending(), s.Succeeded(), s.Failed()} {
			if b {
				active++
			}
		}
		assert.Equal(t, 1, active, s.String())
	}
}

func TestFetchStateAccessors(t *testing.T) {
	ok := Succeeded([]string{"a"})
	data, has := ok.Data()
	assert.True(t, has)
	assert.Equal(t, []string{"a"}, data)
	assert.NoError(t, ok.Err())
	assert.Empty(t, ok.Message())

	bad := Failed[[]string](errors.New("nope"))
	_, has = bad.Data()
	assert.False(t, has)
	assert.EqualError(t, bad.Err(), "nope")
	assert.Equal(t, "failed: nope", bad.String())

	assert.ErrorIs(t, Failed[int](nil).Err(), ErrUnknown)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "idle", PhaseIdle.String())
	assert.Equal(t, "pending", PhasePending.String())
	assert.Equal(t, "succeeded", PhaseSucceeded.String())
	assert.Equal(t, "failed", PhaseFailed.String())
	assert.Equal(t, "unknown", Phase(42).String())
	assert.True(t, PhaseFailed.Terminal())
	assert.False(t, PhasePending.Terminal())
}
