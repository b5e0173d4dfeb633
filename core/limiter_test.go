package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepLimiter(t *testing.T) {
	limiter := NewStepLimiter(2)

	require.NoError(t, limiter.Increment())
	require.NoError(t, limiter.Increment())
	assert.Equal(t, 0, limiter.Remaining())

	err := limiter.Increment()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeded max engine steps: 2")
}

func TestStepLimiterUnlimited(t *testing.T) {
	limiter := NewStepLimiter(0)
	for i := 0; i < 100; i++ {
		require.NoError(t, limiter.Increment())
	}
	assert.Equal(t, 100, limiter.Count())
	assert.Equal(t, -1, limiter.Remaining())
}

func TestOutcomeConstructors(t *testing.T) {
	final := FinalAnswer("done")
	assert.Equal(t, OutcomeFinalAnswer, final.Kind)
	assert.Equal(t, "done", final.Answer)

	aborted := Aborted(assert.AnError)
	assert.Equal(t, OutcomeAborted, aborted.Kind)
	assert.ErrorIs(t, aborted.Err, assert.AnError)

	limit := StepLimitExceeded()
	assert.Equal(t, OutcomeStepLimit, limit.Kind)

	assert.Equal(t, "final_answer", OutcomeFinalAnswer.String())
	assert.Equal(t, "aborted", OutcomeAborted.String())
	assert.Equal(t, "step_limit_exceeded", OutcomeStepLimit.String())
}
