package taic

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDiagnostics_RateLimitsRepeatedCategory(t *testing.T) {
	t.Parallel()

	d := newDiagnostics(defaultLogger(), map[time.Duration]int{
		time.Minute: 1,
	})

	assert.True(t, d.allow(diagOutOfRange, 1))
	assert.False(t, d.allow(diagOutOfRange, 1))
}

func TestDiagnostics_DistinctIndicesHaveIndependentBudgets(t *testing.T) {
	t.Parallel()

	d := newDiagnostics(defaultLogger(), map[time.Duration]int{
		time.Minute: 1,
	})

	assert.True(t, d.allow(diagOutOfRange, 1))
	assert.True(t, d.allow(diagOutOfRange, 2))
}

func TestDiagnostics_DefaultsAppliedWhenNil(t *testing.T) {
	t.Parallel()

	d := newDiagnostics(nil, nil)
	assert.NotNil(t, d.log)
	assert.NotNil(t, d.limiter)
}
