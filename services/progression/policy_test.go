package progression

import (
	"testing"
	"time"

	courseModels "abhyasi/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckAttempt_FirstAttempt(t *testing.T) {
	gate := CheckAttempt(nil, 3, time.Now())
	assert.True(t, gate.Allowed)
	assert.Equal(t, 1, gate.AttemptNumber)
	assert.Empty(t, gate.Reason)
}

func TestCheckAttempt_IncrementsAttempt(t *testing.T) {
	latest := &courseModels.Submission{AttemptNumber: 1}
	gate := CheckAttempt(latest, 3, time.Now())
	assert.True(t, gate.Allowed)
	assert.Equal(t, 2, gate.AttemptNumber)
}

func TestCheckAttempt_ActiveCooldownRejects(t *testing.T) {
	now := time.Now()
	until := now.Add(30 * time.Minute)
	latest := &courseModels.Submission{AttemptNumber: 4, CooldownUntil: &until}

	gate := CheckAttempt(latest, 0, now)
	assert.False(t, gate.Allowed)
	assert.Equal(t, ReasonCooldown, gate.Reason)
	require.NotNil(t, gate.CooldownUntil)
	assert.True(t, gate.CooldownUntil.Equal(until))
}

func TestCheckAttempt_ElapsedCooldownResetsCycle(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)
	latest := &courseModels.Submission{AttemptNumber: 4, CooldownUntil: &past}

	gate := CheckAttempt(latest, 3, now)
	assert.True(t, gate.Allowed)
	assert.Equal(t, 1, gate.AttemptNumber)
}

func TestCheckAttempt_MaxAttemptsRejects(t *testing.T) {
	latest := &courseModels.Submission{AttemptNumber: 3}
	gate := CheckAttempt(latest, 3, time.Now())
	assert.False(t, gate.Allowed)
	assert.Equal(t, ReasonMaxAttempts, gate.Reason)
	assert.Equal(t, 4, gate.AttemptNumber)
}

func TestCheckAttempt_ZeroMaxAttemptsIsUnlimited(t *testing.T) {
	latest := &courseModels.Submission{AttemptNumber: 99}
	gate := CheckAttempt(latest, 0, time.Now())
	assert.True(t, gate.Allowed)
	assert.Equal(t, 100, gate.AttemptNumber)
}

func TestFailureCooldown(t *testing.T) {
	now := time.Now()

	assert.Nil(t, FailureCooldown(1, now))
	assert.Nil(t, FailureCooldown(3, now))

	until := FailureCooldown(4, now)
	require.NotNil(t, until)
	assert.True(t, until.Equal(now.Add(time.Hour)))
}
