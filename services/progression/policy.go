package progression

import (
	"time"

	courseModels "abhyasi/models/course"
)

const (
	// CooldownWindow is the fixed lockout imposed after repeated failures.
	// Deliberately not per-module configurable.
	CooldownWindow = time.Hour

	// CooldownAfterAttempts is how many failing attempts are tolerated in a
	// lockout cycle before a failing result starts imposing the cooldown.
	CooldownAfterAttempts = 3
)

// Gate rejection reasons
const (
	ReasonCooldown    = "cooldown"
	ReasonMaxAttempts = "max_attempts"
)

// Gate is the policy decision for one submission request
type Gate struct {
	Allowed       bool
	AttemptNumber int        // the number this attempt would get
	CooldownUntil *time.Time // set when rejected during an active cooldown
	Reason        string     // empty when allowed
}

// CheckAttempt gates a submission request against the latest ledger record.
// An elapsed cooldown resets the lockout cycle, so the next attempt counts
// as 1 again. maxAttempts of 0 means unlimited.
func CheckAttempt(latest *courseModels.Submission, maxAttempts int, now time.Time) Gate {
	if latest == nil {
		return Gate{Allowed: true, AttemptNumber: 1}
	}

	if latest.CooldownUntil != nil && latest.CooldownUntil.After(now) {
		until := *latest.CooldownUntil
		return Gate{AttemptNumber: latest.AttemptNumber, CooldownUntil: &until, Reason: ReasonCooldown}
	}

	attempt := latest.AttemptNumber + 1
	if latest.CooldownUntil != nil {
		// Cooldown elapsed: the cycle counter resets before incrementing
		attempt = 1
	}

	if maxAttempts > 0 && attempt > maxAttempts {
		return Gate{AttemptNumber: attempt, Reason: ReasonMaxAttempts}
	}

	return Gate{Allowed: true, AttemptNumber: attempt}
}

// FailureCooldown returns the cooldown deadline a failing attempt earns, or
// nil while the learner is still within the tolerated attempt count.
func FailureCooldown(attemptNumber int, now time.Time) *time.Time {
	if attemptNumber <= CooldownAfterAttempts {
		return nil
	}
	until := now.Add(CooldownWindow)
	return &until
}
