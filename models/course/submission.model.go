package course

import (
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Submission assessment types
const (
	TypeMCQ  = "mcq"
	TypeCode = "code"
)

// Submission statuses. Scoring is synchronous, so a row is only ever
// inserted with its final status.
const (
	StatusPassed = "passed"
	StatusFailed = "failed"
)

// TestResult is one testcase outcome, stored in the submission's run result.
// For a failing hidden testcase only Label, Passed and Hidden are populated.
type TestResult struct {
	Label          string `json:"testcaseId"`
	Passed         bool   `json:"passed"`
	Hidden         bool   `json:"hidden,omitempty"`
	ExecutionError bool   `json:"executionError,omitempty"`
	Input          string `json:"input,omitempty"`
	Expected       string `json:"expectedOutput,omitempty"`
	Output         string `json:"output,omitempty"`
	Error          string `json:"error,omitempty"`
}

// MCQResult is one question outcome. The correct answer and explanation are
// included only when the learner answered wrong.
type MCQResult struct {
	QuestionIndex      int    `json:"questionIndex"`
	Selected           int    `json:"selected"`
	Correct            bool   `json:"correct"`
	CorrectOptionIndex *int   `json:"correctOptionIndex,omitempty"`
	Explanation        string `json:"explanation,omitempty"`
}

// Submission is one immutable attempt record for a (user, module, type).
// The ledger is append-only: retries insert new rows with the next attempt
// number, and the composite unique index rejects double-inserts racing on
// the same attempt.
type Submission struct {
	gorm.Model
	UserID        uint           `json:"user_id" gorm:"not null;uniqueIndex:idx_attempt;index"`
	CourseID      uint           `json:"course_id" gorm:"index"` // denormalized for reporting
	ModuleID      uint           `json:"module_id" gorm:"not null;uniqueIndex:idx_attempt"`
	Type          string         `json:"type" gorm:"not null;uniqueIndex:idx_attempt"` // mcq, code
	Payload       datatypes.JSON `json:"payload"`                                      // answers, or {code, language}
	Status        string         `json:"status" gorm:"not null;index"`
	Score         float64        `json:"score"` // 0..100
	AttemptNumber int            `json:"attempt_number" gorm:"default:1;uniqueIndex:idx_attempt"`
	RunLogs       string         `json:"-"` // unredacted execution diagnostics, staff-side only
	TestResults   datatypes.JSON `json:"test_results"` // []TestResult or []MCQResult
	CooldownUntil *time.Time     `json:"cooldown_until"`
}

// LatestSubmission returns the highest-numbered attempt for the key, or nil
// when the user has never submitted this assessment.
func LatestSubmission(db *gorm.DB, userID, moduleID uint, submissionType string) (*Submission, error) {
	var sub Submission
	err := db.Where("user_id = ? AND module_id = ? AND type = ?", userID, moduleID, submissionType).
		Order("attempt_number desc").First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// HasPassed reports whether a passing attempt exists for the key
func HasPassed(db *gorm.DB, userID, moduleID uint, submissionType string) (bool, error) {
	var count int64
	err := db.Model(&Submission{}).
		Where("user_id = ? AND module_id = ? AND type = ? AND status = ?",
			userID, moduleID, submissionType, StatusPassed).
		Count(&count).Error
	return count > 0, err
}
