package constants

// Standardized point values across all submission types and completions
const (
	// Completion points
	CourseCompletionPoints     = 100
	ProfessionCompletionPoints = 300

	// Submission attempt points (for leaderboard/progress)
	McqSubmissionPoints  = 10
	CodeSubmissionPoints = 15

	// Medal tier thresholds; Bronze is the default below Silver
	GoldThreshold   = 1000
	SilverThreshold = 300
)
