package assessment

import (
	"errors"
	"sort"

	courseModels "abhyasi/models/course"
)

// Each question is worth a fixed 5 points
const PointsPerQuestion = 5

var (
	// ErrNoQuestions means the module has no MCQ set to score
	ErrNoQuestions = errors.New("no MCQs available for this module")
	// ErrAnswerCountMismatch means the answer array does not line up with the questions
	ErrAnswerCountMismatch = errors.New("answers must contain exactly one entry per question")
)

// MCQOutcome is the scored result of one quiz submission
type MCQOutcome struct {
	Score    float64 // percentage 0..100
	Earned   int
	Possible int
	Passed   bool
	Results  []courseModels.MCQResult
}

// ScoreMCQ scores a submitted answer set against a module's question set.
// Questions are taken in their defined order; answers[i] is the selected
// option index for question i. The correct answer and explanation are
// included in a question's result only when the learner got it wrong.
func ScoreMCQ(mcqs []courseModels.MCQ, answers []int, passingPercent int) (MCQOutcome, error) {
	if len(mcqs) == 0 {
		return MCQOutcome{}, ErrNoQuestions
	}
	if len(answers) != len(mcqs) {
		return MCQOutcome{}, ErrAnswerCountMismatch
	}

	ordered := make([]courseModels.MCQ, len(mcqs))
	copy(ordered, mcqs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].OrderIndex < ordered[j].OrderIndex
	})

	outcome := MCQOutcome{
		Possible: len(ordered) * PointsPerQuestion,
		Results:  make([]courseModels.MCQResult, 0, len(ordered)),
	}

	for i, mcq := range ordered {
		result := courseModels.MCQResult{
			QuestionIndex: i,
			Selected:      answers[i],
			Correct:       answers[i] == mcq.CorrectOptionIndex,
		}
		if result.Correct {
			outcome.Earned += PointsPerQuestion
		} else {
			correct := mcq.CorrectOptionIndex
			result.CorrectOptionIndex = &correct
			result.Explanation = mcq.Explanation
		}
		outcome.Results = append(outcome.Results, result)
	}

	outcome.Score = float64(outcome.Earned) / float64(outcome.Possible) * 100
	if passingPercent <= 0 {
		passingPercent = 70
	}
	outcome.Passed = outcome.Score >= float64(passingPercent)
	return outcome, nil
}

// EffectiveMaxAttempts is the attempt cap for a question set: the smallest
// positive per-question limit, or 0 when unlimited.
func EffectiveMaxAttempts(mcqs []courseModels.MCQ) int {
	max := 0
	for _, mcq := range mcqs {
		if mcq.MaxAttempts > 0 && (max == 0 || mcq.MaxAttempts < max) {
			max = mcq.MaxAttempts
		}
	}
	return max
}
