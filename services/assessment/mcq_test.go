package assessment

import (
	"testing"

	courseModels "abhyasi/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mcqSet() []courseModels.MCQ {
	return []courseModels.MCQ{
		{Question: "Q1", CorrectOptionIndex: 1, Explanation: "because", OrderIndex: 1},
		{Question: "Q2", CorrectOptionIndex: 0, Explanation: "obviously", OrderIndex: 2},
	}
}

func TestScoreMCQ_AllCorrect(t *testing.T) {
	out, err := ScoreMCQ(mcqSet(), []int{1, 0}, 70)
	require.NoError(t, err)

	assert.Equal(t, 10, out.Earned)
	assert.Equal(t, 10, out.Possible)
	assert.Equal(t, float64(100), out.Score)
	assert.True(t, out.Passed)

	for _, r := range out.Results {
		assert.True(t, r.Correct)
		assert.Nil(t, r.CorrectOptionIndex)
		assert.Empty(t, r.Explanation)
	}
}

func TestScoreMCQ_HalfCorrectFails(t *testing.T) {
	out, err := ScoreMCQ(mcqSet(), []int{0, 0}, 70)
	require.NoError(t, err)

	assert.Equal(t, 5, out.Earned)
	assert.Equal(t, float64(50), out.Score)
	assert.False(t, out.Passed)
}

func TestScoreMCQ_WrongAnswerGetsExplanation(t *testing.T) {
	out, err := ScoreMCQ(mcqSet(), []int{0, 0}, 70)
	require.NoError(t, err)
	require.Len(t, out.Results, 2)

	wrong := out.Results[0]
	assert.False(t, wrong.Correct)
	require.NotNil(t, wrong.CorrectOptionIndex)
	assert.Equal(t, 1, *wrong.CorrectOptionIndex)
	assert.Equal(t, "because", wrong.Explanation)

	right := out.Results[1]
	assert.True(t, right.Correct)
	assert.Nil(t, right.CorrectOptionIndex)
	assert.Empty(t, right.Explanation)
}

func TestScoreMCQ_ExactThresholdPasses(t *testing.T) {
	mcqs := []courseModels.MCQ{
		{CorrectOptionIndex: 0, OrderIndex: 1},
		{CorrectOptionIndex: 0, OrderIndex: 2},
		{CorrectOptionIndex: 0, OrderIndex: 3},
		{CorrectOptionIndex: 0, OrderIndex: 4},
		{CorrectOptionIndex: 0, OrderIndex: 5},
		{CorrectOptionIndex: 0, OrderIndex: 6},
		{CorrectOptionIndex: 0, OrderIndex: 7},
		{CorrectOptionIndex: 0, OrderIndex: 8},
		{CorrectOptionIndex: 0, OrderIndex: 9},
		{CorrectOptionIndex: 0, OrderIndex: 10},
	}
	// 7 of 10 correct is exactly 70%
	out, err := ScoreMCQ(mcqs, []int{0, 0, 0, 0, 0, 0, 0, 1, 1, 1}, 70)
	require.NoError(t, err)
	assert.Equal(t, float64(70), out.Score)
	assert.True(t, out.Passed)
}

func TestScoreMCQ_AnswerCountMismatch(t *testing.T) {
	_, err := ScoreMCQ(mcqSet(), []int{1}, 70)
	assert.ErrorIs(t, err, ErrAnswerCountMismatch)

	_, err = ScoreMCQ(mcqSet(), []int{1, 0, 1}, 70)
	assert.ErrorIs(t, err, ErrAnswerCountMismatch)
}

func TestScoreMCQ_NoQuestions(t *testing.T) {
	_, err := ScoreMCQ(nil, nil, 70)
	assert.ErrorIs(t, err, ErrNoQuestions)
}

func TestScoreMCQ_DefaultPassingPercent(t *testing.T) {
	out, err := ScoreMCQ(mcqSet(), []int{1, 1}, 0)
	require.NoError(t, err)
	assert.Equal(t, float64(50), out.Score)
	assert.False(t, out.Passed)
}

func TestScoreMCQ_OrdersByOrderIndex(t *testing.T) {
	mcqs := []courseModels.MCQ{
		{Question: "second", CorrectOptionIndex: 2, OrderIndex: 2},
		{Question: "first", CorrectOptionIndex: 3, OrderIndex: 1},
	}
	// answers[0] lines up with OrderIndex 1 regardless of slice order
	out, err := ScoreMCQ(mcqs, []int{3, 2}, 70)
	require.NoError(t, err)
	assert.True(t, out.Passed)
	assert.Equal(t, float64(100), out.Score)
}

func TestEffectiveMaxAttempts(t *testing.T) {
	assert.Equal(t, 0, EffectiveMaxAttempts(nil))
	assert.Equal(t, 0, EffectiveMaxAttempts([]courseModels.MCQ{{MaxAttempts: 0}}))
	assert.Equal(t, 3, EffectiveMaxAttempts([]courseModels.MCQ{
		{MaxAttempts: 5},
		{MaxAttempts: 3},
		{MaxAttempts: 0},
	}))
}
