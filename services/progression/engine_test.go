package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeModuleCourse(courseID uint) []ModuleRef {
	base := courseID * 100
	return []ModuleRef{
		{ID: base + 1, Order: 1},
		{ID: base + 2, Order: 2},
		{ID: base + 3, Order: 3},
	}
}

func TestAdvance_NextModuleInCourse(t *testing.T) {
	snap := Snapshot{
		CourseID: 1,
		ModuleID: 101,
		Modules:  threeModuleCourse(1),
	}

	tr, err := Advance(snap)
	require.NoError(t, err)

	assert.Equal(t, ModuleAdvanced, tr.Kind)
	assert.Equal(t, uint(1), tr.NextCourseID)
	assert.Equal(t, uint(102), tr.NextModuleID)
	assert.Empty(t, tr.Events)
}

func TestAdvance_LastModuleOfStandaloneCourse(t *testing.T) {
	snap := Snapshot{
		CourseID: 1,
		ModuleID: 103,
		Modules:  threeModuleCourse(1),
	}

	tr, err := Advance(snap)
	require.NoError(t, err)

	assert.Equal(t, CourseCompleted, tr.Kind)
	assert.Equal(t, uint(1), tr.CompletedCourseID)
	assert.Zero(t, tr.NextCourseID)
	assert.Zero(t, tr.NextModuleID)

	require.Len(t, tr.Events, 2)
	assert.Equal(t, EventCompletionRecorded, tr.Events[0].Type)
	assert.Equal(t, "course", tr.Events[0].Scope)
	assert.Equal(t, EventCertificateRequested, tr.Events[1].Type)
}

func TestAdvance_CourseCompletionHopsToNextProfessionCourse(t *testing.T) {
	snap := Snapshot{
		CourseID:     1,
		ModuleID:     103,
		Modules:      threeModuleCourse(1),
		ProfessionID: 9,
		ProfessionCourses: []CourseRef{
			{ID: 1, Order: 1},
			{ID: 2, Order: 2},
		},
		CompletedCourseIDs:  map[uint]bool{},
		FirstModuleByCourse: map[uint]uint{2: 201},
	}

	tr, err := Advance(snap)
	require.NoError(t, err)

	assert.Equal(t, CourseCompleted, tr.Kind)
	assert.Equal(t, uint(2), tr.NextCourseID)
	assert.Equal(t, uint(201), tr.NextModuleID)
	assert.Equal(t, uint(1), tr.CompletedCourseID)
}

func TestAdvance_MissingCompletionBecomesNextTarget(t *testing.T) {
	// Last profession course done, but course 2 was never completed:
	// instead of finishing the profession the user is sent back to it.
	snap := Snapshot{
		CourseID:     3,
		ModuleID:     303,
		Modules:      threeModuleCourse(3),
		ProfessionID: 9,
		ProfessionCourses: []CourseRef{
			{ID: 1, Order: 1},
			{ID: 2, Order: 2},
			{ID: 3, Order: 3},
		},
		CompletedCourseIDs:  map[uint]bool{1: true},
		FirstModuleByCourse: map[uint]uint{1: 101, 2: 201, 3: 301},
	}

	tr, err := Advance(snap)
	require.NoError(t, err)

	assert.Equal(t, CourseCompleted, tr.Kind)
	assert.Equal(t, uint(2), tr.NextCourseID)
	assert.Equal(t, uint(201), tr.NextModuleID)
}

func TestAdvance_ProfessionCompleted(t *testing.T) {
	snap := Snapshot{
		CourseID:     2,
		ModuleID:     203,
		Modules:      threeModuleCourse(2),
		ProfessionID: 9,
		ProfessionCourses: []CourseRef{
			{ID: 1, Order: 1},
			{ID: 2, Order: 2},
		},
		CompletedCourseIDs:  map[uint]bool{1: true},
		FirstModuleByCourse: map[uint]uint{1: 101, 2: 201},
	}

	tr, err := Advance(snap)
	require.NoError(t, err)

	assert.Equal(t, ProfessionCompleted, tr.Kind)
	assert.Equal(t, uint(2), tr.CompletedCourseID)
	assert.Equal(t, uint(9), tr.CompletedProfessionID)
	assert.Zero(t, tr.NextCourseID)
	assert.Zero(t, tr.NextModuleID)

	require.Len(t, tr.Events, 4)
	assert.Equal(t, "course", tr.Events[0].Scope)
	assert.Equal(t, "profession", tr.Events[2].Scope)
	assert.Equal(t, EventCertificateRequested, tr.Events[3].Type)
}

func TestAdvance_UnknownModule(t *testing.T) {
	snap := Snapshot{
		CourseID: 1,
		ModuleID: 999,
		Modules:  threeModuleCourse(1),
	}

	_, err := Advance(snap)
	assert.Error(t, err)
}
