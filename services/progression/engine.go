package progression

import "fmt"

// TransitionKind discriminates what a dual-pass on the current module led to
type TransitionKind string

const (
	ModuleAdvanced      TransitionKind = "module_advanced"
	CourseCompleted     TransitionKind = "course_completed"
	ProfessionCompleted TransitionKind = "profession_completed"
)

// EventType enumerates the side effects a transition asks the caller to run
type EventType string

const (
	EventCompletionRecorded   EventType = "completion_recorded"
	EventCertificateRequested EventType = "certificate_requested"
)

// Certificate and completion scopes
const (
	ScopeCourse     = "course"
	ScopeProfession = "profession"
)

// Event is one side effect to execute after applying a transition. Scope is
// ScopeCourse or ScopeProfession.
type Event struct {
	Type     EventType
	Scope    string
	EntityID uint
}

// ModuleRef and CourseRef carry just enough of an entity for ordering decisions
type ModuleRef struct {
	ID    uint
	Order int
}

type CourseRef struct {
	ID    uint
	Order int
}

// Snapshot is everything the engine needs to decide a transition. The
// caller assembles it from the user's pointers and the relevant course and
// profession orderings; the engine itself touches no storage.
type Snapshot struct {
	CourseID uint
	ModuleID uint // the module whose dual-pass triggered this

	// Modules of the current course in ascending order
	Modules []ModuleRef

	// ProfessionID is 0 for a standalone course
	ProfessionID uint
	// ProfessionCourses in ascending order, empty for a standalone course
	ProfessionCourses []CourseRef
	// CompletedCourseIDs is the user's completion set before this transition
	CompletedCourseIDs map[uint]bool
	// FirstModuleByCourse maps a profession course to its order-1 module
	FirstModuleByCourse map[uint]uint
}

// Transition is the discriminated result of a dual-pass. Zero NextCourseID
// and NextModuleID mean the pointers are cleared. The caller owns executing
// Events (persistence, certificate issuance, email).
type Transition struct {
	Kind                  TransitionKind
	NextCourseID          uint
	NextModuleID          uint
	CompletedCourseID     uint
	CompletedProfessionID uint
	Events                []Event
}

// Advance decides what passing both assessments of the current module means:
// move to the next module, complete the course (possibly hopping to the next
// course of the profession), or complete the whole profession.
func Advance(snap Snapshot) (Transition, error) {
	currentOrder := -1
	for _, m := range snap.Modules {
		if m.ID == snap.ModuleID {
			currentOrder = m.Order
			break
		}
	}
	if currentOrder < 0 {
		return Transition{}, fmt.Errorf("module %d not found in course %d", snap.ModuleID, snap.CourseID)
	}

	// Next module in the same course
	for _, m := range snap.Modules {
		if m.Order == currentOrder+1 {
			return Transition{
				Kind:         ModuleAdvanced,
				NextCourseID: snap.CourseID,
				NextModuleID: m.ID,
			}, nil
		}
	}

	// Last module: the course is complete
	t := Transition{
		Kind:              CourseCompleted,
		CompletedCourseID: snap.CourseID,
		Events: []Event{
			{Type: EventCompletionRecorded, Scope: ScopeCourse, EntityID: snap.CourseID},
			{Type: EventCertificateRequested, Scope: ScopeCourse, EntityID: snap.CourseID},
		},
	}

	if snap.ProfessionID == 0 {
		// Standalone course: terminal, pointers cleared
		return t, nil
	}

	courseOrder := -1
	for _, c := range snap.ProfessionCourses {
		if c.ID == snap.CourseID {
			courseOrder = c.Order
			break
		}
	}

	if courseOrder >= 0 {
		for _, c := range snap.ProfessionCourses {
			if c.Order == courseOrder+1 {
				t.NextCourseID = c.ID
				t.NextModuleID = snap.FirstModuleByCourse[c.ID]
				return t, nil
			}
		}
	}

	// No next course by order: potential profession completion. Re-verify
	// against the completion set; a missing course becomes the next target
	// instead, re-syncing drifted state.
	completed := map[uint]bool{snap.CourseID: true}
	for id := range snap.CompletedCourseIDs {
		completed[id] = true
	}
	for _, c := range snap.ProfessionCourses {
		if !completed[c.ID] {
			t.NextCourseID = c.ID
			t.NextModuleID = snap.FirstModuleByCourse[c.ID]
			return t, nil
		}
	}

	t.Kind = ProfessionCompleted
	t.CompletedProfessionID = snap.ProfessionID
	t.Events = append(t.Events,
		Event{Type: EventCompletionRecorded, Scope: ScopeProfession, EntityID: snap.ProfessionID},
		Event{Type: EventCertificateRequested, Scope: ScopeProfession, EntityID: snap.ProfessionID},
	)
	return t, nil
}
