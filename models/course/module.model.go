package course

import (
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MCQ is a single multiple-choice question inside a module's quiz.
// CorrectOptionIndex is 0-based and never serialized to learners.
type MCQ struct {
	gorm.Model
	ModuleID           uint           `json:"module_id" gorm:"index;not null"`
	Question           string         `json:"question" gorm:"not null"`
	Options            datatypes.JSON `json:"options"` // array of option strings
	CorrectOptionIndex int            `json:"-"`
	Explanation        string         `json:"-"`
	MaxAttempts        int            `json:"max_attempts" gorm:"default:3"`
	OrderIndex         int            `json:"order_index" gorm:"default:0"`
}

// Testcase belongs to a coding task. Hidden testcases never expose their
// input/expected output to learners.
type Testcase struct {
	gorm.Model
	CodingTaskID   uint   `json:"coding_task_id" gorm:"index;not null"`
	Label          string `json:"label"` // stable id surfaced in test results, e.g. "tc-1"
	Input          string `json:"input"`
	ExpectedOutput string `json:"expected_output"`
	Hidden         bool   `json:"hidden" gorm:"default:false"`
	OrderIndex     int    `json:"order_index" gorm:"default:0"`
}

// CodingTask is the optional coding exercise of a module
type CodingTask struct {
	gorm.Model
	ModuleID       uint           `json:"module_id" gorm:"uniqueIndex;not null"`
	Title          string         `json:"title" gorm:"not null"`
	Description    string         `json:"description"` // markdown
	Languages      datatypes.JSON `json:"languages"`   // e.g. ["javascript","python"]
	TemplateFiles  datatypes.JSON `json:"template_files"`
	TimeoutSeconds int            `json:"timeout_seconds" gorm:"default:30"`
	Testcases      []Testcase     `json:"testcases,omitempty"`
}

// Module is the smallest gated unit of a course: theory, an MCQ quiz and a
// coding task, ordered within its course.
type Module struct {
	gorm.Model
	CourseID           uint           `json:"course_id" gorm:"not null;uniqueIndex:idx_course_order"`
	Title              string         `json:"title" gorm:"not null"`
	OrderIndex         int            `json:"order" gorm:"not null;uniqueIndex:idx_course_order"`
	Topics             datatypes.JSON `json:"topics"`
	TheoryText         string         `json:"theory_text"`
	TheoryPdfURL       string         `json:"theory_pdf_url"`
	MCQs               []MCQ          `json:"mcqs,omitempty"`
	CodingTask         *CodingTask    `json:"coding_task,omitempty"`
	InterviewQuestions datatypes.JSON `json:"interview_questions"`
	McqPassingPercent  int            `json:"mcq_passing_percent" gorm:"default:70"`
	Published          bool           `json:"published" gorm:"default:false"`
	IsLocked           bool           `json:"is_locked" gorm:"default:false"`
	IsDeleted          bool           `json:"-" gorm:"default:false"`
}

// BeforeSave enforces ordering invariants: order is a positive integer and
// the entry module of a course is never locked.
func (m *Module) BeforeSave(tx *gorm.DB) error {
	if m.OrderIndex < 1 {
		return errors.New("module order must be a positive integer")
	}
	if m.OrderIndex == 1 {
		m.IsLocked = false
	}
	return nil
}
