package course

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Profession is an ordered curriculum of courses
type Profession struct {
	gorm.Model
	Name              string             `json:"name" gorm:"uniqueIndex;not null"`
	Description       string             `json:"description" gorm:"not null"`
	Thumbnail         string             `json:"thumbnail"`
	EstimatedDuration string             `json:"estimated_duration"` // e.g. "3 months"
	Tags              datatypes.JSON     `json:"tags"`
	IsPublished       bool               `json:"is_published" gorm:"default:false"`
	Courses           []ProfessionCourse `json:"courses,omitempty"`
	IsDeleted         bool               `json:"-" gorm:"default:false"`
}

// ProfessionCourse links a course into a profession at a position.
// Order is unique within a profession and contiguous from 1.
type ProfessionCourse struct {
	gorm.Model
	ProfessionID uint    `json:"profession_id" gorm:"not null;uniqueIndex:idx_prof_order;uniqueIndex:idx_prof_course"`
	CourseID     uint    `json:"course_id" gorm:"not null;uniqueIndex:idx_prof_course"`
	OrderIndex   int     `json:"order" gorm:"not null;uniqueIndex:idx_prof_order"`
	Course       *Course `json:"course,omitempty" gorm:"foreignKey:CourseID"`
}
