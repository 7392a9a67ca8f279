package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Name       string `json:"name"`
	Username   string `json:"username" gorm:"index"`
	Email      string `json:"email" gorm:"unique;not null"`
	Password   string `json:"-" gorm:"not null"`
	Role       string `json:"role" gorm:"default:'student'"` // student, admin
	Bio        string `json:"bio"`
	College    string `json:"college"`
	Year       int    `json:"year"`
	ProfilePic string `json:"profile_pic"`
	Points     int    `json:"points" gorm:"default:0"`

	// Active enrollment pointers. At most one course/module at a time;
	// CurrentModuleID always belongs to CurrentCourseID when both are set.
	CurrentProfessionID *uint `json:"current_profession_id"`
	CurrentCourseID     *uint `json:"current_course_id"`
	CurrentModuleID     *uint `json:"current_module_id"`

	Badges    []Badge    `json:"badges" gorm:"many2many:user_badges"`
	LastLogin *time.Time `json:"last_login"`
	IsDeleted bool       `json:"-" gorm:"default:false"`
}

// CompletedCourse is one course-completion record on a user's history.
// The unique index makes completion idempotent under concurrent dual passes.
type CompletedCourse struct {
	gorm.Model
	UserID              uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_user_course_done"`
	CourseID            uint      `json:"course_id" gorm:"not null;uniqueIndex:idx_user_course_done"`
	CompletedDate       time.Time `json:"completed_date"`
	Points              int       `json:"points"`
	Certificate         bool      `json:"certificate" gorm:"default:false"`
	CertificateURL      string    `json:"certificate_url"`
	CertificatePdfURL   string    `json:"certificate_pdf_url"`
	CertificateImageURL string    `json:"certificate_image_url"`
}

// CompletedProfession mirrors CompletedCourse for full-profession completion
type CompletedProfession struct {
	gorm.Model
	UserID              uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_user_prof_done"`
	ProfessionID        uint      `json:"profession_id" gorm:"not null;uniqueIndex:idx_user_prof_done"`
	CompletedDate       time.Time `json:"completed_date"`
	Points              int       `json:"points"`
	Certificate         bool      `json:"certificate" gorm:"default:false"`
	CertificateURL      string    `json:"certificate_url"`
	CertificatePdfURL   string    `json:"certificate_pdf_url"`
	CertificateImageURL string    `json:"certificate_image_url"`
}

// ProfessionEnrollment keeps the history of profession enrollments,
// including ones the user later unenrolled from.
type ProfessionEnrollment struct {
	gorm.Model
	UserID       uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_user_prof_enroll"`
	ProfessionID uint      `json:"profession_id" gorm:"not null;uniqueIndex:idx_user_prof_enroll"`
	EnrolledAt   time.Time `json:"enrolled_at"`
}
