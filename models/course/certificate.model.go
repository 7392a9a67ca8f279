package course

import (
	"time"

	"gorm.io/gorm"
)

// Certificate is an issued completion certificate for a course or profession
type Certificate struct {
	gorm.Model
	UserID            uint      `json:"user_id" gorm:"index;not null"`
	Scope             string    `json:"scope" gorm:"not null"` // course, profession
	EntityID          uint      `json:"entity_id" gorm:"not null"`
	CertificateNumber string    `json:"certificate_number" gorm:"uniqueIndex"`
	PdfURL            string    `json:"pdf_url"`
	ImageURL          string    `json:"image_url"`
	IssuedAt          time.Time `json:"issued_at"`
}
