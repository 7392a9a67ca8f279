package course

import "gorm.io/gorm"

// Course visibility states
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

// Course is an ordered sequence of modules, optionally part of a profession
type Course struct {
	gorm.Model
	Title        string   `json:"title" gorm:"not null"`
	Slug         string   `json:"slug" gorm:"uniqueIndex;not null"`
	Description  string   `json:"description"`
	Status       string   `json:"status" gorm:"default:'draft'"` // draft, published, archived
	Difficulty   string   `json:"difficulty" gorm:"default:'easy'"`
	ProfessionID *uint    `json:"profession_id" gorm:"index"`
	Duration     string   `json:"duration"` // e.g. "4 weeks"
	ThumbnailURL string   `json:"thumbnail_url"`
	CreatedBy    uint     `json:"created_by"`
	Modules      []Module `json:"modules,omitempty"`
	IsDeleted    bool     `json:"-" gorm:"default:false"`
}
