package models

import (
	"time"

	"github.com/google/uuid"
)

// Course is one academy course made of ordered lessons
type Course struct {
	Base
	Slug        string `gorm:"uniqueIndex;not null" json:"slug"`
	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description"`
	Level       string `json:"level"` // beginner, intermediate, expert
	ImageURL    string `json:"image_url"`
	Published   bool   `gorm:"default:false;index" json:"published"`

	// Relationships
	Lessons []Lesson `json:"lessons,omitempty"`
}

// Lesson is one unit of a course, worth XP on first completion
type Lesson struct {
	Base
	CourseID uuid.UUID `gorm:"type:uuid;index" json:"course_id"`
	Slug     string    `gorm:"index" json:"slug"`
	Title    string    `gorm:"not null" json:"title"`
	Content  string    `gorm:"type:text" json:"content"`
	Position int       `gorm:"default:0" json:"position"`
	XPReward int       `gorm:"default:50" json:"xp_reward"`
}

// LessonProgress records that a customer completed a lesson. One row per
// customer and lesson; XP is awarded exactly once.
type LessonProgress struct {
	Base
	CustomerID  uuid.UUID `gorm:"type:uuid;index:idx_lesson_progress,unique" json:"customer_id"`
	LessonID    uuid.UUID `gorm:"type:uuid;index:idx_lesson_progress,unique" json:"lesson_id"`
	CompletedAt time.Time `json:"completed_at"`
	XPAwarded   int       `json:"xp_awarded"`
}

// AcademyProfile tracks a customer's accumulated XP and level
type AcademyProfile struct {
	Base
	CustomerID uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"customer_id"`
	XP         int       `gorm:"default:0" json:"xp"`
	Level      int       `gorm:"default:1" json:"level"`
}
