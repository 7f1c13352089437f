package academy

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/terraviva/backend/internal/models"
)

var (
	// ErrCourseNotFound is returned when a course does not exist
	ErrCourseNotFound = errors.New("course not found")
	// ErrLessonNotFound is returned when a lesson does not exist
	ErrLessonNotFound = errors.New("lesson not found")
)

// xpPerLevel is the XP a customer needs to advance one academy level.
const xpPerLevel = 500

// Service serves the lawn care academy: courses, lessons and the XP
// progression that feeds the storefront's gamification.
type Service struct {
	db *gorm.DB
}

// NewService creates a new academy service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// ListCourses returns all published courses
func (s *Service) ListCourses() ([]models.Course, error) {
	var courses []models.Course
	err := s.db.
		Where("published = ?", true).
		Order("title").
		Find(&courses).Error
	if err != nil {
		return nil, err
	}
	return courses, nil
}

// GetCourse returns a published course with its lessons in order
func (s *Service) GetCourse(courseSlug string) (*models.Course, error) {
	var course models.Course
	err := s.db.
		Preload("Lessons", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		First(&course, "slug = ? AND published = ?", courseSlug, true).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return &course, nil
}

// CompletionResult reports the outcome of completing a lesson
type CompletionResult struct {
	XPAwarded        int  `json:"xp_awarded"`
	TotalXP          int  `json:"total_xp"`
	Level            int  `json:"level"`
	LeveledUp        bool `json:"leveled_up"`
	AlreadyCompleted bool `json:"already_completed"`
}

// CompleteLesson marks a lesson as completed for a customer and awards
// its XP. Completing the same lesson again is a no-op: XP is awarded
// exactly once.
func (s *Service) CompleteLesson(customerID uuid.UUID, lessonID string) (*CompletionResult, error) {
	var result CompletionResult

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var lesson models.Lesson
		if err := tx.First(&lesson, "id = ?", lessonID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLessonNotFound
			}
			return err
		}

		var existing models.LessonProgress
		err := tx.First(&existing, "customer_id = ? AND lesson_id = ?", customerID, lesson.ID).Error
		if err == nil {
			profile, err := s.profileFor(tx, customerID)
			if err != nil {
				return err
			}
			result = CompletionResult{
				TotalXP:          profile.XP,
				Level:            profile.Level,
				AlreadyCompleted: true,
			}
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		progress := models.LessonProgress{
			CustomerID:  customerID,
			LessonID:    lesson.ID,
			CompletedAt: time.Now(),
			XPAwarded:   lesson.XPReward,
		}
		if err := tx.Create(&progress).Error; err != nil {
			return fmt.Errorf("failed to record lesson progress: %w", err)
		}

		profile, err := s.profileFor(tx, customerID)
		if err != nil {
			return err
		}

		newXP := profile.XP + lesson.XPReward
		newLevel := levelForXP(newXP)
		if err := tx.Model(profile).Updates(map[string]interface{}{
			"xp":    newXP,
			"level": newLevel,
		}).Error; err != nil {
			return err
		}

		result = CompletionResult{
			XPAwarded: lesson.XPReward,
			TotalXP:   newXP,
			Level:     newLevel,
			LeveledUp: newLevel > profile.Level,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// Profile returns a customer's academy profile, creating it on first
// access
func (s *Service) Profile(customerID uuid.UUID) (*models.AcademyProfile, error) {
	return s.profileFor(s.db, customerID)
}

func (s *Service) profileFor(tx *gorm.DB, customerID uuid.UUID) (*models.AcademyProfile, error) {
	var profile models.AcademyProfile
	err := tx.First(&profile, "customer_id = ?", customerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		profile = models.AcademyProfile{CustomerID: customerID, Level: 1}
		if err := tx.Create(&profile).Error; err != nil {
			return nil, err
		}
		return &profile, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// levelForXP maps accumulated XP to an academy level, starting at 1
func levelForXP(xp int) int {
	return xp/xpPerLevel + 1
}
