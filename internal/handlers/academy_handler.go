package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/terraviva/backend/internal/services/academy"
)

// AcademyHandler serves the lawn care academy
type AcademyHandler struct {
	academy *academy.Service
}

// NewAcademyHandler creates a new academy handler
func NewAcademyHandler(academyService *academy.Service) *AcademyHandler {
	return &AcademyHandler{academy: academyService}
}

// ListCourses returns all published courses
func (h *AcademyHandler) ListCourses(c *gin.Context) {
	courses, err := h.academy.ListCourses()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load courses"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"courses": courses})
}

// GetCourse returns a course with its lessons
func (h *AcademyHandler) GetCourse(c *gin.Context) {
	course, err := h.academy.GetCourse(c.Param("slug"))
	if err != nil {
		if errors.Is(err, academy.ErrCourseNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load course"})
		return
	}

	c.JSON(http.StatusOK, course)
}

// CompleteLesson marks a lesson as completed and awards its XP
func (h *AcademyHandler) CompleteLesson(c *gin.Context) {
	customerID, err := customerIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.academy.CompleteLesson(customerID, c.Param("id"))
	if err != nil {
		if errors.Is(err, academy.ErrLessonNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Lesson not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record progress"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// Profile returns the customer's XP and level
func (h *AcademyHandler) Profile(c *gin.Context) {
	customerID, err := customerIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	profile, err := h.academy.Profile(customerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load profile"})
		return
	}

	c.JSON(http.StatusOK, profile)
}
