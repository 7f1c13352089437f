package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/terraviva/backend/internal/models"
	"github.com/terraviva/backend/internal/utils"
)

// AuthHandler handles signup, login and session refresh
type AuthHandler struct {
	db *gorm.DB
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(db *gorm.DB) *AuthHandler {
	return &AuthHandler{db: db}
}

// SignupRequest is the payload for customer registration
type SignupRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
}

// Signup registers a new customer
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := utils.ValidatePassword(req.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existing models.Customer
	if err := h.db.First(&existing, "email = ?", req.Email).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Email is already registered"})
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	customer := models.Customer{
		Email:     req.Email,
		Password:  hashed,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
	if err := h.db.Create(&customer).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	tokens, err := h.issueTokens(&customer)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"customer": customer, "tokens": tokens})
}

// LoginRequest is the payload for customer login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates a customer
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var customer models.Customer
	if err := h.db.First(&customer, "email = ?", req.Email).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	if !utils.CheckPasswordHash(req.Password, customer.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	now := time.Now()
	h.db.Model(&customer).Update("last_login_at", now)

	tokens, err := h.issueTokens(&customer)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"customer": customer, "tokens": tokens})
}

// RefreshRequest is the payload for refreshing a session
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Refresh rotates a refresh token into a new token pair
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claims, err := utils.ValidateToken(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
		return
	}

	var stored models.RefreshToken
	err = h.db.First(&stored, "token = ? AND revoked_at IS NULL AND expires_at > ?", req.RefreshToken, time.Now()).Error
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Refresh token expired or revoked"})
		return
	}

	var customer models.Customer
	if err := h.db.First(&customer, "id = ?", claims.CustomerID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Account no longer exists"})
		return
	}

	now := time.Now()
	h.db.Model(&stored).Update("revoked_at", now)

	tokens, err := h.issueTokens(&customer)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tokens": tokens})
}

// Me returns the authenticated customer's profile
func (h *AuthHandler) Me(c *gin.Context) {
	customerID, err := customerIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var customer models.Customer
	err = h.db.Preload("AcademyProfile").First(&customer, "id = ?", customerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load profile"})
		return
	}

	c.JSON(http.StatusOK, customer)
}

// issueTokens generates a token pair and persists the refresh token
func (h *AuthHandler) issueTokens(customer *models.Customer) (utils.TokenPair, error) {
	tokens, err := utils.GenerateTokenPair(customer.ID, customer.Email, customer.IsAdmin)
	if err != nil {
		return utils.TokenPair{}, err
	}

	refresh := models.RefreshToken{
		CustomerID: customer.ID,
		Token:      tokens.RefreshToken,
		ExpiresAt:  time.Now().Add(7 * 24 * time.Hour),
	}
	if err := h.db.Create(&refresh).Error; err != nil {
		return utils.TokenPair{}, err
	}

	return tokens, nil
}

// customerIDFromContext reads the authenticated customer id set by the
// auth middleware
func customerIDFromContext(c *gin.Context) (uuid.UUID, error) {
	raw, exists := c.Get("customer_id")
	if !exists {
		return uuid.Nil, errors.New("no customer in context")
	}
	return uuid.Parse(raw.(string))
}
