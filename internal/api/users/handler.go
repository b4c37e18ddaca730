package users

import (
	"net/http"
	"time"

	"hustlehack-backend/internal/domain/access"
	"hustlehack-backend/internal/domain/billing"
	"hustlehack-backend/internal/domain/users"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	db *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

type PlanDTO struct {
	Name     string     `json:"name"`
	Start    *time.Time `json:"start,omitempty"`
	Expiry   *time.Time `json:"expiry,omitempty"`
	State    string     `json:"state"`
	DaysLeft int        `json:"days_left"`
}

type MeResponse struct {
	ID    string  `json:"id"`
	Email string  `json:"email"`
	Name  string  `json:"name,omitempty"`
	Plan  PlanDTO `json:"plan"`
}

func (h *Handler) GetCurrentUser(c *gin.Context) {
	email := c.GetString("email")
	if email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var user users.User
	if err := h.db.Where("email = ?", email).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	now := time.Now()
	c.JSON(http.StatusOK, MeResponse{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Plan: PlanDTO{
			Name:     user.Plan,
			Start:    user.PlanStart,
			Expiry:   user.PlanExpiry,
			State:    string(access.ComputeState(now, user)),
			DaysLeft: access.DaysLeft(now, user),
		},
	})
}

func (h *Handler) GetPaymentHistory(c *gin.Context) {
	email := c.GetString("email")
	if email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var user users.User
	if err := h.db.Where("email = ?", email).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var payments []billing.Payment
	if err := h.db.
		Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load payments"})
		return
	}

	c.JSON(http.StatusOK, payments)
}
