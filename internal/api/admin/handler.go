package admin

import (
	"net/http"
	"time"

	"hustlehack-backend/internal/domain/billing"
	"hustlehack-backend/internal/domain/users"
	"hustlehack-backend/internal/reconcile"
	"hustlehack-backend/internal/sheetsync"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	db   *gorm.DB
	svc  *reconcile.Service
	sync *sheetsync.Job // nil when the sheet source is not configured
}

func NewHandler(db *gorm.DB, svc *reconcile.Service, sync *sheetsync.Job) *Handler {
	return &Handler{db: db, svc: svc, sync: sync}
}

type AdminUser struct {
	ID         string     `json:"id"`
	Email      string     `json:"email"`
	Name       string     `json:"name,omitempty"`
	Plan       string     `json:"plan"`
	PlanStart  *time.Time `json:"plan_start,omitempty"`
	PlanExpiry *time.Time `json:"plan_expiry,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

type AdminPayment struct {
	ID            uint    `json:"id"`
	PaymentID     string  `json:"payment_id"`
	Email         string  `json:"email"`
	Plan          string  `json:"plan"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	Status        string  `json:"status"`
	PaymentMethod string  `json:"payment_method,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

type AdminStats struct {
	TotalUsers    int            `json:"total_users"`
	ActiveUsers   int            `json:"active_users"`
	TotalRevenue  float64        `json:"total_revenue"`
	RecentRevenue float64        `json:"recent_revenue"`
	UsersPerPlan  map[string]int `json:"users_per_plan"`
}

func (h *Handler) Dashboard(c *gin.Context) {
	var stats AdminStats

	var totalUsers, activeUsers int64
	var totalRevenue, recentRevenue float64

	h.db.Model(&users.User{}).Count(&totalUsers)
	h.db.Model(&users.User{}).Where("plan_expiry > ?", time.Now()).Count(&activeUsers)
	h.db.Model(&billing.Payment{}).Select("COALESCE(SUM(amount), 0)").Scan(&totalRevenue)

	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)
	h.db.Model(&billing.Payment{}).
		Where("created_at >= ?", thirtyDaysAgo).
		Select("COALESCE(SUM(amount), 0)").Scan(&recentRevenue)

	stats.TotalUsers = int(totalUsers)
	stats.ActiveUsers = int(activeUsers)
	stats.TotalRevenue = totalRevenue
	stats.RecentRevenue = recentRevenue

	type PlanCount struct {
		Plan  string
		Count int
	}
	var counts []PlanCount
	h.db.Model(&users.User{}).
		Select("plan, COUNT(id) as count").
		Group("plan").
		Scan(&counts)

	stats.UsersPerPlan = map[string]int{}
	for _, pc := range counts {
		stats.UsersPerPlan[pc.Plan] = pc.Count
	}

	c.JSON(http.StatusOK, stats)
}

func (h *Handler) ListAllUsers(c *gin.Context) {
	var all []users.User
	if err := h.db.Order("created_at DESC").Find(&all).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load users"})
		return
	}

	result := []AdminUser{}
	for _, u := range all {
		result = append(result, AdminUser{
			ID:         u.ID,
			Email:      u.Email,
			Name:       u.Name,
			Plan:       u.Plan,
			PlanStart:  u.PlanStart,
			PlanExpiry: u.PlanExpiry,
			CreatedAt:  u.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) ListAllPayments(c *gin.Context) {
	var payments []billing.Payment
	if err := h.db.Preload("User").Order("created_at DESC").Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load payments"})
		return
	}

	result := []AdminPayment{}
	for _, p := range payments {
		result = append(result, AdminPayment{
			ID:            p.ID,
			PaymentID:     p.PaymentIntentID,
			Email:         p.User.Email,
			Plan:          p.PlanID,
			Amount:        p.Amount,
			Currency:      p.Currency,
			Status:        p.Status,
			PaymentMethod: p.PaymentMethod,
			CreatedAt:     p.CreatedAt.Format("2006-01-02 15:04"),
		})
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) GetUserDetails(c *gin.Context) {
	userID := c.Param("id")

	var user users.User
	if err := h.db.Where("id = ?", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var payments []billing.Payment
	if err := h.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":     user,
		"payments": payments,
	})
}

// SyncSheets runs one sheet sync batch and returns the aggregate result.
func (h *Handler) SyncSheets(c *gin.Context) {
	if h.sync == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Sheet sync not configured"})
		return
	}

	result, err := h.sync.Run(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// MergeAccounts resolves a payment-email / login-email mismatch.
func (h *Handler) MergeAccounts(c *gin.Context) {
	var input struct {
		PaymentEmail string `json:"payment_email" binding:"required,email"`
		LoginEmail   string `json:"login_email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.PaymentEmail == input.LoginEmail {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Emails are identical, nothing to merge"})
		return
	}

	result, err := h.svc.MergeAccounts(input.PaymentEmail, input.LoginEmail)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}
