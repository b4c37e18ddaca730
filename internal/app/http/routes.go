package routes

import (
	adminapi "hustlehack-backend/internal/api/admin"
	checkoutapi "hustlehack-backend/internal/api/checkout"
	"hustlehack-backend/internal/api/razorpaywebhook"
	usersapi "hustlehack-backend/internal/api/users"
	"hustlehack-backend/internal/app/http/middleware"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Webhook  *razorpaywebhook.Handler
	Checkout *checkoutapi.Handler
	Users    *usersapi.Handler
	Admin    *adminapi.Handler
}

func RegisterRoutes(r *gin.Engine, h Handlers) {
	// Webhook stays outside every middleware group: the gateway signature is
	// computed over the raw body.
	r.POST("/webhook", h.Webhook.HandleWebhook)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Authenticated
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware(), middleware.SanitizeAndCleanInputMiddleware())
	auth.GET("/me", h.Users.GetCurrentUser)
	auth.GET("/payments", h.Users.GetPaymentHistory)
	auth.POST("/create-order", h.Checkout.CreateOrder)
	auth.POST("/verify-payment", h.Checkout.VerifyPayment)

	// Admin routes
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRole("admin"), middleware.SanitizeAndCleanInputMiddleware())
	admin.GET("/dashboard", h.Admin.Dashboard)
	admin.GET("/users", h.Admin.ListAllUsers)
	admin.GET("/payments", h.Admin.ListAllPayments)
	admin.GET("/user/:id", h.Admin.GetUserDetails)
	admin.POST("/sync-sheets", h.Admin.SyncSheets)
	admin.POST("/merge-accounts", h.Admin.MergeAccounts)
}
