package checkout

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"hustlehack-backend/internal/domain/plans"
	"hustlehack-backend/internal/notify"
	"hustlehack-backend/internal/reconcile"

	"github.com/gin-gonic/gin"
	razorpay "github.com/razorpay/razorpay-go"
	"github.com/razorpay/razorpay-go/utils"
)

// Handler serves the Razorpay checkout flow: order creation before the
// client opens the payment widget, and signature verification of the
// client-side callback afterwards.
type Handler struct {
	svc       *reconcile.Service
	client    *razorpay.Client
	keyID     string
	keySecret string
	mailer    *notify.Mailer
}

func NewHandler(svc *reconcile.Service, keyID, keySecret string, mailer *notify.Mailer) *Handler {
	var client *razorpay.Client
	if keyID != "" && keySecret != "" {
		client = razorpay.NewClient(keyID, keySecret)
	}
	return &Handler{
		svc:       svc,
		client:    client,
		keyID:     keyID,
		keySecret: keySecret,
		mailer:    mailer,
	}
}

// CreateOrder creates a gateway order for a plan purchase. Amount comes from
// the fixed price table, in paise.
func (h *Handler) CreateOrder(c *gin.Context) {
	if h.client == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Razorpay keys not configured"})
		return
	}

	var input struct {
		Plan string `json:"plan" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan := plans.Normalize(input.Plan)
	if plan == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown plan"})
		return
	}

	email := c.GetString("email")
	amountPaise := int64(plans.PriceINR[plan] * 100)

	order, err := h.client.Order.Create(map[string]interface{}{
		"amount":   amountPaise,
		"currency": "INR",
		"receipt":  fmt.Sprintf("hh_%d", time.Now().UnixNano()),
		"notes": map[string]interface{}{
			"plan":  plan,
			"email": email,
		},
	}, nil)
	if err != nil {
		log.Printf("❌ Order creation failed for %s: %v", email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order_id": order["id"],
		"amount":   amountPaise,
		"currency": "INR",
		"key_id":   h.keyID,
		"plan":     plan,
	})
}

// VerifyPayment validates the checkout callback signature
// (order_id|payment_id HMAC with the key secret) and records the payment
// through the same pipeline as the webhook. A payment the webhook already
// recorded comes back as a duplicate, which is still a success here.
func (h *Handler) VerifyPayment(c *gin.Context) {
	var input struct {
		OrderID   string `json:"razorpay_order_id" binding:"required"`
		PaymentID string `json:"razorpay_payment_id" binding:"required"`
		Signature string `json:"razorpay_signature" binding:"required"`
		Plan      string `json:"plan"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	params := map[string]interface{}{
		"razorpay_order_id":   input.OrderID,
		"razorpay_payment_id": input.PaymentID,
	}
	if !utils.VerifyPaymentSignature(params, input.Signature, h.keySecret) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Payment verification failed"})
		return
	}

	email := c.GetString("email")
	if email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	plan := plans.Normalize(input.Plan)
	if plan == "" {
		plan = plans.Starter
	}

	outcome, err := h.svc.Process(reconcile.Payment{
		PaymentIntentID: input.PaymentID,
		Email:           email,
		Plan:            plan,
		Amount:          plans.PriceINR[plan],
		Currency:        "INR",
		Status:          "completed",
		PaymentMethod:   "razorpay_checkout",
		GatewayResponse: []byte(fmt.Sprintf(`{"order_id":%q,"payment_id":%q}`, input.OrderID, input.PaymentID)),
		CreatedAt:       time.Now(),
	})
	if err != nil {
		log.Printf("❌ Failed to record verified payment %s: %v", input.PaymentID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if outcome.Duplicate {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Payment already processed"})
		return
	}

	if h.mailer != nil {
		if err := h.mailer.SendPaymentConfirmation(email, plan, outcome.PlanExpiry); err != nil {
			log.Printf("⚠️ Confirmation email to %s failed: %v", email, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Payment verified",
		"data": gin.H{
			"payment_id": input.PaymentID,
			"user_id":    outcome.User.ID,
			"plan":       plan,
			"expiry":     outcome.PlanExpiry,
		},
	})
}
