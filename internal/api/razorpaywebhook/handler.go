package razorpaywebhook

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"hustlehack-backend/internal/domain/plans"
	"hustlehack-backend/internal/notify"
	"hustlehack-backend/internal/reconcile"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc      *reconcile.Service
	verifier *Verifier
	mailer   *notify.Mailer // nil disables confirmation emails
}

func NewHandler(svc *reconcile.Service, verifier *Verifier, mailer *notify.Mailer) *Handler {
	return &Handler{svc: svc, verifier: verifier, mailer: mailer}
}

type webhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity paymentEntity `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

type paymentEntity struct {
	ID        string          `json:"id"`
	Amount    int64           `json:"amount"` // paise
	Currency  string          `json:"currency"`
	Status    string          `json:"status"`
	Method    string          `json:"method"`
	Email     string          `json:"email"`
	Contact   string          `json:"contact"`
	Notes     json.RawMessage `json:"notes"` // object, or [] when empty
	CreatedAt int64           `json:"created_at"`
}

// note returns a string value from the entity notes, tolerating the empty
// array Razorpay sends when no notes were attached.
func (e *paymentEntity) note(key string) string {
	if len(e.Notes) == 0 {
		return ""
	}
	var notes map[string]interface{}
	if err := json.Unmarshal(e.Notes, &notes); err != nil {
		return ""
	}
	if v, ok := notes[key].(string); ok {
		return v
	}
	return ""
}

// HandleWebhook processes Razorpay webhook deliveries on POST /webhook.
// Only payment.captured is acted on; everything else is acknowledged with
// 200 so the gateway stops retrying.
func (h *Handler) HandleWebhook(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, 65536))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error reading request body"})
		return
	}

	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if !h.verifier.Verify(body, c.GetHeader("X-Razorpay-Signature")) {
		log.Println("❌ Webhook signature verification failed")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid signature"})
		return
	}

	if event.Event != "payment.captured" {
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	entity := event.Payload.Payment.Entity
	payment, err := normalizeEntity(&entity)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	outcome, err := h.svc.Process(payment)
	if err != nil {
		log.Printf("❌ Failed to process payment %s: %v", payment.PaymentIntentID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if outcome.Duplicate {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Payment already processed",
		})
		return
	}

	fmt.Printf("💰 Recorded payment %s for %s (%s until %s)\n",
		payment.PaymentIntentID, outcome.User.Email, payment.Plan,
		outcome.PlanExpiry.Format(time.RFC3339))

	if h.mailer != nil {
		if err := h.mailer.SendPaymentConfirmation(outcome.User.Email, payment.Plan, outcome.PlanExpiry); err != nil {
			log.Printf("⚠️ Confirmation email to %s failed: %v", outcome.User.Email, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Payment recorded",
		"data": gin.H{
			"payment_id": payment.PaymentIntentID,
			"user_id":    outcome.User.ID,
			"plan":       payment.Plan,
			"expiry":     outcome.PlanExpiry,
		},
	})
}

// normalizeEntity maps the gateway's payment entity to the pipeline shape:
// paise to rupees, amount to plan, gateway event time to CreatedAt.
func normalizeEntity(entity *paymentEntity) (reconcile.Payment, error) {
	if entity.ID == "" {
		return reconcile.Payment{}, fmt.Errorf("payment entity missing id")
	}

	email := entity.Email
	if email == "" {
		email = entity.note("email")
	}
	if email == "" {
		return reconcile.Payment{}, fmt.Errorf("payment %s has no customer email", entity.ID)
	}

	amount := float64(entity.Amount) / 100

	raw, _ := json.Marshal(entity)

	var createdAt time.Time
	if entity.CreatedAt > 0 {
		createdAt = time.Unix(entity.CreatedAt, 0)
	}

	return reconcile.Payment{
		PaymentIntentID: entity.ID,
		Email:           email,
		Name:            entity.note("name"),
		Plan:            plans.FromAmount(amount),
		Amount:          amount,
		Currency:        entity.Currency,
		Status:          entity.Status,
		PaymentMethod:   entity.Method,
		GatewayResponse: raw,
		CreatedAt:       createdAt,
	}, nil
}
