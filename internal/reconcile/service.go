package reconcile

import (
	"errors"
	"fmt"
	"time"

	"hustlehack-backend/internal/domain/billing"
	"hustlehack-backend/internal/domain/plans"
	"hustlehack-backend/internal/domain/users"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Payment is the normalized shape both ingress paths (webhook and sheet sync)
// reduce their input to before it reaches the pipeline.
type Payment struct {
	PaymentIntentID string
	Email           string
	Name            string
	Plan            string
	Amount          float64 // rupees
	Currency        string
	Status          string
	PaymentMethod   string
	GatewayResponse []byte
	CreatedAt       time.Time // gateway event time
}

// Outcome reports what Process did with a payment.
type Outcome struct {
	Duplicate  bool
	User       users.User
	PlanExpiry time.Time
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// PaymentExists is the duplicate guard: a pure read on payment_intent_id.
// Two concurrent callers can both see false here; the unique index on the
// column is what actually prevents a double insert.
func (s *Service) PaymentExists(paymentIntentID string) (bool, error) {
	var count int64
	err := s.db.Model(&billing.Payment{}).
		Where("payment_intent_id = ?", paymentIntentID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check payment %s: %w", paymentIntentID, err)
	}
	return count > 0, nil
}

// FindOrCreateUserByEmail resolves the identity key for reconciliation.
// Unknown emails get a fresh starter user with a 30-day window.
func (s *Service) FindOrCreateUserByEmail(email, name string) (users.User, error) {
	var user users.User
	err := s.db.Where("email = ?", email).First(&user).Error
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return users.User{}, fmt.Errorf("failed to look up user %s: %w", email, err)
	}

	now := time.Now()
	expiry := now.Add(plans.PlanDuration)
	user = users.User{
		ID:         uuid.NewString(),
		Email:      email,
		Name:       name,
		Plan:       plans.Starter,
		PlanStart:  &now,
		PlanExpiry: &expiry,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return users.User{}, fmt.Errorf("failed to create user %s: %w", email, err)
	}
	fmt.Printf("👤 Created user %s for %s\n", user.ID, email)
	return user, nil
}

// Record updates the user's plan and inserts the payment row.
//
// The two writes are sequential, not one transaction: a failure after the
// user update leaves an upgraded user with no payment row. The gateway's
// retry then hits the duplicate guard only if the insert succeeded, so a
// half-applied event is recovered by the retry re-running both steps.
func (s *Service) Record(user *users.User, p Payment) (time.Time, error) {
	now := time.Now()
	expiry := plans.NextExpiry(user.Plan, user.PlanExpiry, p.Plan, now)

	updates := map[string]interface{}{
		"plan":        p.Plan,
		"plan_start":  now,
		"plan_expiry": expiry,
	}
	if err := s.db.Model(&users.User{}).
		Where("id = ?", user.ID).
		Updates(updates).Error; err != nil {
		return time.Time{}, fmt.Errorf("failed to update user plan: %w", err)
	}

	createdAt := p.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}

	payment := billing.Payment{
		UserID:          user.ID,
		PaymentIntentID: p.PaymentIntentID,
		PlanID:          p.Plan,
		Amount:          p.Amount,
		Currency:        p.Currency,
		Status:          p.Status,
		PaymentMethod:   p.PaymentMethod,
		GatewayResponse: datatypes.JSON(p.GatewayResponse),
		CreatedAt:       createdAt,
	}
	if err := s.db.Create(&payment).Error; err != nil {
		// User plan is already mutated at this point; not rolled back.
		return time.Time{}, fmt.Errorf("failed to insert payment %s: %w", p.PaymentIntentID, err)
	}

	user.Plan = p.Plan
	user.PlanStart = &now
	user.PlanExpiry = &expiry
	return expiry, nil
}

// Process runs the shared guard → resolve → record pipeline. Both the
// webhook handler and the sheet sync converge here.
func (s *Service) Process(p Payment) (Outcome, error) {
	exists, err := s.PaymentExists(p.PaymentIntentID)
	if err != nil {
		return Outcome{}, err
	}
	if exists {
		return Outcome{Duplicate: true}, nil
	}

	user, err := s.FindOrCreateUserByEmail(p.Email, p.Name)
	if err != nil {
		return Outcome{}, err
	}

	expiry, err := s.Record(&user, p)
	if err != nil {
		return Outcome{}, err
	}

	return Outcome{User: user, PlanExpiry: expiry}, nil
}
