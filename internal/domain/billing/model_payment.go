package billing

import (
	"time"

	"hustlehack-backend/internal/domain/users"

	"gorm.io/datatypes"
)

type Payment struct {
	ID     uint   `gorm:"primaryKey"`
	UserID string `gorm:"type:uuid;index;not null"`
	User   users.User

	// Gateway payment id — the deduplication key. The unique index is the
	// actual backstop against double-recording; the application-level guard
	// is only an optimization.
	PaymentIntentID string `gorm:"column:payment_intent_id;not null;uniqueIndex:idx_payments_intent_id"`

	PlanID        string  `gorm:"column:plan_id;type:varchar(20)"`
	Amount        float64 // major unit (rupees, not paise)
	Currency      string  `gorm:"type:varchar(10)"`
	Status        string  `gorm:"type:varchar(20)"`
	PaymentMethod string  `gorm:"type:varchar(40)"`

	// Raw gateway payload, kept verbatim for manual reconciliation.
	GatewayResponse datatypes.JSON

	// Gateway's event time, not ingestion time. Set explicitly by the
	// recorder; gorm only auto-fills it when left zero.
	CreatedAt time.Time
}
