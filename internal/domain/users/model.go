package users

import (
	"time"
)

type User struct {
	// Supabase assigns UUIDs at signup; users first seen through a payment
	// get one generated locally and keep it after they sign up.
	ID    string `gorm:"type:uuid;primaryKey"`
	Email string `gorm:"not null;uniqueIndex:idx_users_email"`
	Name  string

	Plan       string     `gorm:"type:varchar(20);not null;default:'starter'"`
	PlanStart  *time.Time `gorm:"column:plan_start"`
	PlanExpiry *time.Time `gorm:"column:plan_expiry"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasActivePlan reports whether the user's plan is still running at the
// given instant. Strictly after: an expiry equal to now counts as lapsed.
func (u *User) HasActivePlan(now time.Time) bool {
	return u.PlanExpiry != nil && u.PlanExpiry.After(now)
}
