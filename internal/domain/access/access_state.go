package access

import (
	"time"

	"hustlehack-backend/internal/domain/users"
)

type State string

const (
	StateActive       State = "active"
	StateExpiringSoon State = "expiring_soon"
	StateExpired      State = "expired"
	StateNone         State = "none"
)

// ExpiryWarningWindow is how close to expiry a plan starts reporting
// expiring_soon in /me output.
const ExpiryWarningWindow = 7 * 24 * time.Hour

// ComputeState derives the effective plan state for UI/product from the
// user's plan expiry.
func ComputeState(now time.Time, u users.User) State {
	if u.PlanExpiry == nil {
		return StateNone
	}
	if !u.PlanExpiry.After(now) {
		return StateExpired
	}
	if u.PlanExpiry.Sub(now) <= ExpiryWarningWindow {
		return StateExpiringSoon
	}
	return StateActive
}

// DaysLeft returns whole days remaining on the plan, 0 when expired or unset.
func DaysLeft(now time.Time, u users.User) int {
	if u.PlanExpiry == nil || !u.PlanExpiry.After(now) {
		return 0
	}
	return int(u.PlanExpiry.Sub(now).Hours() / 24)
}
