package reconcile

import (
	"fmt"
	"time"

	"hustlehack-backend/internal/domain/billing"
	"hustlehack-backend/internal/domain/plans"
	"hustlehack-backend/internal/domain/users"

	"gorm.io/gorm"
)

// MergeResult describes how an email mismatch was resolved.
type MergeResult struct {
	Action        string     `json:"action"` // merged | relinked | created
	UserID        string     `json:"user_id"`
	Email         string     `json:"email"`
	Plan          string     `json:"plan"`
	PlanExpiry    *time.Time `json:"plan_expiry,omitempty"`
	PaymentsMoved int64      `json:"payments_moved"`
}

// MergeAccounts reconciles two email addresses that should belong to the same
// person: the one a payment came in under and the one the user logs in with.
//
//   - Both exist: the better record survives (active plan, then higher tier,
//     then more recently created), takes over the loser's payments and the
//     better plan/expiry pair; the loser is deleted.
//   - One exists: its email is rewritten to the other address.
//   - Neither exists: a fresh user is created under the login email.
func (s *Service) MergeAccounts(paymentEmail, loginEmail string) (MergeResult, error) {
	paymentUser, paymentFound, err := s.findByEmail(paymentEmail)
	if err != nil {
		return MergeResult{}, err
	}
	loginUser, loginFound, err := s.findByEmail(loginEmail)
	if err != nil {
		return MergeResult{}, err
	}

	switch {
	case paymentFound && loginFound:
		return s.mergeUsers(paymentUser, loginUser)

	case paymentFound:
		return s.relink(paymentUser, loginEmail)

	case loginFound:
		return s.relink(loginUser, paymentEmail)

	default:
		user, err := s.FindOrCreateUserByEmail(loginEmail, "")
		if err != nil {
			return MergeResult{}, err
		}
		return MergeResult{
			Action:     "created",
			UserID:     user.ID,
			Email:      user.Email,
			Plan:       user.Plan,
			PlanExpiry: user.PlanExpiry,
		}, nil
	}
}

func (s *Service) findByEmail(email string) (users.User, bool, error) {
	var user users.User
	err := s.db.Where("email = ?", email).First(&user).Error
	if err == nil {
		return user, true, nil
	}
	if err == gorm.ErrRecordNotFound {
		return users.User{}, false, nil
	}
	return users.User{}, false, fmt.Errorf("failed to look up user %s: %w", email, err)
}

func (s *Service) relink(user users.User, newEmail string) (MergeResult, error) {
	if err := s.db.Model(&users.User{}).
		Where("id = ?", user.ID).
		Update("email", newEmail).Error; err != nil {
		return MergeResult{}, fmt.Errorf("failed to relink %s to %s: %w", user.Email, newEmail, err)
	}
	fmt.Printf("🔗 Relinked user %s: %s -> %s\n", user.ID, user.Email, newEmail)
	return MergeResult{
		Action:     "relinked",
		UserID:     user.ID,
		Email:      newEmail,
		Plan:       user.Plan,
		PlanExpiry: user.PlanExpiry,
	}, nil
}

func (s *Service) mergeUsers(a, b users.User) (MergeResult, error) {
	now := time.Now()
	primary, loser := a, b
	if betterUser(b, a, now) {
		primary, loser = b, a
	}

	moved := s.db.Model(&billing.Payment{}).
		Where("user_id = ?", loser.ID).
		Update("user_id", primary.ID)
	if moved.Error != nil {
		return MergeResult{}, fmt.Errorf("failed to move payments from %s: %w", loser.ID, moved.Error)
	}

	// The surviving record keeps the better of the two plan/expiry pairs.
	if betterPlanState(loser.Plan, loser.PlanExpiry, primary.Plan, primary.PlanExpiry, now) {
		updates := map[string]interface{}{
			"plan":        loser.Plan,
			"plan_start":  loser.PlanStart,
			"plan_expiry": loser.PlanExpiry,
		}
		if err := s.db.Model(&users.User{}).
			Where("id = ?", primary.ID).
			Updates(updates).Error; err != nil {
			return MergeResult{}, fmt.Errorf("failed to apply merged plan: %w", err)
		}
		primary.Plan = loser.Plan
		primary.PlanStart = loser.PlanStart
		primary.PlanExpiry = loser.PlanExpiry
	}

	if err := s.db.Delete(&users.User{}, "id = ?", loser.ID).Error; err != nil {
		return MergeResult{}, fmt.Errorf("failed to delete merged user %s: %w", loser.ID, err)
	}

	fmt.Printf("🔀 Merged user %s (%s) into %s (%s), moved %d payments\n",
		loser.ID, loser.Email, primary.ID, primary.Email, moved.RowsAffected)

	return MergeResult{
		Action:        "merged",
		UserID:        primary.ID,
		Email:         primary.Email,
		Plan:          primary.Plan,
		PlanExpiry:    primary.PlanExpiry,
		PaymentsMoved: moved.RowsAffected,
	}, nil
}

// betterUser decides which of two records survives a merge:
// active non-expired plan beats expired, higher tier breaks the tie, and a
// more recent signup breaks that.
func betterUser(a, b users.User, now time.Time) bool {
	if a.HasActivePlan(now) != b.HasActivePlan(now) {
		return a.HasActivePlan(now)
	}
	if plans.Rank(a.Plan) != plans.Rank(b.Plan) {
		return plans.Rank(a.Plan) > plans.Rank(b.Plan)
	}
	return a.CreatedAt.After(b.CreatedAt)
}

// betterPlanState compares two plan/expiry pairs with the same priority
// order, using the later expiry as the final tiebreak.
func betterPlanState(aPlan string, aExpiry *time.Time, bPlan string, bExpiry *time.Time, now time.Time) bool {
	aActive := aExpiry != nil && aExpiry.After(now)
	bActive := bExpiry != nil && bExpiry.After(now)
	if aActive != bActive {
		return aActive
	}
	if plans.Rank(aPlan) != plans.Rank(bPlan) {
		return plans.Rank(aPlan) > plans.Rank(bPlan)
	}
	if aExpiry != nil && bExpiry != nil {
		return aExpiry.After(*bExpiry)
	}
	return aExpiry != nil && bExpiry == nil
}
