package reconcile

import (
	"testing"
	"time"

	"hustlehack-backend/internal/domain/billing"
	"hustlehack-backend/internal/domain/plans"
	"hustlehack-backend/internal/domain/users"

	"gorm.io/gorm"
)

func seedUser(t *testing.T, db *gorm.DB, id, email, plan string, expiry *time.Time) users.User {
	t.Helper()
	user := users.User{
		ID:         id,
		Email:      email,
		Plan:       plan,
		PlanExpiry: expiry,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user %s: %v", email, err)
	}
	return user
}

func seedPayment(t *testing.T, db *gorm.DB, userID, paymentID string) {
	t.Helper()
	p := billing.Payment{
		UserID:          userID,
		PaymentIntentID: paymentID,
		PlanID:          plans.Starter,
		Amount:          99,
		Currency:        "INR",
		Status:          "completed",
	}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("failed to seed payment %s: %v", paymentID, err)
	}
}

func TestMerge_TransfersPaymentHistory(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db)

	active := time.Now().Add(20 * 24 * time.Hour)
	expired := time.Now().Add(-24 * time.Hour)

	a := seedUser(t, db, "11111111-1111-1111-1111-111111111111", "a@x.com", plans.Starter, &expired)
	b := seedUser(t, db, "22222222-2222-2222-2222-222222222222", "b@x.com", plans.Creator, &active)
	seedPayment(t, db, a.ID, "pay_a1")
	seedPayment(t, db, a.ID, "pay_a2")
	seedPayment(t, db, b.ID, "pay_b1")

	result, err := svc.MergeAccounts("a@x.com", "b@x.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Action != "merged" {
		t.Fatalf("expected merged, got %s", result.Action)
	}
	// b has the active plan, so b survives.
	if result.UserID != b.ID {
		t.Errorf("expected %s to survive, got %s", b.ID, result.UserID)
	}
	if result.PaymentsMoved != 2 {
		t.Errorf("expected 2 payments moved, got %d", result.PaymentsMoved)
	}

	var count int64
	db.Model(&billing.Payment{}).Where("user_id = ?", b.ID).Count(&count)
	if count != 3 {
		t.Errorf("expected survivor to own 3 payments, got %d", count)
	}

	var gone users.User
	err = db.Where("id = ?", a.ID).First(&gone).Error
	if err != gorm.ErrRecordNotFound {
		t.Errorf("expected losing user to be deleted, got err=%v", err)
	}
}

func TestMerge_ActivePlanBeatsHigherTier(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db)

	active := time.Now().Add(10 * 24 * time.Hour)
	expired := time.Now().Add(-24 * time.Hour)

	// Expired pro vs active starter: active wins.
	seedUser(t, db, "11111111-1111-1111-1111-111111111111", "pro@x.com", plans.Pro, &expired)
	starter := seedUser(t, db, "22222222-2222-2222-2222-222222222222", "starter@x.com", plans.Starter, &active)

	result, err := svc.MergeAccounts("pro@x.com", "starter@x.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.UserID != starter.ID {
		t.Errorf("active plan must win the merge, survivor was %s", result.UserID)
	}
	// The survivor keeps its own pair: an active starter beats an expired pro.
	if result.Plan != plans.Starter {
		t.Errorf("expected surviving plan starter, got %s", result.Plan)
	}
}

func TestMerge_HigherTierBreaksTie(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db)

	expiryA := time.Now().Add(10 * 24 * time.Hour)
	expiryB := time.Now().Add(12 * 24 * time.Hour)

	pro := seedUser(t, db, "11111111-1111-1111-1111-111111111111", "pro@x.com", plans.Pro, &expiryA)
	seedUser(t, db, "22222222-2222-2222-2222-222222222222", "creator@x.com", plans.Creator, &expiryB)

	result, err := svc.MergeAccounts("pro@x.com", "creator@x.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.UserID != pro.ID {
		t.Errorf("higher tier must win when both are active, survivor was %s", result.UserID)
	}
}

func TestMerge_OnlyOneExists_Relinks(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db)

	user := seedUser(t, db, "11111111-1111-1111-1111-111111111111", "paid@x.com", plans.Creator, nil)

	result, err := svc.MergeAccounts("paid@x.com", "login@x.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Action != "relinked" {
		t.Fatalf("expected relinked, got %s", result.Action)
	}
	if result.Email != "login@x.com" {
		t.Errorf("expected email rewritten to login@x.com, got %s", result.Email)
	}

	var reloaded users.User
	if err := db.Where("id = ?", user.ID).First(&reloaded).Error; err != nil {
		t.Fatalf("failed to reload user: %v", err)
	}
	if reloaded.Email != "login@x.com" {
		t.Errorf("expected stored email login@x.com, got %s", reloaded.Email)
	}
}

func TestMerge_NeitherExists_Creates(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db)

	result, err := svc.MergeAccounts("ghost@x.com", "login@x.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Action != "created" {
		t.Fatalf("expected created, got %s", result.Action)
	}
	if result.Email != "login@x.com" {
		t.Errorf("new user must be keyed on the login email, got %s", result.Email)
	}
	if result.Plan != plans.Starter {
		t.Errorf("new user must start on starter, got %s", result.Plan)
	}
}
