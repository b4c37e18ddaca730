package sheetsync

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"hustlehack-backend/internal/domain/billing"
	"hustlehack-backend/internal/domain/plans"
	"hustlehack-backend/internal/domain/users"
	"hustlehack-backend/internal/reconcile"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeSource struct {
	rows []Row
}

func (f *fakeSource) Fetch(ctx context.Context) ([]Row, error) {
	return f.rows, nil
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&users.User{}, &billing.Payment{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func sheetRow(paymentID string) Row {
	return Row{
		Timestamp:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		PaymentID:     paymentID,
		Email:         "u@test.com",
		Plan:          "creator",
		Amount:        199,
		Currency:      "INR",
		Status:        "completed",
		PaymentMethod: "UPI",
		Source:        "sheet",
	}
}

func TestJob_FirstRunProcessesRow(t *testing.T) {
	db := openTestDB(t)
	svc := reconcile.NewService(db)
	cp := &FileCheckpoint{Path: filepath.Join(t.TempDir(), "checkpoint")}
	job := NewJob(svc, &fakeSource{rows: []Row{sheetRow("pay_abc")}}, cp)

	result, err := job.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Processed != 1 || result.Skipped != 0 || result.Errors != 0 {
		t.Errorf("expected 1/0/0, got %d/%d/%d", result.Processed, result.Skipped, result.Errors)
	}
	if len(result.Details) != 1 || result.Details[0].Status != "processed" {
		t.Errorf("expected one processed detail, got %+v", result.Details)
	}

	var user users.User
	if err := db.Where("email = ?", "u@test.com").First(&user).Error; err != nil {
		t.Fatalf("expected user created: %v", err)
	}
	if user.Plan != plans.Creator {
		t.Errorf("plan column must be honored, got %s", user.Plan)
	}

	// Checkpoint moved to now, past the row's timestamp.
	saved, err := cp.Load()
	if err != nil {
		t.Fatalf("checkpoint load failed: %v", err)
	}
	if !saved.After(sheetRow("pay_abc").Timestamp) {
		t.Errorf("checkpoint %v must be past the processed row", saved)
	}
}

func TestJob_SecondRunFilteredByCheckpoint(t *testing.T) {
	db := openTestDB(t)
	svc := reconcile.NewService(db)
	cp := &FileCheckpoint{Path: filepath.Join(t.TempDir(), "checkpoint")}
	job := NewJob(svc, &fakeSource{rows: []Row{sheetRow("pay_abc")}}, cp)

	if _, err := job.Run(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}

	second, err := job.Run(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	// The checkpoint filter keeps old rows out entirely: nothing processed,
	// nothing even reaches the duplicate guard.
	if second.Processed != 0 || second.Skipped != 0 || second.Errors != 0 {
		t.Errorf("expected 0/0/0 on a fully-synced sheet, got %d/%d/%d",
			second.Processed, second.Skipped, second.Errors)
	}
}

func TestJob_RerunWithoutCheckpointHitsDuplicateGuard(t *testing.T) {
	db := openTestDB(t)
	svc := reconcile.NewService(db)

	// Two runs with independent checkpoint files model a crash where the
	// batch finished but the checkpoint write was lost: rows come back and
	// land on the duplicate guard.
	first := NewJob(svc, &fakeSource{rows: []Row{sheetRow("pay_abc")}},
		&FileCheckpoint{Path: filepath.Join(t.TempDir(), "checkpoint")})
	if res, err := first.Run(context.Background()); err != nil || res.Processed != 1 {
		t.Fatalf("first run: processed=%d err=%v", res.Processed, err)
	}

	second := NewJob(svc, &fakeSource{rows: []Row{sheetRow("pay_abc")}},
		&FileCheckpoint{Path: filepath.Join(t.TempDir(), "checkpoint")})
	res, err := second.Run(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if res.Processed != 0 || res.Skipped != 1 {
		t.Errorf("expected processed=0 skipped=1, got processed=%d skipped=%d",
			res.Processed, res.Skipped)
	}

	var count int64
	db.Model(&billing.Payment{}).Count(&count)
	if count != 1 {
		t.Errorf("expected exactly 1 payment row, got %d", count)
	}
}

func TestJob_UnknownPlanFallsBackToAmount(t *testing.T) {
	db := openTestDB(t)
	svc := reconcile.NewService(db)
	cp := &FileCheckpoint{Path: filepath.Join(t.TempDir(), "checkpoint")}

	row := sheetRow("pay_amount")
	row.Plan = "not-a-plan"
	row.Amount = 299
	job := NewJob(svc, &fakeSource{rows: []Row{row}}, cp)

	if _, err := job.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var user users.User
	if err := db.Where("email = ?", "u@test.com").First(&user).Error; err != nil {
		t.Fatalf("expected user created: %v", err)
	}
	if user.Plan != plans.Pro {
		t.Errorf("amount 299 must map to pro when the plan column is unusable, got %s", user.Plan)
	}
}

func TestJob_MixedBatchCounts(t *testing.T) {
	db := openTestDB(t)
	svc := reconcile.NewService(db)

	// Pre-record one of the rows through the pipeline directly, as if the
	// webhook got to it first.
	pre := sheetRow("pay_seen")
	if _, err := svc.Process(reconcile.Payment{
		PaymentIntentID: pre.PaymentID,
		Email:           pre.Email,
		Plan:            plans.Creator,
		Amount:          pre.Amount,
		Currency:        pre.Currency,
		Status:          pre.Status,
	}); err != nil {
		t.Fatalf("failed to pre-record: %v", err)
	}

	job := NewJob(svc, &fakeSource{rows: []Row{pre, sheetRow("pay_new")}},
		&FileCheckpoint{Path: filepath.Join(t.TempDir(), "checkpoint")})

	result, err := job.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Processed != 1 || result.Skipped != 1 || result.Errors != 0 {
		t.Errorf("expected 1 processed / 1 skipped, got %d/%d/%d",
			result.Processed, result.Skipped, result.Errors)
	}
}
