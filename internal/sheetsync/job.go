package sheetsync

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"hustlehack-backend/internal/domain/plans"
	"hustlehack-backend/internal/reconcile"
)

// RowResult is the per-row detail for operator visibility.
type RowResult struct {
	PaymentID string `json:"payment_id"`
	Status    string `json:"status"` // processed | skipped | error
	UserID    string `json:"user_id,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// Result is the aggregate outcome of one sync run.
type Result struct {
	Processed int         `json:"processed"`
	Skipped   int         `json:"skipped"`
	Errors    int         `json:"errors"`
	Details   []RowResult `json:"details"`
}

// Job pulls payment rows from the spreadsheet and feeds them through the
// same pipeline as the webhook handler.
type Job struct {
	svc         *reconcile.Service
	source      RowSource
	checkpoints CheckpointStore
}

func NewJob(svc *reconcile.Service, source RowSource, checkpoints CheckpointStore) *Job {
	return &Job{svc: svc, source: source, checkpoints: checkpoints}
}

// Run executes one sync batch: rows with a timestamp strictly after the
// checkpoint go through guard → resolve → record, then the checkpoint moves
// to now.
//
// The checkpoint advances even when some rows errored, so a failed row is
// not retried on the next run. Rows that slip through (e.g. a crash before
// the checkpoint write) are reprocessed and land on the duplicate guard.
func (j *Job) Run(ctx context.Context) (Result, error) {
	since, err := j.checkpoints.Load()
	if err != nil {
		return Result{}, err
	}

	rows, err := j.source.Fetch(ctx)
	if err != nil {
		return Result{}, err
	}

	result := Result{Details: []RowResult{}}
	for _, row := range rows {
		if !row.Timestamp.After(since) {
			continue
		}

		outcome, err := j.svc.Process(normalizeRow(row))
		switch {
		case err != nil:
			log.Printf("❌ Sync failed for payment %s: %v", row.PaymentID, err)
			result.Errors++
			result.Details = append(result.Details, RowResult{
				PaymentID: row.PaymentID,
				Status:    "error",
				Reason:    err.Error(),
			})
		case outcome.Duplicate:
			result.Skipped++
			result.Details = append(result.Details, RowResult{
				PaymentID: row.PaymentID,
				Status:    "skipped",
				Reason:    "already processed",
			})
		default:
			result.Processed++
			result.Details = append(result.Details, RowResult{
				PaymentID: row.PaymentID,
				Status:    "processed",
				UserID:    outcome.User.ID,
			})
		}
	}

	if err := j.checkpoints.Save(time.Now()); err != nil {
		return result, err
	}

	log.Printf("📊 Sheet sync done: %d processed, %d skipped, %d errors",
		result.Processed, result.Skipped, result.Errors)
	return result, nil
}

// normalizeRow maps a sheet row onto the pipeline shape. The plan column is
// authoritative when it names a known plan; otherwise the amount table
// decides, same as the webhook path.
func normalizeRow(row Row) reconcile.Payment {
	plan := plans.Normalize(row.Plan)
	if plan == "" {
		plan = plans.FromAmount(row.Amount)
	}

	status := row.Status
	if status == "" {
		status = "completed"
	}
	currency := row.Currency
	if currency == "" {
		currency = "INR"
	}

	raw, _ := json.Marshal(map[string]interface{}{
		"timestamp":      row.Timestamp,
		"payment_id":     row.PaymentID,
		"email":          row.Email,
		"plan":           row.Plan,
		"amount":         row.Amount,
		"currency":       row.Currency,
		"status":         row.Status,
		"payment_method": row.PaymentMethod,
		"source":         row.Source,
	})

	return reconcile.Payment{
		PaymentIntentID: row.PaymentID,
		Email:           row.Email,
		Plan:            plan,
		Amount:          row.Amount,
		Currency:        currency,
		Status:          status,
		PaymentMethod:   row.PaymentMethod,
		GatewayResponse: raw,
		CreatedAt:       row.Timestamp,
	}
}
