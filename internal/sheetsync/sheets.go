package sheetsync

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Row is one payment row from the tracking spreadsheet, columns A–I:
// timestamp, payment_id, email, plan, amount, currency, status,
// payment_method, source.
type Row struct {
	Timestamp     time.Time
	PaymentID     string
	Email         string
	Plan          string
	Amount        float64
	Currency      string
	Status        string
	PaymentMethod string
	Source        string
}

// RowSource fetches all payment rows currently in the sheet. Filtering
// against the checkpoint happens in the job, not here.
type RowSource interface {
	Fetch(ctx context.Context) ([]Row, error)
}

// SheetsSource reads rows from Google Sheets with a service account.
type SheetsSource struct {
	svc           *sheets.Service
	spreadsheetID string
	readRange     string
}

func NewSheetsSource(ctx context.Context, credentialsFile, spreadsheetID, readRange string) (*SheetsSource, error) {
	creds, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read service account file: %w", err)
	}
	conf, err := google.JWTConfigFromJSON(creds, sheets.SpreadsheetsReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("invalid service account credentials: %w", err)
	}
	svc, err := sheets.NewService(ctx, option.WithHTTPClient(conf.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}
	return &SheetsSource{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		readRange:     readRange,
	}, nil
}

func (s *SheetsSource) Fetch(ctx context.Context) ([]Row, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, s.readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sheet values: %w", err)
	}

	var rows []Row
	for i, values := range resp.Values {
		row, err := parseRow(values)
		if err != nil {
			// A malformed row never blocks the batch; it is logged and skipped.
			log.Printf("⚠️ Skipping sheet row %d: %v", i+2, err)
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"02/01/2006 15:04:05",
}

func parseRow(values []interface{}) (Row, error) {
	cell := func(i int) string {
		if i >= len(values) || values[i] == nil {
			return ""
		}
		return strings.TrimSpace(fmt.Sprint(values[i]))
	}

	ts, err := parseTimestamp(cell(0))
	if err != nil {
		return Row{}, err
	}

	paymentID := cell(1)
	if paymentID == "" {
		return Row{}, fmt.Errorf("missing payment_id")
	}
	email := cell(2)
	if email == "" {
		return Row{}, fmt.Errorf("missing email for payment %s", paymentID)
	}

	amount, err := strconv.ParseFloat(strings.TrimPrefix(cell(4), "₹"), 64)
	if err != nil && cell(4) != "" {
		return Row{}, fmt.Errorf("invalid amount %q for payment %s", cell(4), paymentID)
	}

	return Row{
		Timestamp:     ts,
		PaymentID:     paymentID,
		Email:         email,
		Plan:          cell(3),
		Amount:        amount,
		Currency:      cell(5),
		Status:        cell(6),
		PaymentMethod: cell(7),
		Source:        cell(8),
	}, nil
}

func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("missing timestamp")
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", s)
}
