// Package sheets appends categorized transactions to a Google Sheet,
// one tab per calendar month.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/arjunmk/mailspend/internal/domain"
	"github.com/arjunmk/mailspend/internal/logger"
)

// HeaderRow is the fixed 6-column header written to every new tab.
var HeaderRow = []interface{}{"Date", "Amount", "Credit/Debit", "Mode", "Category", "Merchant"}

// Writer is the spreadsheet sink. Tabs are created lazily on the first
// write to a not-yet-seen month.
type Writer struct {
	svc           *sheetsapi.Service
	spreadsheetID string
}

// NewWriter authenticates with the given service-account JSON and binds
// to one spreadsheet.
func NewWriter(ctx context.Context, credentialsJSON []byte, spreadsheetID string) (*Writer, error) {
	svc, err := sheetsapi.NewService(ctx,
		option.WithCredentialsJSON(credentialsJSON),
		option.WithScopes(sheetsapi.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &Writer{svc: svc, spreadsheetID: spreadsheetID}, nil
}

func (w *Writer) Name() string { return "sheets" }

// Write appends the batch to the appropriate monthly tabs. A failure on
// one month is collected and returned but does not roll back or block
// other months.
func (w *Writer) Write(ctx context.Context, txs []domain.CategorizedTransaction) (int, error) {
	if len(txs) == 0 {
		return 0, nil
	}

	log := logger.FromContext(ctx)

	labels, byMonth := groupByMonth(txs)

	existing, err := w.existingTabs(ctx)
	if err != nil {
		return 0, err
	}

	written := 0
	var errs []error
	for _, label := range labels {
		if !existing[label] {
			if err := w.createTab(ctx, label); err != nil {
				errs = append(errs, fmt.Errorf("create tab %q: %w", label, err))
				continue
			}
			existing[label] = true
			log.Info().Str("tab", label).Msg("Created monthly tab")
		}

		rows := make([][]interface{}, 0, len(byMonth[label]))
		for i := range byMonth[label] {
			rows = append(rows, FormatRow(&byMonth[label][i]))
		}

		_, err := w.svc.Spreadsheets.Values.Append(
			w.spreadsheetID,
			label+"!A:F",
			&sheetsapi.ValueRange{Values: rows},
		).ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
		if err != nil {
			errs = append(errs, fmt.Errorf("append to %q: %w", label, err))
			continue
		}

		written += len(rows)
		log.Info().Str("tab", label).Int("rows", len(rows)).Msg("Appended transactions")
	}

	return written, errors.Join(errs...)
}

func (w *Writer) existingTabs(ctx context.Context) (map[string]bool, error) {
	resp, err := w.svc.Spreadsheets.Get(w.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get spreadsheet metadata: %w", err)
	}

	names := make(map[string]bool, len(resp.Sheets))
	for _, sh := range resp.Sheets {
		if sh.Properties != nil {
			names[sh.Properties.Title] = true
		}
	}
	return names, nil
}

func (w *Writer) createTab(ctx context.Context, title string) error {
	_, err := w.svc.Spreadsheets.BatchUpdate(w.spreadsheetID, &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsapi.Request{
			{
				AddSheet: &sheetsapi.AddSheetRequest{
					Properties: &sheetsapi.SheetProperties{Title: title},
				},
			},
		},
	}).Context(ctx).Do()
	if err != nil {
		return err
	}

	_, err = w.svc.Spreadsheets.Values.Update(
		w.spreadsheetID,
		title+"!A1:F1",
		&sheetsapi.ValueRange{Values: [][]interface{}{HeaderRow}},
	).ValueInputOption("RAW").Context(ctx).Do()
	return err
}

// MonthLabel is the tab label for a timestamp, e.g. "January 2026".
func MonthLabel(t time.Time) string {
	return t.Format("January 2006")
}

// FormatRow maps a transaction onto the 6-column row layout.
func FormatRow(tx *domain.CategorizedTransaction) []interface{} {
	merchant := tx.Merchant
	if merchant == "" {
		merchant = "Unknown"
	}
	return []interface{}{
		tx.Timestamp.Format("2006-01-02 15:04"),
		tx.Amount.InexactFloat64(),
		string(tx.Direction),
		string(tx.Channel),
		tx.Category,
		merchant,
	}
}

// groupByMonth buckets transactions by tab label, preserving the order
// in which months first appear.
func groupByMonth(txs []domain.CategorizedTransaction) ([]string, map[string][]domain.CategorizedTransaction) {
	var labels []string
	byMonth := make(map[string][]domain.CategorizedTransaction)

	for _, tx := range txs {
		label := MonthLabel(tx.Timestamp)
		if _, ok := byMonth[label]; !ok {
			labels = append(labels, label)
		}
		byMonth[label] = append(byMonth[label], tx)
	}
	return labels, byMonth
}
