// Package notion mirrors written transactions into a Notion database,
// one page per transaction.
package notion

import (
	"context"
	"errors"
	"fmt"

	"github.com/jomei/notionapi"

	"github.com/arjunmk/mailspend/internal/domain"
)

// Sink is an optional secondary sink backed by the Notion API.
type Sink struct {
	client     *notionapi.Client
	databaseID string
}

// NewSink builds a Sink for the given integration token and database.
func NewSink(token, databaseID string) *Sink {
	return &Sink{
		client:     notionapi.NewClient(notionapi.Token(token)),
		databaseID: databaseID,
	}
}

func (s *Sink) Name() string { return "notion" }

// Write creates one page per transaction. Individual page failures are
// collected; the rest of the batch still goes through.
func (s *Sink) Write(ctx context.Context, txs []domain.CategorizedTransaction) (int, error) {
	written := 0
	var errs []error

	for i := range txs {
		req := &notionapi.PageCreateRequest{
			Parent: notionapi.Parent{
				Type:       notionapi.ParentTypeDatabaseID,
				DatabaseID: notionapi.DatabaseID(s.databaseID),
			},
			Properties: transactionProperties(&txs[i]),
		}

		if _, err := s.client.Page.Create(ctx, req); err != nil {
			errs = append(errs, fmt.Errorf("create page for %q: %w", txs[i].Merchant, err))
			continue
		}
		written++
	}

	return written, errors.Join(errs...)
}

// transactionProperties maps a transaction onto the Notion database
// schema: Merchant (title), Amount, Credit/Debit, Mode, Category, Date.
func transactionProperties(tx *domain.CategorizedTransaction) notionapi.Properties {
	merchant := tx.Merchant
	if merchant == "" {
		merchant = "Unknown"
	}

	date := notionapi.Date(tx.Timestamp)

	return notionapi.Properties{
		"Merchant": notionapi.TitleProperty{
			Title: []notionapi.RichText{
				{
					Type: notionapi.ObjectTypeText,
					Text: &notionapi.Text{Content: merchant},
				},
			},
		},
		"Amount": notionapi.NumberProperty{
			Number: tx.Amount.InexactFloat64(),
		},
		"Credit/Debit": notionapi.SelectProperty{
			Select: notionapi.Option{Name: string(tx.Direction)},
		},
		"Mode": notionapi.SelectProperty{
			Select: notionapi.Option{Name: string(tx.Channel)},
		},
		"Category": notionapi.SelectProperty{
			Select: notionapi.Option{Name: tx.Category},
		},
		"Date": notionapi.DateProperty{
			Date: &notionapi.DateObject{Start: &date},
		},
	}
}
