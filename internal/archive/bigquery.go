// Package archive streams each run's final batch into BigQuery, keeping
// a queryable history alongside the spreadsheet.
package archive

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"

	"github.com/arjunmk/mailspend/internal/domain"
)

const tableID = "transactions"

// Row is the BigQuery schema for one archived transaction.
type Row struct {
	RunID         string            `bigquery:"run_id"`
	PostedTS      time.Time         `bigquery:"posted_ts"`
	PostedDate    bigquery.NullDate `bigquery:"posted_date"`
	Amount        float64           `bigquery:"amount"`
	Direction     string            `bigquery:"direction"`
	Channel       string            `bigquery:"channel"`
	Category      string            `bigquery:"category"`
	Merchant      string            `bigquery:"merchant"`
	SourceExcerpt string            `bigquery:"source_excerpt"`
}

// BigQueryArchive is an optional sink writing to <dataset>.transactions.
type BigQueryArchive struct {
	project string
	dataset string
	runID   string
}

// New binds the archive to a project, dataset and run.
func New(project, dataset, runID string) *BigQueryArchive {
	return &BigQueryArchive{project: project, dataset: dataset, runID: runID}
}

func (a *BigQueryArchive) Name() string { return "bigquery" }

// Write streams the batch into the transactions table.
func (a *BigQueryArchive) Write(ctx context.Context, txs []domain.CategorizedTransaction) (int, error) {
	if len(txs) == 0 {
		return 0, nil
	}

	client, err := bigquery.NewClient(ctx, a.project)
	if err != nil {
		return 0, fmt.Errorf("bigquery client: %w", err)
	}
	defer client.Close()

	rows := make([]*Row, 0, len(txs))
	for i := range txs {
		tx := &txs[i]
		rows = append(rows, &Row{
			RunID:         a.runID,
			PostedTS:      tx.Timestamp,
			PostedDate:    bigquery.NullDate{Date: civil.DateOf(tx.Timestamp), Valid: true},
			Amount:        tx.Amount.InexactFloat64(),
			Direction:     string(tx.Direction),
			Channel:       string(tx.Channel),
			Category:      tx.Category,
			Merchant:      tx.Merchant,
			SourceExcerpt: tx.SourceExcerpt,
		})
	}

	inserter := client.Dataset(a.dataset).Table(tableID).Inserter()
	if err := inserter.Put(ctx, rows); err != nil {
		return 0, fmt.Errorf("insert rows: %w", err)
	}

	return len(rows), nil
}
