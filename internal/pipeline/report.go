package pipeline

import (
	"github.com/shopspring/decimal"

	"github.com/arjunmk/mailspend/internal/domain"
)

// Report aggregates per-stage counts and per-direction/per-category
// sums for the run summary.
type Report struct {
	RunID      string
	Fetched    int
	Extracted  int
	Unmatched  int
	AfterDedup int
	Written    int

	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
	ByCategory  map[string]int
}

// BuildReport summarizes a finished (or failed partway) run.
func BuildReport(state *State) *Report {
	r := &Report{
		RunID:       state.RunID,
		Fetched:     len(state.Messages),
		Extracted:   len(state.Extracted),
		Unmatched:   len(state.Unmatched),
		AfterDedup:  len(state.Deduplicated),
		Written:     state.Written,
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
		ByCategory:  make(map[string]int),
	}

	for i := range state.Deduplicated {
		tx := &state.Deduplicated[i]
		r.ByCategory[tx.Category]++
		if tx.Direction == domain.DirectionDebit {
			r.TotalDebit = r.TotalDebit.Add(tx.Amount)
		} else {
			r.TotalCredit = r.TotalCredit.Add(tx.Amount)
		}
	}

	return r
}

// Net is total credits minus total debits.
func (r *Report) Net() decimal.Decimal {
	return r.TotalCredit.Sub(r.TotalDebit)
}
