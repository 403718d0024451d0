// Package dedupe collapses near-duplicate transactions. A single real
// purchase often produces two notifications (email plus another bank
// channel) within minutes of each other; keying on amount, direction and
// the hour bucket absorbs that inter-channel latency without merging
// genuinely distinct transactions of the same size.
package dedupe

import (
	"fmt"

	"github.com/arjunmk/mailspend/internal/domain"
)

// Key is the coarsened identity of a transaction: amount, direction and
// the timestamp truncated to the hour.
func Key(tx *domain.CategorizedTransaction) string {
	return fmt.Sprintf("%s|%s|%s", tx.Amount.String(), tx.Direction, tx.Timestamp.Format("2006-01-02-15"))
}

// Deduplicate keeps the first occurrence of each Key in input order and
// drops the rest. Order-preserving, stable and pure; deduplicating an
// already-deduplicated slice is a no-op.
func Deduplicate(txs []domain.CategorizedTransaction) []domain.CategorizedTransaction {
	if len(txs) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(txs))
	unique := make([]domain.CategorizedTransaction, 0, len(txs))

	for i := range txs {
		key := Key(&txs[i])
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, txs[i])
	}

	return unique
}
