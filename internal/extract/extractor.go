// Package extract turns raw notification text into typed transactions by
// matching it against the rule catalog.
package extract

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/arjunmk/mailspend/internal/domain"
	"github.com/arjunmk/mailspend/internal/rules"
)

// ErrNoMatch reports that no rule in either catalog matched. This is an
// expected outcome for non-transaction mail, not a failure; callers
// aggregate unmatched messages instead of treating them as errors.
var ErrNoMatch = errors.New("no extraction rule matched")

const excerptLen = 200

// Extractor applies the rule catalogs in declaration order.
type Extractor struct {
	body    []rules.Rule
	subject []rules.Rule
}

// New returns an Extractor over the standard catalogs.
func New() *Extractor {
	return NewWithCatalogs(rules.Body(), rules.Subject())
}

// NewWithCatalogs returns an Extractor over custom catalogs. Tests use
// this to pin precedence behavior with small rule sets.
func NewWithCatalogs(body, subject []rules.Rule) *Extractor {
	return &Extractor{body: body, subject: subject}
}

// Extract matches the normalized body against the body catalog, then the
// normalized subject against the subject catalog, and builds a
// Transaction from the first successful match. A rule whose amount group
// fails to parse as a positive decimal is treated as a non-match and the
// scan continues with the next rule.
func (e *Extractor) Extract(body, subject string, ts time.Time) (*domain.Transaction, error) {
	if tx := tryCatalog(e.body, Normalize(body), body, ts); tx != nil {
		return tx, nil
	}
	if tx := tryCatalog(e.subject, Normalize(subject), subject, ts); tx != nil {
		return tx, nil
	}
	return nil, ErrNoMatch
}

func tryCatalog(catalog []rules.Rule, text, raw string, ts time.Time) *domain.Transaction {
	if text == "" {
		return nil
	}

	for _, r := range catalog {
		m := r.Pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}

		amount, err := decimal.NewFromString(m[1])
		if err != nil || amount.Sign() <= 0 {
			// Malformed or non-positive amount capture: this rule did
			// not really match, keep scanning.
			continue
		}

		merchant := ""
		if len(m) >= 3 {
			merchant = CleanMerchant(m[2])
		}

		return &domain.Transaction{
			Amount:        amount,
			Direction:     inferDirection(r.Name, text),
			Channel:       inferChannel(text),
			Merchant:      merchant,
			Timestamp:     ts,
			SourceExcerpt: excerpt(raw),
		}
	}
	return nil
}

func excerpt(raw string) string {
	runes := []rune(raw)
	if len(runes) <= excerptLen {
		return raw
	}
	return string(runes[:excerptLen])
}
