package extract

import (
	"strings"

	"github.com/arjunmk/mailspend/internal/domain"
)

// inferDirection decides Credit vs Debit. The rule name is consulted
// first (it encodes what the pattern author knew about the format), then
// the text itself. Ambiguous text defaults to Debit: debits dominate
// real traffic, so that is the safer guess for an unlabeled case.
func inferDirection(ruleName, text string) domain.Direction {
	name := strings.ToLower(ruleName)
	lower := strings.ToLower(text)

	if strings.Contains(name, "credit") || strings.Contains(name, "payment") {
		return domain.DirectionCredit
	}
	if strings.Contains(name, "debit") || strings.Contains(name, "spend") {
		return domain.DirectionDebit
	}

	if containsAny(lower, "credited", "received", "payment") {
		return domain.DirectionCredit
	}
	if containsAny(lower, "debited", "spent", "paid", "withdrawn") {
		return domain.DirectionDebit
	}

	return domain.DirectionDebit
}

// inferChannel keyword-scans the full normalized text, independent of
// which rule matched the amount.
func inferChannel(text string) domain.Channel {
	lower := strings.ToLower(text)

	switch {
	case containsAny(lower, "upi", "vpa", "@"):
		return domain.ChannelUPI
	case containsAny(lower, "card", "pos", "atm"):
		return domain.ChannelCard
	case containsAny(lower, "neft", "imps", "rtgs"):
		return domain.ChannelBankTransfer
	case containsAny(lower, "paytm", "wallet"):
		return domain.ChannelWallet
	}
	return domain.ChannelUnknown
}

func containsAny(s string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
