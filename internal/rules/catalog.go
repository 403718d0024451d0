// Package rules holds the extraction rule catalog: one named regex per
// bank/channel/format combination. The catalog is an ordered slice, not a
// map. Rules are tried top to bottom and the first match wins, so the
// declaration order below encodes precedence between overlapping rules.
package rules

import "regexp"

// Rule is a single extraction rule. Group 1 of the pattern captures the
// amount; group 2, when declared, captures the merchant/counterparty.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
}

// compile prefixes every pattern with (?is): matching is case-insensitive
// and patterns may span lines.
func compile(name, pattern string) Rule {
	return Rule{Name: name, Pattern: regexp.MustCompile(`(?is)` + pattern)}
}

// Body returns the body-scoped catalog in precedence order.
func Body() []Rule {
	return bodyCatalog
}

// Subject returns the subject-scoped catalog, used as a fallback for
// emails whose body is unusable (heavy HTML) but whose subject line
// carries the amount.
func Subject() []Rule {
	return subjectCatalog
}

var bodyCatalog = []Rule{
	// HDFC
	compile("hdfc-debit-upi", `Rs\.?\s*(\d+[\d,]*\.?\d*)\s+(?:has been |)debited.*?(?:VPA|UPI)[:\s]+(\S+)`),
	compile("hdfc-debit-card", `Rs\.?\s*(\d+[\d,]*\.?\d*)\s+(?:has been |)(?:spent|debited).*?(?:card|Card).*?(?:at|for)\s+(.+?)(?:\s+on|\.|$)`),
	compile("hdfc-credit", `Rs\.?\s*(\d+[\d,]*\.?\d*)\s+(?:has been |)credited.*?(?:from|by)\s+(.+?)(?:\s+on|\.|$)`),
	compile("hdfc-cc-debit", `Rs\.?\s*(\d+[\d,]*\.?\d*)\s+(?:is |)debited from your HDFC Bank Credit Card.*?towards\s+(.+?)(?:\s+on|\.|$)`),
	compile("hdfc-netbanking", `(?:payment of|NetBanking for payment of)\s+Rs\.?\s*(\d+[\d,]*\.?\d*)\s+from\s+A/c\s+\S+\s+to\s+(.+?)(?:\s+Not|$)`),
	compile("hdfc-neft", `Rs\.?\s*(\d+[\d,]*\.?\d*)\s+has been deducted from your HDFC Bank account.*?for a transfer to payee\s+(.+?)\s+via\s+(?:NEFT|IMPS|RTGS)`),

	// ICICI (including credit cards)
	compile("icici-debit", `debited\s+(?:for\s+)?(?:INR|Rs\.?)\s*(\d+[\d,]*\.?\d*).*?(?:Info[:\s]+)?(.+?)(?:\.|$)`),
	compile("icici-credit", `credited\s+(?:with\s+)?(?:INR|Rs\.?)\s*(\d+[\d,]*\.?\d*)`),
	compile("icici-card", `(?:INR|Rs\.?)\s*(\d+[\d,]*\.?\d*)\s+(?:spent|charged|was used).*?(?:at|on)\s+(.+?)(?:\s+on|\.|$)`),

	// Axis Bank
	compile("axis-debit", `(?:INR|Rs\.?)\s*(\d+[\d,]*\.?\d*)\s+(?:debited|spent).*?(?:at|to|for)\s+(.+?)(?:\s+on|\.|$)`),
	compile("axis-credit", `(?:INR|Rs\.?)\s*(\d+[\d,]*\.?\d*)\s+(?:credited|received)`),
	compile("axis-credit-subject", `(?:INR|Rs\.?)\s*(\d+[\d,]*\.?\d*)\s+was credited to your A/c`),
	compile("axis-credit-body", `Amount Credited:\s*(?:INR|Rs\.?)\s*(\d+[\d,]*\.?\d*)`),
	compile("axis-cc-html-body", `Transaction Amount:\s*(?:INR|USD)\s*&nbsp;\s*(\d+[\d,]*\.?\d*)\s*Merchant Name:\s*(.+?)\s+Axis Bank`),
	compile("axis-debit-alert", `A/c no\.\s+\S+\s+has been debited with\s+(?:INR|Rs\.?)\s*(\d+[\d,]*\.?\d*)`),
	compile("axis-autopay", `AutoPay transaction.*?Transaction Amount:\s*(USD|INR)\s*(\d+[\d,]*\.?\d*)\s*Merchant Name:\s*(.+?)\s+(?:Axis|Auto)`),

	// IndusInd Bank
	compile("indusind-debit", `(?:INR|Rs\.?)\s*(\d+[\d,]*\.?\d*)\s+(?:has been |)(?:debited|spent|withdrawn).*?(?:at|to|for|Info[:\s]+)\s*(.+?)(?:\s+on|\.|Avl|$)`),
	compile("indusind-credit", `(?:INR|Rs\.?)\s*(\d+[\d,]*\.?\d*)\s+(?:has been |)credited.*?(?:from|by)\s+(.+?)(?:\s+on|\.|$)`),
	compile("indusind-upi", `(?:INR|Rs\.?)\s*(\d+[\d,]*\.?\d*)\s+.*?(?:UPI|VPA)[:\s]+(\S+)`),
	compile("indusind-payment", `Payment of INR\s+(\d+[\d,]*\.?\d*)\s+towards your IndusInd Bank Credit Card`),

	// American Express (India, INR only)
	compile("amex-spend", `(?:INR|Rs\.?)\s*(\d+[\d,]*\.?\d*)\s+(?:was |has been |)(?:spent|charged|used).*?(?:at|on)\s+(.+?)(?:\s+on|\.|$)`),
	compile("amex-payment", `(?:payment|Payment)\s+(?:of\s+)?(?:INR|Rs\.?)\s*(\d+[\d,]*\.?\d*)\s+(?:received|credited)`),
	compile("amex-transaction", `(?:Card|card)\s+.*?(?:ending|xxxx)\s*\d+.*?(?:INR|Rs\.?)\s*(\d+[\d,]*\.?\d*)\s+(?:at|on)\s+(.+?)(?:\.|$)`),

	// Generic UPI
	compile("upi-debit", `(?:paid|sent|debited)\s+(?:Rs\.?|₹)\s*(\d+[\d,]*\.?\d*)\s+(?:to|for)\s+(.+?)(?:\s+via|\s+using|\s+on|$)`),
	compile("upi-credit", `(?:received|credited)\s+(?:Rs\.?|₹)\s*(\d+[\d,]*\.?\d*)\s+from\s+(.+?)(?:\s+via|\s+on|$)`),

	// PhonePe
	compile("phonepe", `(?:Paid|Sent)\s+Rs\.?\s*(\d+[\d,]*\.?\d*)\s+to\s+(.+?)\s+(?:on|via)`),

	// Paytm
	compile("paytm", `Paytm.*?(?:Paid|Sent)\s+Rs\.?\s*(\d+[\d,]*\.?\d*)\s+to\s+(.+)`),
}

var subjectCatalog = []Rule{
	compile("axis-cc-subject-inr", `(?:INR|Rs\.?)\s*(\d+[\d,]*\.?\d*)\s+spent on credit card`),
	compile("axis-cc-subject-usd", `(USD)\s+(\d+[\d,]*\.?\d*)\s+spent on credit card`),
}

// BankSenders is the allowlist of senders whose mail is considered for
// extraction. Anything else in the mailbox is skipped by the fetcher.
var BankSenders = []string{
	// HDFC
	"alerts@hdfcbank.net",
	"alerts.cards@hdfcbank.net",

	// ICICI
	"credit_cards@icicibank.com",
	"noreply@icicibank.com",
	"transaction@icicibank.com",

	// Axis
	"alerts@axis.bank.in",
	"alerts@axisbank.com",
	"noreply@axisbank.co.in",

	// IndusInd
	"transactionalert@indusind.com",

	// American Express
	"AmericanExpress@welcome.americanexpress.com",

	// UPI apps (GPay rides on bank backends)
	"no-reply@phonepe.com",
	"noreply@paytm.com",
	"noreply@okaxis.com",
	"noreply@okhdfcbank.com",
	"noreply@okicici.com",
}
