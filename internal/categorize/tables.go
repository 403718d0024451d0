package categorize

import "github.com/shopspring/decimal"

// KeywordRule maps a merchant-text keyword to a category. Rules live in
// an ordered slice because some keywords are substrings of others; the
// first match wins and the authored order is the precedence.
type KeywordRule struct {
	Keyword  string
	Category string
}

// Tables is the immutable configuration the categorizer works from.
// Injected at construction so instances (tests included) cannot leak
// state into one another.
type Tables struct {
	Categories      []string
	CatchAll        string
	MerchantRules   []KeywordRule
	SalaryThreshold decimal.Decimal
}

// DefaultTables returns the standard category set and merchant rules.
func DefaultTables() Tables {
	return Tables{
		Categories: []string{
			"Salary",
			"Food & Dining",
			"Groceries",
			"Shopping",
			"Utilities",
			"Rent",
			"Transportation",
			"Entertainment",
			"Healthcare",
			"Investment",
			"Transfer",
			"EMI",
			"Insurance",
			"Other",
		},
		CatchAll: "Other",
		MerchantRules: []KeywordRule{
			// Food & Dining
			{"swiggy", "Food & Dining"},
			{"zomato", "Food & Dining"},
			{"dominos", "Food & Dining"},
			{"mcdonalds", "Food & Dining"},
			{"starbucks", "Food & Dining"},
			{"kfc", "Food & Dining"},

			// Groceries
			{"bigbasket", "Groceries"},
			{"blinkit", "Groceries"},
			{"zepto", "Groceries"},
			{"dmart", "Groceries"},
			{"instamart", "Groceries"},
			{"jiomart", "Groceries"},

			// Shopping
			{"amazon", "Shopping"},
			{"flipkart", "Shopping"},
			{"myntra", "Shopping"},
			{"ajio", "Shopping"},
			{"nykaa", "Shopping"},

			// Transportation
			{"uber", "Transportation"},
			{"ola", "Transportation"},
			{"rapido", "Transportation"},
			{"irctc", "Transportation"},
			{"makemytrip", "Transportation"},

			// Entertainment
			{"netflix", "Entertainment"},
			{"spotify", "Entertainment"},
			{"hotstar", "Entertainment"},
			{"bookmyshow", "Entertainment"},
			{"pvr", "Entertainment"},

			// Utilities
			{"bescom", "Utilities"},
			{"jio", "Utilities"},
			{"airtel", "Utilities"},
			{"vodafone", "Utilities"},
		},
		SalaryThreshold: decimal.NewFromInt(50000),
	}
}
