package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction says whether money left or arrived.
type Direction string

const (
	DirectionCredit Direction = "Credit"
	DirectionDebit  Direction = "Debit"
)

// Channel is the payment rail a transaction used.
type Channel string

const (
	ChannelUPI          Channel = "UPI"
	ChannelCard         Channel = "Card"
	ChannelBankTransfer Channel = "NEFT"
	ChannelWallet       Channel = "Wallet"
	ChannelUnknown      Channel = "Unknown"
)

// RawMessage is one notification email as delivered by the mail fetcher.
// Body is already plain text: multipart decoded, HTML stripped, lossy UTF-8.
type RawMessage struct {
	Subject   string
	Sender    string
	Body      string
	Timestamp time.Time
}

// Transaction is one extracted transaction. Amount is always positive;
// extraction fails instead of constructing a zero or negative record.
// Merchant is best-effort and may be empty.
type Transaction struct {
	Amount        decimal.Decimal
	Direction     Direction
	Channel       Channel
	Merchant      string
	Timestamp     time.Time // copied from the source message, not parse time
	SourceExcerpt string    // first 200 chars of raw text, for audit
}

// CategorizedTransaction is a Transaction plus its spending category.
// Category is always a member of the fixed category set.
type CategorizedTransaction struct {
	Transaction
	Category string
}
