package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionSummary is the normalized view of one general-ledger
// transaction, identical in shape regardless of which system it came from.
type TransactionSummary struct {
	PrisonID           string             `json:"prisonId"`
	NomisTransactionID int64              `json:"nomisTransactionId"`
	Description        *string            `json:"description,omitempty"`
	TransactionType    string             `json:"transactionType"`
	Reference          *string            `json:"reference,omitempty"`
	EntryDateTime      time.Time          `json:"entryDateTime"`
	Entries            []TransactionEntry `json:"entries"`
}

// TransactionEntry is one posting line within a transaction. Amounts are
// normalized to scale 2 (half-up) before any comparison.
type TransactionEntry struct {
	AccountCode   int             `json:"accountCode"`
	PostingType   string          `json:"postingType"`
	Amount        decimal.Decimal `json:"amount"`
	EntrySequence int             `json:"entrySequence"`
}

// Equal reports full structural equality of two entries, comparing the
// amount numerically rather than by representation.
func (e TransactionEntry) Equal(other TransactionEntry) bool {
	return e.AccountCode == other.AccountCode &&
		e.PostingType == other.PostingType &&
		e.EntrySequence == other.EntrySequence &&
		e.Amount.Equal(other.Amount)
}

// GeneralLedgerRow is one flat NOMIS general-ledger line. A transaction
// with several postings arrives as several rows sharing a transaction id.
type GeneralLedgerRow struct {
	TransactionID   int64           `json:"transactionId"`
	PrisonID        string          `json:"caseloadId"`
	Description     *string         `json:"description,omitempty"`
	TransactionType string          `json:"transactionType"`
	Reference       *string         `json:"reference,omitempty"`
	EntryDateTime   time.Time       `json:"entryDateTime"`
	AccountCode     int             `json:"accountCode"`
	PostingType     string          `json:"postingType"`
	Amount          decimal.Decimal `json:"amount"`
	EntrySequence   int             `json:"entrySequence"`
}

// OffenderTransactionRow is one flat NOMIS offender-transaction line,
// shaped like a general-ledger row but keyed to a prisoner.
type OffenderTransactionRow struct {
	TransactionID   int64           `json:"transactionId"`
	PrisonNumber    string          `json:"offenderNo"`
	PrisonID        string          `json:"caseloadId"`
	Description     *string         `json:"description,omitempty"`
	TransactionType string          `json:"transactionType"`
	Reference       *string         `json:"reference,omitempty"`
	EntryDateTime   time.Time       `json:"entryDateTime"`
	AccountCode     int             `json:"accountCode"`
	PostingType     string          `json:"postingType"`
	Amount          decimal.Decimal `json:"amount"`
	EntrySequence   int             `json:"entrySequence"`
}

// DpsTransaction is a transaction as returned by the DPS API.
type DpsTransaction struct {
	ID                 string             `json:"id"`
	PrisonID           string             `json:"prisonId"`
	NomisTransactionID int64              `json:"legacyTransactionId"`
	Description        *string            `json:"description,omitempty"`
	TransactionType    string             `json:"transactionType"`
	Reference          *string            `json:"reference,omitempty"`
	EntryDateTime      time.Time          `json:"timestamp"`
	Entries            []TransactionEntry `json:"entries"`
}

// TransactionMapping associates a NOMIS transaction id with its DPS
// counterpart.
type TransactionMapping struct {
	NomisTransactionID int64  `json:"nomisTransactionId"`
	DpsTransactionID   string `json:"dpsTransactionId"`
}
