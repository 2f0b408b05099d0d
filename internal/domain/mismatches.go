package domain

// Difference is one field-level discrepancy found by the difference engine.
// Property is a dotted path, optionally indexed, e.g.
// "prisoner-balances.accounts[2].balance". ID names the record the
// difference belongs to once differences from many records are aggregated
// into one report; prisoner-balance differences carry the prisoner number.
type Difference struct {
	Property   string  `json:"property"`
	DpsValue   any     `json:"dpsValue"`
	NomisValue any     `json:"nomisValue"`
	ID         *string `json:"id,omitempty"`
}

// BalanceVerdict classifies why a prison-level balance comparison failed.
// A prison yields at most one verdict per run, assigned in a fixed order:
// account counts first, then account-code sets, then balances.
type BalanceVerdict string

const (
	VerdictDifferentNumberOfAccounts     BalanceVerdict = "different-number-of-accounts"
	VerdictDifferentAccountCodes         BalanceVerdict = "different-account-codes"
	VerdictDifferentPrisonAccountBalance BalanceVerdict = "different-prison-account-balance"
)

// MismatchPrisonBalance is the terminal output of prison-balance
// reconciliation for one prison.
type MismatchPrisonBalance struct {
	PrisonID          string         `json:"prisonId"`
	NomisAccountCount int            `json:"nomisAccountCount"`
	DpsAccountCount   int            `json:"dpsAccountCount"`
	MissingFromNomis  []int          `json:"missingFromNomis"`
	MissingFromDps    []int          `json:"missingFromDps"`
	Verdict           BalanceVerdict `json:"verdict"`
}

// MismatchPrisonerBalance is the terminal output of prisoner-balance
// reconciliation for one prisoner, carrying both sides for inspection.
type MismatchPrisonerBalance struct {
	Nomis       BalanceFields `json:"nomis"`
	Dps         BalanceFields `json:"dps"`
	Differences []Difference  `json:"differences"`
}

// MismatchPrisonTransaction is one mismatching general-ledger transaction.
// Each map value is rendered as "nomis=<v>, dps=<v>".
type MismatchPrisonTransaction struct {
	NomisTransactionID int64             `json:"nomisTransactionId"`
	DpsTransactionID   string            `json:"dpsTransactionId"`
	Differences        map[string]string `json:"differences"`
}

// TransactionMismatchReason classifies the outcome of a targeted
// offender-transaction check.
type TransactionMismatchReason string

const (
	ReasonMappingMissing        TransactionMismatchReason = "transaction-mapping-missing"
	ReasonDpsTransactionMissing TransactionMismatchReason = "dps-transaction-missing"
	ReasonDifferentDetails      TransactionMismatchReason = "transaction-different-details"
)

// MismatchPrisonerTransaction is the outcome of a targeted
// offender-transaction check. DpsTransactionID is empty when no mapping
// exists.
type MismatchPrisonerTransaction struct {
	NomisTransactionID int64                     `json:"nomisTransactionId"`
	DpsTransactionID   string                    `json:"dpsTransactionId,omitempty"`
	Reason             TransactionMismatchReason `json:"reason"`
}
