package domain

import "github.com/shopspring/decimal"

// AccountSummary is one ledger account's balance as reported by either
// system at prison level.
type AccountSummary struct {
	AccountCode int             `json:"accountCode"`
	Balance     decimal.Decimal `json:"balance"`
}

// BalanceFields is a prisoner's full balance picture from one system,
// normalized so NOMIS and DPS responses compare shape-for-shape.
type BalanceFields struct {
	PrisonNumber string          `json:"prisonNumber"`
	Accounts     []AccountFields `json:"accounts"`
}

// AccountFields is one account entry within a prisoner's balances.
// HoldBalance is nil when the source system omitted it.
type AccountFields struct {
	PrisonID    string           `json:"prisonId"`
	Balance     decimal.Decimal  `json:"balance"`
	HoldBalance *decimal.Decimal `json:"holdBalance,omitempty"`
	AccountCode int              `json:"accountCode"`
}
