package usecase

import (
	"context"
	"errors"
	"time"

	"prisoner-finance-recon/internal/domain"
)

// ErrNotFound distinguishes a genuine absence from other upstream
// failures. Clients wrap it so callers can branch with errors.Is.
var ErrNotFound = errors.New("record not found")

// The reconciliation services depend on these interfaces, never on the
// concrete HTTP clients. Retrying and circuit breaking are the client's
// responsibility; by the time an error reaches this layer it is permanent.
//
//go:generate mockgen -destination=mocks/mock_clients.go -package=mocks -source=interface.go

// NomisClient reads from the legacy system of record.
type NomisClient interface {
	// GetPrisonIDs returns every prison id known to NOMIS. Not paged; the
	// prison population is small.
	GetPrisonIDs(ctx context.Context) ([]string, error)

	// GetPrisonBalances returns the per-account balances held against one
	// prison.
	GetPrisonBalances(ctx context.Context, prisonID string) ([]domain.AccountSummary, error)

	// GetPrisonerIDs returns one page of prisoner numbers starting after
	// lastPrisonNumber, optionally restricted to the given prison ids.
	GetPrisonerIDs(ctx context.Context, lastPrisonNumber string, pageSize int, prisonIDs []string) (domain.PrisonerPage, error)

	// GetPrisonerBalances returns a prisoner's balances normalized into
	// the common comparison shape.
	GetPrisonerBalances(ctx context.Context, prisonNumber string) (*domain.BalanceFields, error)

	// GetGeneralLedgerTransactions returns every general-ledger line posted
	// at the prison on the given date. One transaction may span several rows.
	GetGeneralLedgerTransactions(ctx context.Context, prisonID string, date time.Time) ([]domain.GeneralLedgerRow, error)

	// GetOffenderTransaction returns every row of one offender transaction.
	// An unknown transaction id surfaces as ErrNotFound.
	GetOffenderTransaction(ctx context.Context, transactionID int64) ([]domain.OffenderTransactionRow, error)
}

// DpsClient reads from the newer domain service.
type DpsClient interface {
	GetPrisonBalances(ctx context.Context, prisonID string) ([]domain.AccountSummary, error)
	GetPrisonerBalances(ctx context.Context, prisonNumber string) (*domain.BalanceFields, error)

	// GetTransaction returns ErrNotFound when DPS has no record for the
	// id, which the offender-transaction check branches on.
	GetTransaction(ctx context.Context, dpsTransactionID string) (*domain.DpsTransaction, error)
}

// MappingClient resolves NOMIS identifiers to their DPS counterparts.
type MappingClient interface {
	// LookupTransactionMapping returns (nil, nil) when no mapping exists
	// yet; an error means the lookup itself failed.
	LookupTransactionMapping(ctx context.Context, nomisTransactionID int64) (*domain.TransactionMapping, error)
}

// EventSink receives named telemetry events. Emit is fire-and-forget; the
// services never branch on its outcome. Implementations must tolerate
// concurrent calls.
type EventSink interface {
	Emit(name string, attributes map[string]string)
}
