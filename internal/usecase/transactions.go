package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"prisoner-finance-recon/internal/compare"
	"prisoner-finance-recon/internal/domain"
)

// ErrTransactionNotFound is returned by the manual single-transaction
// checks when the target transaction does not exist on the NOMIS side. A
// human operator triggered the check and needs to know the target is
// absent, so this surfaces instead of being swallowed.
var ErrTransactionNotFound = errors.New("transaction not found")

// TransactionReconciliation compares general-ledger and offender
// transactions between NOMIS and DPS.
type TransactionReconciliation struct {
	nomis   NomisClient
	dps     DpsClient
	mapping MappingClient
	events  EventSink
	log     *zap.Logger
}

// NewTransactionReconciliation creates the transaction reconciliation
// service.
func NewTransactionReconciliation(nomis NomisClient, dps DpsClient, mapping MappingClient, events EventSink, log *zap.Logger) *TransactionReconciliation {
	return &TransactionReconciliation{
		nomis:   nomis,
		dps:     dps,
		mapping: mapping,
		events:  events,
		log:     log.With(zap.String("component", "transaction-reconciliation")),
	}
}

// GeneratePrisonTransactionsReport reconciles every general-ledger
// transaction posted at one prison on one date, reporting through
// telemetry only.
func (s *TransactionReconciliation) GeneratePrisonTransactionsReport(ctx context.Context, prisonID string, date time.Time) {
	runID := uuid.NewString()
	started := time.Now()
	result, err := s.prisonTransactionsReport(ctx, prisonID, date)
	if err != nil {
		s.log.Error("prison transaction reconciliation failed",
			zap.String("run_id", runID), zap.String("prison_id", prisonID), zap.Error(err))
		s.events.Emit("prison-transaction-reconciliation-report", map[string]string{
			"run-id":    runID,
			"prison-id": prisonID,
			"date":      date.Format(time.DateOnly),
			"success":   "false",
			"error":     err.Error(),
		})
		return
	}

	s.log.Info("prison transaction reconciliation finished",
		zap.String("run_id", runID),
		zap.String("prison_id", prisonID),
		zap.Int("items_checked", result.ItemsChecked),
		zap.Int("items_errored", result.ItemsErrored),
		zap.Int("mismatches", len(result.Mismatches)),
		zap.Duration("duration", time.Since(started)))
	s.events.Emit("prison-transaction-reconciliation-report", map[string]string{
		"run-id":         runID,
		"prison-id":      prisonID,
		"date":           date.Format(time.DateOnly),
		"success":        "true",
		"items-checked":  strconv.Itoa(result.ItemsChecked),
		"items-errored":  strconv.Itoa(result.ItemsErrored),
		"mismatch-count": strconv.Itoa(len(result.Mismatches)),
	})
}

func (s *TransactionReconciliation) prisonTransactionsReport(ctx context.Context, prisonID string, date time.Time) (domain.ReconciliationResult[domain.MismatchPrisonTransaction], error) {
	result := domain.ReconciliationResult[domain.MismatchPrisonTransaction]{Mismatches: []domain.MismatchPrisonTransaction{}}

	rows, err := s.nomis.GetGeneralLedgerTransactions(ctx, prisonID, date)
	if err != nil {
		return result, fmt.Errorf("fetching general ledger transactions for %s on %s: %w", prisonID, date.Format(time.DateOnly), err)
	}

	for _, group := range groupGeneralLedgerRows(rows) {
		mismatch, checkErr := s.checkTransactionGroup(ctx, group)
		if checkErr != nil {
			result.ItemsErrored++
			s.log.Warn("prison transaction check failed",
				zap.Int64("nomis_transaction_id", group[0].TransactionID), zap.Error(checkErr))
			s.events.Emit("prison-transaction-check-failed", map[string]string{
				"nomis-transaction-id": strconv.FormatInt(group[0].TransactionID, 10),
				"error":                checkErr.Error(),
			})
			continue
		}
		result.ItemsChecked++
		if mismatch != nil {
			result.Mismatches = append(result.Mismatches, *mismatch)
		}
	}
	return result, nil
}

// CheckPrisonTransactionMatch reconciles a single general-ledger
// transaction, for manual re-runs. Returns ErrTransactionNotFound when no
// row for the id was posted at the prison on that date.
func (s *TransactionReconciliation) CheckPrisonTransactionMatch(ctx context.Context, prisonID string, date time.Time, transactionID int64) (*domain.MismatchPrisonTransaction, error) {
	rows, err := s.nomis.GetGeneralLedgerTransactions(ctx, prisonID, date)
	if err != nil {
		return nil, fmt.Errorf("fetching general ledger transactions for %s on %s: %w", prisonID, date.Format(time.DateOnly), err)
	}
	var group []domain.GeneralLedgerRow
	for _, row := range rows {
		if row.TransactionID == transactionID {
			group = append(group, row)
		}
	}
	if len(group) == 0 {
		return nil, fmt.Errorf("transaction %d at %s on %s: %w", transactionID, prisonID, date.Format(time.DateOnly), ErrTransactionNotFound)
	}
	return s.checkTransactionGroup(ctx, group)
}

// checkTransactionGroup compares one NOMIS transaction (all its rows)
// against its DPS counterpart. A missing mapping is telemetered and yields
// no mismatch record; there is nothing to diff against.
func (s *TransactionReconciliation) checkTransactionGroup(ctx context.Context, group []domain.GeneralLedgerRow) (*domain.MismatchPrisonTransaction, error) {
	nomisSummary := normalizeGeneralLedger(group)

	mapping, err := s.mapping.LookupTransactionMapping(ctx, nomisSummary.NomisTransactionID)
	if err != nil {
		return nil, fmt.Errorf("looking up mapping for transaction %d: %w", nomisSummary.NomisTransactionID, err)
	}
	if mapping == nil {
		s.events.Emit("prison-transaction-mapping-missing", map[string]string{
			"nomis-transaction-id": strconv.FormatInt(nomisSummary.NomisTransactionID, 10),
			"prison-id":            nomisSummary.PrisonID,
		})
		return nil, nil
	}

	dpsTransaction, err := s.dps.GetTransaction(ctx, mapping.DpsTransactionID)
	if err != nil {
		return nil, fmt.Errorf("fetching DPS transaction %s: %w", mapping.DpsTransactionID, err)
	}
	dpsSummary := normalizeDpsTransaction(dpsTransaction)

	differences := compareTransactionSummaries(dpsSummary, nomisSummary)
	if len(differences) == 0 {
		return nil, nil
	}
	return &domain.MismatchPrisonTransaction{
		NomisTransactionID: nomisSummary.NomisTransactionID,
		DpsTransactionID:   mapping.DpsTransactionID,
		Differences:        differences,
	}, nil
}

// compareTransactionSummaries diffs two normalized transactions in a fixed
// field order, accumulating every difference rather than stopping at the
// first. Entry lists are only compared element-wise when their counts
// match, and any entry-level differences collapse into a single synthetic
// "entries" difference.
func compareTransactionSummaries(dps, nomis domain.TransactionSummary) map[string]string {
	differences := make(map[string]string)

	if len(dps.Entries) != len(nomis.Entries) {
		differences["entryCount"] = renderDifference(len(nomis.Entries), len(dps.Entries))
	} else {
		nomisOnly := compare.MissingBy(nomis.Entries, dps.Entries, domain.TransactionEntry.Equal)
		dpsOnly := compare.MissingBy(dps.Entries, nomis.Entries, domain.TransactionEntry.Equal)
		if len(nomisOnly) > 0 || len(dpsOnly) > 0 {
			differences["entries"] = fmt.Sprintf("nomis only=%v, dps only=%v", renderEntries(nomisOnly), renderEntries(dpsOnly))
		}
	}
	if dps.PrisonID != nomis.PrisonID {
		differences["prisonId"] = renderDifference(nomis.PrisonID, dps.PrisonID)
	}
	if !stringPtrEqual(dps.Description, nomis.Description) {
		differences["description"] = renderDifference(stringPtrValue(nomis.Description), stringPtrValue(dps.Description))
	}
	if dps.TransactionType != nomis.TransactionType {
		differences["transactionType"] = renderDifference(nomis.TransactionType, dps.TransactionType)
	}
	if !stringPtrEqual(dps.Reference, nomis.Reference) {
		differences["reference"] = renderDifference(stringPtrValue(nomis.Reference), stringPtrValue(dps.Reference))
	}
	if !dps.EntryDateTime.Equal(nomis.EntryDateTime) {
		differences["entryDateTime"] = renderDifference(nomis.EntryDateTime.Format(time.RFC3339), dps.EntryDateTime.Format(time.RFC3339))
	}
	return differences
}

// GeneratePrisonerTransactionsReport is a deliberate no-op. Batch
// reconciliation of offender transactions has not been built yet; only the
// targeted single-transaction check exists. Invoking this emits a
// not-implemented event so accidental scheduling is visible.
func (s *TransactionReconciliation) GeneratePrisonerTransactionsReport(ctx context.Context) {
	s.log.Warn("prisoner transaction batch reconciliation is not implemented")
	s.events.Emit("prisoner-transactions-report-not-implemented", map[string]string{})
}

// dpsLookupOutcome tags the three-way result of resolving a NOMIS
// transaction on the DPS side.
type dpsLookupOutcome int

const (
	dpsLookupNoMapping dpsLookupOutcome = iota
	dpsLookupNoTransaction
	dpsLookupFound
)

type dpsTransactionLookup struct {
	outcome dpsLookupOutcome
	dpsID   string
	record  *domain.DpsTransaction
}

// CheckPrisonerTransactionMatch is the targeted offender-transaction
// check. The NOMIS rows and the DPS mapping/record are fetched
// concurrently; either fetch failing fails the whole check. Returns
// ErrTransactionNotFound when NOMIS has no rows for the id.
func (s *TransactionReconciliation) CheckPrisonerTransactionMatch(ctx context.Context, nomisTransactionID int64) (*domain.MismatchPrisonerTransaction, error) {
	var rows []domain.OffenderTransactionRow
	var lookup dpsTransactionLookup

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		fetched, err := s.nomis.GetOffenderTransaction(gctx, nomisTransactionID)
		if err != nil {
			return fmt.Errorf("fetching NOMIS transaction %d: %w", nomisTransactionID, err)
		}
		if len(fetched) == 0 {
			return fmt.Errorf("NOMIS transaction %d: %w", nomisTransactionID, ErrTransactionNotFound)
		}
		rows = fetched
		return nil
	})
	g.Go(func() error {
		resolved, err := s.resolveDpsTransaction(gctx, nomisTransactionID)
		if err != nil {
			return err
		}
		lookup = resolved
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	id := strconv.FormatInt(nomisTransactionID, 10)
	switch lookup.outcome {
	case dpsLookupNoMapping:
		s.events.Emit("transaction-mapping-missing", map[string]string{"nomis-transaction-id": id})
		return &domain.MismatchPrisonerTransaction{
			NomisTransactionID: nomisTransactionID,
			Reason:             domain.ReasonMappingMissing,
		}, nil
	case dpsLookupNoTransaction:
		s.events.Emit("dps-transaction-missing", map[string]string{
			"nomis-transaction-id": id,
			"dps-transaction-id":   lookup.dpsID,
		})
		return &domain.MismatchPrisonerTransaction{
			NomisTransactionID: nomisTransactionID,
			DpsTransactionID:   lookup.dpsID,
			Reason:             domain.ReasonDpsTransactionMissing,
		}, nil
	case dpsLookupFound:
		nomisSummary := normalizeOffenderTransaction(rows)
		dpsSummary := normalizeDpsTransaction(lookup.record)
		if transactionSummariesEqual(dpsSummary, nomisSummary) {
			return nil, nil
		}
		s.events.Emit("transaction-different-details", map[string]string{
			"nomis-transaction-id": id,
			"dps-transaction-id":   lookup.dpsID,
		})
		return &domain.MismatchPrisonerTransaction{
			NomisTransactionID: nomisTransactionID,
			DpsTransactionID:   lookup.dpsID,
			Reason:             domain.ReasonDifferentDetails,
		}, nil
	}
	return nil, fmt.Errorf("unknown dps lookup outcome %d", lookup.outcome)
}

func (s *TransactionReconciliation) resolveDpsTransaction(ctx context.Context, nomisTransactionID int64) (dpsTransactionLookup, error) {
	mapping, err := s.mapping.LookupTransactionMapping(ctx, nomisTransactionID)
	if err != nil {
		return dpsTransactionLookup{}, fmt.Errorf("looking up mapping for transaction %d: %w", nomisTransactionID, err)
	}
	if mapping == nil {
		return dpsTransactionLookup{outcome: dpsLookupNoMapping}, nil
	}
	record, err := s.dps.GetTransaction(ctx, mapping.DpsTransactionID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return dpsTransactionLookup{outcome: dpsLookupNoTransaction, dpsID: mapping.DpsTransactionID}, nil
		}
		return dpsTransactionLookup{}, fmt.Errorf("fetching DPS transaction %s: %w", mapping.DpsTransactionID, err)
	}
	return dpsTransactionLookup{outcome: dpsLookupFound, dpsID: mapping.DpsTransactionID, record: record}, nil
}

// groupGeneralLedgerRows groups flat ledger rows by transaction id,
// preserving first-seen order so runs are deterministic.
func groupGeneralLedgerRows(rows []domain.GeneralLedgerRow) [][]domain.GeneralLedgerRow {
	index := make(map[int64]int)
	var groups [][]domain.GeneralLedgerRow
	for _, row := range rows {
		i, ok := index[row.TransactionID]
		if !ok {
			i = len(groups)
			index[row.TransactionID] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], row)
	}
	return groups
}

// normalizeGeneralLedger builds the comparison shape from one transaction's
// rows: the first row supplies the header, every row becomes an entry.
// Amounts are rounded to scale 2 half-up so scale alone never differs.
func normalizeGeneralLedger(rows []domain.GeneralLedgerRow) domain.TransactionSummary {
	header := rows[0]
	entries := make([]domain.TransactionEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, domain.TransactionEntry{
			AccountCode:   row.AccountCode,
			PostingType:   row.PostingType,
			Amount:        row.Amount.Round(2),
			EntrySequence: row.EntrySequence,
		})
	}
	return domain.TransactionSummary{
		PrisonID:           header.PrisonID,
		NomisTransactionID: header.TransactionID,
		Description:        header.Description,
		TransactionType:    header.TransactionType,
		Reference:          header.Reference,
		EntryDateTime:      header.EntryDateTime,
		Entries:            sortedEntries(entries),
	}
}

func normalizeOffenderTransaction(rows []domain.OffenderTransactionRow) domain.TransactionSummary {
	header := rows[0]
	entries := make([]domain.TransactionEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, domain.TransactionEntry{
			AccountCode:   row.AccountCode,
			PostingType:   row.PostingType,
			Amount:        row.Amount.Round(2),
			EntrySequence: row.EntrySequence,
		})
	}
	return domain.TransactionSummary{
		PrisonID:           header.PrisonID,
		NomisTransactionID: header.TransactionID,
		Description:        header.Description,
		TransactionType:    header.TransactionType,
		Reference:          header.Reference,
		EntryDateTime:      header.EntryDateTime,
		Entries:            sortedEntries(entries),
	}
}

func normalizeDpsTransaction(tx *domain.DpsTransaction) domain.TransactionSummary {
	entries := make([]domain.TransactionEntry, 0, len(tx.Entries))
	for _, entry := range tx.Entries {
		entry.Amount = entry.Amount.Round(2)
		entries = append(entries, entry)
	}
	return domain.TransactionSummary{
		PrisonID:           tx.PrisonID,
		NomisTransactionID: tx.NomisTransactionID,
		Description:        tx.Description,
		TransactionType:    tx.TransactionType,
		Reference:          tx.Reference,
		EntryDateTime:      tx.EntryDateTime,
		Entries:            sortedEntries(entries),
	}
}

// sortedEntries orders entries by sequence, account code, posting type and
// amount so normalized summaries compare independently of source order.
func sortedEntries(entries []domain.TransactionEntry) []domain.TransactionEntry {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.EntrySequence != b.EntrySequence {
			return a.EntrySequence < b.EntrySequence
		}
		if a.AccountCode != b.AccountCode {
			return a.AccountCode < b.AccountCode
		}
		if a.PostingType != b.PostingType {
			return a.PostingType < b.PostingType
		}
		return a.Amount.LessThan(b.Amount)
	})
	return entries
}

// transactionSummariesEqual is whole-object structural equality of two
// normalized summaries, as used by the targeted offender check. No
// field-by-field diff is produced here.
func transactionSummariesEqual(a, b domain.TransactionSummary) bool {
	if a.PrisonID != b.PrisonID ||
		a.NomisTransactionID != b.NomisTransactionID ||
		a.TransactionType != b.TransactionType ||
		!stringPtrEqual(a.Description, b.Description) ||
		!stringPtrEqual(a.Reference, b.Reference) ||
		!a.EntryDateTime.Equal(b.EntryDateTime) ||
		len(a.Entries) != len(b.Entries) {
		return false
	}
	for i := range a.Entries {
		if !a.Entries[i].Equal(b.Entries[i]) {
			return false
		}
	}
	return true
}

func renderDifference(nomis, dps any) string {
	return fmt.Sprintf("nomis=%v, dps=%v", nomis, dps)
}

func renderEntries(entries []domain.TransactionEntry) []string {
	rendered := make([]string, 0, len(entries))
	for _, e := range entries {
		rendered = append(rendered, fmt.Sprintf("%d/%s/%s/%d", e.AccountCode, e.PostingType, e.Amount.StringFixed(2), e.EntrySequence))
	}
	return rendered
}

func stringPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func stringPtrValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
