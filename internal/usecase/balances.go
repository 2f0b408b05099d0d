package usecase

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"prisoner-finance-recon/internal/compare"
	"prisoner-finance-recon/internal/domain"
)

// BalanceReconciliation compares prison-level and prisoner-level account
// balances between NOMIS and DPS.
type BalanceReconciliation struct {
	nomis        NomisClient
	dps          DpsClient
	events       EventSink
	log          *zap.Logger
	pageSize     int
	prisonFilter []string
}

// NewBalanceReconciliation creates the balance reconciliation service.
// prisonFilter restricts the prisoner-level run to a subset of prisons;
// empty means all prisons.
func NewBalanceReconciliation(nomis NomisClient, dps DpsClient, events EventSink, log *zap.Logger, pageSize int, prisonFilter []string) *BalanceReconciliation {
	return &BalanceReconciliation{
		nomis:        nomis,
		dps:          dps,
		events:       events,
		log:          log.With(zap.String("component", "balance-reconciliation")),
		pageSize:     pageSize,
		prisonFilter: prisonFilter,
	}
}

// GeneratePrisonBalancesReport runs the prison-level reconciliation across
// every prison and reports the outcome through telemetry only. A whole-run
// failure is logged and emitted as a success=false report event; it never
// propagates to the caller.
func (s *BalanceReconciliation) GeneratePrisonBalancesReport(ctx context.Context) {
	runID := uuid.NewString()
	started := time.Now()
	result, errored, err := s.prisonBalancesReport(ctx)
	if err != nil {
		s.log.Error("prison balance reconciliation failed", zap.String("run_id", runID), zap.Error(err))
		s.events.Emit("prison-balance-reconciliation-report", map[string]string{
			"run-id":  runID,
			"success": "false",
			"error":   err.Error(),
		})
		return
	}

	mismatchedPrisons := make([]string, 0, len(result))
	for _, mismatch := range result {
		mismatchedPrisons = append(mismatchedPrisons, mismatch.PrisonID)
	}
	sort.Strings(mismatchedPrisons)

	s.log.Info("prison balance reconciliation finished",
		zap.String("run_id", runID),
		zap.Int("mismatches", len(result)),
		zap.Int("errored", errored),
		zap.Duration("duration", time.Since(started)))
	s.events.Emit("prison-balance-reconciliation-report", map[string]string{
		"run-id":             runID,
		"success":            "true",
		"mismatch-count":     strconv.Itoa(len(result)),
		"error-count":        strconv.Itoa(errored),
		"mismatched-prisons": strings.Join(mismatchedPrisons, ","),
	})
}

// prisonBalancesReport fetches the prison list once and checks every
// prison concurrently. A failed prison check is telemetered and excluded
// from the mismatch list; it is not a verdict.
func (s *BalanceReconciliation) prisonBalancesReport(ctx context.Context) (mismatches []domain.MismatchPrisonBalance, errored int, err error) {
	prisonIDs, err := s.nomis.GetPrisonIDs(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("fetching prison ids: %w", err)
	}

	var mu sync.Mutex
	var g errgroup.Group
	for _, prisonID := range prisonIDs {
		prisonID := prisonID
		g.Go(func() error {
			mismatch, checkErr := s.CheckPrisonBalanceMatch(ctx, prisonID)
			mu.Lock()
			defer mu.Unlock()
			if checkErr != nil {
				errored++
				s.log.Warn("prison balance check failed", zap.String("prison_id", prisonID), zap.Error(checkErr))
				s.events.Emit("prison-balance-check-failed", map[string]string{
					"prison-id": prisonID,
					"error":     checkErr.Error(),
				})
				return nil
			}
			if mismatch != nil {
				mismatches = append(mismatches, *mismatch)
			}
			return nil
		})
	}
	_ = g.Wait()
	return mismatches, errored, nil
}

// CheckPrisonBalanceMatch compares one prison's account balances between
// the two systems. At most one mismatch is produced per prison; the
// verdict ladder stops at the first failing rung.
func (s *BalanceReconciliation) CheckPrisonBalanceMatch(ctx context.Context, prisonID string) (*domain.MismatchPrisonBalance, error) {
	nomisAccounts, err := s.nomis.GetPrisonBalances(ctx, prisonID)
	if err != nil {
		return nil, fmt.Errorf("fetching NOMIS balances for prison %s: %w", prisonID, err)
	}
	dpsAccounts, err := s.dps.GetPrisonBalances(ctx, prisonID)
	if err != nil {
		return nil, fmt.Errorf("fetching DPS balances for prison %s: %w", prisonID, err)
	}

	accountCode := func(a domain.AccountSummary) int { return a.AccountCode }
	missingFromDps, missingFromNomis := compare.FindMissing(accountCode, dpsAccounts, nomisAccounts)
	sort.Ints(missingFromDps)
	sort.Ints(missingFromNomis)

	mismatch := &domain.MismatchPrisonBalance{
		PrisonID:          prisonID,
		NomisAccountCount: len(nomisAccounts),
		DpsAccountCount:   len(dpsAccounts),
		MissingFromNomis:  missingFromNomis,
		MissingFromDps:    missingFromDps,
	}

	switch {
	case len(nomisAccounts) != len(dpsAccounts):
		mismatch.Verdict = domain.VerdictDifferentNumberOfAccounts
	case len(missingFromNomis) > 0 || len(missingFromDps) > 0:
		mismatch.Verdict = domain.VerdictDifferentAccountCodes
	default:
		differing := compare.MissingBy(nomisAccounts, dpsAccounts, func(a, b domain.AccountSummary) bool {
			return a.AccountCode == b.AccountCode && a.Balance.Equal(b.Balance)
		})
		if len(differing) == 0 {
			return nil, nil
		}
		mismatch.Verdict = domain.VerdictDifferentPrisonAccountBalance
	}
	return mismatch, nil
}

// GeneratePrisonerBalancesReport runs the paged prisoner-level
// reconciliation and reports the outcome through telemetry only.
func (s *BalanceReconciliation) GeneratePrisonerBalancesReport(ctx context.Context) {
	runID := uuid.NewString()
	started := time.Now()

	nextPage := func(ctx context.Context, last string) (Page[string], error) {
		page, err := s.nomis.GetPrisonerIDs(ctx, last, s.pageSize, s.prisonFilter)
		if err != nil {
			return Page[string]{}, err
		}
		return Page[string]{IDs: page.PrisonNumbers, Last: page.Last}, nil
	}
	onPageError := func(last string, err error) {
		s.log.Warn("prisoner page fetch failed", zap.String("last_prison_number", last), zap.Error(err))
		s.events.Emit("prisoner-balance-page-error", map[string]string{
			"last-prison-number": last,
			"error":              err.Error(),
		})
	}
	onItemError := func(prisonNumber string, err error) {
		s.log.Warn("prisoner balance check failed", zap.String("prison_number", prisonNumber), zap.Error(err))
		s.events.Emit("prisoner-balance-check-failed", map[string]string{
			"prison-number": prisonNumber,
			"error":         err.Error(),
		})
	}

	result, err := RunPaged(ctx, s.pageSize, "", nextPage, s.CheckPrisonerBalanceMatch, onPageError, onItemError)
	if err != nil {
		s.log.Error("prisoner balance reconciliation failed", zap.String("run_id", runID), zap.Error(err))
		s.events.Emit("prisoner-balance-reconciliation-report", map[string]string{
			"run-id":  runID,
			"success": "false",
			"error":   err.Error(),
		})
		return
	}

	s.log.Info("prisoner balance reconciliation finished",
		zap.String("run_id", runID),
		zap.Int("items_checked", result.ItemsChecked),
		zap.Int("items_errored", result.ItemsErrored),
		zap.Int("pages_checked", result.PagesChecked),
		zap.Int("mismatches", len(result.Mismatches)),
		zap.Duration("duration", time.Since(started)))
	s.events.Emit("prisoner-balance-reconciliation-report", map[string]string{
		"run-id":         runID,
		"success":        "true",
		"items-checked":  strconv.Itoa(result.ItemsChecked),
		"items-errored":  strconv.Itoa(result.ItemsErrored),
		"pages-checked":  strconv.Itoa(result.PagesChecked),
		"page-errors":    strconv.Itoa(result.PageErrors),
		"mismatch-count": strconv.Itoa(len(result.Mismatches)),
	})
}

// CheckPrisonerBalanceMatch compares one prisoner's balances between the
// two systems. Also the entry point for manual single-prisoner re-runs.
func (s *BalanceReconciliation) CheckPrisonerBalanceMatch(ctx context.Context, prisonNumber string) (*domain.MismatchPrisonerBalance, error) {
	nomisBalances, err := s.nomis.GetPrisonerBalances(ctx, prisonNumber)
	if err != nil {
		return nil, fmt.Errorf("fetching NOMIS balances for prisoner %s: %w", prisonNumber, err)
	}
	dpsBalances, err := s.dps.GetPrisonerBalances(ctx, prisonNumber)
	if err != nil {
		return nil, fmt.Errorf("fetching DPS balances for prisoner %s: %w", prisonNumber, err)
	}

	differences := compare.Balances(dpsBalances, nomisBalances, "prisoner-balances")
	if len(differences) == 0 {
		return nil, nil
	}
	for i := range differences {
		differences[i].ID = &prisonNumber
	}

	properties := make([]string, 0, len(differences))
	for _, d := range differences {
		properties = append(properties, d.Property)
	}
	s.events.Emit("prisoner-balance-mismatch", map[string]string{
		"prison-number": prisonNumber,
		"properties":    strings.Join(properties, ","),
	})

	mismatch := &domain.MismatchPrisonerBalance{Differences: differences}
	if nomisBalances != nil {
		mismatch.Nomis = *nomisBalances
	}
	if dpsBalances != nil {
		mismatch.Dps = *dpsBalances
	}
	return mismatch, nil
}
