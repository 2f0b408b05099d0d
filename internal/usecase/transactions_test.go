package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"prisoner-finance-recon/internal/domain"
	"prisoner-finance-recon/internal/usecase"
	"prisoner-finance-recon/internal/usecase/mocks"
)

type transactionFixtures struct {
	nomis   *mocks.MockNomisClient
	dps     *mocks.MockDpsClient
	mapping *mocks.MockMappingClient
	events  *mocks.MockEventSink
}

func newTransactionService(t *testing.T) (*usecase.TransactionReconciliation, transactionFixtures) {
	ctrl := gomock.NewController(t)
	f := transactionFixtures{
		nomis:   mocks.NewMockNomisClient(ctrl),
		dps:     mocks.NewMockDpsClient(ctrl),
		mapping: mocks.NewMockMappingClient(ctrl),
		events:  mocks.NewMockEventSink(ctrl),
	}
	service := usecase.NewTransactionReconciliation(f.nomis, f.dps, f.mapping, f.events, zap.NewNop())
	return service, f
}

func strPtr(s string) *string { return &s }

var reconDate = time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

func glRow(transactionID int64, amount string, postingType string, sequence int) domain.GeneralLedgerRow {
	return domain.GeneralLedgerRow{
		TransactionID:   transactionID,
		PrisonID:        "MDI",
		Description:     strPtr("Canteen spend"),
		TransactionType: "CANT",
		Reference:       strPtr("REF-1"),
		EntryDateTime:   reconDate.Add(10 * time.Hour),
		AccountCode:     2101,
		PostingType:     postingType,
		Amount:          dec(amount),
		EntrySequence:   sequence,
	}
}

func dpsTransaction(id string, nomisID int64, amount string) *domain.DpsTransaction {
	return &domain.DpsTransaction{
		ID:                 id,
		PrisonID:           "MDI",
		NomisTransactionID: nomisID,
		Description:        strPtr("Canteen spend"),
		TransactionType:    "CANT",
		Reference:          strPtr("REF-1"),
		EntryDateTime:      reconDate.Add(10 * time.Hour),
		Entries: []domain.TransactionEntry{
			{AccountCode: 2101, PostingType: "DR", Amount: dec(amount), EntrySequence: 1},
		},
	}
}

func TestCheckPrisonTransactionMatch_RoundsBeforeComparing(t *testing.T) {
	// 10.005 rounds half-up to 10.01 and must then differ from 10.00; the
	// rounding happens before comparison, not instead of it.
	service, f := newTransactionService(t)
	f.nomis.EXPECT().GetGeneralLedgerTransactions(gomock.Any(), "MDI", reconDate).
		Return([]domain.GeneralLedgerRow{glRow(12345, "10.005", "DR", 1)}, nil)
	f.mapping.EXPECT().LookupTransactionMapping(gomock.Any(), int64(12345)).
		Return(&domain.TransactionMapping{NomisTransactionID: 12345, DpsTransactionID: "dps-12345"}, nil)
	f.dps.EXPECT().GetTransaction(gomock.Any(), "dps-12345").
		Return(dpsTransaction("dps-12345", 12345, "10.00"), nil)

	mismatch, err := service.CheckPrisonTransactionMatch(context.Background(), "MDI", reconDate, 12345)
	require.NoError(t, err)
	require.NotNil(t, mismatch)
	assert.Equal(t, int64(12345), mismatch.NomisTransactionID)
	assert.Equal(t, "dps-12345", mismatch.DpsTransactionID)
	require.Contains(t, mismatch.Differences, "entries")
	assert.Contains(t, mismatch.Differences["entries"], "10.01")
	assert.NotContains(t, mismatch.Differences["entries"], "10.005")
}

func TestCheckPrisonTransactionMatch_ScaleOnlyDifferenceMatches(t *testing.T) {
	service, f := newTransactionService(t)
	f.nomis.EXPECT().GetGeneralLedgerTransactions(gomock.Any(), "MDI", reconDate).
		Return([]domain.GeneralLedgerRow{glRow(12345, "10", "DR", 1)}, nil)
	f.mapping.EXPECT().LookupTransactionMapping(gomock.Any(), int64(12345)).
		Return(&domain.TransactionMapping{NomisTransactionID: 12345, DpsTransactionID: "dps-12345"}, nil)
	f.dps.EXPECT().GetTransaction(gomock.Any(), "dps-12345").
		Return(dpsTransaction("dps-12345", 12345, "10.00"), nil)

	mismatch, err := service.CheckPrisonTransactionMatch(context.Background(), "MDI", reconDate, 12345)
	require.NoError(t, err)
	assert.Nil(t, mismatch)
}

func TestCheckPrisonTransactionMatch_AccumulatesAllFieldDifferences(t *testing.T) {
	// Unlike the prison-balance verdict ladder, the transaction flow keeps
	// going and reports every differing field at once.
	service, f := newTransactionService(t)
	f.nomis.EXPECT().GetGeneralLedgerTransactions(gomock.Any(), "MDI", reconDate).
		Return([]domain.GeneralLedgerRow{glRow(12345, "10.00", "DR", 1)}, nil)
	f.mapping.EXPECT().LookupTransactionMapping(gomock.Any(), int64(12345)).
		Return(&domain.TransactionMapping{NomisTransactionID: 12345, DpsTransactionID: "dps-12345"}, nil)

	dpsTx := dpsTransaction("dps-12345", 12345, "10.00")
	dpsTx.TransactionType = "SPND"
	dpsTx.Description = strPtr("Phone credit")
	f.dps.EXPECT().GetTransaction(gomock.Any(), "dps-12345").Return(dpsTx, nil)

	mismatch, err := service.CheckPrisonTransactionMatch(context.Background(), "MDI", reconDate, 12345)
	require.NoError(t, err)
	require.NotNil(t, mismatch)
	assert.Len(t, mismatch.Differences, 2)
	assert.Equal(t, "nomis=CANT, dps=SPND", mismatch.Differences["transactionType"])
	assert.Equal(t, "nomis=Canteen spend, dps=Phone credit", mismatch.Differences["description"])
}

func TestCheckPrisonTransactionMatch_EntryCountShortCircuitsEntryDiff(t *testing.T) {
	service, f := newTransactionService(t)
	f.nomis.EXPECT().GetGeneralLedgerTransactions(gomock.Any(), "MDI", reconDate).
		Return([]domain.GeneralLedgerRow{
			glRow(12345, "10.00", "DR", 1),
			glRow(12345, "10.00", "CR", 2),
		}, nil)
	f.mapping.EXPECT().LookupTransactionMapping(gomock.Any(), int64(12345)).
		Return(&domain.TransactionMapping{NomisTransactionID: 12345, DpsTransactionID: "dps-12345"}, nil)
	f.dps.EXPECT().GetTransaction(gomock.Any(), "dps-12345").
		Return(dpsTransaction("dps-12345", 12345, "10.00"), nil)

	mismatch, err := service.CheckPrisonTransactionMatch(context.Background(), "MDI", reconDate, 12345)
	require.NoError(t, err)
	require.NotNil(t, mismatch)
	assert.Equal(t, "nomis=2, dps=1", mismatch.Differences["entryCount"])
	assert.NotContains(t, mismatch.Differences, "entries")
}

func TestCheckPrisonTransactionMatch_NotFound(t *testing.T) {
	service, f := newTransactionService(t)
	f.nomis.EXPECT().GetGeneralLedgerTransactions(gomock.Any(), "MDI", reconDate).
		Return([]domain.GeneralLedgerRow{glRow(99, "1.00", "DR", 1)}, nil)

	_, err := service.CheckPrisonTransactionMatch(context.Background(), "MDI", reconDate, 12345)
	assert.ErrorIs(t, err, usecase.ErrTransactionNotFound)
}

func TestGeneratePrisonTransactionsReport_MappingMissing(t *testing.T) {
	service, f := newTransactionService(t)
	f.nomis.EXPECT().GetGeneralLedgerTransactions(gomock.Any(), "MDI", reconDate).
		Return([]domain.GeneralLedgerRow{glRow(12345, "10.00", "DR", 1)}, nil)
	f.mapping.EXPECT().LookupTransactionMapping(gomock.Any(), int64(12345)).Return(nil, nil)

	f.events.EXPECT().Emit("prison-transaction-mapping-missing", gomock.Any()).Do(func(_ string, attrs map[string]string) {
		assert.Equal(t, "12345", attrs["nomis-transaction-id"])
	})
	f.events.EXPECT().Emit("prison-transaction-reconciliation-report", gomock.Any()).Do(func(_ string, attrs map[string]string) {
		assert.Equal(t, "true", attrs["success"])
		// A missing mapping is telemetered but produces no mismatch record.
		assert.Equal(t, "0", attrs["mismatch-count"])
		assert.Equal(t, "1", attrs["items-checked"])
	})

	service.GeneratePrisonTransactionsReport(context.Background(), "MDI", reconDate)
}

func TestGeneratePrisonTransactionsReport_GroupsRowsByTransaction(t *testing.T) {
	service, f := newTransactionService(t)
	f.nomis.EXPECT().GetGeneralLedgerTransactions(gomock.Any(), "MDI", reconDate).
		Return([]domain.GeneralLedgerRow{
			glRow(1, "10.00", "DR", 1),
			glRow(2, "4.00", "DR", 1),
			glRow(1, "10.00", "CR", 2),
		}, nil)

	dpsOne := dpsTransaction("dps-1", 1, "10.00")
	dpsOne.Entries = append(dpsOne.Entries, domain.TransactionEntry{AccountCode: 2101, PostingType: "CR", Amount: dec("10.00"), EntrySequence: 2})
	dpsTwo := dpsTransaction("dps-2", 2, "4.00")

	f.mapping.EXPECT().LookupTransactionMapping(gomock.Any(), int64(1)).
		Return(&domain.TransactionMapping{NomisTransactionID: 1, DpsTransactionID: "dps-1"}, nil)
	f.mapping.EXPECT().LookupTransactionMapping(gomock.Any(), int64(2)).
		Return(&domain.TransactionMapping{NomisTransactionID: 2, DpsTransactionID: "dps-2"}, nil)
	f.dps.EXPECT().GetTransaction(gomock.Any(), "dps-1").Return(dpsOne, nil)
	f.dps.EXPECT().GetTransaction(gomock.Any(), "dps-2").Return(dpsTwo, nil)

	f.events.EXPECT().Emit("prison-transaction-reconciliation-report", gomock.Any()).Do(func(_ string, attrs map[string]string) {
		assert.Equal(t, "true", attrs["success"])
		assert.Equal(t, "2", attrs["items-checked"])
		assert.Equal(t, "0", attrs["mismatch-count"])
	})

	service.GeneratePrisonTransactionsReport(context.Background(), "MDI", reconDate)
}

func offenderRows(transactionID int64, amount string) []domain.OffenderTransactionRow {
	return []domain.OffenderTransactionRow{{
		TransactionID:   transactionID,
		PrisonNumber:    "A1234BC",
		PrisonID:        "MDI",
		Description:     strPtr("Canteen spend"),
		TransactionType: "CANT",
		Reference:       strPtr("REF-1"),
		EntryDateTime:   reconDate.Add(10 * time.Hour),
		AccountCode:     2101,
		PostingType:     "DR",
		Amount:          dec(amount),
		EntrySequence:   1,
	}}
}

func TestCheckPrisonerTransactionMatch_MappingMissing(t *testing.T) {
	service, f := newTransactionService(t)
	f.nomis.EXPECT().GetOffenderTransaction(gomock.Any(), int64(12345)).Return(offenderRows(12345, "10.00"), nil)
	f.mapping.EXPECT().LookupTransactionMapping(gomock.Any(), int64(12345)).Return(nil, nil)
	f.events.EXPECT().Emit("transaction-mapping-missing", gomock.Any()).Do(func(_ string, attrs map[string]string) {
		assert.Equal(t, "12345", attrs["nomis-transaction-id"])
	})

	mismatch, err := service.CheckPrisonerTransactionMatch(context.Background(), 12345)
	require.NoError(t, err)
	require.NotNil(t, mismatch)
	assert.Equal(t, int64(12345), mismatch.NomisTransactionID)
	assert.Empty(t, mismatch.DpsTransactionID, "only the NOMIS id is populated without a mapping")
	assert.Equal(t, domain.ReasonMappingMissing, mismatch.Reason)
}

func TestCheckPrisonerTransactionMatch_DpsTransactionMissing(t *testing.T) {
	service, f := newTransactionService(t)
	f.nomis.EXPECT().GetOffenderTransaction(gomock.Any(), int64(12345)).Return(offenderRows(12345, "10.00"), nil)
	f.mapping.EXPECT().LookupTransactionMapping(gomock.Any(), int64(12345)).
		Return(&domain.TransactionMapping{NomisTransactionID: 12345, DpsTransactionID: "dps-12345"}, nil)
	f.dps.EXPECT().GetTransaction(gomock.Any(), "dps-12345").Return(nil, usecase.ErrNotFound)
	f.events.EXPECT().Emit("dps-transaction-missing", gomock.Any())

	mismatch, err := service.CheckPrisonerTransactionMatch(context.Background(), 12345)
	require.NoError(t, err)
	require.NotNil(t, mismatch)
	assert.Equal(t, "dps-12345", mismatch.DpsTransactionID)
	assert.Equal(t, domain.ReasonDpsTransactionMissing, mismatch.Reason)
}

func TestCheckPrisonerTransactionMatch_EqualDetails(t *testing.T) {
	service, f := newTransactionService(t)
	f.nomis.EXPECT().GetOffenderTransaction(gomock.Any(), int64(12345)).Return(offenderRows(12345, "10.00"), nil)
	f.mapping.EXPECT().LookupTransactionMapping(gomock.Any(), int64(12345)).
		Return(&domain.TransactionMapping{NomisTransactionID: 12345, DpsTransactionID: "dps-12345"}, nil)
	f.dps.EXPECT().GetTransaction(gomock.Any(), "dps-12345").Return(dpsTransaction("dps-12345", 12345, "10.00"), nil)

	mismatch, err := service.CheckPrisonerTransactionMatch(context.Background(), 12345)
	require.NoError(t, err)
	assert.Nil(t, mismatch)
}

func TestCheckPrisonerTransactionMatch_DifferentDetails(t *testing.T) {
	service, f := newTransactionService(t)
	f.nomis.EXPECT().GetOffenderTransaction(gomock.Any(), int64(12345)).Return(offenderRows(12345, "10.00"), nil)
	f.mapping.EXPECT().LookupTransactionMapping(gomock.Any(), int64(12345)).
		Return(&domain.TransactionMapping{NomisTransactionID: 12345, DpsTransactionID: "dps-12345"}, nil)
	f.dps.EXPECT().GetTransaction(gomock.Any(), "dps-12345").Return(dpsTransaction("dps-12345", 12345, "10.50"), nil)
	f.events.EXPECT().Emit("transaction-different-details", gomock.Any())

	mismatch, err := service.CheckPrisonerTransactionMatch(context.Background(), 12345)
	require.NoError(t, err)
	require.NotNil(t, mismatch)
	assert.Equal(t, domain.ReasonDifferentDetails, mismatch.Reason)
}

func TestCheckPrisonerTransactionMatch_NomisNotFound(t *testing.T) {
	service, f := newTransactionService(t)
	f.nomis.EXPECT().GetOffenderTransaction(gomock.Any(), int64(12345)).Return(nil, nil)
	// The concurrent DPS resolution may or may not complete before the
	// NOMIS failure cancels the group.
	f.mapping.EXPECT().LookupTransactionMapping(gomock.Any(), int64(12345)).Return(nil, nil).AnyTimes()

	_, err := service.CheckPrisonerTransactionMatch(context.Background(), 12345)
	assert.ErrorIs(t, err, usecase.ErrTransactionNotFound)
}

func TestCheckPrisonerTransactionMatch_FetchFailureFailsWholeCheck(t *testing.T) {
	service, f := newTransactionService(t)
	upstream := errors.New("mapping service down")
	f.nomis.EXPECT().GetOffenderTransaction(gomock.Any(), int64(12345)).Return(offenderRows(12345, "10.00"), nil).AnyTimes()
	f.mapping.EXPECT().LookupTransactionMapping(gomock.Any(), int64(12345)).Return(nil, upstream)

	mismatch, err := service.CheckPrisonerTransactionMatch(context.Background(), 12345)
	assert.ErrorIs(t, err, upstream)
	assert.Nil(t, mismatch)
}

func TestGeneratePrisonerTransactionsReport_IsNotImplemented(t *testing.T) {
	service, f := newTransactionService(t)
	f.events.EXPECT().Emit("prisoner-transactions-report-not-implemented", gomock.Any())

	service.GeneratePrisonerTransactionsReport(context.Background())
}
