package compare

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"

	"prisoner-finance-recon/internal/domain"
)

func accountCode(a domain.AccountSummary) int { return a.AccountCode }

func TestFindMissing(t *testing.T) {
	a := []domain.AccountSummary{
		{AccountCode: 1, Balance: dec("10.00")},
		{AccountCode: 2, Balance: dec("5.00")},
	}
	b := []domain.AccountSummary{
		{AccountCode: 2, Balance: dec("5.00")},
		{AccountCode: 3, Balance: dec("1.00")},
	}

	missingFromA, missingFromB := FindMissing(accountCode, a, b)
	sort.Ints(missingFromA)
	sort.Ints(missingFromB)
	assert.Equal(t, []int{3}, missingFromA)
	assert.Equal(t, []int{1}, missingFromB)
}

func TestFindMissing_IdenticalSides(t *testing.T) {
	a := []domain.AccountSummary{{AccountCode: 1}, {AccountCode: 2}}

	missingFromA, missingFromB := FindMissing(accountCode, a, a)
	assert.Empty(t, missingFromA)
	assert.Empty(t, missingFromB)
}

func TestFindMissing_DuplicateKeysCollapse(t *testing.T) {
	a := []domain.AccountSummary{{AccountCode: 1}, {AccountCode: 1}}
	b := []domain.AccountSummary{{AccountCode: 2}, {AccountCode: 2}}

	missingFromA, missingFromB := FindMissing(accountCode, a, b)
	assert.Equal(t, []int{2}, missingFromA)
	assert.Equal(t, []int{1}, missingFromB)
}

func TestFindMissing_EmptySides(t *testing.T) {
	b := []domain.AccountSummary{{AccountCode: 7}}

	missingFromA, missingFromB := FindMissing(accountCode, nil, b)
	assert.Equal(t, []int{7}, missingFromA)
	assert.Empty(t, missingFromB)
}

func TestMissingBy(t *testing.T) {
	a := []domain.TransactionEntry{
		{AccountCode: 2101, PostingType: "DR", Amount: dec("10.00"), EntrySequence: 1},
		{AccountCode: 2102, PostingType: "CR", Amount: dec("10.00"), EntrySequence: 2},
	}
	b := []domain.TransactionEntry{
		{AccountCode: 2101, PostingType: "DR", Amount: dec("10.0"), EntrySequence: 1},
	}

	missing := MissingBy(a, b, domain.TransactionEntry.Equal)
	assert.Equal(t, []domain.TransactionEntry{a[1]}, missing, "numerically equal entries must match despite scale")
}

func TestMissingBy_AllPresent(t *testing.T) {
	a := []domain.TransactionEntry{{AccountCode: 1, PostingType: "DR", Amount: dec("1"), EntrySequence: 1}}
	assert.Empty(t, MissingBy(a, a, domain.TransactionEntry.Equal))
}
