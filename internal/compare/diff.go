// Package compare holds the pure comparison core: the difference engine
// that diffs normalized balance records field by field, and the list/set
// utilities used to subtract one collection from another. Nothing in this
// package performs I/O; every function is safe for concurrent use.
package compare

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"prisoner-finance-recon/internal/domain"
)

// Balances compares the DPS and NOMIS views of one prisoner's balances and
// returns every field-level discrepancy. The account lists are sorted by a
// fixed multi-key comparator before pairwise comparison, so ordering
// differences alone never produce a difference. If the lists have different
// lengths a single length difference is emitted and no element comparison
// is attempted.
func Balances(dps, nomis *domain.BalanceFields, path string) []domain.Difference {
	if dps == nil && nomis == nil {
		return nil
	}
	if dps == nil || nomis == nil {
		return []domain.Difference{{Property: path, DpsValue: dps, NomisValue: nomis}}
	}

	var diffs []domain.Difference
	if dps.PrisonNumber != nomis.PrisonNumber {
		diffs = append(diffs, domain.Difference{
			Property:   path + ".prisonNumber",
			DpsValue:   dps.PrisonNumber,
			NomisValue: nomis.PrisonNumber,
		})
	}

	if len(dps.Accounts) != len(nomis.Accounts) {
		diffs = append(diffs, domain.Difference{
			Property:   path + ".accounts",
			DpsValue:   len(dps.Accounts),
			NomisValue: len(nomis.Accounts),
		})
		return diffs
	}

	dpsAccounts := SortedAccounts(dps.Accounts)
	nomisAccounts := SortedAccounts(nomis.Accounts)
	for i := range dpsAccounts {
		elementPath := fmt.Sprintf("%s.accounts[%d]", path, i)
		diffs = append(diffs, accountFields(dpsAccounts[i], nomisAccounts[i], elementPath)...)
	}
	return diffs
}

// accountFields compares one account entry from each side.
func accountFields(dps, nomis domain.AccountFields, path string) []domain.Difference {
	var diffs []domain.Difference
	if dps.PrisonID != nomis.PrisonID {
		diffs = append(diffs, domain.Difference{Property: path + ".prisonId", DpsValue: dps.PrisonID, NomisValue: nomis.PrisonID})
	}
	if dps.AccountCode != nomis.AccountCode {
		diffs = append(diffs, domain.Difference{Property: path + ".accountCode", DpsValue: dps.AccountCode, NomisValue: nomis.AccountCode})
	}
	if !dps.Balance.Equal(nomis.Balance) {
		diffs = append(diffs, domain.Difference{Property: path + ".balance", DpsValue: dps.Balance, NomisValue: nomis.Balance})
	}
	diffs = append(diffs, holdBalance(dps.HoldBalance, nomis.HoldBalance, path+".holdBalance")...)
	return diffs
}

// holdBalance compares hold balances. NOMIS omits the hold balance when it
// is zero, so an absent NOMIS value compared against a present DPS value is
// coalesced to zero. The coalescing is one-sided: an absent DPS value
// against a present NOMIS value is a real difference.
func holdBalance(dps, nomis *decimal.Decimal, path string) []domain.Difference {
	switch {
	case dps == nil && nomis == nil:
		return nil
	case dps == nil:
		return []domain.Difference{{Property: path, DpsValue: nil, NomisValue: *nomis}}
	default:
		effective := EffectiveHoldBalance(nomis)
		if dps.Equal(effective) {
			return nil
		}
		return []domain.Difference{{Property: path, DpsValue: *dps, NomisValue: effective}}
	}
}

// EffectiveHoldBalance renders an absent hold balance as zero. Applied only
// where documented (the NOMIS side of a hold-balance comparison); this is
// not a general null-handling rule.
func EffectiveHoldBalance(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

// SortedAccounts returns a copy of accounts ordered by prison id, account
// code, balance and hold balance, giving a deterministic order for pairwise
// comparison regardless of how either source system ordered them.
func SortedAccounts(accounts []domain.AccountFields) []domain.AccountFields {
	sorted := make([]domain.AccountFields, len(accounts))
	copy(sorted, accounts)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.PrisonID != b.PrisonID {
			return a.PrisonID < b.PrisonID
		}
		if a.AccountCode != b.AccountCode {
			return a.AccountCode < b.AccountCode
		}
		if !a.Balance.Equal(b.Balance) {
			return a.Balance.LessThan(b.Balance)
		}
		return EffectiveHoldBalance(a.HoldBalance).LessThan(EffectiveHoldBalance(b.HoldBalance))
	})
	return sorted
}
