package domain

// ReconciliationResult aggregates one batch reconciliation run.
// ItemsChecked counts checks that completed (mismatch or not); failed
// checks are counted separately in ItemsErrored and never appear in
// Mismatches. PagesChecked counts successfully fetched pages only.
type ReconciliationResult[T any] struct {
	ItemsChecked int `json:"itemsChecked"`
	ItemsErrored int `json:"itemsErrored"`
	PagesChecked int `json:"pagesChecked"`
	PageErrors   int `json:"pageErrors"`
	Mismatches   []T `json:"mismatches"`
}

// PrisonerPage is one page of prisoner identifiers from the NOMIS paging
// source. Last is the cursor to request the following page with; it is
// only meaningful when the page is non-empty.
type PrisonerPage struct {
	PrisonNumbers []string `json:"prisonNumbers"`
	Last          string   `json:"last"`
}
