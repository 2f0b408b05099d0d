package usecase

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"prisoner-finance-recon/internal/domain"
)

// Page is one page of identifiers from a paging source. Last is the cursor
// for the following request; meaningful only when IDs is non-empty.
type Page[ID any] struct {
	IDs  []ID
	Last ID
}

// A paging source that fails this many times in a row ends the run with
// whatever has been gathered so far.
const maxConsecutivePageFailures = 3

// RunPaged drives a reconciliation over a population fetched in cursor
// pages. Items within a page are checked concurrently; pages are processed
// strictly sequentially, so peak concurrency is bounded by the page width.
//
// Failure handling: a failed first page fetch fails the whole run. A failed
// later fetch is reported through onPageError and the loop continues from
// the last good cursor; the unreachable page's members are skipped, not
// retried. A failed item check is reported through onItemError, counted in
// ItemsErrored and excluded from both ItemsChecked and Mismatches.
func RunPaged[ID any, M any](
	ctx context.Context,
	pageSize int,
	firstCursor ID,
	nextPage func(ctx context.Context, last ID) (Page[ID], error),
	checkItem func(ctx context.Context, id ID) (*M, error),
	onPageError func(last ID, err error),
	onItemError func(id ID, err error),
) (domain.ReconciliationResult[M], error) {
	result := domain.ReconciliationResult[M]{Mismatches: []M{}}

	// An un-fetchable starting point means the report cannot be trusted at
	// all, so fail loudly rather than report zero findings.
	page, err := nextPage(ctx, firstCursor)
	if err != nil {
		return result, fmt.Errorf("fetching first page: %w", err)
	}

	consecutiveFailures := 0
	for {
		result.PagesChecked++
		mismatches, checked, errored := checkPage(ctx, page.IDs, checkItem, onItemError)
		result.Mismatches = append(result.Mismatches, mismatches...)
		result.ItemsChecked += checked
		result.ItemsErrored += errored

		if len(page.IDs) < pageSize {
			return result, nil
		}
		cursor := page.Last

		next, err := nextPage(ctx, cursor)
		for err != nil {
			result.PageErrors++
			onPageError(cursor, err)
			consecutiveFailures++
			if consecutiveFailures >= maxConsecutivePageFailures {
				return result, nil
			}
			next, err = nextPage(ctx, cursor)
		}
		consecutiveFailures = 0
		page = next
	}
}

// checkPage fans out one check per id and waits for all of them. Results
// are appended in completion order; callers must not rely on positional
// ordering.
func checkPage[ID any, M any](
	ctx context.Context,
	ids []ID,
	checkItem func(ctx context.Context, id ID) (*M, error),
	onItemError func(id ID, err error),
) (mismatches []M, checked, errored int) {
	var mu sync.Mutex
	var g errgroup.Group
	for _, id := range ids {
		id := id
		g.Go(func() error {
			mismatch, err := checkItem(ctx, id)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errored++
				onItemError(id, err)
				return nil
			}
			checked++
			if mismatch != nil {
				mismatches = append(mismatches, *mismatch)
			}
			return nil
		})
	}
	_ = g.Wait()
	return mismatches, checked, errored
}
