package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePagingSource serves a fixed population in cursor pages and can be
// told to fail specific fetch calls.
type fakePagingSource struct {
	mu        sync.Mutex
	ids       []string
	pageSize  int
	calls     int
	failCalls map[int]error
}

func (f *fakePagingSource) nextPage(_ context.Context, last string) (Page[string], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err, ok := f.failCalls[f.calls]; ok {
		return Page[string]{}, err
	}

	start := 0
	if last != "" {
		for i, id := range f.ids {
			if id == last {
				start = i + 1
				break
			}
		}
	}
	// A failed call still consumes its page so later fetches move on, the
	// way an upstream offset query would.
	for call := range f.failCalls {
		if call < f.calls {
			start += f.pageSize
			delete(f.failCalls, call)
		}
	}
	end := start + f.pageSize
	if end > len(f.ids) {
		end = len(f.ids)
	}
	if start >= len(f.ids) {
		return Page[string]{}, nil
	}
	page := Page[string]{IDs: f.ids[start:end]}
	page.Last = page.IDs[len(page.IDs)-1]
	return page, nil
}

func population(n int) []string {
	ids := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		ids = append(ids, fmt.Sprintf("A%04dAA", i))
	}
	return ids
}

func noPageError(string, error) {}
func noItemError(string, error) {}

func TestRunPaged_CountsPagesAndItems(t *testing.T) {
	// 34 prisoners at page size 10: pages of 10/10/10/4.
	source := &fakePagingSource{ids: population(34), pageSize: 10}
	check := func(context.Context, string) (*string, error) { return nil, nil }

	result, err := RunPaged(context.Background(), 10, "", source.nextPage, check, noPageError, noItemError)
	require.NoError(t, err)
	assert.Equal(t, 4, result.PagesChecked)
	assert.Equal(t, 34, result.ItemsChecked)
	assert.Equal(t, 0, result.ItemsErrored)
	assert.Empty(t, result.Mismatches)
}

func TestRunPaged_CollectsMismatches(t *testing.T) {
	source := &fakePagingSource{ids: population(12), pageSize: 5}
	check := func(_ context.Context, id string) (*string, error) {
		if id == "A0003AA" || id == "A0011AA" {
			mismatch := "mismatch-" + id
			return &mismatch, nil
		}
		return nil, nil
	}

	result, err := RunPaged(context.Background(), 5, "", source.nextPage, check, noPageError, noItemError)
	require.NoError(t, err)
	assert.Equal(t, 12, result.ItemsChecked)

	// Checks within a page complete in arbitrary order; assert by value.
	sort.Strings(result.Mismatches)
	assert.Equal(t, []string{"mismatch-A0003AA", "mismatch-A0011AA"}, result.Mismatches)
}

func TestRunPaged_ItemFailureIsIsolated(t *testing.T) {
	source := &fakePagingSource{ids: population(20), pageSize: 10}
	boom := errors.New("nomis exploded")
	check := func(_ context.Context, id string) (*string, error) {
		if id == "A0007AA" {
			return nil, boom
		}
		mismatch := id
		return &mismatch, nil
	}

	var mu sync.Mutex
	var failed []string
	onItemError := func(id string, err error) {
		mu.Lock()
		defer mu.Unlock()
		failed = append(failed, id)
		assert.ErrorIs(t, err, boom)
	}

	result, err := RunPaged(context.Background(), 10, "", source.nextPage, check, noPageError, onItemError)
	require.NoError(t, err)
	assert.Equal(t, 19, result.ItemsChecked)
	assert.Equal(t, 1, result.ItemsErrored)
	assert.Equal(t, []string{"A0007AA"}, failed)
	assert.NotContains(t, result.Mismatches, "A0007AA")
	assert.Len(t, result.Mismatches, 19)
}

func TestRunPaged_PageFailureIsIsolated(t *testing.T) {
	// Page 3's fetch fails; pages 1, 2 and 4 still contribute.
	pageDown := errors.New("page fetch failed")
	source := &fakePagingSource{
		ids:       population(34),
		pageSize:  10,
		failCalls: map[int]error{3: pageDown},
	}
	check := func(_ context.Context, id string) (*string, error) {
		mismatch := id
		return &mismatch, nil
	}

	var pageErrors int
	onPageError := func(last string, err error) {
		pageErrors++
		assert.Equal(t, "A0020AA", last, "failure reported with the last good cursor")
		assert.ErrorIs(t, err, pageDown)
	}

	result, err := RunPaged(context.Background(), 10, "", source.nextPage, check, onPageError, noItemError)
	require.NoError(t, err)
	assert.Equal(t, 1, pageErrors)
	assert.Equal(t, 3, result.PagesChecked)
	assert.Equal(t, 1, result.PageErrors)
	assert.Equal(t, 24, result.ItemsChecked, "pages 1, 2 and 4 = 10+10+4 items")
}

func TestRunPaged_FirstPageFailurePropagates(t *testing.T) {
	firstDown := errors.New("paging source unavailable")
	source := &fakePagingSource{ids: population(10), pageSize: 10, failCalls: map[int]error{1: firstDown}}
	check := func(context.Context, string) (*string, error) { return nil, nil }

	_, err := RunPaged(context.Background(), 10, "", source.nextPage, check, noPageError, noItemError)
	assert.ErrorIs(t, err, firstDown)
}

func TestRunPaged_GivesUpAfterConsecutivePageFailures(t *testing.T) {
	pageDown := errors.New("page fetch failed")
	source := &fakePagingSource{
		ids:       population(40),
		pageSize:  10,
		failCalls: map[int]error{2: pageDown, 3: pageDown, 4: pageDown},
	}
	check := func(context.Context, string) (*string, error) { return nil, nil }

	result, err := RunPaged(context.Background(), 10, "", source.nextPage, check, noPageError, noItemError)
	require.NoError(t, err)
	assert.Equal(t, 1, result.PagesChecked)
	assert.Equal(t, 3, result.PageErrors)
	assert.Equal(t, 10, result.ItemsChecked)
}
