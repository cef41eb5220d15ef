package listing

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotedesk/quotedesk/internal/quote"
	"github.com/quotedesk/quotedesk/internal/search"
)

// fixture returns n quotes; every third one is accepted, the others drafts.
func fixture(n int) []quote.Quote {
	out := make([]quote.Quote, n)
	for i := range out {
		status := quote.StatusDraft
		if i%3 == 0 {
			status = quote.StatusAccepted
		}
		out[i] = quote.Quote{
			ID:          i + 1,
			QuoteNumber: fmt.Sprintf("DEV-%04d", i+1),
			ClientName:  fmt.Sprintf("Client %d", i+1),
			Status:      status,
		}
	}
	return out
}

func ids(quotes []quote.Quote) []int {
	out := make([]int, len(quotes))
	for i, q := range quotes {
		out[i] = q.ID
	}
	return out
}

func TestPagination(t *testing.T) {
	c := New(WithPageSize(4))
	c.SetQuotes(fixture(10))

	assert.Equal(t, 3, c.TotalPages())
	assert.Equal(t, []int{1, 2, 3, 4}, ids(c.Page()))

	require.True(t, c.NextPage())
	require.True(t, c.NextPage())
	assert.Equal(t, []int{9, 10}, ids(c.Page()))
	assert.False(t, c.NextPage())
	assert.Equal(t, 3, c.CurrentPage())

	assert.False(t, c.GoToPage(0))
	assert.False(t, c.GoToPage(4))
	assert.Equal(t, 3, c.CurrentPage())
	require.True(t, c.GoToPage(1))
	assert.False(t, c.PreviousPage())
}

func TestFilterResetsPage(t *testing.T) {
	c := New(WithPageSize(2))
	c.SetQuotes(fixture(10))
	require.True(t, c.GoToPage(3))

	c.SetStatus(quote.StatusAccepted)
	assert.Equal(t, 1, c.CurrentPage())
	assert.Equal(t, []int{1, 4, 7, 10}, ids(c.Filtered()))
	assert.Equal(t, 2, c.TotalPages())

	require.True(t, c.GoToPage(2))
	c.SetSearch("dev-0010")
	assert.Equal(t, 1, c.CurrentPage())
	assert.Equal(t, []int{10}, ids(c.Filtered()))
}

func TestStatusWithNoMatches(t *testing.T) {
	c := New()
	c.SetQuotes(fixture(5))
	c.SetStatus(quote.StatusExpired)

	assert.Empty(t, c.Filtered())
	assert.Zero(t, c.TotalPages())
	assert.Empty(t, c.Page())
	assert.False(t, c.GoToPage(1))
	assert.False(t, c.IsAllPageSelected())
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	c := New()
	c.SetQuotes(fixture(12))
	c.SetSearch("CLIENT 1")
	assert.Equal(t, []int{1, 10, 11, 12}, ids(c.Filtered()))
}

func TestSelectAllPageOnlyTouchesVisibleIDs(t *testing.T) {
	c := New(WithPageSize(3))
	c.SetQuotes(fixture(7))
	c.Toggle(7)

	c.ToggleSelectAllPage()
	assert.True(t, c.IsAllPageSelected())
	assert.Equal(t, []int{1, 2, 3, 7}, c.Selected())

	c.ToggleSelectAllPage()
	assert.False(t, c.IsAllPageSelected())
	assert.Equal(t, []int{7}, c.Selected())
}

func TestToggleSelectAllPageIsAtomic(t *testing.T) {
	c := New(WithPageSize(5))
	c.SetQuotes(fixture(5))

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.ToggleSelectAllPage()
			c.ToggleSelectAllPage()
		}()
	}
	wg.Wait()

	assert.Zero(t, c.SelectedCount())
}

func TestSelectAllMatchingThenRefilter(t *testing.T) {
	c := New(WithPageSize(2))
	c.SetQuotes(fixture(9))
	c.SetStatus(quote.StatusAccepted)
	c.SelectAllMatching()
	assert.Equal(t, []int{1, 4, 7}, c.Selected())

	c.SetStatus(quote.StatusDraft)
	for _, q := range c.Filtered() {
		assert.False(t, c.IsSelected(q.ID), "draft %d must not be selected", q.ID)
	}
	assert.Equal(t, 3, c.SelectedCount())

	assert.Equal(t, 3, c.PruneSelection())
	assert.False(t, c.HasSelection())
}

func TestToggleAndClear(t *testing.T) {
	c := New()
	c.SetQuotes(fixture(3))
	c.Toggle(2)
	assert.True(t, c.IsSelected(2))
	assert.Equal(t, []int{2}, ids(c.SelectedQuotes()))
	c.Toggle(2)
	assert.False(t, c.IsSelected(2))

	c.Toggle(1)
	c.Toggle(3)
	c.ClearSelection()
	assert.Zero(t, c.SelectedCount())
}

func TestSetQuotesClampsPage(t *testing.T) {
	c := New(WithPageSize(2))
	c.SetQuotes(fixture(6))
	require.True(t, c.GoToPage(3))
	c.SetQuotes(fixture(3))
	assert.Equal(t, 2, c.CurrentPage())
	c.SetQuotes(nil)
	assert.Equal(t, 1, c.CurrentPage())
}

func TestCustomProvider(t *testing.T) {
	c := New(WithProvider(search.NewTokenProvider()), WithPageSize(0))
	assert.Equal(t, DefaultPageSize, c.PageSize())
	c.SetQuotes(fixture(6))
	c.SetSearch("status:accepted client")
	assert.Equal(t, []int{1, 4}, ids(c.Filtered()))
}
