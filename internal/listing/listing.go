// Package listing derives the filtered, paginated and selectable view of a
// quote collection shown by the admin surfaces.
package listing

import (
	"sort"
	"sync"

	"github.com/quotedesk/quotedesk/internal/config"
	"github.com/quotedesk/quotedesk/internal/quote"
	"github.com/quotedesk/quotedesk/internal/search"
)

// DefaultPageSize is used when no positive page size is configured.
const DefaultPageSize = 20

// Option configures a Controller.
type Option func(*Controller)

// WithPageSize sets the page size. Non-positive values keep the default.
func WithPageSize(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithProvider sets the search strategy.
func WithProvider(p search.Provider) Option {
	return func(c *Controller) {
		if p != nil {
			c.provider = p
		}
	}
}

// Controller holds a quote collection, the active search and status filter,
// the current page and a selection of quote ids. Changing the search or the
// status resets the page to 1; the selection survives until cleared.
type Controller struct {
	mu       sync.RWMutex
	quotes   []quote.Quote
	search   string
	status   quote.Status
	page     int
	pageSize int
	selected map[int]struct{}
	provider search.Provider
}

// New creates a controller.
func New(opts ...Option) *Controller {
	c := &Controller{
		page:     1,
		pageSize: DefaultPageSize,
		selected: make(map[int]struct{}),
		provider: search.NewSubstringProvider(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewFromConfig creates a controller using page_size and search_provider.
func NewFromConfig(opts ...Option) *Controller {
	base := []Option{
		WithPageSize(config.GetInt("page_size", DefaultPageSize)),
		WithProvider(search.New(config.Get("search_provider", "substring"))),
	}
	return New(append(base, opts...)...)
}

// SetQuotes replaces the collection. The page is clamped to the new range.
func (c *Controller) SetQuotes(quotes []quote.Quote) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.quotes = append([]quote.Quote(nil), quotes...)
	if total := c.totalPagesLocked(); c.page > total {
		c.page = max(total, 1)
	}
}

// Quotes returns the full collection.
func (c *Controller) Quotes() []quote.Quote {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]quote.Quote(nil), c.quotes...)
}

// SetSearch sets the search string and returns to the first page.
func (c *Controller) SetSearch(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.search = s
	c.page = 1
}

// Search returns the search string.
func (c *Controller) Search() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.search
}

// SetStatus sets the status filter and returns to the first page. An empty
// status disables the filter.
func (c *Controller) SetStatus(s quote.Status) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = s
	c.page = 1
}

// Status returns the status filter.
func (c *Controller) Status() quote.Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

// PageSize returns the page size.
func (c *Controller) PageSize() int {
	return c.pageSize
}

func (c *Controller) filteredLocked() []quote.Quote {
	out := make([]quote.Quote, 0, len(c.quotes))
	for _, q := range c.quotes {
		if c.status != "" && q.Status != c.status {
			continue
		}
		if !c.provider.Match(q, c.search) {
			continue
		}
		out = append(out, q)
	}
	return out
}

// Filtered returns the quotes matching the search and status filter.
func (c *Controller) Filtered() []quote.Quote {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.filteredLocked()
}

func (c *Controller) totalPagesLocked() int {
	n := len(c.filteredLocked())
	return (n + c.pageSize - 1) / c.pageSize
}

// TotalPages is ceil(len(Filtered)/pageSize); zero when nothing matches.
func (c *Controller) TotalPages() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.totalPagesLocked()
}

// CurrentPage returns the 1-based current page.
func (c *Controller) CurrentPage() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.page
}

func (c *Controller) pageLocked() []quote.Quote {
	filtered := c.filteredLocked()
	start := (c.page - 1) * c.pageSize
	if start >= len(filtered) {
		return []quote.Quote{}
	}
	end := min(start+c.pageSize, len(filtered))
	return filtered[start:end]
}

// Page returns the quotes of the current page.
func (c *Controller) Page() []quote.Quote {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pageLocked()
}

// GoToPage moves to page n. Pages outside [1, TotalPages] are ignored.
func (c *Controller) GoToPage(n int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n < 1 || n > c.totalPagesLocked() {
		return false
	}
	c.page = n
	return true
}

// NextPage moves forward one page if possible.
func (c *Controller) NextPage() bool {
	return c.GoToPage(c.CurrentPage() + 1)
}

// PreviousPage moves back one page if possible.
func (c *Controller) PreviousPage() bool {
	return c.GoToPage(c.CurrentPage() - 1)
}

// Toggle flips the selection of id.
func (c *Controller) Toggle(id int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.selected[id]; ok {
		delete(c.selected, id)
		return
	}
	c.selected[id] = struct{}{}
}

// IsSelected reports whether id is selected.
func (c *Controller) IsSelected(id int) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.selected[id]
	return ok
}

// IsAllPageSelected reports whether the current page is non-empty and fully selected.
func (c *Controller) IsAllPageSelected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.allPageSelectedLocked()
}

func (c *Controller) allPageSelectedLocked() bool {
	page := c.pageLocked()
	if len(page) == 0 {
		return false
	}
	for _, q := range page {
		if _, ok := c.selected[q.ID]; !ok {
			return false
		}
	}
	return true
}

// ToggleSelectAllPage deselects the current page when it is fully selected
// and selects it otherwise. Ids on other pages are untouched.
func (c *Controller) ToggleSelectAllPage() {
	c.mu.Lock()
	defer c.mu.Unlock()
	all := c.allPageSelectedLocked()
	for _, q := range c.pageLocked() {
		if all {
			delete(c.selected, q.ID)
		} else {
			c.selected[q.ID] = struct{}{}
		}
	}
}

// SelectAllMatching selects every quote of the filtered set across pages.
func (c *Controller) SelectAllMatching() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, q := range c.filteredLocked() {
		c.selected[q.ID] = struct{}{}
	}
}

// PruneSelection drops selected ids that are not in the filtered set and
// returns how many were dropped.
func (c *Controller) PruneSelection() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	keep := make(map[int]struct{}, len(c.selected))
	for _, q := range c.filteredLocked() {
		if _, ok := c.selected[q.ID]; ok {
			keep[q.ID] = struct{}{}
		}
	}
	dropped := len(c.selected) - len(keep)
	c.selected = keep
	return dropped
}

// ClearSelection deselects everything.
func (c *Controller) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = make(map[int]struct{})
}

// Selected returns the selected ids in ascending order.
func (c *Controller) Selected() []int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]int, 0, len(c.selected))
	for id := range c.selected {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// SelectedQuotes returns the selected quotes still present in the collection.
func (c *Controller) SelectedQuotes() []quote.Quote {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []quote.Quote
	for _, q := range c.quotes {
		if _, ok := c.selected[q.ID]; ok {
			out = append(out, q)
		}
	}
	return out
}

// SelectedCount returns the number of selected ids.
func (c *Controller) SelectedCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.selected)
}

// HasSelection reports whether anything is selected.
func (c *Controller) HasSelection() bool {
	return c.SelectedCount() > 0
}
