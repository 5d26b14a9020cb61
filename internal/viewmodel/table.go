package viewmodel

import (
	"fmt"
	"sort"
)

// Predicate keeps a row when it returns true.
type Predicate[T any] func(T) bool

// Comparator orders two rows, returning a negative number when a sorts
// before b.
type Comparator[T any] func(a, b T) int

// Table holds the interactive state of one rendered table: named filters,
// a sort key, row selection and pagination. Rows are held in memory and
// every view is recomputed from them.
type Table[T any] struct {
	rows []T
	key  func(T) string

	filterNames []string
	filters     map[string]Predicate[T]

	comparators map[string]Comparator[T]
	sortKey     string
	desc        bool

	selected map[string]struct{}

	page     int
	pageSize int
}

// NewTable builds a table over rows. key returns a row's unique id.
func NewTable[T any](rows []T, key func(T) string) *Table[T] {
	return &Table[T]{
		rows:        rows,
		key:         key,
		filters:     make(map[string]Predicate[T]),
		comparators: make(map[string]Comparator[T]),
		selected:    make(map[string]struct{}),
		page:        1,
	}
}

// SetFilter installs or replaces the predicate called name. A nil
// predicate removes it.
func (t *Table[T]) SetFilter(name string, p Predicate[T]) {
	if p == nil {
		t.ClearFilter(name)
		return
	}
	if _, exists := t.filters[name]; !exists {
		t.filterNames = append(t.filterNames, name)
	}
	t.filters[name] = p
}

// ClearFilter removes the predicate called name.
func (t *Table[T]) ClearFilter(name string) {
	if _, exists := t.filters[name]; !exists {
		return
	}
	delete(t.filters, name)
	for i, n := range t.filterNames {
		if n == name {
			t.filterNames = append(t.filterNames[:i], t.filterNames[i+1:]...)
			break
		}
	}
}

// RegisterSort makes name available as a sort key.
func (t *Table[T]) RegisterSort(name string, cmp Comparator[T]) {
	t.comparators[name] = cmp
}

// SortBy selects a registered sort key. An empty name restores row order.
func (t *Table[T]) SortBy(name string, desc bool) error {
	if name == "" {
		t.sortKey, t.desc = "", false
		return nil
	}
	if _, ok := t.comparators[name]; !ok {
		return fmt.Errorf("unknown sort key %q", name)
	}
	t.sortKey, t.desc = name, desc
	return nil
}

// Visible returns the rows passing every filter, sorted. Sorting is stable.
func (t *Table[T]) Visible() []T {
	out := make([]T, 0, len(t.rows))
	for _, row := range t.rows {
		if t.keep(row) {
			out = append(out, row)
		}
	}
	if cmp, ok := t.comparators[t.sortKey]; ok {
		sort.SliceStable(out, func(i, j int) bool {
			if t.desc {
				return cmp(out[j], out[i]) < 0
			}
			return cmp(out[i], out[j]) < 0
		})
	}
	return out
}

func (t *Table[T]) keep(row T) bool {
	for _, name := range t.filterNames {
		if !t.filters[name](row) {
			return false
		}
	}
	return true
}

// Total is the number of visible rows.
func (t *Table[T]) Total() int {
	return len(t.Visible())
}

// SelectAll selects exactly the visible rows.
func (t *Table[T]) SelectAll() {
	t.selected = make(map[string]struct{})
	for _, row := range t.Visible() {
		t.selected[t.key(row)] = struct{}{}
	}
}

// SelectNone clears the selection.
func (t *Table[T]) SelectNone() {
	t.selected = make(map[string]struct{})
}

// Select adds ids to the selection. Unknown ids are ignored.
func (t *Table[T]) Select(ids ...string) {
	known := make(map[string]struct{}, len(t.rows))
	for _, row := range t.rows {
		known[t.key(row)] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := known[id]; ok {
			t.selected[id] = struct{}{}
		}
	}
}

// Toggle flips the selection of one row.
func (t *Table[T]) Toggle(id string) {
	if _, ok := t.selected[id]; ok {
		delete(t.selected, id)
		return
	}
	t.Select(id)
}

// IsSelected reports whether the row with id is selected.
func (t *Table[T]) IsSelected(id string) bool {
	_, ok := t.selected[id]
	return ok
}

// AllVisibleSelected reports whether the selection equals a non-empty
// visible set, which is what the select-all checkbox shows.
func (t *Table[T]) AllVisibleSelected() bool {
	visible := t.Visible()
	if len(visible) == 0 || len(visible) != len(t.selected) {
		return false
	}
	for _, row := range visible {
		if !t.IsSelected(t.key(row)) {
			return false
		}
	}
	return true
}

// Selected returns the selected rows in visible order followed by selected
// rows hidden by the current filters.
func (t *Table[T]) Selected() []T {
	out := make([]T, 0, len(t.selected))
	seen := make(map[string]struct{}, len(t.selected))
	for _, row := range t.Visible() {
		id := t.key(row)
		if t.IsSelected(id) {
			out = append(out, row)
			seen[id] = struct{}{}
		}
	}
	for _, row := range t.rows {
		id := t.key(row)
		if _, done := seen[id]; !done && t.IsSelected(id) {
			out = append(out, row)
			seen[id] = struct{}{}
		}
	}
	return out
}

// SelectedIDs returns the ids of Selected.
func (t *Table[T]) SelectedIDs() []string {
	rows := t.Selected()
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, t.key(row))
	}
	return ids
}

// Paginate sets the page (1-based) and page size. A size of zero shows
// every row on one page.
func (t *Table[T]) Paginate(page, size int) {
	if page < 1 {
		page = 1
	}
	if size < 0 {
		size = 0
	}
	t.page, t.pageSize = page, size
}

// PageInfo describes the current page.
type PageInfo struct {
	Page       int
	PageSize   int
	TotalRows  int
	TotalPages int
}

// HasPrev reports whether a previous page exists.
func (p PageInfo) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a following page exists.
func (p PageInfo) HasNext() bool { return p.Page < p.TotalPages }

// Page returns the visible rows of the current page. A page past the end
// is clamped to the last page.
func (t *Table[T]) Page() ([]T, PageInfo) {
	visible := t.Visible()
	info := PageInfo{Page: t.page, PageSize: t.pageSize, TotalRows: len(visible), TotalPages: 1}
	if t.pageSize == 0 || len(visible) == 0 {
		info.Page = 1
		return visible, info
	}
	info.TotalPages = (len(visible) + t.pageSize - 1) / t.pageSize
	if info.Page > info.TotalPages {
		info.Page = info.TotalPages
	}
	start := (info.Page - 1) * t.pageSize
	end := start + t.pageSize
	if end > len(visible) {
		end = len(visible)
	}
	return visible[start:end], info
}
