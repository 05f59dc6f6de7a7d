// Package table implements the generic data table as a pure state machine
// over typed rows: stable single-column sorting, single-column text
// filtering, client-side pagination over the filtered set, multi-row
// selection with per-row quantities, and column visibility toggles.
//
// The package is free of any rendering framework; callers feed key events or
// method calls in and read the visible page out.
package table

import (
	"sort"
	"strings"
)

// DefaultPageSize is used when the config does not set a page size.
const DefaultPageSize = 15

// SortDirection is the current sort order of the sorted column.
type SortDirection int

const (
	SortNone SortDirection = iota
	SortAsc
	SortDesc
)

// Column describes one column of a table over rows of type T.
type Column[T any] struct {
	// Key identifies the column, e.g. "article_id".
	Key string
	// Title is the header label.
	Title string
	// Value renders the cell's string representation. It is also what the
	// filter matches against and the default sort key.
	Value func(T) string
	// Compare orders two rows for this column. When nil, rows are compared
	// by their Value strings.
	Compare func(a, b T) int
	// Hideable marks the column as toggleable in the visibility menu.
	Hideable bool
}

// Config enumerates the opt-in features of a table instance.
type Config struct {
	// PageSize is the number of rows per page, DefaultPageSize when zero.
	PageSize int
	// FilterKey is the column the text filter applies to.
	FilterKey string
	// ShowFilter enables SetFilter; without it the filter stays empty.
	ShowFilter bool
	// ShowSelect enables row selection and quantity edits.
	ShowSelect bool
	// ShowDelete allows the hosting view to offer deletion of the selection.
	ShowDelete bool
	// ShowPagination makes the renderer print the page footer.
	ShowPagination bool
}

// Selected is one entry of the emitted selection: the domain row plus the
// last-edited quantity (meaningful during order composition).
type Selected[T any] struct {
	Row      T
	Quantity int
}

// Page describes the currently visible slice of the filtered row set.
type Page struct {
	// Index is the zero-based page number.
	Index int
	// Count is the number of pages over the filtered set, at least 1.
	Count int
	// TotalRows is the size of the unfiltered row set.
	TotalRows int
	// FilteredRows is the size of the filtered row set.
	FilteredRows int
	// SelectedRows is the number of selected rows within the filtered set.
	SelectedRows int
}

// Model is the table state machine for rows of type T. Row identity is the
// integer id produced by the configured accessor.
type Model[T any] struct {
	columns []Column[T]
	id      func(T) int
	cfg     Config

	rows       []T
	sortKey    string
	sortDir    SortDirection
	filter     string
	page       int
	selected   map[int]struct{}
	quantities map[int]int
	hidden     map[string]struct{}

	onSelectionChange func([]Selected[T])
	onRowClick        func(T)
}

// New creates a table over the given columns. id extracts the row identity.
func New[T any](columns []Column[T], id func(T) int, cfg Config) *Model[T] {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	return &Model[T]{
		columns:    columns,
		id:         id,
		cfg:        cfg,
		selected:   make(map[int]struct{}),
		quantities: make(map[int]int),
		hidden:     make(map[string]struct{}),
	}
}

// OnSelectionChange registers the callback emitted after every change to the
// selection or to a selected row's quantity.
func (m *Model[T]) OnSelectionChange(fn func([]Selected[T])) {
	m.onSelectionChange = fn
}

// OnRowClick registers the callback invoked when a row is activated, the hook
// for navigating to a detail view keyed by the row's id.
func (m *Model[T]) OnRowClick(fn func(T)) {
	m.onRowClick = fn
}

// ClickRow activates the row with the given id. A no-op when no callback is
// registered or the id is not in the row set.
func (m *Model[T]) ClickRow(id int) {
	if m.onRowClick == nil {
		return
	}
	for _, row := range m.rows {
		if m.id(row) == id {
			m.onRowClick(row)
			return
		}
	}
}

// Config returns the table configuration.
func (m *Model[T]) Config() Config {
	return m.cfg
}

// SetRows replaces the row set. Selection entries whose rows disappeared are
// dropped; the current page is clamped into the new range.
func (m *Model[T]) SetRows(rows []T) {
	m.rows = rows
	live := make(map[int]struct{}, len(rows))
	for _, row := range rows {
		live[m.id(row)] = struct{}{}
	}
	pruned := false
	for id := range m.selected {
		if _, ok := live[id]; !ok {
			delete(m.selected, id)
			delete(m.quantities, id)
			pruned = true
		}
	}
	m.clampPage()
	if pruned {
		m.emitSelection()
	}
}

// SetFilter replaces the filter string and resets to the first page. A no-op
// unless the table was configured with ShowFilter.
func (m *Model[T]) SetFilter(filter string) {
	if !m.cfg.ShowFilter {
		return
	}
	m.filter = filter
	m.page = 0
}

// Filter returns the current filter string.
func (m *Model[T]) Filter() string {
	return m.filter
}

// ToggleSort cycles the sort on the given column: ascending on first use,
// then flipping direction on each further call. Sorting a different column
// starts ascending again.
func (m *Model[T]) ToggleSort(key string) {
	if m.sortKey != key {
		m.sortKey = key
		m.sortDir = SortAsc
		return
	}
	if m.sortDir == SortAsc {
		m.sortDir = SortDesc
	} else {
		m.sortDir = SortAsc
	}
}

// Sort returns the sorted column key and direction.
func (m *Model[T]) Sort() (string, SortDirection) {
	return m.sortKey, m.sortDir
}

// ToggleColumn flips the visibility of a hideable column.
func (m *Model[T]) ToggleColumn(key string) {
	for _, col := range m.columns {
		if col.Key != key {
			continue
		}
		if !col.Hideable {
			return
		}
		if _, ok := m.hidden[key]; ok {
			delete(m.hidden, key)
		} else {
			m.hidden[key] = struct{}{}
		}
		return
	}
}

// VisibleColumns returns the columns that are not hidden, in order.
func (m *Model[T]) VisibleColumns() []Column[T] {
	cols := make([]Column[T], 0, len(m.columns))
	for _, col := range m.columns {
		if _, ok := m.hidden[col.Key]; !ok {
			cols = append(cols, col)
		}
	}
	return cols
}

// column looks up a column by key.
func (m *Model[T]) column(key string) (Column[T], bool) {
	for _, col := range m.columns {
		if col.Key == key {
			return col, true
		}
	}
	return Column[T]{}, false
}

// filteredRows applies the substring filter on the configured column.
func (m *Model[T]) filteredRows() []T {
	if m.filter == "" || m.cfg.FilterKey == "" {
		return m.rows
	}
	col, ok := m.column(m.cfg.FilterKey)
	if !ok {
		return m.rows
	}
	needle := strings.ToLower(m.filter)
	matched := make([]T, 0, len(m.rows))
	for _, row := range m.rows {
		if strings.Contains(strings.ToLower(col.Value(row)), needle) {
			matched = append(matched, row)
		}
	}
	return matched
}

// visibleRows is the filtered set in the current sort order. The sort is
// stable: rows with equal keys keep their input order.
func (m *Model[T]) visibleRows() []T {
	filtered := m.filteredRows()
	if m.sortDir == SortNone || m.sortKey == "" {
		return filtered
	}
	col, ok := m.column(m.sortKey)
	if !ok {
		return filtered
	}
	cmp := col.Compare
	if cmp == nil {
		cmp = func(a, b T) int {
			return strings.Compare(col.Value(a), col.Value(b))
		}
	}
	sorted := make([]T, len(filtered))
	copy(sorted, filtered)
	sort.SliceStable(sorted, func(i, j int) bool {
		if m.sortDir == SortDesc {
			return cmp(sorted[i], sorted[j]) > 0
		}
		return cmp(sorted[i], sorted[j]) < 0
	})
	return sorted
}

// PageRows returns the rows of the current page, computed over the filtered
// and sorted set. An empty result means the caller should render the
// "no results" placeholder row.
func (m *Model[T]) PageRows() []T {
	visible := m.visibleRows()
	start := m.page * m.cfg.PageSize
	if start >= len(visible) {
		return nil
	}
	end := start + m.cfg.PageSize
	if end > len(visible) {
		end = len(visible)
	}
	return visible[start:end]
}

// Page describes the current pagination state.
func (m *Model[T]) Page() Page {
	filtered := m.filteredRows()
	count := (len(filtered) + m.cfg.PageSize - 1) / m.cfg.PageSize
	if count == 0 {
		count = 1
	}
	selected := 0
	for _, row := range filtered {
		if _, ok := m.selected[m.id(row)]; ok {
			selected++
		}
	}
	return Page{
		Index:        m.page,
		Count:        count,
		TotalRows:    len(m.rows),
		FilteredRows: len(filtered),
		SelectedRows: selected,
	}
}

// CanNextPage reports whether a further page exists.
func (m *Model[T]) CanNextPage() bool {
	return m.page+1 < m.Page().Count
}

// CanPrevPage reports whether a previous page exists.
func (m *Model[T]) CanPrevPage() bool {
	return m.page > 0
}

// NextPage advances to the next page if one exists.
func (m *Model[T]) NextPage() {
	if m.CanNextPage() {
		m.page++
	}
}

// PrevPage goes back one page if possible.
func (m *Model[T]) PrevPage() {
	if m.CanPrevPage() {
		m.page--
	}
}

func (m *Model[T]) clampPage() {
	if count := m.Page().Count; m.page >= count {
		m.page = count - 1
	}
	if m.page < 0 {
		m.page = 0
	}
}

// ToggleRow flips the selection state of the row with the given id. A no-op
// unless the table was configured with ShowSelect.
func (m *Model[T]) ToggleRow(id int) {
	if !m.cfg.ShowSelect {
		return
	}
	if _, ok := m.selected[id]; ok {
		delete(m.selected, id)
		delete(m.quantities, id)
	} else {
		m.selected[id] = struct{}{}
	}
	m.emitSelection()
}

// IsSelected reports whether the row with the given id is selected.
func (m *Model[T]) IsSelected(id int) bool {
	_, ok := m.selected[id]
	return ok
}

// SelectAllPage selects every row of the current page. If all of them are
// already selected, it deselects them instead. A no-op unless the table was
// configured with ShowSelect.
func (m *Model[T]) SelectAllPage() {
	if !m.cfg.ShowSelect {
		return
	}
	rows := m.PageRows()
	all := len(rows) > 0
	for _, row := range rows {
		if _, ok := m.selected[m.id(row)]; !ok {
			all = false
			break
		}
	}
	for _, row := range rows {
		id := m.id(row)
		if all {
			delete(m.selected, id)
			delete(m.quantities, id)
		} else {
			m.selected[id] = struct{}{}
		}
	}
	m.emitSelection()
}

// ClearSelection deselects all rows and forgets their quantities.
func (m *Model[T]) ClearSelection() {
	m.selected = make(map[int]struct{})
	m.quantities = make(map[int]int)
	m.emitSelection()
}

// SetQuantity records the row-local quantity edit for a row. The value is
// attached to the emitted selection; it does not flow through the store
// until the selection is explicitly saved.
func (m *Model[T]) SetQuantity(id, quantity int) {
	if !m.cfg.ShowSelect {
		return
	}
	m.quantities[id] = quantity
	if _, ok := m.selected[id]; ok {
		m.emitSelection()
	}
}

// Quantity returns the last-edited quantity for a row, zero if none.
func (m *Model[T]) Quantity(id int) int {
	return m.quantities[id]
}

// Selection returns the selected rows in row-set order, each with its
// last-edited quantity.
func (m *Model[T]) Selection() []Selected[T] {
	out := make([]Selected[T], 0, len(m.selected))
	for _, row := range m.rows {
		id := m.id(row)
		if _, ok := m.selected[id]; ok {
			out = append(out, Selected[T]{Row: row, Quantity: m.quantities[id]})
		}
	}
	return out
}

// SelectedIDs returns the ids of all selected rows in row-set order.
func (m *Model[T]) SelectedIDs() []int {
	ids := make([]int, 0, len(m.selected))
	for _, row := range m.rows {
		id := m.id(row)
		if _, ok := m.selected[id]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

func (m *Model[T]) emitSelection() {
	if m.onSelectionChange != nil {
		m.onSelectionChange(m.Selection())
	}
}
