package table_test

import (
	"strconv"
	"testing"

	"github.com/avollmer/stockdesk/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID   int
	Name string
}

func rowID(r row) int { return r.ID }

func columns() []table.Column[row] {
	return []table.Column[row]{
		{
			Key:     "id",
			Title:   "ID",
			Value:   func(r row) string { return strconv.Itoa(r.ID) },
			Compare: func(a, b row) int { return a.ID - b.ID },
		},
		{
			Key:      "name",
			Title:    "Name",
			Value:    func(r row) string { return r.Name },
			Hideable: true,
		},
	}
}

func rows(n int) []row {
	out := make([]row, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, row{ID: i, Name: "row" + strconv.Itoa(i)})
	}
	return out
}

func newModel(cfg table.Config) *table.Model[row] {
	return table.New(columns(), rowID, cfg)
}

func TestModel_Pagination(t *testing.T) {
	m := newModel(table.Config{PageSize: 10, ShowPagination: true})
	m.SetRows(rows(25))

	page := m.Page()
	assert.Equal(t, 0, page.Index)
	assert.Equal(t, 3, page.Count)
	assert.Equal(t, 25, page.TotalRows)
	assert.Len(t, m.PageRows(), 10)

	m.NextPage()
	m.NextPage()
	assert.Len(t, m.PageRows(), 5)
	assert.False(t, m.CanNextPage())

	// Clamped at the last page.
	m.NextPage()
	assert.Equal(t, 2, m.Page().Index)

	m.PrevPage()
	assert.Equal(t, 1, m.Page().Index)
}

func TestModel_FilterAppliesBeforePagination(t *testing.T) {
	m := newModel(table.Config{PageSize: 10, FilterKey: "id", ShowFilter: true})
	m.SetRows(rows(30))

	// Matches 1, 10-19, 21: substring match on the id column.
	m.SetFilter("1")
	page := m.Page()
	assert.Equal(t, 12, page.FilteredRows)
	assert.Equal(t, 30, page.TotalRows)
	assert.Equal(t, 2, page.Count)
	assert.Len(t, m.PageRows(), 10)
}

func TestModel_FilterResetsPage(t *testing.T) {
	m := newModel(table.Config{PageSize: 5, FilterKey: "name", ShowFilter: true})
	m.SetRows(rows(20))
	m.NextPage()
	require.Equal(t, 1, m.Page().Index)

	m.SetFilter("row1")
	assert.Equal(t, 0, m.Page().Index)
}

func TestModel_FilterIsCaseInsensitive(t *testing.T) {
	m := newModel(table.Config{PageSize: 10, FilterKey: "name", ShowFilter: true})
	m.SetRows([]row{{ID: 1, Name: "Bolt"}, {ID: 2, Name: "nut"}})

	m.SetFilter("BOLT")
	require.Len(t, m.PageRows(), 1)
	assert.Equal(t, 1, m.PageRows()[0].ID)
}

func TestModel_NoMatchYieldsEmptyPage(t *testing.T) {
	m := newModel(table.Config{PageSize: 10, FilterKey: "name", ShowFilter: true})
	m.SetRows(rows(5))

	m.SetFilter("zzz")
	assert.Empty(t, m.PageRows())
	assert.Equal(t, 1, m.Page().Count)
}

func TestModel_ToggleSortCycles(t *testing.T) {
	m := newModel(table.Config{PageSize: 10})
	m.SetRows([]row{{ID: 2, Name: "b"}, {ID: 1, Name: "a"}, {ID: 3, Name: "c"}})

	key, dir := m.Sort()
	assert.Equal(t, "", key)
	assert.Equal(t, table.SortNone, dir)

	m.ToggleSort("id")
	_, dir = m.Sort()
	assert.Equal(t, table.SortAsc, dir)
	assert.Equal(t, 1, m.PageRows()[0].ID)

	m.ToggleSort("id")
	_, dir = m.Sort()
	assert.Equal(t, table.SortDesc, dir)
	assert.Equal(t, 3, m.PageRows()[0].ID)

	// Switching columns starts ascending again.
	m.ToggleSort("name")
	key, dir = m.Sort()
	assert.Equal(t, "name", key)
	assert.Equal(t, table.SortAsc, dir)
}

func TestModel_SortIsStable(t *testing.T) {
	m := table.New([]table.Column[row]{
		{
			Key:     "group",
			Title:   "Group",
			Value:   func(r row) string { return r.Name },
			Compare: func(a, b row) int { return 0 },
		},
	}, rowID, table.Config{PageSize: 10})
	m.SetRows([]row{{ID: 3}, {ID: 1}, {ID: 2}})

	m.ToggleSort("group")
	got := m.PageRows()
	assert.Equal(t, []row{{ID: 3}, {ID: 1}, {ID: 2}}, got, "equal keys keep input order")
}

func TestModel_SortDoesNotMutateRowSet(t *testing.T) {
	m := newModel(table.Config{PageSize: 10})
	input := []row{{ID: 2, Name: "b"}, {ID: 1, Name: "a"}}
	m.SetRows(input)
	m.ToggleSort("id")
	_ = m.PageRows()

	assert.Equal(t, 2, input[0].ID, "caller slice stays untouched")
}

func TestModel_SelectionWithQuantities(t *testing.T) {
	m := newModel(table.Config{PageSize: 10, ShowSelect: true})
	m.SetRows(rows(5))

	m.ToggleRow(2)
	m.ToggleRow(4)
	m.SetQuantity(2, 7)

	selection := m.Selection()
	require.Len(t, selection, 2)
	assert.Equal(t, 2, selection[0].Row.ID)
	assert.Equal(t, 7, selection[0].Quantity)
	assert.Equal(t, 4, selection[1].Row.ID)
	assert.Equal(t, 0, selection[1].Quantity)
	assert.Equal(t, []int{2, 4}, m.SelectedIDs())

	m.ToggleRow(2)
	assert.False(t, m.IsSelected(2))
	assert.Equal(t, 0, m.Quantity(2), "quantity forgotten on deselect")
}

func TestModel_SelectAllPageTogglesBack(t *testing.T) {
	m := newModel(table.Config{PageSize: 3, ShowSelect: true})
	m.SetRows(rows(5))

	m.SelectAllPage()
	assert.Equal(t, []int{1, 2, 3}, m.SelectedIDs())

	m.SelectAllPage()
	assert.Empty(t, m.SelectedIDs())
}

func TestModel_SetRowsPrunesDeadSelections(t *testing.T) {
	m := newModel(table.Config{PageSize: 10, ShowSelect: true})
	m.SetRows(rows(3))
	m.ToggleRow(1)
	m.ToggleRow(3)

	m.SetRows(rows(2)) // row 3 disappeared
	assert.Equal(t, []int{1}, m.SelectedIDs())
}

func TestModel_SetRowsClampsPage(t *testing.T) {
	m := newModel(table.Config{PageSize: 10})
	m.SetRows(rows(25))
	m.NextPage()
	m.NextPage()
	require.Equal(t, 2, m.Page().Index)

	m.SetRows(rows(5))
	assert.Equal(t, 0, m.Page().Index)
}

func TestModel_SelectionChangeCallback(t *testing.T) {
	m := newModel(table.Config{PageSize: 10, ShowSelect: true})
	m.SetRows(rows(3))

	var emitted [][]table.Selected[row]
	m.OnSelectionChange(func(s []table.Selected[row]) { emitted = append(emitted, s) })

	m.ToggleRow(1)
	m.SetQuantity(1, 4)
	m.SetQuantity(2, 9) // not selected, no emit
	m.ClearSelection()

	require.Len(t, emitted, 3)
	assert.Equal(t, 4, emitted[1][0].Quantity)
	assert.Empty(t, emitted[2])
}

func TestModel_ToggleColumn(t *testing.T) {
	m := newModel(table.Config{PageSize: 10})

	m.ToggleColumn("id") // not hideable
	assert.Len(t, m.VisibleColumns(), 2)

	m.ToggleColumn("name")
	require.Len(t, m.VisibleColumns(), 1)
	assert.Equal(t, "id", m.VisibleColumns()[0].Key)

	m.ToggleColumn("name")
	assert.Len(t, m.VisibleColumns(), 2)
}

func TestModel_RowClick(t *testing.T) {
	m := newModel(table.Config{PageSize: 10})
	m.SetRows(rows(3))

	// Without a callback activation is a no-op.
	m.ClickRow(2)

	var clicked []int
	m.OnRowClick(func(r row) { clicked = append(clicked, r.ID) })

	m.ClickRow(2)
	m.ClickRow(99) // unknown id
	assert.Equal(t, []int{2}, clicked)
}

func TestModel_DisabledFeaturesAreNoOps(t *testing.T) {
	m := newModel(table.Config{PageSize: 10, FilterKey: "name"})
	m.SetRows(rows(3))

	m.SetFilter("row1")
	assert.Equal(t, "", m.Filter())
	assert.Len(t, m.PageRows(), 3)

	m.ToggleRow(1)
	m.SelectAllPage()
	m.SetQuantity(1, 5)
	assert.Empty(t, m.SelectedIDs())
	assert.Equal(t, 0, m.Quantity(1))
}

func TestModel_SelectedRowsCountsFilteredOnly(t *testing.T) {
	m := newModel(table.Config{PageSize: 10, FilterKey: "name", ShowFilter: true, ShowSelect: true})
	m.SetRows([]row{{ID: 1, Name: "Bolt"}, {ID: 2, Name: "Nut"}})
	m.ToggleRow(1)
	m.ToggleRow(2)

	m.SetFilter("Bolt")
	assert.Equal(t, 1, m.Page().SelectedRows)
	assert.Equal(t, 1, m.Page().FilteredRows)
}
