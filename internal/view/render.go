package view

import (
	"fmt"
	"strings"

	"github.com/avollmer/stockdesk/internal/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true)
	cursorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("36"))
	mutedStyle    = lipgloss.NewStyle().Faint(true)
)

// RenderOptions controls the interactive decorations of a rendered page.
type RenderOptions struct {
	// Cursor is the highlighted row index within the page, -1 for none.
	Cursor int
	// ShowSelection prefixes each row with its checkbox state.
	ShowSelection bool
}

// RenderPage renders the current page of the table as aligned text rows,
// with a "No results." placeholder when the filtered set is empty and a
// pagination footer when configured.
func RenderPage[T any](m *table.Model[T], id func(T) int, opts RenderOptions) string {
	cols := m.VisibleColumns()
	rows := m.PageRows()

	widths := make([]int, len(cols))
	for i, col := range cols {
		widths[i] = runewidth.StringWidth(col.Title)
		for _, row := range rows {
			if l := runewidth.StringWidth(col.Value(row)); l > widths[i] {
				widths[i] = l
			}
		}
	}

	var b strings.Builder
	head := make([]string, len(cols))
	sortKey, sortDir := m.Sort()
	for i, col := range cols {
		title := col.Title
		if col.Key == sortKey {
			switch sortDir {
			case table.SortAsc:
				title += " ↑"
			case table.SortDesc:
				title += " ↓"
			}
			if l := runewidth.StringWidth(title); l > widths[i] {
				widths[i] = l
			}
		}
		head[i] = pad(title, widths[i])
	}
	prefix := ""
	if opts.ShowSelection {
		prefix = "    "
	}
	b.WriteString(headerStyle.Render(prefix + strings.Join(head, "  ")))
	b.WriteString("\n")

	if len(rows) == 0 {
		b.WriteString(mutedStyle.Render(prefix + "No results."))
		b.WriteString("\n")
	}
	for i, row := range rows {
		cells := make([]string, len(cols))
		for j, col := range cols {
			cells[j] = pad(col.Value(row), widths[j])
		}
		line := strings.Join(cells, "  ")
		if opts.ShowSelection {
			mark := "[ ] "
			if m.IsSelected(id(row)) {
				mark = "[x] "
			}
			line = mark + line
		}
		switch {
		case i == opts.Cursor:
			line = cursorStyle.Render("> " + line)
		case opts.ShowSelection && m.IsSelected(id(row)):
			line = selectedStyle.Render("  " + line)
		default:
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if m.Config().ShowPagination {
		page := m.Page()
		b.WriteString(mutedStyle.Render(fmt.Sprintf(
			"Page %d/%d · %d of %d row(s) selected",
			page.Index+1, page.Count, page.SelectedRows, page.FilteredRows)))
		b.WriteString("\n")
	}
	return b.String()
}

// pad fills s with spaces up to the given display width. Width is measured in
// terminal cells, not bytes, so cells holding € or the sort arrows line up.
func pad(s string, width int) string {
	if w := runewidth.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
