// Package tui implements the interactive browse mode: the cached entity
// collections rendered through the table engine, with filtering, paging,
// selection, row detail views and deletion bound to keys.
//
// The model follows the bubbletea single-threaded event loop; store and table
// access happens only from Update and View. Commands returned to the runtime
// perform network calls exclusively and report back via messages.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/avollmer/stockdesk/internal/model"
	"github.com/avollmer/stockdesk/internal/service"
	"github.com/avollmer/stockdesk/internal/store"
	"github.com/avollmer/stockdesk/internal/table"
	"github.com/avollmer/stockdesk/internal/view"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	tabStyle       = lipgloss.NewStyle().Padding(0, 1).Faint(true)
	activeTabStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).Underline(true)
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	successStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	helpStyle      = lipgloss.NewStyle().Faint(true)
)

// Services bundles the entity services the browse mode needs.
type Services struct {
	Articles  *service.ArticleService
	Customers *service.CustomerService
	Orders    *service.OrderService
}

// deleteDoneMsg reports the outcome of a delete command. The model state is
// only touched when the message is processed on the event loop.
type deleteDoneMsg struct {
	pane   int
	result *service.BatchResult
	err    error
}

// pane is one entity tab of the browse view.
type pane interface {
	title() string
	refresh()
	render() string
	moveCursor(delta int)
	toggleCursor()
	clickCursor()
	detailView() string
	selectAllPage()
	nextPage()
	prevPage()
	setFilter(string)
	filterValue() string
	toggleSort()
	deleteSelected(ctx context.Context, paneIndex int) tea.Cmd
	applyDelete(result *service.BatchResult)
}

// entityPane binds the generic table model to one cached collection.
type entityPane[T any] struct {
	name    string
	tbl     *table.Model[T]
	id      func(T) int
	rows    func() []T
	remove  func(ctx context.Context, ids []int) (*service.BatchResult, error)
	uncache func(ids []int)
	cursor  int
	detail  string
}

func newEntityPane[T any](
	name string,
	columns []table.Column[T],
	id func(T) int,
	pageSize int,
	filterKey string,
	rows func() []T,
	remove func(ctx context.Context, ids []int) (*service.BatchResult, error),
	uncache func(ids []int),
	describe func(T) string,
) *entityPane[T] {
	cfg := table.Config{
		PageSize:       pageSize,
		FilterKey:      filterKey,
		ShowFilter:     true,
		ShowSelect:     true,
		ShowDelete:     true,
		ShowPagination: true,
	}
	p := &entityPane[T]{
		name:    name,
		tbl:     table.New(columns, id, cfg),
		id:      id,
		rows:    rows,
		remove:  remove,
		uncache: uncache,
	}
	p.tbl.OnRowClick(func(row T) { p.detail = describe(row) })
	return p
}

func (p *entityPane[T]) title() string { return p.name }

func (p *entityPane[T]) refresh() {
	p.tbl.SetRows(p.rows())
	p.clampCursor()
}

func (p *entityPane[T]) render() string {
	return view.RenderPage(p.tbl, p.id, view.RenderOptions{Cursor: p.cursor, ShowSelection: true})
}

func (p *entityPane[T]) clampCursor() {
	if n := len(p.tbl.PageRows()); p.cursor >= n {
		p.cursor = n - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
}

func (p *entityPane[T]) moveCursor(delta int) {
	p.cursor += delta
	p.clampCursor()
}

func (p *entityPane[T]) toggleCursor() {
	rows := p.tbl.PageRows()
	if p.cursor < len(rows) {
		p.tbl.ToggleRow(p.id(rows[p.cursor]))
	}
}

// clickCursor activates the cursor row, rendering its detail view.
func (p *entityPane[T]) clickCursor() {
	p.detail = ""
	rows := p.tbl.PageRows()
	if p.cursor < len(rows) {
		p.tbl.ClickRow(p.id(rows[p.cursor]))
	}
}

func (p *entityPane[T]) detailView() string { return p.detail }

func (p *entityPane[T]) selectAllPage() { p.tbl.SelectAllPage() }

func (p *entityPane[T]) nextPage() {
	p.tbl.NextPage()
	p.clampCursor()
}

func (p *entityPane[T]) prevPage() {
	p.tbl.PrevPage()
	p.clampCursor()
}

func (p *entityPane[T]) setFilter(filter string) {
	p.tbl.SetFilter(filter)
	p.clampCursor()
}

func (p *entityPane[T]) filterValue() string {
	return p.tbl.Filter()
}

func (p *entityPane[T]) toggleSort() {
	cols := p.tbl.VisibleColumns()
	if len(cols) > 0 {
		p.tbl.ToggleSort(cols[0].Key)
	}
}

// deleteSelected returns a command that only performs the network calls; the
// cache and selection updates happen in applyDelete once the result message
// arrives on the event loop.
func (p *entityPane[T]) deleteSelected(ctx context.Context, paneIndex int) tea.Cmd {
	if !p.tbl.Config().ShowDelete {
		return nil
	}
	ids := p.tbl.SelectedIDs()
	if len(ids) == 0 {
		return nil
	}
	remove := p.remove
	return func() tea.Msg {
		result, err := remove(ctx, ids)
		return deleteDoneMsg{pane: paneIndex, result: result, err: err}
	}
}

// applyDelete filters the succeeded ids out of the cache, clears the
// selection and re-reads the rows. Runs on the event loop only.
func (p *entityPane[T]) applyDelete(result *service.BatchResult) {
	p.uncache(result.Succeeded)
	p.tbl.ClearSelection()
	p.refresh()
}

// Model is the bubbletea model of the browse view.
type Model struct {
	store    *store.Store
	services Services
	logger   *slog.Logger

	panes      []pane
	active     int
	filter     textinput.Model
	filtering  bool
	detailOpen bool
	status     string
	width      int
	showHelp   bool
}

// NewModel builds the browse model over the already-populated store.
func NewModel(st *store.Store, services Services, pageSize int, logger *slog.Logger) *Model {
	filter := textinput.New()
	filter.Placeholder = "Filter by id.."
	filter.CharLimit = 32

	panes := []pane{
		newEntityPane(
			"Articles",
			view.ArticleColumns(),
			func(a model.Article) int { return a.ArticleID },
			pageSize,
			"article_id",
			st.Articles,
			services.Articles.Delete,
			st.RemoveArticles,
			view.ArticleDetail,
		),
		newEntityPane(
			"Customers",
			view.CustomerColumns(),
			func(c model.Customer) int { return c.CustomerID },
			pageSize,
			"customer_id",
			st.Customers,
			services.Customers.Delete,
			st.RemoveCustomers,
			view.CustomerDetail,
		),
		newEntityPane(
			"Orders",
			view.OrderColumns(),
			func(o model.Order) int { return o.OrderID },
			pageSize,
			"order_id",
			st.Orders,
			services.Orders.Delete,
			st.RemoveOrders,
			view.OrderDetail,
		),
	}
	m := &Model{
		store:    st,
		services: services,
		logger:   logger.With("component", "tui"),
		panes:    panes,
		filter:   filter,
		showHelp: true,
	}
	for _, p := range m.panes {
		p.refresh()
	}
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case deleteDoneMsg:
		deleted := 0
		if msg.result != nil {
			m.panes[msg.pane].applyDelete(msg.result)
			deleted = len(msg.result.Succeeded)
		}
		if msg.err != nil {
			m.status = errorStyle.Render(fmt.Sprintf("Deleted %d row(s), some failed: %v", deleted, msg.err))
		} else {
			m.status = successStyle.Render(fmt.Sprintf("Deleted %d row(s)", deleted))
		}
		return m, nil

	case tea.KeyMsg:
		if m.detailOpen {
			return m.updateDetail(msg)
		}
		if m.filtering {
			return m.updateFilter(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m *Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "enter", "backspace":
		m.detailOpen = false
	}
	return m, nil
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.filtering = false
		m.filter.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.pane().setFilter(m.filter.Value())
	return m, cmd
}

func (m *Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "tab":
		m.active = (m.active + 1) % len(m.panes)
		m.filter.SetValue(m.pane().filterValue())
		m.status = ""
	case "/":
		m.filtering = true
		return m, m.filter.Focus()
	case "up", "k":
		m.pane().moveCursor(-1)
	case "down", "j":
		m.pane().moveCursor(1)
	case "left", "h":
		m.pane().prevPage()
	case "right", "l":
		m.pane().nextPage()
	case " ":
		m.pane().toggleCursor()
	case "enter":
		m.pane().clickCursor()
		if m.pane().detailView() != "" {
			m.detailOpen = true
		}
	case "a":
		m.pane().selectAllPage()
	case "s":
		m.pane().toggleSort()
	case "?":
		m.showHelp = !m.showHelp
	case "d":
		if cmd := m.pane().deleteSelected(context.Background(), m.active); cmd != nil {
			return m, cmd
		}
		m.status = helpStyle.Render("Nothing selected")
	}
	return m, nil
}

func (m *Model) pane() pane {
	return m.panes[m.active]
}

// View implements tea.Model.
func (m *Model) View() string {
	var tabs []string
	for i, p := range m.panes {
		style := tabStyle
		if i == m.active {
			style = activeTabStyle
		}
		tabs = append(tabs, style.Render(p.title()))
	}

	var b strings.Builder
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n\n")

	if m.detailOpen {
		b.WriteString(m.pane().detailView())
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("esc: back · q: quit"))
		return b.String()
	}

	if m.filtering || m.filter.Value() != "" {
		b.WriteString(m.filter.View())
		b.WriteString("\n")
	}
	b.WriteString(m.pane().render())

	if n := m.store.Notification(); !n.IsZero() {
		if n.Error != "" {
			b.WriteString(errorStyle.Render(n.Error))
		} else {
			b.WriteString(successStyle.Render(n.Success))
		}
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(m.status)
		b.WriteString("\n")
	}
	if m.showHelp {
		b.WriteString(helpStyle.Render("tab: entity · /: filter · space: select · enter: details · a: page · d: delete · s: sort · ←/→: page · ?: help · q: quit"))
	}
	return b.String()
}

// HelpVisible reports whether the key help bar is shown.
func (m *Model) HelpVisible() bool {
	return m.showHelp
}

// SetHelpVisible restores the persisted help bar preference.
func (m *Model) SetHelpVisible(visible bool) {
	m.showHelp = visible
}
