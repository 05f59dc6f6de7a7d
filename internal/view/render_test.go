package view_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/avollmer/stockdesk/internal/model"
	"github.com/avollmer/stockdesk/internal/table"
	"github.com/avollmer/stockdesk/internal/view"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func articleID(a model.Article) int { return a.ArticleID }

func newArticleTable(rows []model.Article) *table.Model[model.Article] {
	m := table.New(view.ArticleColumns(), articleID, table.Config{
		PageSize:       10,
		FilterKey:      "article_id",
		ShowFilter:     true,
		ShowSelect:     true,
		ShowPagination: true,
	})
	m.SetRows(rows)
	return m
}

func article(id int, name, price string) model.Article {
	return model.Article{ArticleID: id, Name: name, Price: decimal.RequireFromString(price), Stock: 3}
}

func TestRenderPage_ShowsRows(t *testing.T) {
	m := newArticleTable([]model.Article{article(1, "Bolt", "0.25"), article(2, "Nut", "0.10")})

	out := view.RenderPage(m, articleID, view.RenderOptions{Cursor: -1})
	assert.Contains(t, out, "Bolt")
	assert.Contains(t, out, "0.25 €")
	assert.Contains(t, out, "Page 1/1")
}

func TestRenderPage_EmptyFilterShowsPlaceholder(t *testing.T) {
	m := newArticleTable([]model.Article{article(1, "Bolt", "0.25")})
	m.SetFilter("999")

	out := view.RenderPage(m, articleID, view.RenderOptions{Cursor: -1})
	assert.Contains(t, out, "No results.")
}

func TestRenderPage_SelectionCheckboxes(t *testing.T) {
	m := newArticleTable([]model.Article{article(1, "Bolt", "0.25"), article(2, "Nut", "0.10")})
	m.ToggleRow(2)

	out := view.RenderPage(m, articleID, view.RenderOptions{Cursor: -1, ShowSelection: true})
	assert.Contains(t, out, "[x]")
	assert.Contains(t, out, "[ ]")
	assert.Contains(t, out, "1 of 2 row(s) selected")
}

func TestRenderPage_SortArrow(t *testing.T) {
	m := newArticleTable([]model.Article{article(2, "Nut", "0.10"), article(1, "Bolt", "0.25")})
	m.ToggleSort("article_id")

	out := view.RenderPage(m, articleID, view.RenderOptions{Cursor: -1})
	require.Contains(t, out, "↑")

	lines := strings.Split(out, "\n")
	require.Greater(t, len(lines), 2)
	assert.Contains(t, lines[1], "1", "ascending sort puts the lowest id first")
}

func TestRenderPage_AlignsMultibyteCells(t *testing.T) {
	m := newArticleTable([]model.Article{article(1, "Bolt", "2.50"), article(2, "Nuts", "10.00")})

	out := view.RenderPage(m, articleID, view.RenderOptions{Cursor: -1})
	lines := strings.Split(out, "\n")
	require.Greater(t, len(lines), 3)

	// The price cells hold a €, the header does not; the stock column must
	// still start at the same display column everywhere. Data rows carry a
	// two-cell cursor gutter the header line does not.
	headerCol := displayCol(t, lines[0], "Stock")
	assert.Equal(t, headerCol+2, displayCol(t, lines[1], "3"))
	assert.Equal(t, headerCol+2, displayCol(t, lines[2], "3"))
}

func displayCol(t *testing.T, line, substr string) int {
	t.Helper()
	idx := strings.Index(line, substr)
	require.GreaterOrEqual(t, idx, 0)
	return utf8.RuneCountInString(line[:idx])
}

func TestPrice(t *testing.T) {
	assert.Equal(t, "2.50 €", view.Price(decimal.RequireFromString("2.5")))
	assert.Equal(t, "0.10 €", view.Price(decimal.RequireFromString("0.1")))
}
