package view

import (
	"fmt"
	"strings"

	"github.com/avollmer/stockdesk/internal/model"
	"github.com/charmbracelet/lipgloss"
)

var (
	detailTitleStyle = lipgloss.NewStyle().Bold(true)
	detailLabelStyle = lipgloss.NewStyle().Faint(true)
)

func detailLine(b *strings.Builder, label, value string) {
	b.WriteString(detailLabelStyle.Render(pad(label, 14)))
	b.WriteString(value)
	b.WriteString("\n")
}

// ArticleDetail renders the single-article detail view.
func ArticleDetail(a model.Article) string {
	var b strings.Builder
	b.WriteString(detailTitleStyle.Render(a.Name))
	b.WriteString("\n\n")
	detailLine(&b, "Article ID", fmt.Sprintf("#%d", a.ArticleID))
	detailLine(&b, "Price", Price(a.Price))
	detailLine(&b, "Stock", fmt.Sprintf("%d", a.Stock))
	detailLine(&b, "Manufacturer", a.Manufacturer)
	detailLine(&b, "Category", string(a.Category))
	return b.String()
}

// CustomerDetail renders the single-customer detail view.
func CustomerDetail(c model.Customer) string {
	var b strings.Builder
	b.WriteString(detailTitleStyle.Render(c.FirstName + " " + c.LastName))
	b.WriteString("\n\n")
	detailLine(&b, "Customer ID", fmt.Sprintf("#%d", c.CustomerID))
	detailLine(&b, "Street", c.Street)
	detailLine(&b, "Location", fmt.Sprintf("%d %s", c.ZipCode, c.Location))
	detailLine(&b, "Email", c.Email)
	return b.String()
}

// OrderDetail renders the single-order detail view with its item lines.
func OrderDetail(o model.Order) string {
	var b strings.Builder
	b.WriteString(detailTitleStyle.Render(fmt.Sprintf("Order #%d", o.OrderID)))
	b.WriteString("\n\n")
	detailLine(&b, "Customer", o.Customer.FirstName+" "+o.Customer.LastName)
	detailLine(&b, "Date", o.Date)
	detailLine(&b, "Type", string(o.OrderType))
	detailLine(&b, "Status", string(o.Status))
	b.WriteString("\n")
	for _, item := range o.Items {
		b.WriteString(fmt.Sprintf("  %dx #%d %s · %s\n",
			item.Quantity, item.Article.ArticleID, item.Article.Name, Price(item.Total())))
	}
	b.WriteString("\n")
	detailLine(&b, "Total", Price(o.Total()))
	return b.String()
}
