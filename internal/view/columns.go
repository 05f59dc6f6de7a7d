// Package view holds the column definitions of the entity list views and a
// terminal renderer for table pages.
package view

import (
	"fmt"
	"strconv"

	"github.com/avollmer/stockdesk/internal/model"
	"github.com/avollmer/stockdesk/internal/table"
)

// Price renders a money value for display.
func Price(d interface{ StringFixed(int32) string }) string {
	return d.StringFixed(2) + " €"
}

// ArticleColumns returns the article list columns. The id column is the
// filter and default sort target.
func ArticleColumns() []table.Column[model.Article] {
	return []table.Column[model.Article]{
		{
			Key:   "article_id",
			Title: "Article ID",
			Value: func(a model.Article) string { return strconv.Itoa(a.ArticleID) },
			Compare: func(a, b model.Article) int {
				return a.ArticleID - b.ArticleID
			},
		},
		{Key: "name", Title: "Name", Value: func(a model.Article) string { return a.Name }, Hideable: true},
		{
			Key:   "price",
			Title: "Price",
			Value: func(a model.Article) string { return Price(a.Price) },
			Compare: func(a, b model.Article) int {
				return a.Price.Cmp(b.Price)
			},
			Hideable: true,
		},
		{
			Key:   "stock",
			Title: "Stock",
			Value: func(a model.Article) string { return strconv.Itoa(a.Stock) },
			Compare: func(a, b model.Article) int {
				return a.Stock - b.Stock
			},
			Hideable: true,
		},
		{Key: "manufacturer", Title: "Manufacturer", Value: func(a model.Article) string { return a.Manufacturer }, Hideable: true},
		{Key: "category", Title: "Category", Value: func(a model.Article) string { return string(a.Category) }, Hideable: true},
	}
}

// CustomerColumns returns the customer list columns.
func CustomerColumns() []table.Column[model.Customer] {
	return []table.Column[model.Customer]{
		{
			Key:   "customer_id",
			Title: "Customer ID",
			Value: func(c model.Customer) string { return strconv.Itoa(c.CustomerID) },
			Compare: func(a, b model.Customer) int {
				return a.CustomerID - b.CustomerID
			},
		},
		{Key: "first_name", Title: "First Name", Value: func(c model.Customer) string { return c.FirstName }, Hideable: true},
		{Key: "last_name", Title: "Last Name", Value: func(c model.Customer) string { return c.LastName }, Hideable: true},
		{Key: "street", Title: "Street", Value: func(c model.Customer) string { return c.Street }, Hideable: true},
		{Key: "location", Title: "Location", Value: func(c model.Customer) string { return c.Location }, Hideable: true},
		{Key: "zip_code", Title: "Zip", Value: func(c model.Customer) string { return strconv.Itoa(c.ZipCode) }, Hideable: true},
		{Key: "email", Title: "Email", Value: func(c model.Customer) string { return c.Email }, Hideable: true},
	}
}

// OrderColumns returns the order list columns.
func OrderColumns() []table.Column[model.Order] {
	return []table.Column[model.Order]{
		{
			Key:   "order_id",
			Title: "Order ID",
			Value: func(o model.Order) string { return strconv.Itoa(o.OrderID) },
			Compare: func(a, b model.Order) int {
				return a.OrderID - b.OrderID
			},
		},
		{
			Key:      "customer",
			Title:    "Customer",
			Value:    func(o model.Order) string { return o.Customer.FirstName + " " + o.Customer.LastName },
			Hideable: true,
		},
		{
			Key:   "items",
			Title: "Items",
			Value: func(o model.Order) string { return strconv.Itoa(len(o.Items)) },
			Compare: func(a, b model.Order) int {
				return len(a.Items) - len(b.Items)
			},
			Hideable: true,
		},
		{
			Key:   "total",
			Title: "Total",
			Value: func(o model.Order) string { return Price(o.Total()) },
			Compare: func(a, b model.Order) int {
				return a.Total().Cmp(b.Total())
			},
			Hideable: true,
		},
		{Key: "date", Title: "Date", Value: func(o model.Order) string { return o.Date }, Hideable: true},
		{Key: "order_type", Title: "Type", Value: func(o model.Order) string { return string(o.OrderType) }, Hideable: true},
		{Key: "status", Title: "Status", Value: func(o model.Order) string { return string(o.Status) }, Hideable: true},
	}
}

// SelectionColumns returns the article columns used inside the order
// composition dialog, including the editable quantity column.
func SelectionColumns(quantity func(id int) int) []table.Column[model.Article] {
	cols := ArticleColumns()
	cols = append(cols, table.Column[model.Article]{
		Key:   "quantity",
		Title: "Quantity",
		Value: func(a model.Article) string { return fmt.Sprintf("%d", quantity(a.ArticleID)) },
	})
	return cols
}
