// Package model defines the domain entities exchanged with the inventory
// backend: articles, customers, orders, the transient article selection used
// while composing an order, and server-derived statistics.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// The backend serializes prices as bare JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// Category classifies an article. The backend also accepts free-form strings.
type Category string

const (
	CategorySmall  Category = "small"
	CategoryMedium Category = "medium"
	CategoryLarge  Category = "large"
)

// Article is a stocked product. Quantity is only meaningful inside an
// ArticleSelection and is omitted from the wire format otherwise.
type Article struct {
	ArticleID    int             `json:"article_id" validate:"required"`
	Name         string          `json:"name" validate:"required"`
	Price        decimal.Decimal `json:"price"`
	Stock        int             `json:"stock" validate:"gte=0"`
	Manufacturer string          `json:"manufacturer"`
	Category     Category        `json:"category,omitempty"`
	Quantity     int             `json:"quantity,omitempty"`
}

// Clone returns a value copy of the article. Orders embed clones so that a
// later price or stock edit does not retroactively change past orders.
func (a Article) Clone() Article {
	return a
}

// Customer is a buyer record.
type Customer struct {
	CustomerID int    `json:"customer_id" validate:"required"`
	FirstName  string `json:"first_name" validate:"required"`
	LastName   string `json:"last_name" validate:"required"`
	Street     string `json:"street"`
	Location   string `json:"location"`
	ZipCode    int    `json:"zip_code"`
	Email      string `json:"email" validate:"omitempty,email"`
}

// Clone returns a value copy of the customer.
func (c Customer) Clone() Customer {
	return c
}

// OrderType distinguishes sales from returns.
type OrderType string

const (
	OrderTypeSale   OrderType = "Sale"
	OrderTypeReturn OrderType = "Return"
)

// OrderStatus is the delivery status of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "Pending"
	StatusShipped   OrderStatus = "Shipped"
	StatusCompleted OrderStatus = "Completed"
	StatusDelivered OrderStatus = "Delivered"
)

// OrderItem pairs an article snapshot with an ordered quantity.
type OrderItem struct {
	Article  Article `json:"article"`
	Quantity int     `json:"quantity" validate:"required,gt=0"`
}

// Total is the line total of the item.
func (i OrderItem) Total() decimal.Decimal {
	return i.Article.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order embeds point-in-time snapshots of the customer and the ordered
// articles, not references. Items is never empty at submission time.
type Order struct {
	OrderID   int         `json:"order_id" validate:"required"`
	Customer  Customer    `json:"customer"`
	Items     []OrderItem `json:"items" validate:"required,gt=0,dive"`
	Date      string      `json:"date"`
	OrderType OrderType   `json:"order_type" validate:"required,oneof=Sale Return"`
	Status    OrderStatus `json:"status" validate:"required,oneof=Pending Shipped Completed Delivered"`
}

// Total sums all line totals.
func (o Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Total())
	}
	return total
}

// Clone returns a deep copy of the order, including its item slice.
func (o Order) Clone() Order {
	cp := o
	cp.Items = make([]OrderItem, len(o.Items))
	copy(cp.Items, o.Items)
	return cp
}

// OrderDateLayout is the day.month.year format the backend stores order
// dates in.
const OrderDateLayout = "02.01.2006"

// FormatOrderDate renders t in the backend's order date format.
func FormatOrderDate(t time.Time) string {
	return t.Format(OrderDateLayout)
}

// SelectedArticle is one row of an in-progress article selection. Article may
// be nil while the row is only half filled in.
type SelectedArticle struct {
	Article  *Article `json:"article"`
	Quantity int      `json:"quantity"`
}

// ArticleSelection is the transient draft pairing articles with quantities,
// used only while composing an order.
type ArticleSelection struct {
	SelectedArticles []SelectedArticle `json:"selectedArticles"`
}

// IsEmpty reports whether the selection contains no rows with an article.
func (s *ArticleSelection) IsEmpty() bool {
	if s == nil {
		return true
	}
	for _, row := range s.SelectedArticles {
		if row.Article != nil {
			return false
		}
	}
	return true
}

// ArticleIDs returns the ids of all selected articles, in row order.
func (s *ArticleSelection) ArticleIDs() []int {
	if s == nil {
		return nil
	}
	ids := make([]int, 0, len(s.SelectedArticles))
	for _, row := range s.SelectedArticles {
		if row.Article != nil {
			ids = append(ids, row.Article.ArticleID)
		}
	}
	return ids
}

// Notification is the transient success/error slot shown to the user. The
// zero value means nothing to show.
type Notification struct {
	Success string
	Error   string
}

// IsZero reports whether the notification carries no message.
func (n Notification) IsZero() bool {
	return n.Success == "" && n.Error == ""
}

// ArticleStatistics aggregates per-article numbers, keyed by article id.
type ArticleStatistics struct {
	OrderedQuantities map[int]int             `json:"ordered_quantities"`
	ArticleRevenue    map[int]decimal.Decimal `json:"article_revenue"`
}

// OrderStatistics aggregates per-order numbers, keyed by order id.
type OrderStatistics struct {
	TotalPrices map[int]decimal.Decimal `json:"total_prices"`
}

// CustomerStatistics aggregates per-customer numbers, keyed by customer id.
type CustomerStatistics struct {
	NumberOfOrders map[int]int             `json:"number_of_orders"`
	TotalRevenue   map[int]decimal.Decimal `json:"total_revenue"`
	MostBoughtItem map[int]string          `json:"most_bought_item"`
}

// Statistics is the read-only aggregate report served by the backend. It is
// consumed by detail views and never mutated client-side.
type Statistics struct {
	ArticleStatistics  ArticleStatistics  `json:"article_statistics"`
	OrderStatistics    OrderStatistics    `json:"order_statistics"`
	CustomerStatistics CustomerStatistics `json:"customer_statistics"`
}
