// Package form implements the field-driven create forms: field descriptors,
// string-to-entity parsing with required/numeric validation, and the submit
// pipelines that call a resource service and then push the new record into
// the store.
package form

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/avollmer/stockdesk/internal/model"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

// Field describes one input of a create form.
type Field struct {
	Label       string
	Name        string
	Placeholder string
	// Numeric inputs are coerced to numbers before validation.
	Numeric  bool
	Required bool
}

// Values holds raw form input keyed by field name.
type Values map[string]string

// FieldError reports a single invalid input.
type FieldError struct {
	Name   string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %s: %s", e.Name, e.Reason)
}

// ArticleFields returns the create-article form definition.
func ArticleFields() []Field {
	return []Field{
		{Label: "Article ID", Name: "article_id", Placeholder: "Article ID", Numeric: true, Required: true},
		{Label: "Name", Name: "name", Placeholder: "Name", Required: true},
		{Label: "Price", Name: "price", Placeholder: "Price", Numeric: true, Required: true},
		{Label: "Stock", Name: "stock", Placeholder: "Stock", Numeric: true, Required: true},
		{Label: "Manufacturer", Name: "manufacturer", Placeholder: "Manufacturer"},
		{Label: "Category", Name: "category", Placeholder: "Category"},
	}
}

// CustomerFields returns the create-customer form definition.
func CustomerFields() []Field {
	return []Field{
		{Label: "Customer ID", Name: "customer_id", Placeholder: "Customer ID", Numeric: true, Required: true},
		{Label: "First Name", Name: "first_name", Placeholder: "First Name", Required: true},
		{Label: "Last Name", Name: "last_name", Placeholder: "Last Name", Required: true},
		{Label: "Street", Name: "street", Placeholder: "Street"},
		{Label: "Location", Name: "location", Placeholder: "Location"},
		{Label: "Zip Code", Name: "zip_code", Placeholder: "Zip Code", Numeric: true},
		{Label: "Email", Name: "email", Placeholder: "Email"},
	}
}

// OrderFields returns the create-order form definition. Articles and
// quantities come from the committed selection, not from form fields.
func OrderFields() []Field {
	return []Field{
		{Label: "Order ID", Name: "order_id", Placeholder: "Order ID", Numeric: true, Required: true},
		{Label: "Customer ID", Name: "customer_id", Placeholder: "Customer ID", Numeric: true, Required: true},
		{Label: "Type", Name: "order_type", Placeholder: "Sale or Return", Required: true},
		{Label: "Status", Name: "status", Placeholder: "Pending, Shipped, Completed or Delivered", Required: true},
	}
}

// checkRequired verifies that every required field of the definition has a
// non-empty value and that numeric fields parse as numbers.
func checkRequired(fields []Field, v Values) error {
	for _, f := range fields {
		raw, ok := v[f.Name]
		if f.Required && (!ok || raw == "") {
			return &FieldError{Name: f.Name, Reason: "required"}
		}
		if f.Numeric && raw != "" {
			if _, err := strconv.ParseFloat(raw, 64); err != nil {
				return &FieldError{Name: f.Name, Reason: "not a number"}
			}
		}
	}
	return nil
}

func intValue(v Values, name string) int {
	n, _ := strconv.Atoi(v[name])
	return n
}

// ParseArticle turns raw form values into a validated article.
func ParseArticle(v Values) (model.Article, error) {
	if err := checkRequired(ArticleFields(), v); err != nil {
		return model.Article{}, err
	}
	price, err := decimal.NewFromString(v["price"])
	if err != nil {
		return model.Article{}, &FieldError{Name: "price", Reason: "not a number"}
	}
	if price.IsNegative() {
		return model.Article{}, &FieldError{Name: "price", Reason: "must not be negative"}
	}
	article := model.Article{
		ArticleID:    intValue(v, "article_id"),
		Name:         v["name"],
		Price:        price,
		Stock:        intValue(v, "stock"),
		Manufacturer: v["manufacturer"],
		Category:     model.Category(v["category"]),
	}
	if err := validate.Struct(article); err != nil {
		return model.Article{}, fmt.Errorf("invalid article: %w", err)
	}
	return article, nil
}

// ParseCustomer turns raw form values into a validated customer.
func ParseCustomer(v Values) (model.Customer, error) {
	if err := checkRequired(CustomerFields(), v); err != nil {
		return model.Customer{}, err
	}
	customer := model.Customer{
		CustomerID: intValue(v, "customer_id"),
		FirstName:  v["first_name"],
		LastName:   v["last_name"],
		Street:     v["street"],
		Location:   v["location"],
		ZipCode:    intValue(v, "zip_code"),
		Email:      v["email"],
	}
	if err := validate.Struct(customer); err != nil {
		return model.Customer{}, fmt.Errorf("invalid customer: %w", err)
	}
	return customer, nil
}

// OrderInput is the parsed order form head; items come from the committed
// article selection.
type OrderInput struct {
	OrderID    int
	CustomerID int
	OrderType  model.OrderType
	Status     model.OrderStatus
}

// ParseOrderInput turns raw form values into the validated order head.
func ParseOrderInput(v Values) (OrderInput, error) {
	if err := checkRequired(OrderFields(), v); err != nil {
		return OrderInput{}, err
	}
	in := OrderInput{
		OrderID:    intValue(v, "order_id"),
		CustomerID: intValue(v, "customer_id"),
		OrderType:  model.OrderType(v["order_type"]),
		Status:     model.OrderStatus(v["status"]),
	}
	switch in.OrderType {
	case model.OrderTypeSale, model.OrderTypeReturn:
	default:
		return OrderInput{}, &FieldError{Name: "order_type", Reason: "must be Sale or Return"}
	}
	switch in.Status {
	case model.StatusPending, model.StatusShipped, model.StatusCompleted, model.StatusDelivered:
	default:
		return OrderInput{}, &FieldError{Name: "status", Reason: "unknown status"}
	}
	return in, nil
}

// IsFieldError reports whether err is a form input error.
func IsFieldError(err error) bool {
	var fe *FieldError
	return errors.As(err, &fe)
}
