// Package compose implements the order composition flow: a draft article
// selection that is committed to the store only on explicit save, and a
// submit step that builds the order from entity snapshots.
package compose

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/avollmer/stockdesk/internal/form"
	"github.com/avollmer/stockdesk/internal/model"
	"github.com/avollmer/stockdesk/internal/service"
	"github.com/avollmer/stockdesk/internal/store"
)

// State is the current step of the composition flow.
type State int

const (
	// StateNoSelection: no pending selection, the order form offers the
	// "Select Articles" trigger.
	StateNoSelection State = iota
	// StateSelectionOpen: the article table is shown, edits accumulate in a
	// local draft that has not reached the store.
	StateSelectionOpen
	// StateSelectionCommitted: the draft was explicitly saved into the store.
	StateSelectionCommitted
)

// ErrEmptySelection rejects a submit while the pending selection holds no
// articles. No network call is made in that case.
var ErrEmptySelection = errors.New("order needs at least one selected article")

// ErrInvalidQuantity rejects a submit when a selected article has a
// non-positive quantity.
var ErrInvalidQuantity = errors.New("selected article quantity must be positive")

// customerSearcher resolves the order's customer, which must exist.
type customerSearcher interface {
	Search(ctx context.Context, id int) (*model.Customer, error)
}

// orderSubmitter is the order service surface the flow needs.
type orderSubmitter interface {
	store.OrderFetcher
	Add(ctx context.Context, order model.Order) (*service.AddResponse, error)
}

// Composer drives one order composition. It is not safe for concurrent use;
// like the rest of the client it runs on a single logical thread.
type Composer struct {
	store     *store.Store
	customers customerSearcher
	orders    orderSubmitter
	logger    *slog.Logger

	state State
	draft *model.ArticleSelection
	now   func() time.Time
}

// NewComposer creates a composition flow over the given store and services.
func NewComposer(st *store.Store, customers customerSearcher, orders orderSubmitter, logger *slog.Logger) *Composer {
	return &Composer{
		store:     st,
		customers: customers,
		orders:    orders,
		logger:    logger.With("component", "compose"),
		now:       time.Now,
	}
}

// State returns the current flow state.
func (c *Composer) State() State {
	if c.state == StateNoSelection && c.store.Selection() != nil {
		return StateSelectionCommitted
	}
	return c.state
}

// OpenSelection starts a fresh draft. Pre-existing committed selections are
// loaded into the draft so the dialog reopens with the saved rows.
func (c *Composer) OpenSelection() {
	if committed := c.store.Selection(); committed != nil {
		draft := &model.ArticleSelection{SelectedArticles: make([]model.SelectedArticle, len(committed.SelectedArticles))}
		copy(draft.SelectedArticles, committed.SelectedArticles)
		c.draft = draft
	} else {
		c.draft = &model.ArticleSelection{}
	}
	c.state = StateSelectionOpen
}

// UpdateDraft replaces the local draft. Checkbox and quantity edits mutate
// the draft directly; nothing reaches the store until Save.
func (c *Composer) UpdateDraft(selection model.ArticleSelection) {
	c.draft = &selection
}

// Draft returns the local draft, nil outside StateSelectionOpen.
func (c *Composer) Draft() *model.ArticleSelection {
	return c.draft
}

// Cancel discards the draft without touching the committed selection.
func (c *Composer) Cancel() {
	c.draft = nil
	if c.store.Selection() != nil {
		c.state = StateSelectionCommitted
	} else {
		c.state = StateNoSelection
	}
}

// Save commits the draft into the store. Only this explicit step makes the
// selection visible to the order form.
func (c *Composer) Save() {
	if c.draft == nil {
		return
	}
	c.store.SetSelection(c.draft)
	c.draft = nil
	c.state = StateSelectionCommitted
}

// Submit builds the order from the committed selection and the form input,
// then hands it to the order service.
//
// The customer must exist; a failed lookup aborts before any order call. An
// empty selection is rejected client-side without any network call. On
// success the order cache is refreshed, the new order reconciled to the
// front, the selection cleared and a success notification set. On failure
// the pending selection and the caller's form inputs stay untouched so the
// user can retry without re-selecting articles.
func (c *Composer) Submit(ctx context.Context, in form.OrderInput) (*model.Order, error) {
	selection := c.store.Selection()
	if selection.IsEmpty() {
		return nil, ErrEmptySelection
	}

	customer, err := c.customers.Search(ctx, in.CustomerID)
	if err != nil {
		c.logger.ErrorContext(ctx, "Customer lookup failed, order not created", "customer_id", in.CustomerID, "error", err)
		c.store.SetNotification(model.Notification{Error: err.Error()})
		return nil, err
	}

	items := make([]model.OrderItem, 0, len(selection.SelectedArticles))
	for _, row := range selection.SelectedArticles {
		if row.Article == nil {
			continue
		}
		if row.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		// Snapshot, not reference: a later article edit must not change
		// this order.
		items = append(items, model.OrderItem{Article: row.Article.Clone(), Quantity: row.Quantity})
	}
	if len(items) == 0 {
		return nil, ErrEmptySelection
	}

	order := model.Order{
		OrderID:   in.OrderID,
		Customer:  customer.Clone(),
		Items:     items,
		Date:      model.FormatOrderDate(c.now()),
		OrderType: in.OrderType,
		Status:    in.Status,
	}

	resp, err := c.orders.Add(ctx, order)
	if err != nil {
		c.store.SetNotification(model.Notification{Error: err.Error()})
		return nil, err
	}

	// Await the authoritative refetch before reconciling, so the prepend
	// cannot be overwritten by a lagging response.
	_ = c.store.FetchOrders(ctx, c.orders)
	if !containsOrder(c.store.Orders(), order.OrderID) {
		c.store.SetOrders(append([]model.Order{order}, c.store.Orders()...))
	}

	c.store.SetSelection(nil)
	c.state = StateNoSelection
	c.store.SetNotification(model.Notification{Success: resp.Message})
	c.logger.InfoContext(ctx, "Order submitted", "id", order.OrderID, "items", len(order.Items))
	return &order, nil
}

func containsOrder(list []model.Order, id int) bool {
	for _, o := range list {
		if o.OrderID == id {
			return true
		}
	}
	return false
}
