package compose_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/avollmer/stockdesk/internal/compose"
	"github.com/avollmer/stockdesk/internal/form"
	"github.com/avollmer/stockdesk/internal/model"
	"github.com/avollmer/stockdesk/internal/service"
	"github.com/avollmer/stockdesk/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeCustomers struct {
	customer    *model.Customer
	err         error
	searchCalls int
}

func (f *fakeCustomers) Search(context.Context, int) (*model.Customer, error) {
	f.searchCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.customer, nil
}

type fakeOrders struct {
	fetchResult []model.Order
	addErr      error
	added       []model.Order
	fetchCalls  int
}

func (f *fakeOrders) FetchAll(context.Context) ([]model.Order, error) {
	f.fetchCalls++
	return f.fetchResult, nil
}

func (f *fakeOrders) Add(_ context.Context, order model.Order) (*service.AddResponse, error) {
	if f.addErr != nil {
		return nil, f.addErr
	}
	f.added = append(f.added, order)
	return &service.AddResponse{Message: "order created"}, nil
}

func article(id int, price string) model.Article {
	return model.Article{ArticleID: id, Name: "Bolt", Price: decimal.RequireFromString(price), Stock: 5}
}

func selectionOf(rows ...model.SelectedArticle) *model.ArticleSelection {
	return &model.ArticleSelection{SelectedArticles: rows}
}

func orderInput() form.OrderInput {
	return form.OrderInput{
		OrderID:    11,
		CustomerID: 3,
		OrderType:  model.OrderTypeSale,
		Status:     model.StatusPending,
	}
}

func TestComposer_SubmitEmptySelectionMakesNoNetworkCall(t *testing.T) {
	s := store.New(testLogger())
	customers := &fakeCustomers{}
	orders := &fakeOrders{}
	c := compose.NewComposer(s, customers, orders, testLogger())

	_, err := c.Submit(context.Background(), orderInput())
	require.ErrorIs(t, err, compose.ErrEmptySelection)

	assert.Equal(t, 0, customers.searchCalls)
	assert.Equal(t, 0, orders.fetchCalls)
	assert.Empty(t, orders.added)
}

func TestComposer_SubmitAbortsWhenCustomerLookupFails(t *testing.T) {
	s := store.New(testLogger())
	a := article(1, "2.00")
	s.SetSelection(selectionOf(model.SelectedArticle{Article: &a, Quantity: 2}))

	customers := &fakeCustomers{err: service.ErrCustomerNotFound}
	orders := &fakeOrders{}
	c := compose.NewComposer(s, customers, orders, testLogger())

	_, err := c.Submit(context.Background(), orderInput())
	require.ErrorIs(t, err, service.ErrCustomerNotFound)

	assert.Empty(t, orders.added, "no order call after a failed customer lookup")
	assert.NotNil(t, s.Selection(), "selection survives the failure")
	assert.NotEmpty(t, s.Notification().Error)
}

func TestComposer_SubmitRejectsNonPositiveQuantity(t *testing.T) {
	s := store.New(testLogger())
	a := article(1, "2.00")
	s.SetSelection(selectionOf(model.SelectedArticle{Article: &a, Quantity: 0}))

	customers := &fakeCustomers{customer: &model.Customer{CustomerID: 3, FirstName: "Ada", LastName: "L"}}
	orders := &fakeOrders{}
	c := compose.NewComposer(s, customers, orders, testLogger())

	_, err := c.Submit(context.Background(), orderInput())
	require.ErrorIs(t, err, compose.ErrInvalidQuantity)
	assert.Empty(t, orders.added)
}

func TestComposer_SubmitFailureKeepsSelection(t *testing.T) {
	s := store.New(testLogger())
	a := article(1, "2.00")
	s.SetSelection(selectionOf(model.SelectedArticle{Article: &a, Quantity: 2}))

	customers := &fakeCustomers{customer: &model.Customer{CustomerID: 3, FirstName: "Ada", LastName: "L"}}
	orders := &fakeOrders{addErr: errors.New("order 11 already exists")}
	c := compose.NewComposer(s, customers, orders, testLogger())

	_, err := c.Submit(context.Background(), orderInput())
	require.Error(t, err)

	assert.NotNil(t, s.Selection(), "user can retry without re-selecting")
	assert.Equal(t, "order 11 already exists", s.Notification().Error)
}

func TestComposer_SubmitSuccess(t *testing.T) {
	s := store.New(testLogger())
	a := article(1, "2.50")
	s.SetSelection(selectionOf(model.SelectedArticle{Article: &a, Quantity: 2}))

	customers := &fakeCustomers{customer: &model.Customer{CustomerID: 3, FirstName: "Ada", LastName: "L"}}
	// The refetch lags behind: the backend list does not include the new
	// order yet.
	orders := &fakeOrders{fetchResult: []model.Order{{OrderID: 1}}}
	c := compose.NewComposer(s, customers, orders, testLogger())

	order, err := c.Submit(context.Background(), orderInput())
	require.NoError(t, err)

	require.Len(t, orders.added, 1)
	assert.Equal(t, 1, orders.fetchCalls, "refetch awaited before reconciling")

	cached := s.Orders()
	require.Len(t, cached, 2)
	assert.Equal(t, 11, cached[0].OrderID, "new order reconciled to the front")

	assert.Nil(t, s.Selection(), "selection cleared on success")
	assert.Equal(t, "order created", s.Notification().Success)
	assert.Equal(t, compose.StateNoSelection, c.State())

	require.Len(t, order.Items, 1)
	assert.True(t, order.Total().Equal(decimal.RequireFromString("5.00")))
	assert.NotEmpty(t, order.Date)
}

func TestComposer_SubmitEmbedsSnapshots(t *testing.T) {
	s := store.New(testLogger())
	a := article(1, "2.00")
	s.SetSelection(selectionOf(model.SelectedArticle{Article: &a, Quantity: 1}))

	customers := &fakeCustomers{customer: &model.Customer{CustomerID: 3, FirstName: "Ada", LastName: "L"}}
	orders := &fakeOrders{}
	c := compose.NewComposer(s, customers, orders, testLogger())

	order, err := c.Submit(context.Background(), orderInput())
	require.NoError(t, err)

	// A later edit of the source article must not leak into the order.
	a.Name = "Renamed"
	a.Price = decimal.NewFromInt(99)
	assert.Equal(t, "Bolt", order.Items[0].Article.Name)
	assert.True(t, order.Items[0].Article.Price.Equal(decimal.RequireFromString("2.00")))
}

func TestComposer_DraftIsIsolatedUntilSave(t *testing.T) {
	s := store.New(testLogger())
	c := compose.NewComposer(s, &fakeCustomers{}, &fakeOrders{}, testLogger())

	assert.Equal(t, compose.StateNoSelection, c.State())

	c.OpenSelection()
	assert.Equal(t, compose.StateSelectionOpen, c.State())

	a := article(1, "2.00")
	c.UpdateDraft(model.ArticleSelection{
		SelectedArticles: []model.SelectedArticle{{Article: &a, Quantity: 3}},
	})
	assert.Nil(t, s.Selection(), "draft edits stay out of the store")

	c.Save()
	require.NotNil(t, s.Selection())
	assert.Equal(t, []int{1}, s.Selection().ArticleIDs())
	assert.Equal(t, compose.StateSelectionCommitted, c.State())
}

func TestComposer_CancelDiscardsDraftOnly(t *testing.T) {
	s := store.New(testLogger())
	a := article(1, "2.00")
	s.SetSelection(selectionOf(model.SelectedArticle{Article: &a, Quantity: 2}))

	c := compose.NewComposer(s, &fakeCustomers{}, &fakeOrders{}, testLogger())
	c.OpenSelection()

	// The committed selection was copied into the draft.
	require.NotNil(t, c.Draft())
	require.Len(t, c.Draft().SelectedArticles, 1)

	b := article(2, "1.00")
	c.UpdateDraft(model.ArticleSelection{
		SelectedArticles: []model.SelectedArticle{{Article: &b, Quantity: 9}},
	})
	c.Cancel()

	assert.Nil(t, c.Draft())
	assert.Equal(t, []int{1}, s.Selection().ArticleIDs(), "committed selection untouched")
	assert.Equal(t, compose.StateSelectionCommitted, c.State())
}
