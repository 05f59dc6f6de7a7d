package service

import (
	"context"
	"log/slog"

	"github.com/avollmer/stockdesk/internal/gateway"
	"github.com/avollmer/stockdesk/internal/model"
)

// OrderService manages orders via the backend's /orders endpoints.
type OrderService struct {
	resource[model.Order]
}

// NewOrderService creates an order service on top of the gateway.
func NewOrderService(gw *gateway.Client, logger *slog.Logger) *OrderService {
	return &OrderService{resource: newResource[model.Order](gw, "/orders", ErrOrderNotFound, logger)}
}

// FetchAll retrieves all orders.
func (s *OrderService) FetchAll(ctx context.Context) ([]model.Order, error) {
	return s.fetchAll(ctx)
}

// Add submits a new order. The order must carry at least one item.
func (s *OrderService) Add(ctx context.Context, order model.Order) (*AddResponse, error) {
	return s.add(ctx, order)
}

// Delete removes the given order ids and aggregates the per-id outcomes.
func (s *OrderService) Delete(ctx context.Context, ids []int) (*BatchResult, error) {
	return s.deleteByIDs(ctx, ids)
}

// Search retrieves a single order. Returns ErrOrderNotFound when the backend
// does not know the id.
func (s *OrderService) Search(ctx context.Context, id int) (*model.Order, error) {
	return s.search(ctx, id)
}
