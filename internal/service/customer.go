package service

import (
	"context"
	"log/slog"

	"github.com/avollmer/stockdesk/internal/gateway"
	"github.com/avollmer/stockdesk/internal/model"
)

// CustomerService manages customers via the backend's /customers endpoints.
type CustomerService struct {
	resource[model.Customer]
}

// NewCustomerService creates a customer service on top of the gateway.
func NewCustomerService(gw *gateway.Client, logger *slog.Logger) *CustomerService {
	return &CustomerService{resource: newResource[model.Customer](gw, "/customers", ErrCustomerNotFound, logger)}
}

// FetchAll retrieves all customers.
func (s *CustomerService) FetchAll(ctx context.Context) ([]model.Customer, error) {
	return s.fetchAll(ctx)
}

// Add creates a new customer.
func (s *CustomerService) Add(ctx context.Context, customer model.Customer) (*AddResponse, error) {
	return s.add(ctx, customer)
}

// Delete removes the given customer ids and aggregates the per-id outcomes.
func (s *CustomerService) Delete(ctx context.Context, ids []int) (*BatchResult, error) {
	return s.deleteByIDs(ctx, ids)
}

// Search retrieves a single customer. Returns ErrCustomerNotFound when the
// backend does not know the id.
func (s *CustomerService) Search(ctx context.Context, id int) (*model.Customer, error) {
	return s.search(ctx, id)
}
