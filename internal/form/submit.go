package form

import (
	"context"
	"log/slog"

	"github.com/avollmer/stockdesk/internal/model"
	"github.com/avollmer/stockdesk/internal/service"
	"github.com/avollmer/stockdesk/internal/store"
)

// articleAdder is the service surface the article submit pipeline needs.
type articleAdder interface {
	store.ArticleFetcher
	Add(ctx context.Context, article model.Article) (*service.AddResponse, error)
}

// customerAdder is the service surface the customer submit pipeline needs.
type customerAdder interface {
	store.CustomerFetcher
	Add(ctx context.Context, customer model.Customer) (*service.AddResponse, error)
}

// ArticleSubmitter runs the create-article pipeline: add via the service,
// await the authoritative refetch, then reconcile the optimistic insert and
// set the notification.
type ArticleSubmitter struct {
	Store   *store.Store
	Service articleAdder
	Logger  *slog.Logger
}

// Submit creates the article. The optimistic prepend happens only after the
// add call resolved successfully, and only when the awaited refetch did not
// already bring the new record in, so a duplicate-id rejection never leaves
// a phantom row in the cache.
func (s *ArticleSubmitter) Submit(ctx context.Context, article model.Article) error {
	resp, err := s.Service.Add(ctx, article)
	if err != nil {
		s.Store.SetNotification(model.Notification{Error: err.Error()})
		return err
	}
	// Refetch first, then reconcile; racing the prepend against a lagging
	// refetch could make the new row disappear until the next refresh.
	_ = s.Store.FetchArticles(ctx, s.Service)
	if !containsArticle(s.Store.Articles(), article.ArticleID) {
		s.Store.SetArticles(append([]model.Article{article}, s.Store.Articles()...))
	}
	s.Store.SetNotification(model.Notification{Success: resp.Message})
	s.Logger.InfoContext(ctx, "Article added", "id", article.ArticleID)
	return nil
}

// CustomerSubmitter runs the create-customer pipeline.
type CustomerSubmitter struct {
	Store   *store.Store
	Service customerAdder
	Logger  *slog.Logger
}

// Submit creates the customer with the same reconcile sequence as the
// article pipeline.
func (s *CustomerSubmitter) Submit(ctx context.Context, customer model.Customer) error {
	resp, err := s.Service.Add(ctx, customer)
	if err != nil {
		s.Store.SetNotification(model.Notification{Error: err.Error()})
		return err
	}
	_ = s.Store.FetchCustomers(ctx, s.Service)
	if !containsCustomer(s.Store.Customers(), customer.CustomerID) {
		s.Store.SetCustomers(append([]model.Customer{customer}, s.Store.Customers()...))
	}
	s.Store.SetNotification(model.Notification{Success: resp.Message})
	s.Logger.InfoContext(ctx, "Customer added", "id", customer.CustomerID)
	return nil
}

func containsArticle(list []model.Article, id int) bool {
	for _, a := range list {
		if a.ArticleID == id {
			return true
		}
	}
	return false
}

func containsCustomer(list []model.Customer, id int) bool {
	for _, c := range list {
		if c.CustomerID == id {
			return true
		}
	}
	return false
}
