package service

import (
	"context"
	"log/slog"

	"github.com/avollmer/stockdesk/internal/gateway"
	"github.com/avollmer/stockdesk/internal/model"
)

// ArticleService manages articles via the backend's /articles endpoints.
type ArticleService struct {
	resource[model.Article]
}

// NewArticleService creates an article service on top of the gateway.
func NewArticleService(gw *gateway.Client, logger *slog.Logger) *ArticleService {
	return &ArticleService{resource: newResource[model.Article](gw, "/articles", ErrArticleNotFound, logger)}
}

// FetchAll retrieves all articles.
func (s *ArticleService) FetchAll(ctx context.Context) ([]model.Article, error) {
	return s.fetchAll(ctx)
}

// Add creates a new article. Duplicate-id creation is passed through to the
// backend; its rejection surfaces as a gateway.APIError.
func (s *ArticleService) Add(ctx context.Context, article model.Article) (*AddResponse, error) {
	return s.add(ctx, article)
}

// Update modifies an existing article.
func (s *ArticleService) Update(ctx context.Context, article model.Article) error {
	if err := s.gw.Put(ctx, "/articles/update", article, nil); err != nil {
		s.logger.ErrorContext(ctx, "Failed to update article", "id", article.ArticleID, "error", err)
		return err
	}
	return nil
}

// Delete removes the given article ids, one request per id, and aggregates
// the per-id outcomes.
func (s *ArticleService) Delete(ctx context.Context, ids []int) (*BatchResult, error) {
	return s.deleteByIDs(ctx, ids)
}

// Search retrieves a single article. Returns ErrArticleNotFound when the
// backend does not know the id.
func (s *ArticleService) Search(ctx context.Context, id int) (*model.Article, error) {
	return s.search(ctx, id)
}
