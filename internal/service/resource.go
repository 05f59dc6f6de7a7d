package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"sync"

	"github.com/avollmer/stockdesk/internal/gateway"
	"golang.org/x/sync/errgroup"
)

// maxParallelDeletes caps the number of concurrent per-id delete requests in
// a batch delete.
const maxParallelDeletes = 4

// AddResponse is the backend's acknowledgment of a create call.
type AddResponse struct {
	Message string `json:"message"`
}

// BatchResult lists the per-id outcomes of a batch delete. Succeeded is
// sorted ascending.
type BatchResult struct {
	Succeeded []int
	Failed    map[int]error
}

// Err returns nil when every id succeeded, otherwise ErrPartialDelete.
func (r *BatchResult) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d ids failed: %w", len(r.Failed), len(r.Failed)+len(r.Succeeded), ErrPartialDelete)
}

// resource implements the shared fetch/add/delete/search surface every
// entity service exposes. routePrefix is e.g. "/articles".
type resource[T any] struct {
	gw          *gateway.Client
	routePrefix string
	notFound    error
	logger      *slog.Logger
}

func newResource[T any](gw *gateway.Client, routePrefix string, notFound error, logger *slog.Logger) resource[T] {
	return resource[T]{
		gw:          gw,
		routePrefix: routePrefix,
		notFound:    notFound,
		logger:      logger.With("component", "service"+routePrefix),
	}
}

// fetchAll retrieves the authoritative ordered sequence of entities.
func (r *resource[T]) fetchAll(ctx context.Context) ([]T, error) {
	var list []T
	if err := r.gw.Get(ctx, r.routePrefix, &list); err != nil {
		r.logger.ErrorContext(ctx, "Failed to fetch entities", "error", err)
		return nil, err
	}
	return list, nil
}

// add creates one entity. The optimistic cache insert must only happen after
// add returns without error.
func (r *resource[T]) add(ctx context.Context, entity T) (*AddResponse, error) {
	var resp AddResponse
	if err := r.gw.Post(ctx, r.routePrefix+"/add", entity, &resp); err != nil {
		r.logger.ErrorContext(ctx, "Failed to add entity", "error", err)
		return nil, err
	}
	return &resp, nil
}

// deleteByIDs fires one delete request per id with bounded parallelism and
// aggregates the per-id outcomes. The returned error is result.Err().
func (r *resource[T]) deleteByIDs(ctx context.Context, ids []int) (*BatchResult, error) {
	result := &BatchResult{Failed: make(map[int]error)}
	var mu sync.Mutex

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelDeletes)
	for _, id := range ids {
		g.Go(func() error {
			err := r.gw.Delete(gCtx, fmt.Sprintf("%s/delete/%d", r.routePrefix, id))
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				r.logger.ErrorContext(gCtx, "Failed to delete entity", "id", id, "error", err)
				result.Failed[id] = err
				return nil
			}
			result.Succeeded = append(result.Succeeded, id)
			return nil
		})
	}
	_ = g.Wait()
	sort.Ints(result.Succeeded)
	return result, result.Err()
}

// search retrieves a single entity by id. Returns the configured not-found
// sentinel when the backend answers 404; callers must branch on it.
func (r *resource[T]) search(ctx context.Context, id int) (*T, error) {
	var entity T
	if err := r.gw.Get(ctx, fmt.Sprintf("%s/search/%d", r.routePrefix, id), &entity); err != nil {
		var apiErr *gateway.APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return nil, r.notFound
		}
		r.logger.ErrorContext(ctx, "Failed to search entity", "id", id, "error", err)
		return nil, err
	}
	return &entity, nil
}
