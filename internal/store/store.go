// Package store holds the process-wide cache of the three entity
// collections, the in-progress order article selection, and the transient
// notification slot.
//
// Collections are nil until the first successful fetch, then always a fully
// materialized ordered sequence; pagination happens client-side over the full
// cached set. A failed refresh never clears previously fetched data.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/avollmer/stockdesk/internal/model"
)

// StateKey identifies one observable slot of the store.
type StateKey string

const (
	KeyArticles     StateKey = "articleData"
	KeyCustomers    StateKey = "customerData"
	KeyOrders       StateKey = "orderData"
	KeySelection    StateKey = "selectedArticle"
	KeyNotification StateKey = "notification"
)

// ArticleFetcher retrieves the authoritative article sequence.
type ArticleFetcher interface {
	FetchAll(ctx context.Context) ([]model.Article, error)
}

// CustomerFetcher retrieves the authoritative customer sequence.
type CustomerFetcher interface {
	FetchAll(ctx context.Context) ([]model.Customer, error)
}

// OrderFetcher retrieves the authoritative order sequence.
type OrderFetcher interface {
	FetchAll(ctx context.Context) ([]model.Order, error)
}

// Store is the single mutable shared resource of the client. It is created
// at application start and lives for the life of the process; there is no
// explicit teardown. Every setter is synchronous and notifies the
// subscribers of the written key.
type Store struct {
	mu           sync.RWMutex
	articles     []model.Article
	customers    []model.Customer
	orders       []model.Order
	selection    *model.ArticleSelection
	notification model.Notification

	subMu   sync.Mutex
	subs    map[StateKey]map[int]func(StateKey)
	nextSub int

	logger *slog.Logger
}

// New creates an empty store. All collections start out nil (not yet loaded).
func New(logger *slog.Logger) *Store {
	return &Store{
		subs:   make(map[StateKey]map[int]func(StateKey)),
		logger: logger.With("component", "store"),
	}
}

// Subscribe registers fn to run after every write to key. The returned
// function removes the subscription.
func (s *Store) Subscribe(key StateKey, fn func(StateKey)) (unsubscribe func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	if s.subs[key] == nil {
		s.subs[key] = make(map[int]func(StateKey))
	}
	id := s.nextSub
	s.nextSub++
	s.subs[key][id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs[key], id)
	}
}

func (s *Store) notify(key StateKey) {
	s.subMu.Lock()
	fns := make([]func(StateKey), 0, len(s.subs[key]))
	for _, fn := range s.subs[key] {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn(key)
	}
}

// Articles returns the cached article collection, nil if not yet loaded.
// Callers must not mutate the returned slice.
func (s *Store) Articles() []model.Article {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.articles
}

// SetArticles unconditionally overwrites the cached article collection.
func (s *Store) SetArticles(articles []model.Article) {
	s.mu.Lock()
	s.articles = articles
	s.mu.Unlock()
	s.notify(KeyArticles)
}

// Customers returns the cached customer collection, nil if not yet loaded.
func (s *Store) Customers() []model.Customer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.customers
}

// SetCustomers unconditionally overwrites the cached customer collection.
func (s *Store) SetCustomers(customers []model.Customer) {
	s.mu.Lock()
	s.customers = customers
	s.mu.Unlock()
	s.notify(KeyCustomers)
}

// Orders returns the cached order collection, nil if not yet loaded.
func (s *Store) Orders() []model.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.orders
}

// SetOrders unconditionally overwrites the cached order collection.
func (s *Store) SetOrders(orders []model.Order) {
	s.mu.Lock()
	s.orders = orders
	s.mu.Unlock()
	s.notify(KeyOrders)
}

// FetchArticles retrieves the authoritative article sequence and replaces the
// cache only when its serialized form differs from what is cached, so
// subscribers do not see redundant updates. On failure the previous cache is
// left untouched.
func (s *Store) FetchArticles(ctx context.Context, svc ArticleFetcher) error {
	fetched, err := svc.FetchAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to refresh articles, keeping cached data", "error", err)
		return err
	}
	s.mu.Lock()
	changed := s.articles == nil || !jsonEqual(s.articles, fetched)
	if changed {
		s.articles = fetched
	}
	s.mu.Unlock()
	if changed {
		s.notify(KeyArticles)
	}
	return nil
}

// FetchCustomers refreshes the customer cache with the same change
// suppression as FetchArticles.
func (s *Store) FetchCustomers(ctx context.Context, svc CustomerFetcher) error {
	fetched, err := svc.FetchAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to refresh customers, keeping cached data", "error", err)
		return err
	}
	s.mu.Lock()
	changed := s.customers == nil || !jsonEqual(s.customers, fetched)
	if changed {
		s.customers = fetched
	}
	s.mu.Unlock()
	if changed {
		s.notify(KeyCustomers)
	}
	return nil
}

// FetchOrders refreshes the order cache with the same change suppression as
// FetchArticles.
func (s *Store) FetchOrders(ctx context.Context, svc OrderFetcher) error {
	fetched, err := svc.FetchAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to refresh orders, keeping cached data", "error", err)
		return err
	}
	s.mu.Lock()
	changed := s.orders == nil || !jsonEqual(s.orders, fetched)
	if changed {
		s.orders = fetched
	}
	s.mu.Unlock()
	if changed {
		s.notify(KeyOrders)
	}
	return nil
}

// RemoveArticles filters the given ids out of the article cache. Used for
// the optimistic removal after a delete call succeeded.
func (s *Store) RemoveArticles(ids []int) {
	s.mu.Lock()
	s.articles = removeByID(s.articles, ids, func(a model.Article) int { return a.ArticleID })
	s.mu.Unlock()
	s.notify(KeyArticles)
}

// RemoveCustomers filters the given ids out of the customer cache.
func (s *Store) RemoveCustomers(ids []int) {
	s.mu.Lock()
	s.customers = removeByID(s.customers, ids, func(c model.Customer) int { return c.CustomerID })
	s.mu.Unlock()
	s.notify(KeyCustomers)
}

// RemoveOrders filters the given ids out of the order cache.
func (s *Store) RemoveOrders(ids []int) {
	s.mu.Lock()
	s.orders = removeByID(s.orders, ids, func(o model.Order) int { return o.OrderID })
	s.mu.Unlock()
	s.notify(KeyOrders)
}

// Selection returns the pending article selection, nil when no order is
// being composed.
func (s *Store) Selection() *model.ArticleSelection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selection
}

// SetSelection replaces the pending article selection. Passing nil clears it,
// which happens after an order was submitted successfully.
func (s *Store) SetSelection(selection *model.ArticleSelection) {
	s.mu.Lock()
	s.selection = selection
	s.mu.Unlock()
	s.notify(KeySelection)
}

// Notification returns the transient notification slot.
func (s *Store) Notification() model.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.notification
}

// SetNotification replaces the notification slot. The store holds no timer
// state; callers schedule the clearing themselves, see ClearNotificationAfter.
func (s *Store) SetNotification(n model.Notification) {
	s.mu.Lock()
	s.notification = n
	s.mu.Unlock()
	s.notify(KeyNotification)
}

// ClearNotificationAfter schedules a caller-owned timer that resets the
// notification slot after d. Stopping the returned timer cancels the reset.
func ClearNotificationAfter(s *Store, d time.Duration) *time.Timer {
	return time.AfterFunc(d, func() {
		s.SetNotification(model.Notification{})
	})
}

// jsonEqual compares the serialized forms of two values. Mirrors the
// structural-equality short-circuit of the fetch operations.
func jsonEqual(a, b any) bool {
	aj, errA := json.Marshal(a)
	bj, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return bytes.Equal(aj, bj)
}

func removeByID[T any](list []T, ids []int, id func(T) int) []T {
	if list == nil {
		return nil
	}
	drop := make(map[int]struct{}, len(ids))
	for _, v := range ids {
		drop[v] = struct{}{}
	}
	kept := make([]T, 0, len(list))
	for _, item := range list {
		if _, ok := drop[id(item)]; !ok {
			kept = append(kept, item)
		}
	}
	return kept
}
