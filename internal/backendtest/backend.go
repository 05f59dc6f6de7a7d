// Package backendtest provides an in-memory fake of the inventory REST
// backend for tests: the full /articles, /customers, /orders and /operations
// surface over an in-memory store, with a request log for asserting exactly
// which calls a client issued.
package backendtest

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"sync"

	"github.com/avollmer/stockdesk/internal/model"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// Backend is the fake server state. Mutate the maps directly to seed data
// before wiring the handler into an httptest.Server.
type Backend struct {
	mu        sync.Mutex
	articles  map[int]model.Article
	customers map[int]model.Customer
	orders    map[int]model.Order
	requests  []string

	// FailDeleteIDs makes DELETE calls for these ids answer 500.
	FailDeleteIDs map[int]bool
	// FailAdd makes every add call answer 500.
	FailAdd bool
	// RequireToken, when set, rejects requests without this bearer token.
	RequireToken string
}

// New creates an empty fake backend.
func New() *Backend {
	return &Backend{
		articles:      make(map[int]model.Article),
		customers:     make(map[int]model.Customer),
		orders:        make(map[int]model.Order),
		FailDeleteIDs: make(map[int]bool),
	}
}

// SeedArticles inserts articles into the store.
func (b *Backend) SeedArticles(articles ...model.Article) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, a := range articles {
		b.articles[a.ArticleID] = a
	}
}

// SeedCustomers inserts customers into the store.
func (b *Backend) SeedCustomers(customers ...model.Customer) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, c := range customers {
		b.customers[c.CustomerID] = c
	}
}

// SeedOrders inserts orders into the store.
func (b *Backend) SeedOrders(orders ...model.Order) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, o := range orders {
		b.orders[o.OrderID] = o
	}
}

// Requests returns the "METHOD path" log of everything received so far.
func (b *Backend) Requests() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.requests))
	copy(out, b.requests)
	return out
}

// RequestCount returns the number of received requests.
func (b *Backend) RequestCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.requests)
}

// Articles returns the stored articles sorted by id.
func (b *Backend) Articles() []model.Article {
	b.mu.Lock()
	defer b.mu.Unlock()
	return sortedValues(b.articles, func(a model.Article) int { return a.ArticleID })
}

// Orders returns the stored orders sorted by id.
func (b *Backend) Orders() []model.Order {
	b.mu.Lock()
	defer b.mu.Unlock()
	return sortedValues(b.orders, func(o model.Order) int { return o.OrderID })
}

// Handler builds the chi router for the fake API.
func (b *Backend) Handler() http.Handler {
	mux := chi.NewRouter()
	mux.Use(b.logRequests)
	if b.RequireToken != "" {
		mux.Use(b.checkToken)
	}

	mux.Route("/articles", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			b.mu.Lock()
			list := sortedValues(b.articles, func(a model.Article) int { return a.ArticleID })
			b.mu.Unlock()
			respondJSON(w, http.StatusOK, list)
		})
		r.Post("/add", func(w http.ResponseWriter, r *http.Request) {
			var a model.Article
			if !decode(w, r, &a) {
				return
			}
			b.mu.Lock()
			defer b.mu.Unlock()
			if b.FailAdd {
				respondError(w, http.StatusInternalServerError, "add failed")
				return
			}
			if _, exists := b.articles[a.ArticleID]; exists {
				respondError(w, http.StatusConflict, fmt.Sprintf("article %d already exists", a.ArticleID))
				return
			}
			b.articles[a.ArticleID] = a
			respondJSON(w, http.StatusCreated, map[string]string{"message": fmt.Sprintf("article %d added", a.ArticleID)})
		})
		r.Put("/update", func(w http.ResponseWriter, r *http.Request) {
			var a model.Article
			if !decode(w, r, &a) {
				return
			}
			b.mu.Lock()
			defer b.mu.Unlock()
			if _, exists := b.articles[a.ArticleID]; !exists {
				respondError(w, http.StatusNotFound, fmt.Sprintf("article %d not found", a.ArticleID))
				return
			}
			b.articles[a.ArticleID] = a
			respondJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("article %d updated", a.ArticleID)})
		})
		r.Delete("/delete/{id}", func(w http.ResponseWriter, r *http.Request) {
			id, ok := parseID(w, r)
			if !ok {
				return
			}
			b.mu.Lock()
			defer b.mu.Unlock()
			if b.FailDeleteIDs[id] {
				respondError(w, http.StatusInternalServerError, fmt.Sprintf("delete of %d failed", id))
				return
			}
			delete(b.articles, id)
			w.WriteHeader(http.StatusNoContent)
		})
		r.Get("/search/{id}", func(w http.ResponseWriter, r *http.Request) {
			id, ok := parseID(w, r)
			if !ok {
				return
			}
			b.mu.Lock()
			a, exists := b.articles[id]
			b.mu.Unlock()
			if !exists {
				respondError(w, http.StatusNotFound, fmt.Sprintf("article %d not found", id))
				return
			}
			respondJSON(w, http.StatusOK, a)
		})
		r.Post("/import_csv", b.importCSV)
	})

	mux.Route("/customers", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			b.mu.Lock()
			list := sortedValues(b.customers, func(c model.Customer) int { return c.CustomerID })
			b.mu.Unlock()
			respondJSON(w, http.StatusOK, list)
		})
		r.Post("/add", func(w http.ResponseWriter, r *http.Request) {
			var c model.Customer
			if !decode(w, r, &c) {
				return
			}
			b.mu.Lock()
			defer b.mu.Unlock()
			if b.FailAdd {
				respondError(w, http.StatusInternalServerError, "add failed")
				return
			}
			if _, exists := b.customers[c.CustomerID]; exists {
				respondError(w, http.StatusConflict, fmt.Sprintf("customer %d already exists", c.CustomerID))
				return
			}
			b.customers[c.CustomerID] = c
			respondJSON(w, http.StatusCreated, map[string]string{"message": fmt.Sprintf("customer %d added", c.CustomerID)})
		})
		r.Delete("/delete/{id}", func(w http.ResponseWriter, r *http.Request) {
			id, ok := parseID(w, r)
			if !ok {
				return
			}
			b.mu.Lock()
			defer b.mu.Unlock()
			if b.FailDeleteIDs[id] {
				respondError(w, http.StatusInternalServerError, fmt.Sprintf("delete of %d failed", id))
				return
			}
			delete(b.customers, id)
			w.WriteHeader(http.StatusNoContent)
		})
		r.Get("/search/{id}", func(w http.ResponseWriter, r *http.Request) {
			id, ok := parseID(w, r)
			if !ok {
				return
			}
			b.mu.Lock()
			c, exists := b.customers[id]
			b.mu.Unlock()
			if !exists {
				respondError(w, http.StatusNotFound, fmt.Sprintf("customer %d not found", id))
				return
			}
			respondJSON(w, http.StatusOK, c)
		})
	})

	mux.Route("/orders", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			b.mu.Lock()
			list := sortedValues(b.orders, func(o model.Order) int { return o.OrderID })
			b.mu.Unlock()
			respondJSON(w, http.StatusOK, list)
		})
		r.Post("/add", func(w http.ResponseWriter, r *http.Request) {
			var o model.Order
			if !decode(w, r, &o) {
				return
			}
			b.mu.Lock()
			defer b.mu.Unlock()
			if b.FailAdd {
				respondError(w, http.StatusInternalServerError, "add failed")
				return
			}
			if _, exists := b.orders[o.OrderID]; exists {
				respondError(w, http.StatusConflict, fmt.Sprintf("order %d already exists", o.OrderID))
				return
			}
			if len(o.Items) == 0 {
				respondError(w, http.StatusBadRequest, "order has no items")
				return
			}
			b.orders[o.OrderID] = o
			respondJSON(w, http.StatusCreated, map[string]string{"message": fmt.Sprintf("order %d added", o.OrderID)})
		})
		r.Delete("/delete/{id}", func(w http.ResponseWriter, r *http.Request) {
			id, ok := parseID(w, r)
			if !ok {
				return
			}
			b.mu.Lock()
			defer b.mu.Unlock()
			if b.FailDeleteIDs[id] {
				respondError(w, http.StatusInternalServerError, fmt.Sprintf("delete of %d failed", id))
				return
			}
			delete(b.orders, id)
			w.WriteHeader(http.StatusNoContent)
		})
		r.Get("/search/{id}", func(w http.ResponseWriter, r *http.Request) {
			id, ok := parseID(w, r)
			if !ok {
				return
			}
			b.mu.Lock()
			o, exists := b.orders[id]
			b.mu.Unlock()
			if !exists {
				respondError(w, http.StatusNotFound, fmt.Sprintf("order %d not found", id))
				return
			}
			respondJSON(w, http.StatusOK, o)
		})
	})

	mux.Get("/operations/statistics", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, b.statistics())
	})
	mux.Post("/operations/pdf", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4 stockdesk test receipt"))
	})

	return mux
}

func (b *Backend) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.requests = append(b.requests, r.Method+" "+r.URL.Path)
		b.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) checkToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+b.RequireToken {
			respondError(w, http.StatusUnauthorized, "missing or invalid token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// importCSV accepts a multipart upload with columns
// article_id,name,price,stock,manufacturer,category.
func (b *Backend) importCSV(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer func() { _ = file.Close() }()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		respondError(w, http.StatusBadRequest, "malformed csv")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	imported := 0
	for i, rec := range records {
		if i == 0 || len(rec) < 6 {
			continue // header or short row
		}
		id, err := strconv.Atoi(rec[0])
		if err != nil {
			continue
		}
		price, err := decimal.NewFromString(rec[2])
		if err != nil {
			continue
		}
		stock, _ := strconv.Atoi(rec[3])
		b.articles[id] = model.Article{
			ArticleID:    id,
			Name:         rec[1],
			Price:        price,
			Stock:        stock,
			Manufacturer: rec[4],
			Category:     model.Category(rec[5]),
		}
		imported++
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("%d articles imported", imported)})
}

// statistics derives the aggregate report from the stored orders, mirroring
// the backend's per-entity-id maps.
func (b *Backend) statistics() model.Statistics {
	b.mu.Lock()
	defer b.mu.Unlock()

	stats := model.Statistics{
		ArticleStatistics: model.ArticleStatistics{
			OrderedQuantities: make(map[int]int),
			ArticleRevenue:    make(map[int]decimal.Decimal),
		},
		OrderStatistics: model.OrderStatistics{
			TotalPrices: make(map[int]decimal.Decimal),
		},
		CustomerStatistics: model.CustomerStatistics{
			NumberOfOrders: make(map[int]int),
			TotalRevenue:   make(map[int]decimal.Decimal),
			MostBoughtItem: make(map[int]string),
		},
	}

	bestQty := make(map[int]int)
	for _, o := range b.orders {
		stats.OrderStatistics.TotalPrices[o.OrderID] = o.Total()
		cid := o.Customer.CustomerID
		stats.CustomerStatistics.NumberOfOrders[cid]++
		revenue := stats.CustomerStatistics.TotalRevenue[cid]
		stats.CustomerStatistics.TotalRevenue[cid] = revenue.Add(o.Total())
		for _, item := range o.Items {
			aid := item.Article.ArticleID
			stats.ArticleStatistics.OrderedQuantities[aid] += item.Quantity
			rev := stats.ArticleStatistics.ArticleRevenue[aid]
			stats.ArticleStatistics.ArticleRevenue[aid] = rev.Add(item.Total())
			if item.Quantity > bestQty[cid] {
				bestQty[cid] = item.Quantity
				stats.CustomerStatistics.MostBoughtItem[cid] = item.Article.Name
			}
		}
	}
	return stats
}

func sortedValues[T any](m map[int]T, id func(T) int) []T {
	list := make([]T, 0, len(m))
	for _, v := range m {
		list = append(list, v)
	}
	sort.Slice(list, func(i, j int) bool { return id(list[i]) < id(list[j]) })
	return list
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "encoding failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func decode(w http.ResponseWriter, r *http.Request, out any) bool {
	defer func() { _, _ = io.Copy(io.Discard, r.Body) }()
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func parseID(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid id: %s", raw))
		return 0, false
	}
	return id, true
}
