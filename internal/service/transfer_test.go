package service_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/avollmer/stockdesk/internal/backendtest"
	"github.com/avollmer/stockdesk/internal/gateway"
	"github.com/avollmer/stockdesk/internal/model"
	"github.com/avollmer/stockdesk/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTransferService(t *testing.T, backend *backendtest.Backend) *service.TransferService {
	t.Helper()
	srv := httptest.NewServer(backend.Handler())
	t.Cleanup(srv.Close)
	gw := gateway.NewClient(gateway.Config{BaseURL: srv.URL}, testLogger())
	return service.NewTransferService(gw, testLogger())
}

func TestTransferService_ImportArticleCSV(t *testing.T) {
	backend := backendtest.New()
	svc := newTransferService(t, backend)

	csv := "article_id,name,price,stock,manufacturer,category\n" +
		"1,Bolt,0.25,100,Acme,small\n" +
		"2,Nut,0.10,200,Acme,small\n"
	err := svc.ImportArticleCSV(context.Background(), "articles.csv", strings.NewReader(csv))
	require.NoError(t, err)

	articles := backend.Articles()
	require.Len(t, articles, 2)
	assert.Equal(t, "Bolt", articles[0].Name)
	assert.Equal(t, 200, articles[1].Stock)
}

func TestTransferService_GenerateReceipt(t *testing.T) {
	backend := backendtest.New()
	svc := newTransferService(t, backend)

	tests := []struct {
		name         string
		req          service.ReceiptRequest
		wantFilename string
	}{
		{
			name:         "order receipt",
			req:          service.ReceiptRequest{Order: &model.Order{OrderID: 12}},
			wantFilename: "order_12.pdf",
		},
		{
			name: "article receipt",
			req: service.ReceiptRequest{
				Articles: &model.Article{ArticleID: 3},
				Customer: &model.Customer{CustomerID: 1},
			},
			wantFilename: "article_3.pdf",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			data, filename, err := svc.GenerateReceipt(context.Background(), tc.req)
			require.NoError(t, err)
			assert.Equal(t, tc.wantFilename, filename)
			assert.True(t, strings.HasPrefix(string(data), "%PDF"))
		})
	}
}

func TestStatisticsService_Fetch(t *testing.T) {
	backend := backendtest.New()
	bolt := article(1, "Bolt", "2.00")
	backend.SeedOrders(model.Order{
		OrderID:   10,
		Customer:  model.Customer{CustomerID: 4, FirstName: "Ada", LastName: "L"},
		Items:     []model.OrderItem{{Article: bolt, Quantity: 3}},
		Date:      "01.02.2026",
		OrderType: model.OrderTypeSale,
		Status:    model.StatusPending,
	})

	srv := httptest.NewServer(backend.Handler())
	t.Cleanup(srv.Close)
	gw := gateway.NewClient(gateway.Config{BaseURL: srv.URL}, testLogger())
	svc := service.NewStatisticsService(gw, testLogger())

	stats, err := svc.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, stats.ArticleStatistics.OrderedQuantities[1])
	assert.True(t, stats.ArticleStatistics.ArticleRevenue[1].Equal(decimal.RequireFromString("6.00")))
	assert.True(t, stats.OrderStatistics.TotalPrices[10].Equal(decimal.RequireFromString("6.00")))
	assert.Equal(t, 1, stats.CustomerStatistics.NumberOfOrders[4])
	assert.Equal(t, "Bolt", stats.CustomerStatistics.MostBoughtItem[4])

	prices, err := svc.TotalPrices(context.Background())
	require.NoError(t, err)
	require.Len(t, prices, 1)
}
