package gateway

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestClient_RequestHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, Token: "secret", Timeout: time.Second}, testLogger())
	var out map[string]any
	err := client.Get(context.Background(), "/articles", &out)
	require.NoError(t, err)

	assert.Equal(t, "application/json", got.Get("Accept"))
	assert.Equal(t, "Bearer secret", got.Get("Authorization"))
	assert.NotEmpty(t, got.Get("X-Request-Id"))
}

func TestClient_NoAuthHeaderWithoutToken(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL}, testLogger())
	require.NoError(t, client.Get(context.Background(), "/", nil))
	assert.Empty(t, got.Get("Authorization"))
}

func TestClient_APIErrorDecoding(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{
			name:        "server provided error detail",
			status:      http.StatusNotFound,
			body:        `{"error": "article 7 not found"}`,
			wantMessage: "article 7 not found",
		},
		{
			name:        "no decodable detail falls back to status text",
			status:      http.StatusInternalServerError,
			body:        "boom",
			wantMessage: "500 Internal Server Error",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			client := NewClient(Config{BaseURL: srv.URL}, testLogger())
			err := client.Get(context.Background(), "/articles/search/7", nil)
			require.Error(t, err)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tc.status, apiErr.Status)
			assert.Equal(t, tc.wantMessage, apiErr.Message)
		})
	}
}

func TestClient_PostSendsJSONBody(t *testing.T) {
	var gotBody string
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		gotBody = string(data)
		gotContentType = r.Header.Get("Content-Type")
		_, _ = w.Write([]byte(`{"message": "ok"}`))
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL}, testLogger())
	var out struct {
		Message string `json:"message"`
	}
	err := client.Post(context.Background(), "/articles/add", map[string]int{"article_id": 1}, &out)
	require.NoError(t, err)

	assert.Equal(t, "application/json", gotContentType)
	assert.JSONEq(t, `{"article_id": 1}`, gotBody)
	assert.Equal(t, "ok", out.Message)
}

func TestClient_PostMultipart(t *testing.T) {
	var gotFilename, gotContent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer func() { _ = file.Close() }()
		data, _ := io.ReadAll(file)
		gotFilename = header.Filename
		gotContent = string(data)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL}, testLogger())
	err := client.PostMultipart(context.Background(), "/articles/import_csv", "file",
		"articles.csv", strings.NewReader("article_id,name\n1,Bolt\n"), nil)
	require.NoError(t, err)

	assert.Equal(t, "articles.csv", gotFilename)
	assert.Equal(t, "article_id,name\n1,Bolt\n", gotContent)
}

func TestClient_PostBinaryReturnsRawBytes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4 raw"))
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL}, testLogger())
	data, err := client.PostBinary(context.Background(), "/operations/pdf", map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 raw", string(data))
}

func TestClient_TransportErrorIsNotAPIError(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://127.0.0.1:1", Timeout: 100 * time.Millisecond}, testLogger())
	err := client.Get(context.Background(), "/articles", nil)
	require.Error(t, err)

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}
