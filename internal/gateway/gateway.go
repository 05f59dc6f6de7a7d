// Package gateway wraps HTTP access to the inventory backend with uniform
// headers, JSON and multipart body handling, and error propagation.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-Id"

// Config carries the connection settings for the backend.
type Config struct {
	// BaseURL is the API root, e.g. http://127.0.0.1:8080/api.
	BaseURL string
	// Token, when set, is sent as a bearer token on every request.
	Token string
	// Timeout bounds each request. Zero means the http.Client default.
	Timeout time.Duration
}

// APIError is an HTTP error for which the backend produced a response. The
// message is the server-provided {"error": ...} detail when present.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: %d %s", e.Status, e.Message)
}

// Client issues requests against the backend. All methods make exactly one
// HTTP call and decode JSON responses into out when out is non-nil.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *slog.Logger
}

// NewClient creates a gateway client for the given backend.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  logger.With("component", "gateway"),
	}
}

// Get issues a GET request for route and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, route string, out any) error {
	return c.doJSON(ctx, http.MethodGet, route, nil, out)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, route string, body, out any) error {
	return c.doJSON(ctx, http.MethodPost, route, body, out)
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, route string, body, out any) error {
	return c.doJSON(ctx, http.MethodPut, route, body, out)
}

// Delete issues a DELETE request for route.
func (c *Client) Delete(ctx context.Context, route string) error {
	return c.doJSON(ctx, http.MethodDelete, route, nil, nil)
}

// PostMultipart uploads file as a multipart form field and decodes the JSON
// response into out. The content type, including the boundary, is set by the
// multipart writer.
func (c *Client) PostMultipart(ctx context.Context, route, field, filename string, file io.Reader, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		return fmt.Errorf("failed to create multipart field %q: %w", field, err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("failed to copy file into multipart body: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, route, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.send(req)
	if err != nil {
		return err
	}
	defer closeBody(resp)
	return decodeInto(resp, out)
}

// PostBinary issues a POST request with a JSON body and returns the raw
// response bytes. Used for endpoints that respond with a binary blob, such as
// PDF generation.
func (c *Client) PostBinary(ctx context.Context, route string, body any) ([]byte, error) {
	req, err := c.jsonRequest(ctx, http.MethodPost, route, body)
	if err != nil {
		return nil, err
	}
	resp, err := c.send(req)
	if err != nil {
		return nil, err
	}
	defer closeBody(resp)
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return data, nil
}

func (c *Client) doJSON(ctx context.Context, method, route string, body, out any) error {
	req, err := c.jsonRequest(ctx, method, route, body)
	if err != nil {
		return err
	}
	resp, err := c.send(req)
	if err != nil {
		return err
	}
	defer closeBody(resp)
	return decodeInto(resp, out)
}

func (c *Client) jsonRequest(ctx context.Context, method, route string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}
	req, err := c.newRequest(ctx, method, route, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *Client) newRequest(ctx context.Context, method, route string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+route, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request for %s: %w", method, route, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, uuid.NewString())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// send performs the request. Transport errors without a response are logged
// generically and returned; responses outside 2xx become an *APIError with
// the server-provided message when one is present.
func (c *Client) send(req *http.Request) (*http.Response, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.ErrorContext(req.Context(), "Request failed without response",
			"method", req.Method, "url", req.URL.String(), "error", err)
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, Message: resp.Status}
		var payload struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Error != "" {
			apiErr.Message = payload.Error
		}
		closeBody(resp)
		c.logger.ErrorContext(req.Context(), "Request failed",
			"method", req.Method, "url", req.URL.String(), "status", resp.StatusCode, "message", apiErr.Message)
		return nil, apiErr
	}
	return resp, nil
}

func decodeInto(resp *http.Response, out any) error {
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}

func closeBody(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
