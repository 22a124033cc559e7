// Package productclient is the storefront's HTTP client for the catalog
// service's products collection and image store.
package productclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"jrmart/internal/models"
	"jrmart/internal/requestid"
)

// DefaultTimeout bounds every catalog call when no timeout is configured.
const DefaultTimeout = 10 * time.Second

const maxErrorBody = 512

// Client talks to the catalog REST service.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client, timeout included.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New returns a client for the catalog at baseURL, e.g. http://localhost:3000.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List returns the whole products collection.
func (c *Client) List(ctx context.Context) ([]models.Product, error) {
	return c.Find(ctx, models.Filter{})
}

// Find returns the products matching f. The zero Filter lists everything.
func (c *Client) Find(ctx context.Context, f models.Filter) ([]models.Product, error) {
	q := url.Values{}
	if s := strings.TrimSpace(f.Query); s != "" {
		q.Set("q", s)
	}
	if f.Category != "" {
		q.Set("category", string(f.Category))
	}
	path := "/products"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	items := []models.Product{}
	if err := c.doJSON(ctx, "list products", http.MethodGet, path, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) Get(ctx context.Context, id models.ID) (models.Product, error) {
	var p models.Product
	if id.IsZero() {
		return p, &ValidationError{Fields: []string{"id"}}
	}
	err := c.doJSON(ctx, "get product", http.MethodGet, productPath(id), nil, &p)
	return p, err
}

// Create stores d and returns the catalog's representation, id included.
func (c *Client) Create(ctx context.Context, d models.Draft) (models.Product, error) {
	var p models.Product
	if missing := d.MissingFields(); len(missing) > 0 {
		return p, &ValidationError{Fields: missing}
	}
	err := c.doJSON(ctx, "create product", http.MethodPost, "/products", d, &p)
	return p, err
}

// Update replaces the product with the given id by d.
func (c *Client) Update(ctx context.Context, id models.ID, d models.Draft) (models.Product, error) {
	var p models.Product
	missing := d.MissingFields()
	if id.IsZero() {
		missing = append([]string{"id"}, missing...)
	}
	if len(missing) > 0 {
		return p, &ValidationError{Fields: missing}
	}
	err := c.doJSON(ctx, "update product", http.MethodPut, productPath(id), d, &p)
	return p, err
}

func (c *Client) Delete(ctx context.Context, id models.ID) error {
	if id.IsZero() {
		return &ValidationError{Fields: []string{"id"}}
	}
	return c.doJSON(ctx, "delete product", http.MethodDelete, productPath(id), nil, nil)
}

func productPath(id models.ID) string {
	return "/products/" + url.PathEscape(id.String())
}

func (c *Client) doJSON(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode: %w", op, err)
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}
	return c.do(ctx, op, method, path, body, contentType, out)
}

func (c *Client) do(ctx context.Context, op, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if id := requestid.FromContext(ctx); id != "" {
		req.Header.Set(requestid.Header, id)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "catalog request failed", "op", op, "method", method, "path", path, "error", err)
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()
	c.logger.DebugContext(ctx, "catalog request", "op", op, "method", method, "path", path,
		"status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &ServiceError{Op: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(excerpt))}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Op: op, Err: fmt.Errorf("read response: %w", err)}
	}
	if err := json.Unmarshal(b, out); err != nil {
		c.logger.WarnContext(ctx, "undecodable catalog response", "op", op, "status", resp.StatusCode, "error", err)
		if len(b) > maxErrorBody {
			b = b[:maxErrorBody]
		}
		return &ServiceError{Op: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	return nil
}
