// Package backend is the HTTP client for the picking server. It exposes
// the handful of operations the engine depends on and maps any 401 to
// ErrUnauthorized so callers can tear the session down.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/ohalin/pickdesk/internal/picking"
)

// ErrUnauthorized marks any 401 response. The session must be reset when a
// call fails with it; check with errors.Is.
var ErrUnauthorized = errors.New("unauthorized")

// ClientConfig holds configuration for the backend HTTP client.
type ClientConfig struct {
	// BaseURL is the picking server root (e.g. "http://warehouse:8000").
	BaseURL string

	// Timeout is the per-request timeout.
	Timeout time.Duration

	// RequestsPerSecond caps the request rate; 0 disables the limiter.
	RequestsPerSecond float64
}

// DefaultClientConfig returns a ClientConfig with sensible defaults.
func DefaultClientConfig(baseURL string) *ClientConfig {
	return &ClientConfig{
		BaseURL:           baseURL,
		Timeout:           15 * time.Second,
		RequestsPerSecond: 10,
	}
}

// Client talks to the picking server. Safe for concurrent use.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
	limiter    *rate.Limiter

	mu    sync.RWMutex
	token string
}

// NewClient creates a backend client.
func NewClient(config *ClientConfig) *Client {
	var limiter *rate.Limiter
	if config.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.RequestsPerSecond), 1)
	}
	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		limiter:    limiter,
	}
}

// SetToken installs the bearer token used on subsequent requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the current bearer token ("" when logged out).
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// SetBaseURL points the client at a different server. Requests already in
// flight finish against the old address.
func (c *Client) SetBaseURL(url string) {
	c.mu.Lock()
	c.config.BaseURL = url
	c.mu.Unlock()
}

// BaseURL returns the current server address.
func (c *Client) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config.BaseURL
}

// LoginResponse is the server's answer to a successful login.
type LoginResponse struct {
	OK    bool   `json:"ok"`
	Token string `json:"token"`
}

// ListItem is one element of the board listing: an order summary plus a
// bounded preview of its lines.
type ListItem struct {
	Order picking.Order  `json:"order"`
	Lines []picking.Line `json:"lines"`
}

// PatchLineResult is the authoritative state returned after a quantity
// edit. OrderCompletedNow is true exactly when this edit finished the
// order.
type PatchLineResult struct {
	Order             picking.Order `json:"order"`
	Line              picking.Line  `json:"line"`
	OrderCompletedNow bool          `json:"order_completed_now"`
}

// OrderResult wraps an order-level response (open/complete).
type OrderResult struct {
	Order picking.Order `json:"order"`
}

// SyncResult is the acknowledgement of an upstream sync trigger. The
// contents are informational; callers must reload afterwards regardless.
type SyncResult struct {
	Fetched int `json:"fetched"`
	Updated int `json:"updated"`
}

// Login authenticates with the operator password and installs the
// returned token on the client.
func (c *Client) Login(ctx context.Context, password string) (string, error) {
	var res LoginResponse
	body := map[string]string{"password": password}
	if err := c.doRequest(ctx, http.MethodPost, "/api/login", body, &res); err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	c.SetToken(res.Token)
	return res.Token, nil
}

// Logout tells the server to drop the session and clears the local token.
// The local token is cleared even when the request fails.
func (c *Client) Logout(ctx context.Context) error {
	err := c.doRequest(ctx, http.MethodPost, "/api/logout", nil, nil)
	c.SetToken("")
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// Config fetches the server-side thresholds and status labels.
func (c *Client) Config(ctx context.Context) (picking.ServerConfig, error) {
	var cfg picking.ServerConfig
	if err := c.doRequest(ctx, http.MethodGet, "/api/config", nil, &cfg); err != nil {
		return picking.ServerConfig{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// ListOrders fetches the full board listing.
func (c *Client) ListOrders(ctx context.Context) ([]picking.BoardEntry, error) {
	var items []ListItem
	if err := c.doRequest(ctx, http.MethodGet, "/api/orders", nil, &items); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	entries := make([]picking.BoardEntry, len(items))
	for i, it := range items {
		entries[i] = picking.BoardEntry{Order: it.Order, Lines: it.Lines}
	}
	return entries, nil
}

// OrderDetail fetches the complete line set for one order.
func (c *Client) OrderDetail(ctx context.Context, orderID int64) (picking.Detail, error) {
	var d picking.Detail
	path := fmt.Sprintf("/api/orders/%d", orderID)
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &d); err != nil {
		return picking.Detail{}, fmt.Errorf("load order %d: %w", orderID, err)
	}
	return d, nil
}

// OpenOrder notifies the server that an operator opened the order. Best
// effort; the caller treats failure as non-fatal.
func (c *Client) OpenOrder(ctx context.Context, orderID int64) error {
	path := fmt.Sprintf("/api/orders/%d/open", orderID)
	if err := c.doRequest(ctx, http.MethodPost, path, nil, nil); err != nil {
		return fmt.Errorf("open order %d: %w", orderID, err)
	}
	return nil
}

// PatchLine submits a collected-quantity edit and returns the server's
// authoritative order+line state.
func (c *Client) PatchLine(ctx context.Context, orderID, lineID int64, qtyCollected float64) (PatchLineResult, error) {
	var res PatchLineResult
	path := fmt.Sprintf("/api/orders/%d/lines/%d", orderID, lineID)
	body := map[string]float64{"qty_collected": qtyCollected}
	if err := c.doRequest(ctx, http.MethodPatch, path, body, &res); err != nil {
		return PatchLineResult{}, fmt.Errorf("patch line %d of order %d: %w", lineID, orderID, err)
	}
	return res, nil
}

// CompleteOrder explicitly marks an order as picked.
func (c *Client) CompleteOrder(ctx context.Context, orderID int64) (picking.Order, error) {
	var res OrderResult
	path := fmt.Sprintf("/api/orders/%d/complete", orderID)
	if err := c.doRequest(ctx, http.MethodPost, path, nil, &res); err != nil {
		return picking.Order{}, fmt.Errorf("complete order %d: %w", orderID, err)
	}
	return res.Order, nil
}

// SyncNow asks the server to pull fresh data from the upstream system.
// The caller must reload the board afterwards.
func (c *Client) SyncNow(ctx context.Context) (SyncResult, error) {
	var res SyncResult
	if err := c.doRequest(ctx, http.MethodPost, "/api/sync-now", nil, &res); err != nil {
		return SyncResult{}, fmt.Errorf("sync now: %w", err)
	}
	return res, nil
}

// doRequest performs one JSON request. No retries: reads are repeated by
// the poll anyway and edits must not be replayed behind the operator's
// back.
func (c *Client) doRequest(ctx context.Context, method, path string, body, result any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL()+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%s %s: %w", method, path, ErrUnauthorized)
	}
	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, detail)
	}

	if result == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
