// Package client is a typed HTTP client for the findit API, used by the
// command line client and by tests.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/findithq/findit/internal/filter"
	"github.com/findithq/findit/internal/model"
)

// Session is the server's response to a successful register, login, or
// session lookup.
type Session struct {
	Token   string         `json:"token"`
	Profile *model.Profile `json:"profile"`
}

// ItemInput carries a new item report. Status is not a field here: new
// reports always start open.
type ItemInput struct {
	Kind         string `json:"kind"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Location     string `json:"location"`
	DateReported string `json:"date_reported"` // YYYY-MM-DD
	CategoryID   string `json:"category_id"`
	ImageURL     string `json:"image_url"`
	ContactInfo  string `json:"contact_info"`
}

// Client talks to a findit server. The zero value is not usable; construct
// with New. Safe for concurrent use.
type Client struct {
	baseURL string
	httpc   *http.Client

	mu    sync.RWMutex
	token string
}

// New creates a client for the server at baseURL, e.g. "http://localhost:8080".
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 15 * time.Second},
	}
}

// SetToken sets the bearer token sent with authenticated requests. An empty
// token makes subsequent requests anonymous.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the current bearer token, or "" if none is set.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Register creates a new account and returns its session.
func (c *Client) Register(ctx context.Context, email, password, fullName, phone string) (*Session, error) {
	body := map[string]string{
		"email":     email,
		"password":  password,
		"full_name": fullName,
		"phone":     phone,
	}
	var sess Session
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", body, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// Login authenticates with email and password and returns the session.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}
	var sess Session
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// Logout revokes the current token server-side. The caller is responsible
// for discarding the token locally regardless of the result.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

// Session returns the profile behind the current token, so a persisted
// session can be restored on startup.
func (c *Client) Session(ctx context.Context) (*model.Profile, error) {
	var sess Session
	if err := c.do(ctx, http.MethodGet, "/api/auth/session", nil, &sess); err != nil {
		return nil, err
	}
	return sess.Profile, nil
}

// ListItems returns items matching spec, newest first. The filtering runs
// server-side with the same semantics as the search page.
func (c *Client) ListItems(ctx context.Context, spec filter.Spec) ([]model.Item, error) {
	q := url.Values{}
	if spec.Term != "" {
		q.Set("term", spec.Term)
	}
	if s := spec.Kind.String(); s != "" {
		q.Set("kind", s)
	}
	if spec.CategoryID != "" {
		q.Set("category", spec.CategoryID)
	}
	if s := spec.Status.String(); s != "" {
		q.Set("status", s)
	}

	path := "/api/items"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var items []model.Item
	if err := c.do(ctx, http.MethodGet, path, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// GetItem returns a single item by id.
func (c *Client) GetItem(ctx context.Context, id string) (*model.Item, error) {
	var item model.Item
	if err := c.do(ctx, http.MethodGet, "/api/items/"+url.PathEscape(id), nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateItem reports a new item.
func (c *Client) CreateItem(ctx context.Context, in ItemInput) (*model.Item, error) {
	var item model.Item
	if err := c.do(ctx, http.MethodPost, "/api/items", in, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateItemStatus changes an item's status and returns the updated item.
func (c *Client) UpdateItemStatus(ctx context.Context, id, status string) (*model.Item, error) {
	body := map[string]string{"status": status}
	var item model.Item
	if err := c.do(ctx, http.MethodPut, "/api/items/"+url.PathEscape(id)+"/status", body, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// DeleteItem removes an item (admin only).
func (c *Client) DeleteItem(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/items/"+url.PathEscape(id), nil, nil)
}

// ListCategories returns all categories in alphabetical order.
func (c *Client) ListCategories(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if err := c.do(ctx, http.MethodGet, "/api/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// CreateCategory adds a new category (admin only).
func (c *Client) CreateCategory(ctx context.Context, name, description string) (*model.Category, error) {
	body := map[string]string{"name": name, "description": description}
	var category model.Category
	if err := c.do(ctx, http.MethodPost, "/api/categories", body, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// DeleteCategory removes a category (admin only). Items keep their reports
// but lose the category reference.
func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/categories/"+url.PathEscape(id), nil, nil)
}

// ListProfiles returns all profiles, newest first (admin only).
func (c *Client) ListProfiles(ctx context.Context) ([]model.Profile, error) {
	var profiles []model.Profile
	if err := c.do(ctx, http.MethodGet, "/api/profiles", nil, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

// SetProfileAdmin grants or revokes another profile's admin access (admin only).
func (c *Client) SetProfileAdmin(ctx context.Context, id string, admin bool) (*model.Profile, error) {
	body := map[string]bool{"admin": admin}
	var profile model.Profile
	if err := c.do(ctx, http.MethodPut, "/api/profiles/"+url.PathEscape(id)+"/admin", body, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// do sends one request and decodes the response into out (if non-nil).
// Non-2xx responses are translated into the client error types.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody *bytes.Buffer
	if body != nil {
		reqBody = &bytes.Buffer{}
		if err := json.NewEncoder(reqBody).Encode(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	var req *http.Request
	var err error
	if reqBody != nil {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	}
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.errorFrom(resp.StatusCode, resp.Body, path)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// errorFrom maps an error response onto the client error types. Login and
// register failures become AuthError; a 401 anywhere else means the token is
// missing, expired, or revoked.
func (c *Client) errorFrom(status int, body io.Reader, path string) error {
	var payload struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(body).Decode(&payload)

	authEndpoint := path == "/api/auth/login" || path == "/api/auth/register"

	switch {
	case status == http.StatusUnauthorized && !authEndpoint:
		return ErrUnauthenticated
	case authEndpoint && (status == http.StatusUnauthorized || status == http.StatusConflict):
		return &AuthError{Message: payload.Error}
	case status == http.StatusBadRequest:
		return &ValidationError{Message: payload.Error}
	default:
		return &RequestError{Status: status, Message: payload.Error}
	}
}
