// Package api is the HTTP client for the ticketing backend. All business
// logic (auth, persistence, guide scoring) lives on the other side of
// this boundary; the client's job is request shaping, bearer credential
// attachment, and uniform error mapping.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vantrevi/gatehouse/internal/models"
)

// DefaultTimeout bounds each request when Options.Timeout is unset.
const DefaultTimeout = 15 * time.Second

// TokenSource supplies the current bearer credential. An empty string
// means no session: the Authorization header is omitted entirely rather
// than sent empty.
type TokenSource interface {
	Token() string
}

// StaticToken is a fixed-string TokenSource, mainly for tests.
type StaticToken string

// Token implements TokenSource.
func (s StaticToken) Token() string { return string(s) }

// Client talks to the ticketing backend.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

// Options holds parameters for creating a Client.
type Options struct {
	BaseURL string
	Timeout time.Duration
	Tokens  TokenSource // nil means no credential is ever attached
	// For testing: inject a custom HTTP client.
	HTTPClient *http.Client
}

// New creates a Client.
func New(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("api: base URL is required")
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		http:    httpClient,
		tokens:  opts.Tokens,
	}, nil
}

// apiMessage is the error/status envelope the backend wraps around most
// responses.
type apiMessage struct {
	Message string `json:"message"`
}

// do performs one request. body is JSON-encoded when non-nil; the
// response is decoded into out when out is non-nil and the status is 2xx.
// Any non-2xx status becomes an *APIError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: encode %s %s: %w", method, path, err)
		}
		reqBody = bytes.NewReader(buf)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("api: build %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("api: read %s %s: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errorFromResponse(resp.StatusCode, data)
	}
	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("api: decode %s %s: %w", method, path, err)
		}
	}
	return nil
}

// errorFromResponse maps a non-2xx response to an *APIError, preferring
// the body's message field over a status-derived fallback.
func errorFromResponse(status int, body []byte) error {
	var msg apiMessage
	if err := json.Unmarshal(body, &msg); err == nil && msg.Message != "" {
		return &APIError{Status: status, Message: msg.Message}
	}
	return &APIError{Status: status, Message: fmt.Sprintf("unknown error (HTTP %d)", status)}
}

// LoginResult is the successful auth response.
type LoginResult struct {
	Token   string          `json:"token"`
	User    models.Identity `json:"user"`
	Message string          `json:"message"`
}

// Login exchanges credentials for a bearer token and identity.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	body := map[string]string{"username": username, "password": password}
	var res LoginResult
	if err := c.do(ctx, http.MethodPost, "/api/user/auth/login", nil, body, &res); err != nil {
		return nil, err
	}
	if res.Token == "" {
		return nil, &APIError{Status: http.StatusOK, Message: "login response carried no token"}
	}
	return &res, nil
}

// Register creates a new staff account.
func (c *Client) Register(ctx context.Context, username, password, role string) error {
	body := map[string]string{"username": username, "password": password, "role": role}
	return c.do(ctx, http.MethodPost, "/api/user/auth/register", nil, body, nil)
}

// ChangePassword rotates the current account's password.
func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	body := map[string]string{"currentPassword": current, "newPassword": next}
	return c.do(ctx, http.MethodPut, "/api/user/auth/change-password", nil, body, nil)
}

// CreateTicket submits a priced ticket and returns the created record.
func (c *Client) CreateTicket(ctx context.Context, t models.Ticket) (*models.Ticket, error) {
	var created models.Ticket
	if err := c.do(ctx, http.MethodPost, "/api/user/tickets", nil, t, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// TicketFilter narrows a ticket history listing. Zero values are omitted
// from the query string.
type TicketFilter struct {
	StartDate string // YYYY-MM-DD
	EndDate   string // YYYY-MM-DD
	Search    string
}

// ListTickets fetches ticket history. The backend returns either a bare
// array or a {tickets, total} envelope depending on version; both decode
// to the same result. total is len(tickets) for the bare-array shape.
func (c *Client) ListTickets(ctx context.Context, f TicketFilter) ([]models.Ticket, int, error) {
	q := url.Values{}
	if f.StartDate != "" {
		q.Set("startDate", f.StartDate)
	}
	if f.EndDate != "" {
		q.Set("endDate", f.EndDate)
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/user/tickets", q, nil, &raw); err != nil {
		return nil, 0, err
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var tickets []models.Ticket
		if err := json.Unmarshal(trimmed, &tickets); err != nil {
			return nil, 0, fmt.Errorf("api: decode ticket list: %w", err)
		}
		return tickets, len(tickets), nil
	}
	var page models.TicketPage
	if err := json.Unmarshal(trimmed, &page); err != nil {
		return nil, 0, fmt.Errorf("api: decode ticket page: %w", err)
	}
	return page.Tickets, page.Total, nil
}

// DeleteTicket removes a ticket by ID.
func (c *Client) DeleteTicket(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/user/tickets/%d", id), nil, nil, nil)
}

// GuideFilter narrows a guide listing.
type GuideFilter struct {
	Search      string
	Status      string
	VehicleType models.VehicleType
}

// ListGuides fetches guides matching the filter.
func (c *Client) ListGuides(ctx context.Context, f GuideFilter) ([]models.Guide, error) {
	q := url.Values{}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	if f.VehicleType != "" {
		q.Set("vehicle_type", string(f.VehicleType))
	}
	var guides []models.Guide
	if err := c.do(ctx, http.MethodGet, "/api/user/guides", q, nil, &guides); err != nil {
		return nil, err
	}
	return guides, nil
}

// TopGuides fetches the backend's best-scored guides.
func (c *Client) TopGuides(ctx context.Context, limit int) ([]models.Guide, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", limit))
	}
	var guides []models.Guide
	if err := c.do(ctx, http.MethodGet, "/api/user/guides/top", q, nil, &guides); err != nil {
		return nil, err
	}
	return guides, nil
}

// GetGuide fetches one guide by ID.
func (c *Client) GetGuide(ctx context.Context, id uint) (*models.Guide, error) {
	var g models.Guide
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/user/guides/%d", id), nil, nil, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// CreateGuide registers a new guide.
func (c *Client) CreateGuide(ctx context.Context, g models.Guide) (*models.Guide, error) {
	var created models.Guide
	if err := c.do(ctx, http.MethodPost, "/api/user/guides", nil, g, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateGuide applies a partial edit to a guide.
func (c *Client) UpdateGuide(ctx context.Context, id uint, upd models.GuideUpdate) (*models.Guide, error) {
	var updated models.Guide
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/user/guides/%d", id), nil, upd, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteGuide removes a guide by ID.
func (c *Client) DeleteGuide(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/user/guides/%d", id), nil, nil, nil)
}
