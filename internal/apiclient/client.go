// Package apiclient talks to a running salesboard HTTP API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/theirongolddev/salesboard/internal/model"
	"github.com/theirongolddev/salesboard/internal/server"
)

const (
	requestTimeout = 5 * time.Second
	maxBodySize    = 1 << 20 // 1 MB
	userAgent      = "salesboard-cli/1.0"
)

var (
	// ErrNotFound indicates an unknown session, week or channel.
	ErrNotFound = errors.New("apiclient: not found")
	// ErrBadRequest indicates the server rejected the request body.
	ErrBadRequest = errors.New("apiclient: bad request")
)

// APIError carries the server's error message alongside a sentinel.
type APIError struct {
	Status  int
	Message string
	kind    error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("apiclient: HTTP %d: %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error { return e.kind }

// Session is the reply to session creation.
type Session struct {
	ID          string `json:"session_id"`
	CurrentWeek string `json:"current_week"`
}

// Metrics is the metrics payload for one week.
type Metrics struct {
	model.MetricsView
	Warning  string `json:"warning,omitempty"`
	Currency string `json:"currency"`
}

// Client calls the salesboard API at one base URL.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for addr, either "host:port" or a full http URL.
func New(addr string) *Client {
	base := strings.TrimRight(strings.TrimSpace(addr), "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}
	return &Client{baseURL: base, http: &http.Client{}}
}

// Health reports whether /healthz answers.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/healthz", nil)
	return err
}

// Status fetches the server status.
func (c *Client) Status(ctx context.Context) (server.Status, error) {
	var st server.Status
	err := c.getJSON(ctx, "/v1/status", &st)
	return st, err
}

// CreateSession opens a new in-memory session on the server.
func (c *Client) CreateSession(ctx context.Context) (Session, error) {
	var s Session
	body, err := c.do(ctx, http.MethodPost, "/v1/sessions", nil)
	if err != nil {
		return s, err
	}
	if err := json.Unmarshal(body, &s); err != nil {
		return s, fmt.Errorf("apiclient: parsing session: %w", err)
	}
	return s, nil
}

// CloseSession discards a session.
func (c *Client) CloseSession(ctx context.Context, sessionID string) error {
	_, err := c.do(ctx, http.MethodDelete, "/v1/sessions/"+url.PathEscape(sessionID), nil)
	return err
}

// SetWeeklyTarget updates one week's target.
func (c *Client) SetWeeklyTarget(ctx context.Context, sessionID, weekID string, target float64) error {
	_, err := c.do(ctx, http.MethodPut, weekPath(sessionID, weekID)+"/target",
		map[string]float64{"weekly_target": target})
	return err
}

// SetActual records one channel actual. field is a model.Field key such as "amount_spent".
func (c *Client) SetActual(ctx context.Context, sessionID, weekID string, ch model.Channel, field model.Field, value float64) error {
	_, err := c.do(ctx, http.MethodPut, weekPath(sessionID, weekID)+"/channels/"+url.PathEscape(ch.Key())+"/actuals",
		map[string]any{"field": field.Key(), "value": value})
	return err
}

// Metrics fetches the computed metrics for one week.
func (c *Client) Metrics(ctx context.Context, sessionID, weekID string) (Metrics, error) {
	var m Metrics
	err := c.getJSON(ctx, weekPath(sessionID, weekID)+"/metrics", &m)
	return m, err
}

// History fetches every tracked week's headline numbers, oldest first.
func (c *Client) History(ctx context.Context, sessionID string) ([]model.WeekPoint, error) {
	var points []model.WeekPoint
	err := c.getJSON(ctx, "/v1/sessions/"+url.PathEscape(sessionID)+"/history", &points)
	return points, err
}

func weekPath(sessionID, weekID string) string {
	return "/v1/sessions/" + url.PathEscape(sessionID) + "/weeks/" + url.PathEscape(weekID)
}

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("apiclient: parsing %s: %w", path, err)
	}
	return nil
}

// do sends a request with an optional JSON body and returns the response body.
func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	var rdr io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("apiclient: encoding request: %w", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return nil, fmt.Errorf("apiclient: creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("apiclient: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("apiclient: reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newAPIError(resp.StatusCode, body)
	}
	return body, nil
}

func newAPIError(status int, body []byte) *APIError {
	e := &APIError{Status: status, Message: http.StatusText(status)}
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil && payload.Error != "" {
		e.Message = payload.Error
	}
	switch status {
	case http.StatusNotFound:
		e.kind = ErrNotFound
	case http.StatusBadRequest:
		e.kind = ErrBadRequest
	}
	return e
}
