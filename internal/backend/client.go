// Package backend implements the typed HTTP client for the warehouse
// management REST API. Every call attaches the bearer token found in the
// request context and maps failures onto a small error taxonomy
// (unreachable, unauthorized, not found, status error with message).
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/stockfront/stockfront/internal/shared"
)

// Observer receives the outcome of every backend call. Status is zero
// when the request never reached the server.
type Observer func(method, path string, status int, elapsed time.Duration)

// Client wraps interactions with the warehouse backend API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	observe    Observer
}

// NewClient constructs a new client. baseURL carries no trailing slash.
func NewClient(baseURL string, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// SetObserver installs a call observer, typically a metrics recorder.
func (c *Client) SetObserver(fn Observer) {
	c.observe = fn
}

func (c *Client) report(method, path string, status int, started time.Time) {
	if c.observe != nil {
		c.observe(method, path, status, time.Since(started))
	}
}

// LoginResponse is the body of a successful POST /login.
type LoginResponse struct {
	Token string `json:"token"`
}

// Login exchanges credentials for a bearer token. It is the only call
// that never attaches a token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	body, err := json.Marshal(map[string]string{"username": username, "password": password})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/login", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.report(http.MethodPost, "/login", 0, started)
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	c.report(http.MethodPost, "/login", resp.StatusCode, started)
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", fmt.Errorf("login: %w", ErrUnauthorized)
	}
	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(resp.Body)
		return "", &StatusError{Status: resp.StatusCode, Message: extractMessage(raw, resp.Header.Get("Content-Type"), resp.StatusCode)}
	}

	var out LoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("login: decode response: %w", err)
	}
	return out.Token, nil
}

// do issues a JSON request and decodes the response into out (when out is
// non-nil and the response has a body).
func (c *Client) do(ctx context.Context, method, path string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := shared.TokenFromContext(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.report(method, path, 0, started)
		if c.logger != nil {
			c.logger.Warn("backend request failed", slog.String("path", path), slog.Any("error", err))
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	c.report(method, path, resp.StatusCode, started)
	defer func() {
		_ = resp.Body.Close()
	}()

	if err := c.checkStatus(resp, method, path); err != nil {
		return err
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}

// doPDF issues a JSON request expecting a binary PDF back.
func (c *Client) doPDF(ctx context.Context, path string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/pdf")
	if token := shared.TokenFromContext(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.report(http.MethodPost, path, 0, started)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	c.report(http.MethodPost, path, resp.StatusCode, started)
	defer func() {
		_ = resp.Body.Close()
	}()

	if err := c.checkStatus(resp, http.MethodPost, path); err != nil {
		return nil, err
	}
	return io.ReadAll(resp.Body)
}

func (c *Client) checkStatus(resp *http.Response, method, path string) error {
	switch {
	case resp.StatusCode < 400:
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		if c.logger != nil {
			c.logger.Warn("backend rejected token",
				slog.String("path", path),
				slog.Int("status", resp.StatusCode))
		}
		return fmt.Errorf("%s %s: %w", method, path, ErrUnauthorized)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s %s: %w", method, path, ErrNotFound)
	default:
		raw, _ := io.ReadAll(resp.Body)
		return &StatusError{
			Status:  resp.StatusCode,
			Message: extractMessage(raw, resp.Header.Get("Content-Type"), resp.StatusCode),
		}
	}
}
