// Package api is the HTTP client for the training-calendar REST backend.
// One function per endpoint; transport concerns (auth header, correlation
// ids, retries, status mapping, error logging) live here and nowhere else.
package api

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

	"github.com/gofrs/uuid/v5"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"

	"trainingcal/internal/errs"
)

// TokenSource supplies the current bearer token, or "" when logged out.
type TokenSource interface {
	Token() string
}

// TokenSourceFunc adapts a plain function to a TokenSource.
type TokenSourceFunc func() string

func (f TokenSourceFunc) Token() string { return f() }

// StatusError carries the HTTP status and server message of a failed call.
// Endpoint wrappers map it onto sentinel errors; callers normally match the
// sentinels, not this type.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http %d: %s", e.Status, e.Message)
}

// StatusOf returns the HTTP status carried by err, or 0 for transport-level
// failures.
func StatusOf(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status
	}
	return 0
}

// Client issues REST calls against the backend base URL ("/api" included).
type Client struct {
	base    string
	http    *http.Client
	tokens  TokenSource
	logger  *zap.Logger
	retries uint64
}

// New constructs a Client. tokens may be nil for unauthenticated use.
func New(baseURL string, tokens TokenSource, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		base:    strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		tokens:  tokens,
		logger:  logger,
		retries: 2,
	}
}

// SetHTTPClient overrides the underlying HTTP client (timeouts, transport).
func (c *Client) SetHTTPClient(h *http.Client) { c.http = h }

// get retries on transport errors only: an HTTP status, even 5xx, means the
// server saw the request and retrying a non-idempotent outcome is not ours
// to decide.
func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	backoff := retry.WithMaxRetries(c.retries, retry.NewExponential(100*time.Millisecond))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := c.do(ctx, http.MethodGet, path, q, nil, out)
		if err != nil && StatusOf(err) == 0 && !errors.Is(err, context.Canceled) {
			return retry.RetryableError(err)
		}
		return err
	})
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, in, out)
}

func (c *Client) put(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, in, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, in, out any) error {
	u := c.base + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}
	reqID := requestID()
	req.Header.Set("X-Request-Id", reqID)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", reqID),
			zap.Error(err),
		)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := serverMessage(resp.Body)
		c.logger.Warn("api error",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", reqID),
			zap.Int("status", resp.StatusCode),
			zap.String("message", msg),
		)
		return mapStatus(resp.StatusCode, msg)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// mapStatus converts an HTTP status into the layer-independent sentinels.
// 409 stays a bare StatusError: its meaning depends on the endpoint (time
// conflict for events, duplicate registration for participants) and the
// endpoint wrappers refine it.
func mapStatus(status int, msg string) error {
	se := &StatusError{Status: status, Message: msg}
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: %w", errs.ErrUnauthorized, se)
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: %w", errs.ErrNotFound, se)
	case status == http.StatusConflict:
		return se
	case status >= 400 && status < 500:
		return fmt.Errorf("%w: %w", errs.ErrValidation, se)
	default:
		return se
	}
}

// serverMessage extracts the error message the backend puts in its JSON
// error body, falling back to the raw body.
func serverMessage(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 4096))
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(b, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return strings.TrimSpace(string(b))
}

func requestID() string {
	id, err := uuid.NewV4()
	if err != nil {
		return ""
	}
	return id.String()
}
