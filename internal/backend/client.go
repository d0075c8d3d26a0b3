// Package backend holds the typed HTTP adapters for the companion
// services: contract registry lookups, mirror writes for on-chain actions,
// and the status/performance/history reads the chain cannot answer
// efficiently. Pure request/response: no retries, no caching beyond what
// the HTTP stack provides.
package backend

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

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrNoCredential is returned when an authenticated call is attempted
// without a signer to derive a bearer token from.
var ErrNoCredential = errors.New("no backend credential: connect a signing wallet")

// APIError is a non-2xx backend response. Carries the body text when the
// backend sent one, else the status line.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("backend error %d: %s", e.Status, e.Body)
	}
	return fmt.Sprintf("backend error: %s", http.StatusText(e.Status))
}

// MessageSigner signs login challenges and reports the acting address.
type MessageSigner interface {
	SignMessage(msg []byte) ([]byte, error)
	Address() string
}

// Client talks to the backend gateway. Safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
	auth    *tokenSource
}

// Option configures a Client.
type Option func(*Client)

// WithSigner enables authenticated calls by deriving bearer tokens from
// wallet signatures.
func WithSigner(s MessageSigner) Option {
	return func(c *Client) {
		c.auth = newTokenSource(c, s)
	}
}

// WithLogger sets the debug logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// WithHTTPClient overrides the HTTP client (tests).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// New creates a backend client for baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token returns a valid bearer token, logging in through the signer when
// the cached one is absent or expired.
func (c *Client) Token(ctx context.Context) (string, error) {
	if c.auth == nil {
		return "", ErrNoCredential
	}
	return c.auth.token(ctx)
}

// get performs an unauthenticated GET and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out, "")
}

// postAuthed performs a bearer-authenticated POST.
func (c *Client) postAuthed(ctx context.Context, path string, body, out any) error {
	token, err := c.Token(ctx)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path, nil, body, out, token)
}

// post performs an unauthenticated POST (login only).
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out, "")
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any, token string) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("backend request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("backend call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("parsing backend response: %w", err)
	}
	return nil
}
