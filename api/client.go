package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Payload    Payload
}

func (e *APIError) Error() string {
	return e.Payload.ErrorMessage()
}

// Message returns the server's error or message field, else fallback. An
// empty fallback falls through to the raw body.
func (e *APIError) Message(fallback string) string {
	if s := e.Payload.String("error"); s != "" {
		return s
	}
	if s := e.Payload.String("message"); s != "" {
		return s
	}
	if fallback != "" {
		return fallback
	}
	return string(e.Payload.Raw())
}

// Client talks to the library REST API.
type Client struct {
	base   string
	token  string
	http   *http.Client
	logger *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds each request. Zero keeps the default of no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http = &http.Client{Timeout: d, Transport: c.http.Transport}
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithToken sets the bearer token sent on authenticated calls.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// NewClient creates a client for base, which is normalized first.
func NewClient(base string, opts ...Option) *Client {
	c := &Client{
		base:   NormalizeBase(base),
		http:   &http.Client{},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Base returns the normalized base URL.
func (c *Client) Base() string { return c.base }

type parseFunc func(*http.Response) Payload

// do sends one request. Non-2xx answers come back as *APIError alongside the
// parsed payload; transport failures are wrapped and the payload is empty.
func (c *Client) do(ctx context.Context, method, path string, body any, parse parseFunc) (Payload, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return Payload{}, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return Payload{}, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		return Payload{}, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	payload := parse(res)
	c.logger.Debug("request done",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID),
		zap.Int("status", res.StatusCode),
		zap.Duration("took", time.Since(start)),
	)

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return payload, &APIError{StatusCode: res.StatusCode, Payload: payload}
	}
	return payload, nil
}

// decodeList pulls a list out of p. Elements that do not decode are logged
// and skipped; a body that is not a list yields an empty one. The UI never
// sees parse errors.
func decodeList[T any](logger *zap.Logger, p Payload, keys ...string) []T {
	items := p.Items(keys...)
	if items == nil {
		return []T{}
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(items, &raws); err != nil {
		logger.Warn("discarding undecodable list", zap.Error(err))
		return []T{}
	}
	out := make([]T, 0, len(raws))
	for i, raw := range raws {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			logger.Warn("skipping undecodable list item", zap.Int("index", i), zap.Error(err))
			continue
		}
		out = append(out, v)
	}
	return out
}

func escapeID(id string) string {
	return url.PathEscape(id)
}
