// Package resource fetches a JSON collection from a fixed HTTP endpoint.
package resource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/basecamp/places-cli/internal/loader"
	"github.com/basecamp/places-cli/internal/version"
)

// DefaultCollection addresses the "places" field of the response body.
const DefaultCollection = "$.places"

// DefaultName is the resource name used in messages.
const DefaultName = "places"

// DefaultMaxBodySize bounds how much of a response is read.
const DefaultMaxBodySize = 10 << 20

// Config describes the remote collection.
type Config struct {
	URL        string // endpoint, fetched with GET
	Collection string // JSONPath to the array of items
	Name       string // human name, e.g. "places"
}

// Client performs the GET and decodes the collection.
type Client struct {
	cfg     Config
	http    *http.Client
	logger  *zap.Logger
	maxBody int64
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.http = c }
}

// WithMaxBodySize overrides the response size limit.
func WithMaxBodySize(n int64) Option {
	return func(cl *Client) { cl.maxBody = n }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *zap.Logger) Option {
	return func(cl *Client) { cl.logger = l }
}

// NewClient creates a Client. Empty Collection and Name take defaults.
func NewClient(cfg Config, opts ...Option) *Client {
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}
	if cfg.Name == "" {
		cfg.Name = DefaultName
	}
	c := &Client{
		cfg:     cfg,
		http:    &http.Client{},
		logger:  zap.NewNop(),
		maxBody: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetLogger swaps the request logger. Call it before fetches start.
func (c *Client) SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	c.logger = l
}

// Name returns the resource name.
func (c *Client) Name() string { return c.cfg.Name }

// FetchFunc adapts the client for use with a loader.
func (c *Client) FetchFunc() loader.FetchFunc[[]Item] {
	return c.Fetch
}

// Fetch retrieves and decodes the collection. Errors are always one of
// *TransportError, *StatusError or *DecodeError.
func (c *Client) Fetch(ctx context.Context) ([]Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.URL, nil)
	if err != nil {
		return nil, &TransportError{URL: c.cfg.URL, Cause: err}
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())
	req.Header.Set("X-Request-Id", reqID)

	log := c.logger.With(zap.String("request_id", reqID))
	log.Debug("request", zap.String("method", req.Method), zap.String("url", ScrubURL(c.cfg.URL)))

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		terr := &TransportError{URL: c.cfg.URL, Cause: err}
		log.Debug("request failed", zap.Error(terr))
		return nil, terr
	}
	defer resp.Body.Close()

	// One byte past the limit tells an oversized body from one that
	// fits exactly.
	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, &TransportError{URL: c.cfg.URL, Cause: err}
	}
	if int64(len(body)) > c.maxBody {
		return nil, &DecodeError{Reason: fmt.Sprintf("response too large (over %d bytes)", c.maxBody)}
	}
	log.Debug("response",
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
		zap.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Message:    c.statusMessage(body),
		}
	}

	return c.decode(body)
}

// statusMessage prefers a "message" field from a JSON error body.
func (c *Client) statusMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return fmt.Sprintf("Failed to fetch %s", c.cfg.Name)
}

func (c *Client) decode(body []byte) ([]Item, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, &DecodeError{Reason: "body is not JSON", Cause: err}
	}

	found, err := jsonpath.Get(c.cfg.Collection, doc)
	if err != nil {
		return nil, &DecodeError{Reason: fmt.Sprintf("collection %s", c.cfg.Collection), Cause: err}
	}
	raw, ok := found.([]any)
	if !ok {
		return nil, &DecodeError{Reason: fmt.Sprintf("collection %s is not an array", c.cfg.Collection)}
	}
	return decodeItems(raw)
}
