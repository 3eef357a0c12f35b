// Package rest sends requests to the endpoints under test. A Client is built
// from explicit options (base URL, timeout, default headers) so nothing about
// the target environment lives in package state.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-cleanhttp"
	"go.uber.org/zap"
)

// CorrelationIDHeader is set on every request that does not carry one.
const CorrelationIDHeader = "X-Correlation-ID"

// Options configures [New].
type Options struct {
	BaseURL string
	Timeout time.Duration
	// Headers are sent with every request. Per-call headers win.
	Headers map[string]string
	Logger  *zap.Logger
	// HTTPClient replaces the pooled default client.
	HTTPClient *http.Client
}

// Client is safe for concurrent use.
type Client struct {
	base    *url.URL
	headers map[string]string
	http    *http.Client
	logger  *zap.Logger
}

// New returns a client for the service at opts.BaseURL, which must be an
// absolute URL.
func New(opts Options) (*Client, error) {
	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	if !base.IsAbs() || base.Host == "" {
		return nil, fmt.Errorf("base URL %q must be absolute", opts.BaseURL)
	}

	var hc *http.Client
	if opts.HTTPClient != nil {
		cp := *opts.HTTPClient
		hc = &cp
	} else {
		hc = cleanhttp.DefaultPooledClient()
	}
	if opts.Timeout > 0 {
		hc.Timeout = opts.Timeout
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		base:    base,
		headers: maps.Clone(opts.Headers),
		http:    hc,
		logger:  logger,
	}, nil
}

// URL resolves path against the base URL. Absolute http(s) URLs are used as
// they are.
func (c *Client) URL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return c.base.JoinPath(path).String()
}

// Post sends body as JSON to path.
func (c *Client) Post(ctx context.Context, path string, body any, headers map[string]string) (*Response, error) {
	return c.Do(ctx, http.MethodPost, path, body, headers)
}

// Do sends a request and reads the whole response. body may be nil, []byte,
// a string, or any value encoding/json can marshal (including
// *reststeps.Body). A non-2xx status is not an error.
func (c *Client) Do(ctx context.Context, method, path string, body any, headers map[string]string) (*Response, error) {
	target := c.URL(path)

	var payload io.Reader
	if body != nil {
		var raw []byte
		switch b := body.(type) {
		case []byte:
			raw = b
		case string:
			raw = []byte(b)
		default:
			var err error
			if raw, err = json.Marshal(body); err != nil {
				return nil, fmt.Errorf("encode body for %s %s: %w", method, target, err)
			}
		}
		payload = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, payload)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, target, err)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	correlationID := req.Header.Get(CorrelationIDHeader)
	if correlationID == "" {
		correlationID = uuid.NewString()
		req.Header.Set(CorrelationIDHeader, correlationID)
	}

	// Header values may carry tokens; only names are logged.
	c.logger.Debug("sending request",
		zap.String("method", method),
		zap.String("url", target),
		zap.Strings("headers", headerNames(req.Header)),
		zap.String("correlationId", correlationID))

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, target, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response of %s %s: %w", method, target, err)
	}

	r := &Response{
		StatusCode:    resp.StatusCode,
		Header:        resp.Header,
		Body:          data,
		Elapsed:       time.Since(start),
		CorrelationID: correlationID,
	}
	c.logger.Debug("received response",
		zap.String("method", method),
		zap.String("url", target),
		zap.Int("status", r.StatusCode),
		zap.Duration("elapsed", r.Elapsed),
		zap.String("correlationId", correlationID))
	return r, nil
}

func headerNames(h http.Header) []string {
	names := slices.Collect(maps.Keys(h))
	slices.Sort(names)
	return names
}
