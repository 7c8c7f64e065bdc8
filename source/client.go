// Package source retrieves holdings from the remote portfolio backend and
// keeps the latest snapshot up to date.
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/rs/zerolog"

	"github.com/etnz/holdings"
)

// ErrNotList is returned when the holdings path does not select a JSON array.
var ErrNotList = errors.New("holdings value is not a list")

// StatusError is returned for non 2xx responses.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string { return fmt.Sprintf("request failed: %d", e.Code) }

// Client fetches the holdings list over HTTP.
type Client struct {
	url     string
	path    string
	extract func(context.Context, any) (any, error)
	http    *http.Client
	log     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.http = hc } }

// WithTimeout sets the request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http = &http.Client{Timeout: d} }
}

// WithHoldingsPath sets the JSONPath locating the holdings array in the
// response, "$.holdings" by default.
func WithHoldingsPath(path string) Option { return func(c *Client) { c.path = path } }

// WithLogger sets the client logger.
func WithLogger(log zerolog.Logger) Option { return func(c *Client) { c.log = log } }

// NewClient returns a client for the holdings endpoint at url.
func NewClient(url string, opts ...Option) (*Client, error) {
	c := &Client{
		url:  url,
		path: "$.holdings",
		http: &http.Client{Timeout: 10 * time.Second},
		log:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	eval, err := jsonpath.New(c.path)
	if err != nil {
		return nil, fmt.Errorf("invalid holdings path %q: %w", c.path, err)
	}
	c.extract = eval
	c.log = c.log.With().Str("component", "source").Logger()
	return c, nil
}

// URL returns the endpoint address.
func (c *Client) URL() string { return c.url }

// Fetch performs one GET of the endpoint and returns the holdings it lists.
// A response without holdings yields an empty list.
func (c *Client) Fetch(ctx context.Context) ([]holdings.Holding, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	c.log.Debug().
		Str("url", c.url).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("GET holdings")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	var doc any
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", c.url, err)
	}
	return c.holdings(ctx, doc)
}

// holdings extracts the holdings list out of a decoded JSON document.
func (c *Client) holdings(ctx context.Context, doc any) ([]holdings.Holding, error) {
	v, err := c.extract(ctx, doc)
	if err != nil {
		// the path does not match anything: no holdings.
		c.log.Debug().Err(err).Str("path", c.path).Msg("no holdings in response")
		return []holdings.Holding{}, nil
	}
	switch v.(type) {
	case nil:
		return []holdings.Holding{}, nil
	case []any:
	default:
		return nil, fmt.Errorf("%s in %s: %w", c.path, c.url, ErrNotList)
	}

	// back and forth to JSON, so that holdings decode with their own rules.
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	list := []holdings.Holding{}
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("decoding holdings: %w", err)
	}
	return list, nil
}
