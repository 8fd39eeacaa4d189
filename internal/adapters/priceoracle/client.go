package priceoracle

// Package priceoracle fetches spot quotes from the external price oracle.
// The oracle's response shape is configuration, not code: a JMESPath
// expression locates the quote value so a different oracle needs only an
// env change.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	jmespath "github.com/jmespath-community/go-jmespath"
)

// ClientConfig holds configuration for the oracle client.
type ClientConfig struct {
	// URL is the quote endpoint; "{symbol}" is replaced per request.
	URL string
	// QuotePath is the JMESPath expression locating the numeric quote.
	QuotePath string
	// Timeout bounds one fetch. Applied via the HTTP client when no
	// custom client is supplied.
	Timeout time.Duration
	// HTTPClient is optional; defaults to a timeout-bounded client.
	HTTPClient *http.Client
}

// Client implements core.QuoteSource over HTTP.
type Client struct {
	url        string
	quotePath  string
	httpClient *http.Client
}

// NewClient constructs an oracle client, validating the quote path up front.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("oracle URL is required")
	}
	if cfg.QuotePath == "" {
		return nil, errors.New("oracle quote path is required")
	}
	if _, err := jmespath.Compile(cfg.QuotePath); err != nil {
		return nil, fmt.Errorf("compile quote path: %w", err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{url: cfg.URL, quotePath: cfg.QuotePath, httpClient: httpClient}, nil
}

// Quote fetches the current quote for symbol.
func (c *Client) Quote(ctx context.Context, symbol string) (float64, error) {
	if symbol == "" {
		return 0, errors.New("symbol is required")
	}

	url := strings.ReplaceAll(c.url, "{symbol}", symbol)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("build oracle request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("oracle fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("oracle returned status %d", resp.StatusCode)
	}

	var payload any
	if decodeErr := json.NewDecoder(resp.Body).Decode(&payload); decodeErr != nil {
		return 0, fmt.Errorf("decode oracle response: %w", decodeErr)
	}

	value, err := jmespath.Search(c.quotePath, payload)
	if err != nil {
		return 0, fmt.Errorf("extract quote: %w", err)
	}

	return toFloat(value)
}

// toFloat coerces the extracted JMESPath value to a float64. Oracles return
// quotes both as JSON numbers and as decimal strings.
func toFloat(v any) (float64, error) {
	switch q := v.(type) {
	case float64:
		return q, nil
	case string:
		f, err := strconv.ParseFloat(q, 64)
		if err != nil {
			return 0, fmt.Errorf("parse quote %q: %w", q, err)
		}
		return f, nil
	case nil:
		return 0, errors.New("quote path matched nothing")
	default:
		return 0, fmt.Errorf("unexpected quote type %T", v)
	}
}
