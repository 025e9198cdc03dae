// Package ratesapi fetches market rates from exchangerate-api.com.
package ratesapi

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/featuringmyself/ledgy/internal/apperrors"
	"github.com/featuringmyself/ledgy/internal/core/domain"
	"github.com/featuringmyself/ledgy/internal/core/ports/external"
	"github.com/featuringmyself/ledgy/internal/platform/logging"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

const (
	DefaultV4URL   = "https://api.exchangerate-api.com/v4"
	DefaultV6URL   = "https://v6.exchangerate-api.com/v6"
	DefaultTimeout = 10 * time.Second

	maxBodyBytes = 1 << 20
)

// Client is an external.RateProvider backed by exchangerate-api.com.
// With an API key it calls the v6 endpoint, otherwise the keyless v4 one.
type Client struct {
	apiKey string
	v4URL  string
	v6URL  string
	client *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithAPIKey switches the client to the keyed v6 endpoint.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = strings.TrimSpace(key) }
}

// WithBaseURLs overrides the v4 and v6 endpoint roots. Empty values keep the defaults.
func WithBaseURLs(v4, v6 string) Option {
	return func(c *Client) {
		if v4 != "" {
			c.v4URL = strings.TrimRight(v4, "/")
		}
		if v6 != "" {
			c.v6URL = strings.TrimRight(v6, "/")
		}
	}
}

// WithTimeout bounds each provider call.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.client.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.client = hc
		}
	}
}

// New constructs a Client.
func New(opts ...Option) *Client {
	c := &Client{
		v4URL:  DefaultV4URL,
		v6URL:  DefaultV6URL,
		client: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ external.RateProvider = (*Client)(nil)

func (c *Client) latestURL(base string) string {
	if c.apiKey != "" {
		return fmt.Sprintf("%s/%s/latest/%s", c.v6URL, c.apiKey, base)
	}
	return fmt.Sprintf("%s/latest/%s", c.v4URL, base)
}

func unavailable(format string, args ...any) error {
	return fmt.Errorf("%w: %s", apperrors.ErrProviderUnavailable, fmt.Sprintf(format, args...))
}

// LatestRates loads today's rates from base to every currency the provider knows.
func (c *Client) LatestRates(ctx context.Context, base string) (*external.LatestRates, error) {
	logger := logging.FromContext(ctx)
	base = strings.ToUpper(strings.TrimSpace(base))

	// The URL carries the API key, so only the base is logged.
	logger.Debug("Fetching exchange rates", slog.String("base_currency", base), slog.Bool("keyed", c.apiKey != ""))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.latestURL(base), nil)
	if err != nil {
		return nil, unavailable("building request: %v", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, unavailable("request failed: %v", redact(err, c.apiKey))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, unavailable("reading response: %v", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, unavailable("HTTP error! status: %d", resp.StatusCode)
	}

	return parseLatest(body, base)
}

// parseLatest accepts both payload shapes: v6 nests rates under
// conversion_rates, v4 under rates.
func parseLatest(body []byte, base string) (*external.LatestRates, error) {
	if !gjson.ValidBytes(body) {
		return nil, unavailable("response is not valid JSON")
	}
	doc := gjson.ParseBytes(body)

	if result := doc.Get("result"); result.Exists() && result.String() == "error" {
		return nil, unavailable("provider error: %s", doc.Get("error-type").String())
	}

	// conversion_rates wins when both are present; a null one does not count.
	source := domain.SourceExchangeRateAPIv6
	rates := doc.Get("conversion_rates")
	if !rates.IsObject() {
		source = domain.SourceExchangeRateAPIv4
		rates = doc.Get("rates")
	}
	if !rates.IsObject() {
		return nil, unavailable("No rates data in API response")
	}

	out := &external.LatestRates{
		BaseCurrencyCode: base,
		Source:           source,
		Rates:            make(map[string]decimal.Decimal),
	}
	var parseErr error
	rates.ForEach(func(key, value gjson.Result) bool {
		if value.Type != gjson.Number {
			parseErr = unavailable("rate for %s is not a number", key.String())
			return false
		}
		// Raw keeps the provider's exact digits.
		rate, err := decimal.NewFromString(value.Raw)
		if err != nil {
			parseErr = unavailable("rate for %s: %v", key.String(), err)
			return false
		}
		out.Rates[strings.ToUpper(key.String())] = rate
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return out, nil
}

type redactedError struct {
	msg string
}

func (e redactedError) Error() string { return e.msg }

func redact(err error, key string) error {
	if key == "" {
		return err
	}
	return redactedError{msg: strings.ReplaceAll(err.Error(), key, "***")}
}
