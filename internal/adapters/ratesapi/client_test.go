package ratesapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/featuringmyself/ledgy/internal/apperrors"
	"github.com/featuringmyself/ledgy/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, wantPath string, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		assert.Equal(t, wantPath, req.URL.Path)
		rw.WriteHeader(status)
		_, _ = rw.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestLatestRates_V6WithKey(t *testing.T) {
	server := serve(t, "/v6/secret/latest/USD", http.StatusOK, `{
		"result": "success",
		"base_code": "USD",
		"conversion_rates": {"USD": 1, "INR": 83.1234, "EUR": 0.92}
	}`)
	c := New(WithAPIKey("secret"), WithBaseURLs(server.URL+"/v4", server.URL+"/v6"))

	got, err := c.LatestRates(context.Background(), "usd")
	require.NoError(t, err)
	assert.Equal(t, "USD", got.BaseCurrencyCode)
	assert.Equal(t, domain.SourceExchangeRateAPIv6, got.Source)
	assert.True(t, got.Rates["INR"].Equal(decimal.RequireFromString("83.1234")))
	assert.Len(t, got.Rates, 3)
}

func TestLatestRates_V4WithoutKey(t *testing.T) {
	server := serve(t, "/v4/latest/EUR", http.StatusOK, `{"base": "EUR", "rates": {"USD": 1.09}}`)
	c := New(WithBaseURLs(server.URL+"/v4", server.URL+"/v6"))

	got, err := c.LatestRates(context.Background(), "EUR")
	require.NoError(t, err)
	assert.Equal(t, domain.SourceExchangeRateAPIv4, got.Source)
	assert.True(t, got.Rates["USD"].Equal(decimal.RequireFromString("1.09")))
}

func TestLatestRates_PayloadShapes(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantSource string
		wantUSD    string
	}{
		{
			name:       "conversion_rates preferred over rates",
			body:       `{"conversion_rates": {"USD": 1.09}, "rates": {"USD": 2.5}}`,
			wantSource: domain.SourceExchangeRateAPIv6,
			wantUSD:    "1.09",
		},
		{
			name:       "null conversion_rates falls back to rates",
			body:       `{"conversion_rates": null, "rates": {"USD": 1.1}}`,
			wantSource: domain.SourceExchangeRateAPIv4,
			wantUSD:    "1.1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := serve(t, "/v4/latest/EUR", http.StatusOK, tt.body)
			c := New(WithBaseURLs(server.URL+"/v4", ""))

			got, err := c.LatestRates(context.Background(), "EUR")
			require.NoError(t, err)
			assert.Equal(t, tt.wantSource, got.Source)
			require.Len(t, got.Rates, 1)
			assert.True(t, got.Rates["USD"].Equal(decimal.RequireFromString(tt.wantUSD)))
		})
	}
}

func TestLatestRates_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusServiceUnavailable, `{}`},
		{"no rates", http.StatusOK, `{"base": "EUR"}`},
		{"null rates", http.StatusOK, `{"conversion_rates": null, "rates": null}`},
		{"not json", http.StatusOK, `<html>`},
		{"non numeric rate", http.StatusOK, `{"rates": {"USD": "abc"}}`},
		{"provider error", http.StatusOK, `{"result": "error", "error-type": "invalid-key"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := serve(t, "/v4/latest/EUR", tt.status, tt.body)
			c := New(WithBaseURLs(server.URL+"/v4", ""))

			got, err := c.LatestRates(context.Background(), "EUR")
			assert.Nil(t, got)
			assert.ErrorIs(t, err, apperrors.ErrProviderUnavailable)
		})
	}
}

func TestLatestRates_StatusInMessage(t *testing.T) {
	server := serve(t, "/v4/latest/GBP", http.StatusTooManyRequests, `{}`)
	c := New(WithBaseURLs(server.URL+"/v4", ""))

	_, err := c.LatestRates(context.Background(), "GBP")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestLatestRates_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		time.Sleep(50 * time.Millisecond)
		_, _ = rw.Write([]byte(`{"rates": {"USD": 1}}`))
	}))
	defer server.Close()
	c := New(WithAPIKey("top-secret"), WithBaseURLs("", server.URL), WithTimeout(5*time.Millisecond))

	_, err := c.LatestRates(context.Background(), "INR")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrProviderUnavailable)
	assert.NotContains(t, err.Error(), "top-secret")
}
