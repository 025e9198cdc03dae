package repositories

import (
	"context"
	"time"

	"github.com/featuringmyself/ledgy/internal/core/domain"
)

// ExchangeRateReader defines read operations for exchange rate data.
// Lookups that match no row return apperrors.ErrNotFound; any other error is a storage fault.
type ExchangeRateReader interface {
	// FindExchangeRateOnDate retrieves the rate stored for exactly that calendar day.
	// When several inserts exist for the day the newest wins.
	FindExchangeRateOnDate(ctx context.Context, fromCurrencyCode, toCurrencyCode string, date time.Time) (*domain.ExchangeRate, error)

	// FindLatestExchangeRate retrieves the most recent rate dated on or before onOrBefore.
	FindLatestExchangeRate(ctx context.Context, fromCurrencyCode, toCurrencyCode string, onOrBefore time.Time) (*domain.ExchangeRate, error)

	// ListExchangeRates retrieves a page of rates and the total number of matches.
	ListExchangeRates(ctx context.Context, filter domain.ExchangeRateFilter) ([]domain.ExchangeRate, int, error)
}

// ExchangeRateWriter defines write operations for exchange rate data
type ExchangeRateWriter interface {
	// UpsertExchangeRate inserts the rate or replaces rate and source of the row
	// already stored for (from, to, date).
	UpsertExchangeRate(ctx context.Context, rate domain.ExchangeRate) error

	// UpsertExchangeRates upserts a batch, typically one provider response.
	UpsertExchangeRates(ctx context.Context, rates []domain.ExchangeRate) error
}

// ExchangeRateRepositoryFacade combines all exchange rate-related repository interfaces
// This is a facade for clients that need access to all operations
type ExchangeRateRepositoryFacade interface {
	ExchangeRateReader
	ExchangeRateWriter
}

// ExchangeRateRepositoryWithTx extends ExchangeRateRepositoryFacade with transaction capabilities
type ExchangeRateRepositoryWithTx interface {
	ExchangeRateRepositoryFacade
	TransactionManager
}
