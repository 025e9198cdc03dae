package external

import (
	"context"
	"time"

	"github.com/featuringmyself/ledgy/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LatestRates is one provider response: rates from BaseCurrencyCode to each target.
type LatestRates struct {
	BaseCurrencyCode string
	Rates            map[string]decimal.Decimal
	Source           string // provenance tag stored with every row
}

// RateProvider fetches current market rates for a base currency.
// Any failure (network, status, payload) is reported as an error wrapping
// apperrors.ErrProviderUnavailable.
type RateProvider interface {
	LatestRates(ctx context.Context, baseCurrencyCode string) (*LatestRates, error)
}

// RateEventPublisher announces that a base currency's rates were stored.
type RateEventPublisher interface {
	PublishRatesRefreshed(ctx context.Context, result domain.RefreshResult) error
}

// RunLocker guards a refresh run across processes.
// TryLock returns false (and no error) when another holder owns key.
type RunLocker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key string) error
}
