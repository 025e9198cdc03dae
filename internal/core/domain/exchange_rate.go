package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Provenance tags recorded in ExchangeRate.Source.
const (
	SourceExchangeRateAPIv6 = "exchangerate-api-v6"
	SourceExchangeRateAPIv4 = "exchangerate-api-v4"
	SourceManual            = "manual"
)

// ExchangeRate stores the conversion rate between two currencies for a calendar day.
// Rate is units of ToCurrencyCode per one unit of FromCurrencyCode.
type ExchangeRate struct {
	ExchangeRateID   string          `json:"exchangeRateID"`
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Rate             decimal.Decimal `json:"rate"`
	DateEffective    time.Time       `json:"dateEffective"` // Calendar day, time-of-day zeroed
	Source           string          `json:"source"`
	AuditFields
}

// RateTier names the lookup step that produced a resolved rate.
type RateTier string

const (
	TierIdentity   RateTier = "IDENTITY"   // from == to
	TierExact      RateTier = "EXACT"      // stored row for the requested day
	TierLatest     RateTier = "LATEST"     // most recent stored row before the requested day
	TierReciprocal RateTier = "RECIPROCAL" // 1/rate of the most recent reverse row
	TierFallback   RateTier = "FALLBACK"   // nothing known, neutral 1
)

// ResolvedRate is the answer to "what is one unit of From worth in To as of AsOf".
type ResolvedRate struct {
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	AsOf             time.Time       `json:"asOf"`
	Rate             decimal.Decimal `json:"rate"`
	Tier             RateTier        `json:"tier"`
	// DateEffective is the day of the stored row used; nil for identity and fallback.
	DateEffective *time.Time `json:"dateEffective,omitempty"`
}

// IsFallback reports whether no stored rate backed this result.
func (r ResolvedRate) IsFallback() bool {
	return r.Tier == TierFallback
}

// Conversion is the result of applying a resolved rate to an amount.
type Conversion struct {
	Amount           decimal.Decimal `json:"amount"`
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	ConvertedAmount  decimal.Decimal `json:"convertedAmount"`
	Rate             decimal.Decimal `json:"rate"`
	Tier             RateTier        `json:"tier"`
	AsOf             time.Time       `json:"asOf"`
}

// ExchangeRateFilter narrows a rate listing. Nil fields are not applied.
type ExchangeRateFilter struct {
	FromCurrencyCode *string
	ToCurrencyCode   *string
	OnOrBefore       *time.Time
	Page             int
	PageSize         int
}
