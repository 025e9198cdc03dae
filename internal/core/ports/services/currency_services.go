package services

import (
	"context"

	"github.com/featuringmyself/ledgy/internal/core/domain"
)

// CurrencyPreferenceReaderSvc defines read operations for tenant currency preferences
type CurrencyPreferenceReaderSvc interface {
	// GetPreferredCurrency returns the tenant's display currency, creating the
	// preference with the configured default on first access.
	GetPreferredCurrency(ctx context.Context, tenantID string) (string, error)

	// ListSupportedCurrencies returns the static currency catalog.
	ListSupportedCurrencies(ctx context.Context) []domain.Currency
}

// CurrencyPreferenceWriterSvc defines write operations for tenant currency preferences
type CurrencyPreferenceWriterSvc interface {
	// SetPreferredCurrency validates code against the catalog and upserts it.
	// Unknown codes fail with apperrors.ErrInvalidCurrency and nothing is written.
	SetPreferredCurrency(ctx context.Context, tenantID, code string) (*domain.TenantCurrencyPreference, error)
}

// CurrencyPreferenceSvcFacade combines the currency preference interfaces
type CurrencyPreferenceSvcFacade interface {
	CurrencyPreferenceReaderSvc
	CurrencyPreferenceWriterSvc
}
