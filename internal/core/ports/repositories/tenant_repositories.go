package repositories

import (
	"context"

	"github.com/featuringmyself/ledgy/internal/core/domain"
)

// TenantPreferenceReader defines read operations for tenant currency preferences
type TenantPreferenceReader interface {
	// FindCurrencyPreference returns apperrors.ErrNotFound when the tenant has no record yet.
	FindCurrencyPreference(ctx context.Context, tenantID string) (*domain.TenantCurrencyPreference, error)
}

// TenantPreferenceWriter defines write operations for tenant currency preferences
type TenantPreferenceWriter interface {
	// EnsureCurrencyPreference creates the record with defaultCode if absent and
	// returns whatever is stored afterwards.
	EnsureCurrencyPreference(ctx context.Context, tenantID, defaultCode string) (*domain.TenantCurrencyPreference, error)

	// UpsertCurrencyPreference creates or overwrites only the default currency.
	UpsertCurrencyPreference(ctx context.Context, tenantID, code string) (*domain.TenantCurrencyPreference, error)
}

// TenantPreferenceRepositoryFacade combines the tenant preference interfaces
type TenantPreferenceRepositoryFacade interface {
	TenantPreferenceReader
	TenantPreferenceWriter
}
