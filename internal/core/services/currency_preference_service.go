package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/featuringmyself/ledgy/internal/apperrors"
	"github.com/featuringmyself/ledgy/internal/core/domain"
	portsrepo "github.com/featuringmyself/ledgy/internal/core/ports/repositories"
	portssvc "github.com/featuringmyself/ledgy/internal/core/ports/services"
)

// currencyPreferenceService stores each tenant's display currency.
type currencyPreferenceService struct {
	BaseService
	prefRepo        portsrepo.TenantPreferenceRepositoryFacade
	defaultCurrency string
}

// NewCurrencyPreferenceService creates a new currency preference service. A
// defaultCurrency outside the catalog is replaced by domain.DefaultCurrencyCode.
func NewCurrencyPreferenceService(prefRepo portsrepo.TenantPreferenceRepositoryFacade, defaultCurrency string) portssvc.CurrencyPreferenceSvcFacade {
	def, ok := domain.LookupCurrency(defaultCurrency)
	code := domain.DefaultCurrencyCode
	if ok {
		code = def.CurrencyCode
	}
	return &currencyPreferenceService{prefRepo: prefRepo, defaultCurrency: code}
}

var _ portssvc.CurrencyPreferenceSvcFacade = (*currencyPreferenceService)(nil)

// GetPreferredCurrency returns the tenant's display currency, creating the default record on first access.
func (s *currencyPreferenceService) GetPreferredCurrency(ctx context.Context, tenantID string) (string, error) {
	if tenantID == "" {
		return "", apperrors.NewValidationError("tenant ID is required")
	}
	pref, err := s.prefRepo.EnsureCurrencyPreference(ctx, tenantID, s.defaultCurrency)
	if err != nil {
		s.LogError(ctx, err, "Failed to load currency preference", slog.String("tenant_id", tenantID))
		return "", fmt.Errorf("failed to get currency preference: %w", err)
	}
	return pref.DefaultCurrencyCode, nil
}

// ListSupportedCurrencies returns the currency catalog.
func (s *currencyPreferenceService) ListSupportedCurrencies(_ context.Context) []domain.Currency {
	out := make([]domain.Currency, len(domain.SupportedCurrencies))
	copy(out, domain.SupportedCurrencies)
	return out
}

// SetPreferredCurrency validates code against the catalog before any write.
func (s *currencyPreferenceService) SetPreferredCurrency(ctx context.Context, tenantID, code string) (*domain.TenantCurrencyPreference, error) {
	if tenantID == "" {
		return nil, apperrors.NewValidationError("tenant ID is required")
	}
	currency, ok := domain.LookupCurrency(code)
	if !ok {
		s.LogWarn(ctx, "Rejected unsupported currency",
			slog.String("tenant_id", tenantID),
			slog.String("currency", code))
		return nil, fmt.Errorf("%w: %q", apperrors.ErrInvalidCurrency, code)
	}

	pref, err := s.prefRepo.UpsertCurrencyPreference(ctx, tenantID, currency.CurrencyCode)
	if err != nil {
		s.LogError(ctx, err, "Failed to save currency preference", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to set currency preference: %w", err)
	}
	s.LogInfo(ctx, "Currency preference updated",
		slog.String("tenant_id", tenantID),
		slog.String("currency", currency.CurrencyCode))
	return pref, nil
}
