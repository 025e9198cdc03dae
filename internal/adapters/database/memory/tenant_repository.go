package memory

import (
	"context"
	"sync"
	"time"

	"github.com/featuringmyself/ledgy/internal/apperrors"
	"github.com/featuringmyself/ledgy/internal/core/domain"
	portsrepo "github.com/featuringmyself/ledgy/internal/core/ports/repositories"
)

// TenantPreferenceRepository stores tenant currency preferences in memory.
type TenantPreferenceRepository struct {
	mu    sync.Mutex
	prefs map[string]domain.TenantCurrencyPreference
}

// NewTenantPreferenceRepository creates an empty store.
func NewTenantPreferenceRepository() *TenantPreferenceRepository {
	return &TenantPreferenceRepository{prefs: map[string]domain.TenantCurrencyPreference{}}
}

var _ portsrepo.TenantPreferenceRepositoryFacade = (*TenantPreferenceRepository)(nil)

func (r *TenantPreferenceRepository) FindCurrencyPreference(_ context.Context, tenantID string) (*domain.TenantCurrencyPreference, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pref, ok := r.prefs[tenantID]
	if !ok {
		return nil, apperrors.NewNotFoundError("currency preference not found")
	}
	return &pref, nil
}

func (r *TenantPreferenceRepository) EnsureCurrencyPreference(_ context.Context, tenantID, defaultCode string) (*domain.TenantCurrencyPreference, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pref, ok := r.prefs[tenantID]
	if !ok {
		now := time.Now()
		pref = domain.TenantCurrencyPreference{
			TenantID:            tenantID,
			DefaultCurrencyCode: defaultCode,
			CreatedAt:           now,
			LastUpdatedAt:       now,
		}
		r.prefs[tenantID] = pref
	}
	return &pref, nil
}

func (r *TenantPreferenceRepository) UpsertCurrencyPreference(_ context.Context, tenantID, code string) (*domain.TenantCurrencyPreference, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	pref, ok := r.prefs[tenantID]
	if !ok {
		pref = domain.TenantCurrencyPreference{TenantID: tenantID, CreatedAt: now}
	}
	pref.DefaultCurrencyCode = code
	pref.LastUpdatedAt = now
	r.prefs[tenantID] = pref
	return &pref, nil
}
