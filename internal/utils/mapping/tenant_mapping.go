package mapping

import (
	"github.com/featuringmyself/ledgy/internal/core/domain"
	"github.com/featuringmyself/ledgy/internal/models"
)

// ToDomainCurrencyPreference converts a tenant_settings row to a domain preference
func ToDomainCurrencyPreference(m models.TenantSettings) domain.TenantCurrencyPreference {
	return domain.TenantCurrencyPreference{
		TenantID:            m.TenantID,
		DefaultCurrencyCode: m.DefaultCurrencyCode,
		CreatedAt:           m.CreatedAt,
		LastUpdatedAt:       m.LastUpdatedAt,
	}
}
