package pgsql

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/featuringmyself/ledgy/internal/apperrors"
	"github.com/featuringmyself/ledgy/internal/core/domain"
	portsrepo "github.com/featuringmyself/ledgy/internal/core/ports/repositories"
	"github.com/featuringmyself/ledgy/internal/models"
	"github.com/featuringmyself/ledgy/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxTenantPreferenceRepository stores tenant currency preferences in tenant_settings.
type PgxTenantPreferenceRepository struct {
	BaseRepository
}

func newPgxTenantPreferenceRepository(pool *pgxpool.Pool) portsrepo.TenantPreferenceRepositoryFacade {
	return &PgxTenantPreferenceRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.TenantPreferenceRepositoryFacade = (*PgxTenantPreferenceRepository)(nil)

func scanTenantSettings(row pgx.Row) (*domain.TenantCurrencyPreference, error) {
	var m models.TenantSettings
	if err := row.Scan(&m.TenantID, &m.DefaultCurrencyCode, &m.CreatedAt, &m.LastUpdatedAt); err != nil {
		return nil, err
	}
	pref := mapping.ToDomainCurrencyPreference(m)
	return &pref, nil
}

func (r *PgxTenantPreferenceRepository) FindCurrencyPreference(ctx context.Context, tenantID string) (*domain.TenantCurrencyPreference, error) {
	query := `
		SELECT tenant_id, default_currency_code, created_at, last_updated_at
		FROM tenant_settings
		WHERE tenant_id = $1`
	pref, err := scanTenantSettings(r.Pool.QueryRow(ctx, query, tenantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("currency preference not found")
		}
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to find currency preference", err)
	}
	return pref, nil
}

// EnsureCurrencyPreference creates the row if missing. The no-op update makes
// RETURNING yield the stored row in both cases.
func (r *PgxTenantPreferenceRepository) EnsureCurrencyPreference(ctx context.Context, tenantID, defaultCode string) (*domain.TenantCurrencyPreference, error) {
	now := time.Now()
	query := `
		INSERT INTO tenant_settings (tenant_id, default_currency_code, created_at, last_updated_at)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (tenant_id) DO UPDATE SET tenant_id = EXCLUDED.tenant_id
		RETURNING tenant_id, default_currency_code, created_at, last_updated_at`
	pref, err := scanTenantSettings(r.Pool.QueryRow(ctx, query, tenantID, defaultCode, now))
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to ensure currency preference", err)
	}
	return pref, nil
}

// UpsertCurrencyPreference writes only default_currency_code.
func (r *PgxTenantPreferenceRepository) UpsertCurrencyPreference(ctx context.Context, tenantID, code string) (*domain.TenantCurrencyPreference, error) {
	now := time.Now()
	query := `
		INSERT INTO tenant_settings (tenant_id, default_currency_code, created_at, last_updated_at)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (tenant_id) DO UPDATE SET
			default_currency_code = EXCLUDED.default_currency_code,
			last_updated_at = EXCLUDED.last_updated_at
		RETURNING tenant_id, default_currency_code, created_at, last_updated_at`
	pref, err := scanTenantSettings(r.Pool.QueryRow(ctx, query, tenantID, code, now))
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to save currency preference", err)
	}
	return pref, nil
}
