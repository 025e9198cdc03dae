package pgsql

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/featuringmyself/ledgy/internal/apperrors"
	"github.com/featuringmyself/ledgy/internal/core/domain"
	portsrepo "github.com/featuringmyself/ledgy/internal/core/ports/repositories"
	"github.com/featuringmyself/ledgy/internal/models"
	"github.com/featuringmyself/ledgy/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const exchangeRateColumns = `
	exchange_rate_id, from_currency_code, to_currency_code, rate, date_effective, source,
	created_at, created_by, last_updated_at, last_updated_by`

// Two writers racing on the same key both end up updating the one row.
const upsertExchangeRateSQL = `
	INSERT INTO exchange_rates (` + exchangeRateColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (from_currency_code, to_currency_code, date_effective) DO UPDATE SET
		rate = EXCLUDED.rate,
		source = EXCLUDED.source,
		last_updated_at = EXCLUDED.last_updated_at,
		last_updated_by = EXCLUDED.last_updated_by`

// PgxExchangeRateRepository implements the rate store on Postgres.
type PgxExchangeRateRepository struct {
	BaseRepository
}

func newPgxExchangeRateRepository(pool *pgxpool.Pool) portsrepo.ExchangeRateRepositoryWithTx {
	return &PgxExchangeRateRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.ExchangeRateRepositoryWithTx = (*PgxExchangeRateRepository)(nil)

func upsertArgs(rate domain.ExchangeRate) []any {
	m := mapping.ToModelExchangeRate(rate)
	return []any{
		m.ExchangeRateID, strings.ToUpper(m.FromCurrencyCode), strings.ToUpper(m.ToCurrencyCode),
		m.Rate, m.DateEffective, m.Source,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	}
}

// UpsertExchangeRate inserts the rate or replaces rate and source of the stored row.
func (r *PgxExchangeRateRepository) UpsertExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	if _, err := r.Pool.Exec(ctx, upsertExchangeRateSQL, upsertArgs(rate)...); err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to save exchange rate", err)
	}
	return nil
}

// UpsertExchangeRates upserts a batch inside one transaction.
func (r *PgxExchangeRateRepository) UpsertExchangeRates(ctx context.Context, rates []domain.ExchangeRate) error {
	if len(rates) == 0 {
		return nil
	}
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	batch := &pgx.Batch{}
	for _, rate := range rates {
		batch.Queue(upsertExchangeRateSQL, upsertArgs(rate)...)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to save exchange rates", err)
	}
	return r.Commit(ctx, tx)
}

func scanExchangeRate(row pgx.Row) (*domain.ExchangeRate, error) {
	var m models.ExchangeRate
	err := row.Scan(
		&m.ExchangeRateID, &m.FromCurrencyCode, &m.ToCurrencyCode,
		&m.Rate, &m.DateEffective, &m.Source,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	d := mapping.ToDomainExchangeRate(m)
	return &d, nil
}

func (r *PgxExchangeRateRepository) findOne(ctx context.Context, query string, args ...any) (*domain.ExchangeRate, error) {
	rate, err := scanExchangeRate(r.Pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("exchange rate not found")
		}
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to find exchange rate", err)
	}
	return rate, nil
}

// FindExchangeRateOnDate retrieves the rate stored for exactly that day.
func (r *PgxExchangeRateRepository) FindExchangeRateOnDate(ctx context.Context, from, to string, date time.Time) (*domain.ExchangeRate, error) {
	query := `SELECT ` + exchangeRateColumns + `
		FROM exchange_rates
		WHERE from_currency_code = $1 AND to_currency_code = $2 AND date_effective = $3
		ORDER BY created_at DESC
		LIMIT 1`
	return r.findOne(ctx, query, from, to, domain.NormalizeDate(date))
}

// FindLatestExchangeRate retrieves the most recent rate dated on or before onOrBefore.
func (r *PgxExchangeRateRepository) FindLatestExchangeRate(ctx context.Context, from, to string, onOrBefore time.Time) (*domain.ExchangeRate, error) {
	query := `SELECT ` + exchangeRateColumns + `
		FROM exchange_rates
		WHERE from_currency_code = $1 AND to_currency_code = $2 AND date_effective <= $3
		ORDER BY date_effective DESC, created_at DESC
		LIMIT 1`
	return r.findOne(ctx, query, from, to, domain.NormalizeDate(onOrBefore))
}

// ListExchangeRates retrieves all exchange rates with optional filtering.
func (r *PgxExchangeRateRepository) ListExchangeRates(ctx context.Context, filter domain.ExchangeRateFilter) ([]domain.ExchangeRate, int, error) {
	baseQuery := `FROM exchange_rates WHERE 1=1`
	args := []any{}
	argNum := 1

	if filter.FromCurrencyCode != nil {
		baseQuery += fmt.Sprintf(" AND from_currency_code = $%d", argNum)
		args = append(args, strings.ToUpper(*filter.FromCurrencyCode))
		argNum++
	}
	if filter.ToCurrencyCode != nil {
		baseQuery += fmt.Sprintf(" AND to_currency_code = $%d", argNum)
		args = append(args, strings.ToUpper(*filter.ToCurrencyCode))
		argNum++
	}
	if filter.OnOrBefore != nil {
		baseQuery += fmt.Sprintf(" AND date_effective <= $%d", argNum)
		args = append(args, domain.NormalizeDate(*filter.OnOrBefore))
		argNum++
	}

	var total int
	if err := r.Pool.QueryRow(ctx, "SELECT COUNT(*) "+baseQuery, args...).Scan(&total); err != nil {
		return nil, 0, apperrors.NewAppError(http.StatusInternalServerError, "failed to count exchange rates", err)
	}
	if total == 0 {
		return []domain.ExchangeRate{}, 0, nil
	}

	baseQuery += " ORDER BY from_currency_code, to_currency_code, date_effective DESC"
	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		baseQuery += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argNum, argNum+1)
		args = append(args, filter.PageSize, (page-1)*filter.PageSize)
	}

	rows, err := r.Pool.Query(ctx, "SELECT "+exchangeRateColumns+" "+baseQuery, args...)
	if err != nil {
		return nil, 0, apperrors.NewAppError(http.StatusInternalServerError, "failed to list exchange rates", err)
	}
	defer rows.Close()

	rates := make([]domain.ExchangeRate, 0)
	for rows.Next() {
		rate, err := scanExchangeRate(rows)
		if err != nil {
			return nil, 0, apperrors.NewAppError(http.StatusInternalServerError, "failed to scan exchange rate", err)
		}
		rates = append(rates, *rate)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperrors.NewAppError(http.StatusInternalServerError, "error iterating exchange rates", err)
	}

	return rates, total, nil
}
