package pgsql

import (
	portsrepo "github.com/featuringmyself/ledgy/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider creates the Postgres-backed repositories sharing pool.
func NewRepositoryProvider(pool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		ExchangeRateRepo: newPgxExchangeRateRepository(pool),
		PreferenceRepo:   newPgxTenantPreferenceRepository(pool),
		MoneyRecordRepo:  newPgxMoneyRecordRepository(pool),
	}
}
