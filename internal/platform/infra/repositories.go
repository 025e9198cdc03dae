package infra

import (
	"context"
	"errors"
	"log/slog"

	"github.com/featuringmyself/ledgy/internal/adapters/database/memory"
	"github.com/featuringmyself/ledgy/internal/adapters/database/pgsql"
	portsrepo "github.com/featuringmyself/ledgy/internal/core/ports/repositories"
	"github.com/featuringmyself/ledgy/internal/platform/config"
	"github.com/featuringmyself/ledgy/pkg/database"
)

// ErrDatabaseRequired is returned when production runs without PGSQL_URL.
var ErrDatabaseRequired = errors.New("PGSQL_URL is required in production")

// NewRepositories opens Postgres and applies the migrations. Outside production
// an empty PGSQL_URL selects in-memory stores, which lose everything on exit.
func NewRepositories(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	if cfg.DatabaseURL == "" {
		if cfg.IsProduction {
			return portsrepo.RepositoryProvider{}, nil, ErrDatabaseRequired
		}
		logger.Warn("PGSQL_URL not set, using in-memory storage. Data is lost on exit.")
		return memory.NewRepositoryProvider(), func() {}, nil
	}

	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return portsrepo.RepositoryProvider{}, nil, err
	}
	logger.Info("Database connection pool established.")

	if err := database.RunMigrations(cfg.DatabaseURL, database.DefaultMigrationsPath, logger); err != nil {
		database.ClosePgxPool(pool)
		return portsrepo.RepositoryProvider{}, nil, err
	}
	return pgsql.NewRepositoryProvider(pool), func() { database.ClosePgxPool(pool) }, nil
}
