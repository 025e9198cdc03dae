// Command ledgy_rates runs one exchange rate refresh over the configured base
// currencies and exits. Meant for schedulers that prefer a job to an HTTP call.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/featuringmyself/ledgy/internal/adapters/database/pgsql"
	"github.com/featuringmyself/ledgy/internal/core/services"
	"github.com/featuringmyself/ledgy/internal/platform/config"
	"github.com/featuringmyself/ledgy/internal/platform/infra"
	"github.com/featuringmyself/ledgy/pkg/database"
)

func main() {
	os.Exit(run())
}

func run() int {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, true)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		return 1
	}
	defer database.ClosePgxPool(dbPool)

	ext, closeExternals, err := infra.NewExternals(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize integrations", slog.String("error", err.Error()))
		return 1
	}
	defer closeExternals()

	container := services.NewServiceContainer(cfg, pgsql.NewRepositoryProvider(dbPool), ext)

	logger.Info("Starting exchange rate update", slog.Any("base_currencies", cfg.RatesBaseCurrencies))
	summary, err := container.RateRefresh.RefreshAll(ctx, cfg.RatesBaseCurrencies)
	if err != nil {
		logger.Error("Exchange rate update failed", slog.String("error", err.Error()))
		return 1
	}
	if summary.Skipped {
		logger.Info("Another exchange rate update is already running, nothing to do.")
		return 0
	}

	for _, r := range summary.Results {
		if !r.Success {
			logger.Warn("Base currency not refreshed", slog.String("base_currency", r.BaseCurrencyCode), slog.String("error", r.Error))
		}
	}
	logger.Info("Exchange rate update completed",
		slog.Int("successful", summary.SuccessCount),
		slog.Int("total", len(summary.Results)),
	)
	if summary.SuccessCount == 0 && len(summary.Results) > 0 {
		return 1
	}
	return 0
}
