// Package infra builds storage and the outbound integrations from configuration.
package infra

import (
	"log/slog"

	"github.com/featuringmyself/ledgy/internal/adapters/events"
	"github.com/featuringmyself/ledgy/internal/adapters/locking"
	"github.com/featuringmyself/ledgy/internal/adapters/ratesapi"
	"github.com/featuringmyself/ledgy/internal/core/services"
	"github.com/featuringmyself/ledgy/internal/platform/config"
)

// NewExternals wires the rate provider plus Kafka and Redis when configured.
// Unconfigured integrations fall back to no-ops. The returned cleanup closes
// whatever was opened.
func NewExternals(cfg *config.Config, logger *slog.Logger) (services.Externals, func(), error) {
	ext := services.Externals{
		RateProvider: ratesapi.New(
			ratesapi.WithAPIKey(cfg.ExchangeRateAPIKey),
			ratesapi.WithBaseURLs(cfg.ExchangeRateAPIV4URL, cfg.ExchangeRateAPIV6URL),
			ratesapi.WithTimeout(cfg.RatesHTTPTimeout),
		),
		Publisher: events.Noop{},
		Locker:    locking.Noop{},
	}
	var closers []func()

	if len(cfg.KafkaBrokers) > 0 {
		publisher := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaRatesTopic)
		ext.Publisher = publisher
		closers = append(closers, func() {
			if err := publisher.Close(); err != nil {
				logger.Error("Error closing Kafka publisher", slog.String("error", err.Error()))
			}
		})
	} else {
		logger.Info("KAFKA_BROKERS not set, rate refresh events are not published.")
	}

	if cfg.RedisURL != "" {
		locker, client, err := locking.NewRedisLocker(cfg.RedisURL)
		if err != nil {
			for _, c := range closers {
				c()
			}
			return services.Externals{}, nil, err
		}
		ext.Locker = locker
		closers = append(closers, func() {
			if err := client.Close(); err != nil {
				logger.Error("Error closing Redis client", slog.String("error", err.Error()))
			}
		})
	} else {
		logger.Info("REDIS_URL not set, refresh runs are not locked across instances.")
	}

	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	return ext, cleanup, nil
}
