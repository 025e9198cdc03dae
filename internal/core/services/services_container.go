package services

import (
	"github.com/featuringmyself/ledgy/internal/core/ports/external"
	portsrepo "github.com/featuringmyself/ledgy/internal/core/ports/repositories"
	portssvc "github.com/featuringmyself/ledgy/internal/core/ports/services"
	"github.com/featuringmyself/ledgy/internal/platform/config"
)

// Externals are the outbound collaborators of the services.
// Publisher and Locker may be nil.
type Externals struct {
	RateProvider external.RateProvider
	Publisher    external.RateEventPublisher
	Locker       external.RunLocker
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, ext Externals) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.ExchangeRate = NewExchangeRateService(repos.ExchangeRateRepo)
	container.RateRefresh = NewRateRefreshService(
		ext.RateProvider,
		repos.ExchangeRateRepo,
		WithRefreshDelay(cfg.RatesRefreshDelay),
		WithRefreshPublisher(ext.Publisher),
		WithRefreshLocker(ext.Locker, cfg.RatesLockTTL),
	)
	container.Aggregation = NewAggregationService(container.ExchangeRate)
	container.CurrencyPreference = NewCurrencyPreferenceService(repos.PreferenceRepo, cfg.DefaultCurrency)
	container.Reporting = NewReportingService(
		repos.MoneyRecordRepo,
		container.Aggregation,
		WithReportingPreferences(container.CurrencyPreference),
	)

	return container
}
