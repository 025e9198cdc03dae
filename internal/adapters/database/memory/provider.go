package memory

import portsrepo "github.com/featuringmyself/ledgy/internal/core/ports/repositories"

// NewRepositoryProvider wires fresh in-memory repositories.
func NewRepositoryProvider() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		ExchangeRateRepo: NewExchangeRateRepository(),
		PreferenceRepo:   NewTenantPreferenceRepository(),
		MoneyRecordRepo:  NewMoneyRecordRepository(),
	}
}
