// Package memory holds in-process implementations of the repository ports,
// used by tests and by local runs without Postgres.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/featuringmyself/ledgy/internal/apperrors"
	"github.com/featuringmyself/ledgy/internal/core/domain"
	portsrepo "github.com/featuringmyself/ledgy/internal/core/ports/repositories"
)

type rateKey struct {
	from, to string
	day      time.Time
}

// ExchangeRateRepository keeps one row per (from, to, day).
type ExchangeRateRepository struct {
	mu   sync.RWMutex
	rows map[rateKey]domain.ExchangeRate
}

// NewExchangeRateRepository creates an empty store.
func NewExchangeRateRepository() *ExchangeRateRepository {
	return &ExchangeRateRepository{
		rows: map[rateKey]domain.ExchangeRate{},
	}
}

var _ portsrepo.ExchangeRateRepositoryFacade = (*ExchangeRateRepository)(nil)

func keyOf(from, to string, day time.Time) rateKey {
	return rateKey{from: from, to: to, day: domain.NormalizeDate(day)}
}

// UpsertExchangeRate inserts rate or replaces rate and source of the existing row.
func (r *ExchangeRateRepository) UpsertExchangeRate(_ context.Context, rate domain.ExchangeRate) error {
	if !rate.Rate.IsPositive() {
		return apperrors.NewValidationError("exchange rate must be positive")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upsertLocked(rate)
	return nil
}

// UpsertExchangeRates upserts all rows or none.
func (r *ExchangeRateRepository) UpsertExchangeRates(_ context.Context, rates []domain.ExchangeRate) error {
	for _, rate := range rates {
		if !rate.Rate.IsPositive() {
			return apperrors.NewValidationError("exchange rate must be positive")
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rate := range rates {
		r.upsertLocked(rate)
	}
	return nil
}

func (r *ExchangeRateRepository) upsertLocked(rate domain.ExchangeRate) {
	k := keyOf(rate.FromCurrencyCode, rate.ToCurrencyCode, rate.DateEffective)
	rate.DateEffective = k.day
	if existing, ok := r.rows[k]; ok {
		existing.Rate = rate.Rate
		existing.Source = rate.Source
		existing.LastUpdatedAt = rate.LastUpdatedAt
		existing.LastUpdatedBy = rate.LastUpdatedBy
		r.rows[k] = existing
		return
	}
	r.rows[k] = rate
}

// FindExchangeRateOnDate returns the row stored for exactly that day.
func (r *ExchangeRateRepository) FindExchangeRateOnDate(_ context.Context, from, to string, date time.Time) (*domain.ExchangeRate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	row, ok := r.rows[keyOf(from, to, date)]
	if !ok {
		return nil, apperrors.NewNotFoundError("exchange rate not found")
	}
	return &row, nil
}

// FindLatestExchangeRate returns the newest row dated on or before onOrBefore.
func (r *ExchangeRateRepository) FindLatestExchangeRate(_ context.Context, from, to string, onOrBefore time.Time) (*domain.ExchangeRate, error) {
	limit := domain.NormalizeDate(onOrBefore)
	r.mu.RLock()
	defer r.mu.RUnlock()

	var best *domain.ExchangeRate
	for k, row := range r.rows {
		if k.from != from || k.to != to || k.day.After(limit) {
			continue
		}
		if best == nil || k.day.After(best.DateEffective) {
			row := row
			best = &row
		}
	}
	if best == nil {
		return nil, apperrors.NewNotFoundError("exchange rate not found")
	}
	return best, nil
}

// ListExchangeRates pages rows ordered by pair, then newest day first.
func (r *ExchangeRateRepository) ListExchangeRates(_ context.Context, filter domain.ExchangeRateFilter) ([]domain.ExchangeRate, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var limit time.Time
	if filter.OnOrBefore != nil {
		limit = domain.NormalizeDate(*filter.OnOrBefore)
	}

	matched := make([]domain.ExchangeRate, 0)
	for k, row := range r.rows {
		if filter.FromCurrencyCode != nil && k.from != *filter.FromCurrencyCode {
			continue
		}
		if filter.ToCurrencyCode != nil && k.to != *filter.ToCurrencyCode {
			continue
		}
		if filter.OnOrBefore != nil && k.day.After(limit) {
			continue
		}
		matched = append(matched, row)
	}
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if a.FromCurrencyCode != b.FromCurrencyCode {
			return a.FromCurrencyCode < b.FromCurrencyCode
		}
		if a.ToCurrencyCode != b.ToCurrencyCode {
			return a.ToCurrencyCode < b.ToCurrencyCode
		}
		return a.DateEffective.After(b.DateEffective)
	})

	total := len(matched)
	if filter.PageSize <= 0 {
		return matched, total, nil
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	start := (page - 1) * filter.PageSize
	if start >= total {
		return []domain.ExchangeRate{}, total, nil
	}
	end := start + filter.PageSize
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

// Count returns the number of stored rows.
func (r *ExchangeRateRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rows)
}
