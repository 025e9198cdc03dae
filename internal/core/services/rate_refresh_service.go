package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/featuringmyself/ledgy/internal/apperrors"
	"github.com/featuringmyself/ledgy/internal/core/domain"
	"github.com/featuringmyself/ledgy/internal/core/ports/external"
	portsrepo "github.com/featuringmyself/ledgy/internal/core/ports/repositories"
	portssvc "github.com/featuringmyself/ledgy/internal/core/ports/services"
	"github.com/google/uuid"
)

// RefreshLockKey is the lock held for the duration of a RefreshAll run.
const RefreshLockKey = "ledgy:rates:refresh"

// rateRefreshService copies provider rates into the rate store.
type rateRefreshService struct {
	BaseService
	provider  external.RateProvider
	rateRepo  portsrepo.ExchangeRateWriter
	publisher external.RateEventPublisher
	locker    external.RunLocker
	delay     time.Duration
	lockTTL   time.Duration
	now       func() time.Time
}

// RateRefreshServiceOption is a functional option for configuring the rate refresh service
type RateRefreshServiceOption func(*rateRefreshService)

// WithRefreshDelay sets the pause between provider calls in RefreshAll.
func WithRefreshDelay(d time.Duration) RateRefreshServiceOption {
	return func(s *rateRefreshService) {
		s.delay = d
	}
}

// WithRefreshPublisher announces every successful refresh.
func WithRefreshPublisher(p external.RateEventPublisher) RateRefreshServiceOption {
	return func(s *rateRefreshService) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithRefreshLocker guards RefreshAll so only one process runs it at a time.
func WithRefreshLocker(l external.RunLocker, ttl time.Duration) RateRefreshServiceOption {
	return func(s *rateRefreshService) {
		if l != nil {
			s.locker = l
		}
		if ttl > 0 {
			s.lockTTL = ttl
		}
	}
}

// WithRefreshClock overrides the clock that decides the stored date.
func WithRefreshClock(now func() time.Time) RateRefreshServiceOption {
	return func(s *rateRefreshService) {
		s.now = now
	}
}

// NewRateRefreshService creates a new rate refresh service.
func NewRateRefreshService(provider external.RateProvider, rateRepo portsrepo.ExchangeRateWriter, options ...RateRefreshServiceOption) portssvc.RateRefreshSvc {
	svc := &rateRefreshService{
		provider:  provider,
		rateRepo:  rateRepo,
		publisher: noopPublisher{},
		locker:    noopLocker{},
		delay:     time.Second,
		lockTTL:   10 * time.Minute,
		now:       time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.RateRefreshSvc = (*rateRefreshService)(nil)

// RefreshRates fetches the latest rates for baseCode and upserts them for today.
// Nothing is written unless the whole payload is usable.
func (s *rateRefreshService) RefreshRates(ctx context.Context, baseCode string) (*domain.RefreshResult, error) {
	base, err := domain.NormalizeCurrencyCode(baseCode)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	now := s.now()
	today := domain.NormalizeDate(now)
	result := &domain.RefreshResult{BaseCurrencyCode: base, DateEffective: today}

	latest, err := s.provider.LatestRates(ctx, base)
	if err != nil {
		s.LogWarn(ctx, "Rate provider unavailable",
			slog.String("base_currency", base),
			slog.String("error", err.Error()))
		result.Error = err.Error()
		return result, nil
	}
	result.Source = latest.Source

	targets := make([]string, 0, len(latest.Rates))
	for code := range latest.Rates {
		targets = append(targets, code)
	}
	sort.Strings(targets)

	rows := make([]domain.ExchangeRate, 0, len(targets))
	for _, target := range targets {
		rate := latest.Rates[target]
		code, err := domain.NormalizeCurrencyCode(target)
		if err != nil || !rate.IsPositive() {
			msg := fmt.Sprintf("malformed rate for %q", target)
			s.LogWarn(ctx, "Rate provider returned malformed rates",
				slog.String("base_currency", base),
				slog.String("target", target))
			result.Error = fmt.Errorf("%w: %s", apperrors.ErrProviderUnavailable, msg).Error()
			return result, nil
		}
		if code == base {
			continue
		}
		rows = append(rows, domain.ExchangeRate{
			ExchangeRateID:   uuid.NewString(),
			FromCurrencyCode: base,
			ToCurrencyCode:   code,
			Rate:             rate,
			DateEffective:    today,
			Source:           latest.Source,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     domain.SystemUserID,
				LastUpdatedAt: now,
				LastUpdatedBy: domain.SystemUserID,
			},
		})
	}

	if len(rows) == 0 {
		result.Error = fmt.Errorf("%w: no rates in response", apperrors.ErrProviderUnavailable).Error()
		s.LogWarn(ctx, "Rate provider returned no rates", slog.String("base_currency", base))
		return result, nil
	}

	if err := s.rateRepo.UpsertExchangeRates(ctx, rows); err != nil {
		s.LogError(ctx, err, "Failed to store refreshed rates", slog.String("base_currency", base))
		return nil, fmt.Errorf("failed to store rates for %s: %w", base, err)
	}

	result.Success = true
	result.RatesStored = len(rows)
	s.LogInfo(ctx, "Exchange rates refreshed",
		slog.String("base_currency", base),
		slog.String("source", latest.Source),
		slog.Int("rates_stored", len(rows)))

	if err := s.publisher.PublishRatesRefreshed(ctx, *result); err != nil {
		s.LogWarn(ctx, "Failed to publish rates refreshed event",
			slog.String("base_currency", base),
			slog.String("error", err.Error()))
	}
	return result, nil
}

// RefreshAll runs RefreshRates for each base currency in order, waiting between
// provider calls. Failures are recorded per currency and the run continues.
func (s *rateRefreshService) RefreshAll(ctx context.Context, baseCodes []string) (*domain.RefreshSummary, error) {
	summary := &domain.RefreshSummary{Results: make([]domain.RefreshResult, 0, len(baseCodes))}

	// Lock backend errors do not block the run; it goes ahead unguarded.
	locked, err := s.locker.TryLock(ctx, RefreshLockKey, s.lockTTL)
	switch {
	case err != nil:
		s.LogWarn(ctx, "Refresh lock unavailable, running without it", slog.String("error", err.Error()))
	case !locked:
		s.LogInfo(ctx, "Refresh already running elsewhere, skipping")
		summary.Skipped = true
		return summary, nil
	default:
		defer func() {
			// The run context may already be cancelled here.
			if err := s.locker.Unlock(context.WithoutCancel(ctx), RefreshLockKey); err != nil {
				s.LogWarn(ctx, "Failed to release refresh lock", slog.String("error", err.Error()))
			}
		}()
	}

	for i, code := range baseCodes {
		if i > 0 && s.delay > 0 {
			select {
			case <-ctx.Done():
				return summary, ctx.Err()
			case <-time.After(s.delay):
			}
		}

		result, err := s.RefreshRates(ctx, code)
		if err != nil {
			msg := err.Error()
			if errors.Is(err, apperrors.ErrValidation) {
				s.LogWarn(ctx, "Skipping invalid base currency", slog.String("base_currency", code))
			}
			summary.Results = append(summary.Results, domain.RefreshResult{
				BaseCurrencyCode: code,
				DateEffective:    domain.NormalizeDate(s.now()),
				Error:            msg,
			})
			continue
		}
		if result.Success {
			summary.SuccessCount++
		}
		summary.Results = append(summary.Results, *result)
	}

	s.LogInfo(ctx, "Exchange rate refresh run finished",
		slog.Int("currencies", len(baseCodes)),
		slog.Int("succeeded", summary.SuccessCount))
	return summary, nil
}

type noopPublisher struct{}

func (noopPublisher) PublishRatesRefreshed(context.Context, domain.RefreshResult) error { return nil }

type noopLocker struct{}

func (noopLocker) TryLock(context.Context, string, time.Duration) (bool, error) { return true, nil }
func (noopLocker) Unlock(context.Context, string) error                         { return nil }
