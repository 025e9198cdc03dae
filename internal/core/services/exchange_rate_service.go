package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/featuringmyself/ledgy/internal/apperrors"
	"github.com/featuringmyself/ledgy/internal/core/domain"
	portsrepo "github.com/featuringmyself/ledgy/internal/core/ports/repositories"
	portssvc "github.com/featuringmyself/ledgy/internal/core/ports/services"
	"github.com/featuringmyself/ledgy/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

const maxPageSize = 200

// exchangeRateService resolves, applies and manages stored exchange rates.
type exchangeRateService struct {
	BaseService
	rateRepo portsrepo.ExchangeRateRepositoryFacade
	now      func() time.Time
}

// ExchangeRateServiceOption is a functional option for configuring the exchange rate service
type ExchangeRateServiceOption func(*exchangeRateService)

// WithExchangeRateClock overrides the clock used to decide what "today" is.
func WithExchangeRateClock(now func() time.Time) ExchangeRateServiceOption {
	return func(s *exchangeRateService) {
		s.now = now
	}
}

// NewExchangeRateService creates a new exchange rate service.
func NewExchangeRateService(rateRepo portsrepo.ExchangeRateRepositoryFacade, options ...ExchangeRateServiceOption) portssvc.ExchangeRateSvcFacade {
	svc := &exchangeRateService{
		rateRepo: rateRepo,
		now:      time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ExchangeRateSvcFacade = (*exchangeRateService)(nil)

func (s *exchangeRateService) asOfDate(asOf *time.Time) time.Time {
	if asOf == nil || asOf.IsZero() {
		return domain.NormalizeDate(s.now())
	}
	return domain.NormalizeDate(*asOf)
}

func normalizePair(fromCode, toCode string) (string, string, error) {
	from, err := domain.NormalizeCurrencyCode(fromCode)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	to, err := domain.NormalizeCurrencyCode(toCode)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	return from, to, nil
}

// ResolveRate walks the lookup tiers in order and returns the first hit:
// identity, exact day, latest on or before the day, reciprocal of the latest
// reverse row, and finally the neutral rate 1.
func (s *exchangeRateService) ResolveRate(ctx context.Context, fromCode, toCode string, asOf *time.Time) (*domain.ResolvedRate, error) {
	from, to, err := normalizePair(fromCode, toCode)
	if err != nil {
		return nil, err
	}
	date := s.asOfDate(asOf)

	resolved := &domain.ResolvedRate{
		FromCurrencyCode: from,
		ToCurrencyCode:   to,
		AsOf:             date,
	}

	if from == to {
		resolved.Rate = one
		resolved.Tier = domain.TierIdentity
		return resolved, nil
	}

	rate, err := s.rateRepo.FindExchangeRateOnDate(ctx, from, to, date)
	if found, err := s.lookupHit(ctx, rate, err, "exact", from, to, date); err != nil {
		return nil, err
	} else if found {
		return withRow(resolved, rate, rate.Rate, domain.TierExact), nil
	}

	rate, err = s.rateRepo.FindLatestExchangeRate(ctx, from, to, date)
	if found, err := s.lookupHit(ctx, rate, err, "latest", from, to, date); err != nil {
		return nil, err
	} else if found {
		return withRow(resolved, rate, rate.Rate, domain.TierLatest), nil
	}

	rate, err = s.rateRepo.FindLatestExchangeRate(ctx, to, from, date)
	if found, err := s.lookupHit(ctx, rate, err, "reciprocal", to, from, date); err != nil {
		return nil, err
	} else if found && rate.Rate.IsPositive() {
		return withRow(resolved, rate, one.Div(rate.Rate), domain.TierReciprocal), nil
	}

	s.LogWarn(ctx, "No exchange rate known, falling back to neutral rate",
		slog.String("from_currency", from),
		slog.String("to_currency", to),
		slog.String("as_of", date.Format(dto.DateLayout)))
	resolved.Rate = one
	resolved.Tier = domain.TierFallback
	return resolved, nil
}

// lookupHit absorbs "not found" and propagates storage faults.
func (s *exchangeRateService) lookupHit(ctx context.Context, rate *domain.ExchangeRate, err error, tier, from, to string, date time.Time) (bool, error) {
	if err == nil {
		return rate != nil, nil
	}
	if errors.Is(err, apperrors.ErrNotFound) {
		return false, nil
	}
	s.LogError(ctx, err, "Failed to look up exchange rate",
		slog.String("tier", tier),
		slog.String("from_currency", from),
		slog.String("to_currency", to),
		slog.String("as_of", date.Format(dto.DateLayout)))
	return false, fmt.Errorf("failed to resolve rate %s->%s: %w", from, to, err)
}

func withRow(resolved *domain.ResolvedRate, row *domain.ExchangeRate, rate decimal.Decimal, tier domain.RateTier) *domain.ResolvedRate {
	effective := row.DateEffective
	resolved.Rate = rate
	resolved.Tier = tier
	resolved.DateEffective = &effective
	return resolved
}

// Convert multiplies amount by the rate resolved for the pair. Nothing is cached between calls.
func (s *exchangeRateService) Convert(ctx context.Context, amount decimal.Decimal, fromCode, toCode string, asOf *time.Time) (*domain.Conversion, error) {
	resolved, err := s.ResolveRate(ctx, fromCode, toCode, asOf)
	if err != nil {
		return nil, err
	}
	return &domain.Conversion{
		Amount:           amount,
		FromCurrencyCode: resolved.FromCurrencyCode,
		ToCurrencyCode:   resolved.ToCurrencyCode,
		ConvertedAmount:  amount.Mul(resolved.Rate),
		Rate:             resolved.Rate,
		Tier:             resolved.Tier,
		AsOf:             resolved.AsOf,
	}, nil
}

// CaptureSnapshot returns record with its base-currency conversion frozen as of at.
func (s *exchangeRateService) CaptureSnapshot(ctx context.Context, record domain.MoneyRecord, baseCode string, at time.Time) (domain.MoneyRecord, error) {
	if record.Amount.IsNegative() {
		return record, fmt.Errorf("%w: amount must not be negative", apperrors.ErrValidation)
	}
	conv, err := s.Convert(ctx, record.Amount, record.CurrencyCode, baseCode, &at)
	if err != nil {
		return record, err
	}
	if conv.Tier == domain.TierFallback {
		s.LogWarn(ctx, "Snapshot captured with neutral rate",
			slog.String("record_id", record.RecordID),
			slog.String("currency", conv.FromCurrencyCode),
			slog.String("base_currency", conv.ToCurrencyCode))
	}

	rate := conv.Rate
	base := conv.ToCurrencyCode
	converted := conv.ConvertedAmount
	record.CurrencyCode = conv.FromCurrencyCode
	record.ExchangeRate = &rate
	record.BaseCurrencyCode = &base
	record.AmountInBaseCurrency = &converted
	return record, nil
}

// CreateExchangeRate upserts a manually entered rate for its day.
func (s *exchangeRateService) CreateExchangeRate(ctx context.Context, req dto.CreateExchangeRateRequest, creatorUserID string) (*domain.ExchangeRate, error) {
	from, to, err := normalizePair(req.FromCurrencyCode, req.ToCurrencyCode)
	if err != nil {
		return nil, err
	}
	if !req.Rate.IsPositive() {
		return nil, fmt.Errorf("%w: exchange rate must be positive", apperrors.ErrValidation)
	}
	if from == to {
		return nil, fmt.Errorf("%w: from and to currency codes cannot be the same", apperrors.ErrValidation)
	}

	now := s.now()
	rate := domain.ExchangeRate{
		ExchangeRateID:   uuid.NewString(),
		FromCurrencyCode: from,
		ToCurrencyCode:   to,
		Rate:             req.Rate,
		DateEffective:    domain.NormalizeDate(req.DateEffective),
		Source:           domain.SourceManual,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.rateRepo.UpsertExchangeRate(ctx, rate); err != nil {
		s.LogError(ctx, err, "Failed to store exchange rate",
			slog.String("from_currency", from),
			slog.String("to_currency", to))
		return nil, fmt.Errorf("failed to create exchange rate in service: %w", err)
	}

	s.LogInfo(ctx, "Exchange rate stored",
		slog.String("from_currency", from),
		slog.String("to_currency", to),
		slog.String("rate", rate.Rate.String()),
		slog.String("date_effective", rate.DateEffective.Format(dto.DateLayout)))
	return &rate, nil
}

// ListExchangeRates returns one page of stored rates, newest first per pair.
func (s *exchangeRateService) ListExchangeRates(ctx context.Context, params dto.ListExchangeRatesParams) (*dto.ListExchangeRatesResponse, error) {
	filter := domain.ExchangeRateFilter{Page: params.Page, PageSize: params.PageSize}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 50
	}
	if filter.PageSize > maxPageSize {
		filter.PageSize = maxPageSize
	}

	if strings.TrimSpace(params.From) != "" {
		code, err := domain.NormalizeCurrencyCode(params.From)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		filter.FromCurrencyCode = &code
	}
	if strings.TrimSpace(params.To) != "" {
		code, err := domain.NormalizeCurrencyCode(params.To)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		filter.ToCurrencyCode = &code
	}
	if params.Date != "" {
		d, err := time.Parse(dto.DateLayout, params.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", apperrors.ErrValidation)
		}
		filter.OnOrBefore = &d
	}

	rates, total, err := s.rateRepo.ListExchangeRates(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list exchange rates")
		return nil, fmt.Errorf("failed to list exchange rates in service: %w", err)
	}
	return dto.ToListExchangeRatesResponse(rates, total, filter.Page, filter.PageSize), nil
}
