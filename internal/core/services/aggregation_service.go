package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/featuringmyself/ledgy/internal/apperrors"
	"github.com/featuringmyself/ledgy/internal/core/domain"
	portssvc "github.com/featuringmyself/ledgy/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// aggregationService totals money records across currencies.
type aggregationService struct {
	BaseService
	converter portssvc.ConverterSvc
	now       func() time.Time
}

// NewAggregationService creates a new aggregation service on top of converter.
func NewAggregationService(converter portssvc.ConverterSvc) portssvc.AggregationSvc {
	return &aggregationService{converter: converter, now: time.Now}
}

var _ portssvc.AggregationSvc = (*aggregationService)(nil)

func (s *aggregationService) prepare(targetCode string, asOf *time.Time) (*domain.Aggregation, error) {
	target, err := domain.NormalizeCurrencyCode(targetCode)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	date := domain.NormalizeDate(s.now())
	if asOf != nil && !asOf.IsZero() {
		date = domain.NormalizeDate(*asOf)
	}
	return domain.NewAggregation(target, date), nil
}

// Aggregate groups records by native currency and converts each subtotal once.
func (s *aggregationService) Aggregate(ctx context.Context, records []domain.MoneyRecord, targetCode string, asOf *time.Time) (*domain.Aggregation, error) {
	agg, err := s.prepare(targetCode, asOf)
	if err != nil {
		return nil, err
	}

	for _, r := range records {
		code, err := domain.NormalizeCurrencyCode(r.CurrencyCode)
		if err != nil {
			return nil, fmt.Errorf("%w: record %s: %v", apperrors.ErrValidation, r.RecordID, err)
		}
		agg.ByCurrency[code] = agg.ByCurrency[code].Add(r.Amount)
		agg.RecordCount++
	}

	if err := s.convertInto(ctx, agg, agg.ByCurrency); err != nil {
		return nil, err
	}
	return agg, nil
}

// AggregateSnapshots sums frozen base amounts per recorded base currency and
// converts only those base totals into the target. Records without a snapshot
// fall back to their native amount and are converted live.
func (s *aggregationService) AggregateSnapshots(ctx context.Context, records []domain.MoneyRecord, targetCode string, asOf *time.Time) (*domain.Aggregation, error) {
	agg, err := s.prepare(targetCode, asOf)
	if err != nil {
		return nil, err
	}

	groups := map[string]decimal.Decimal{}
	for _, r := range records {
		native, err := domain.NormalizeCurrencyCode(r.CurrencyCode)
		if err != nil {
			return nil, fmt.Errorf("%w: record %s: %v", apperrors.ErrValidation, r.RecordID, err)
		}
		agg.ByCurrency[native] = agg.ByCurrency[native].Add(r.Amount)
		agg.RecordCount++

		if !r.HasSnapshot() {
			groups[native] = groups[native].Add(r.Amount)
			continue
		}
		base, err := domain.NormalizeCurrencyCode(*r.BaseCurrencyCode)
		if err != nil {
			return nil, fmt.Errorf("%w: record %s: %v", apperrors.ErrValidation, r.RecordID, err)
		}
		groups[base] = groups[base].Add(*r.AmountInBaseCurrency)
	}

	if err := s.convertInto(ctx, agg, groups); err != nil {
		return nil, err
	}
	return agg, nil
}

// convertInto converts every subtotal into agg's target and adds it to agg.Total.
// Currencies are visited in sorted order so the sum is reproducible.
func (s *aggregationService) convertInto(ctx context.Context, agg *domain.Aggregation, subtotals map[string]decimal.Decimal) error {
	codes := make([]string, 0, len(subtotals))
	for code := range subtotals {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	asOf := agg.AsOf
	for _, code := range codes {
		subtotal := subtotals[code]
		if code == agg.TargetCurrencyCode {
			agg.Total = agg.Total.Add(subtotal)
			continue
		}

		conv, err := s.converter.Convert(ctx, subtotal, code, agg.TargetCurrencyCode, &asOf)
		if err != nil {
			s.LogError(ctx, err, "Failed to convert subtotal",
				slog.String("currency", code),
				slog.String("target_currency", agg.TargetCurrencyCode))
			return fmt.Errorf("failed to convert %s subtotal: %w", code, err)
		}
		agg.Total = agg.Total.Add(conv.ConvertedAmount)
		agg.Rates[code] = domain.ResolvedRate{
			FromCurrencyCode: conv.FromCurrencyCode,
			ToCurrencyCode:   conv.ToCurrencyCode,
			AsOf:             conv.AsOf,
			Rate:             conv.Rate,
			Tier:             conv.Tier,
		}
		if conv.Tier == domain.TierFallback {
			agg.Caveats = append(agg.Caveats, code)
		}
	}

	if len(agg.Caveats) > 0 {
		s.LogWarn(ctx, "Aggregate includes unconverted currencies",
			slog.String("target_currency", agg.TargetCurrencyCode),
			slog.Any("currencies", agg.Caveats))
	}
	return nil
}
