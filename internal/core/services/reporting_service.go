package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/featuringmyself/ledgy/internal/apperrors"
	"github.com/featuringmyself/ledgy/internal/core/domain"
	portsrepo "github.com/featuringmyself/ledgy/internal/core/ports/repositories"
	portssvc "github.com/featuringmyself/ledgy/internal/core/ports/services"
)

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	recordRepo  portsrepo.MoneyRecordReader
	aggregator  portssvc.AggregationSvc
	preferences portssvc.CurrencyPreferenceReaderSvc
	now         func() time.Time
}

// ReportingServiceOption is a functional option for configuring the reporting service
type ReportingServiceOption func(*reportingService)

// WithReportingPreferences sets where the default report currency comes from.
func WithReportingPreferences(p portssvc.CurrencyPreferenceReaderSvc) ReportingServiceOption {
	return func(s *reportingService) {
		s.preferences = p
	}
}

// WithReportingClock overrides the clock that decides the default report date.
func WithReportingClock(now func() time.Time) ReportingServiceOption {
	return func(s *reportingService) {
		s.now = now
	}
}

// NewReportingService creates a new reporting service with the provided options
func NewReportingService(repo portsrepo.MoneyRecordReader, aggregator portssvc.AggregationSvc, options ...ReportingServiceOption) portssvc.ReportingService {
	svc := &reportingService{
		recordRepo: repo,
		aggregator: aggregator,
		now:        time.Now,
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

// Summary loads the tenant's records of kind up to asOf and aggregates them into targetCode.
func (s *reportingService) Summary(ctx context.Context, tenantID string, kind domain.RecordKind, targetCode string, mode portssvc.ReportMode, asOf *time.Time) (*domain.Aggregation, error) {
	if _, ok := domain.ParseRecordKind(string(kind)); !ok {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown record kind %q", kind))
	}

	date := domain.NormalizeDate(s.now())
	if asOf != nil && !asOf.IsZero() {
		date = domain.NormalizeDate(*asOf)
	}

	if targetCode == "" {
		if s.preferences == nil {
			targetCode = domain.DefaultCurrencyCode
		} else {
			preferred, err := s.preferences.GetPreferredCurrency(ctx, tenantID)
			if err != nil {
				return nil, err
			}
			targetCode = preferred
		}
	}

	// Records are read up to the end of the report day.
	records, err := s.recordRepo.ListMoneyRecords(ctx, tenantID, kind, date.Add(24*time.Hour-time.Nanosecond))
	if err != nil {
		s.LogError(ctx, err, "Failed to load money records",
			slog.String("tenant_id", tenantID),
			slog.String("kind", string(kind)))
		return nil, fmt.Errorf("failed to load %s: %w", kind, err)
	}

	var agg *domain.Aggregation
	switch mode {
	case portssvc.ReportModeSnapshot:
		agg, err = s.aggregator.AggregateSnapshots(ctx, records, targetCode, &date)
	case portssvc.ReportModeLive, "":
		agg, err = s.aggregator.Aggregate(ctx, records, targetCode, &date)
	default:
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown report mode %q", mode))
	}
	if err != nil {
		return nil, err
	}

	s.LogDebug(ctx, "Summary computed",
		slog.String("kind", string(kind)),
		slog.String("mode", string(mode)),
		slog.Int("records", agg.RecordCount),
		slog.String("total", agg.Total.String()))
	return agg, nil
}
