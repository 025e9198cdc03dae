package services

import (
	"context"
	"time"

	"github.com/featuringmyself/ledgy/internal/core/domain"
	"github.com/featuringmyself/ledgy/internal/dto"
	"github.com/shopspring/decimal"
)

// RateResolverSvc answers "what is one unit of from worth in to".
type RateResolverSvc interface {
	// ResolveRate never fails for a missing rate: it falls back to 1 (TierFallback).
	// Only invalid codes and storage faults produce errors. A nil asOf means today.
	ResolveRate(ctx context.Context, fromCode, toCode string, asOf *time.Time) (*domain.ResolvedRate, error)
}

// ConverterSvc applies resolved rates to amounts.
type ConverterSvc interface {
	Convert(ctx context.Context, amount decimal.Decimal, fromCode, toCode string, asOf *time.Time) (*domain.Conversion, error)

	// CaptureSnapshot freezes the conversion of record into baseCode as of at.
	CaptureSnapshot(ctx context.Context, record domain.MoneyRecord, baseCode string, at time.Time) (domain.MoneyRecord, error)
}

// ExchangeRateReaderSvc defines read operations for stored exchange rates
type ExchangeRateReaderSvc interface {
	ListExchangeRates(ctx context.Context, params dto.ListExchangeRatesParams) (*dto.ListExchangeRatesResponse, error)
}

// ExchangeRateWriterSvc defines write operations for stored exchange rates
type ExchangeRateWriterSvc interface {
	// CreateExchangeRate upserts a manually entered rate.
	CreateExchangeRate(ctx context.Context, req dto.CreateExchangeRateRequest, creatorUserID string) (*domain.ExchangeRate, error)
}

// ExchangeRateSvcFacade combines all exchange rate-related service interfaces
type ExchangeRateSvcFacade interface {
	RateResolverSvc
	ConverterSvc
	ExchangeRateReaderSvc
	ExchangeRateWriterSvc
}

// RateRefreshSvc pulls provider rates into the rate store.
type RateRefreshSvc interface {
	// RefreshRates stores today's provider rates for one base currency.
	// Provider failures give Success=false with a nil error and no writes;
	// storage failures are returned.
	RefreshRates(ctx context.Context, baseCode string) (*domain.RefreshResult, error)

	// RefreshAll refreshes each base currency in turn, pausing between provider
	// calls. A failing currency does not stop the run.
	RefreshAll(ctx context.Context, baseCodes []string) (*domain.RefreshSummary, error)
}
