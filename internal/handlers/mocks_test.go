package handlers_test

import (
	"context"
	"time"

	"github.com/featuringmyself/ledgy/internal/core/domain"
	portssvc "github.com/featuringmyself/ledgy/internal/core/ports/services"
	"github.com/featuringmyself/ledgy/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock ExchangeRateService ---
type MockExchangeRateService struct {
	mock.Mock
}

func (m *MockExchangeRateService) ResolveRate(ctx context.Context, fromCode, toCode string, asOf *time.Time) (*domain.ResolvedRate, error) {
	args := m.Called(ctx, fromCode, toCode, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ResolvedRate), args.Error(1)
}

func (m *MockExchangeRateService) Convert(ctx context.Context, amount decimal.Decimal, fromCode, toCode string, asOf *time.Time) (*domain.Conversion, error) {
	args := m.Called(ctx, amount, fromCode, toCode, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Conversion), args.Error(1)
}

func (m *MockExchangeRateService) CaptureSnapshot(ctx context.Context, record domain.MoneyRecord, baseCode string, at time.Time) (domain.MoneyRecord, error) {
	args := m.Called(ctx, record, baseCode, at)
	return args.Get(0).(domain.MoneyRecord), args.Error(1)
}

func (m *MockExchangeRateService) ListExchangeRates(ctx context.Context, params dto.ListExchangeRatesParams) (*dto.ListExchangeRatesResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListExchangeRatesResponse), args.Error(1)
}

func (m *MockExchangeRateService) CreateExchangeRate(ctx context.Context, req dto.CreateExchangeRateRequest, creatorUserID string) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

var _ portssvc.ExchangeRateSvcFacade = (*MockExchangeRateService)(nil)

// --- Mock RateRefreshService ---
type MockRateRefreshService struct {
	mock.Mock
}

func (m *MockRateRefreshService) RefreshRates(ctx context.Context, baseCode string) (*domain.RefreshResult, error) {
	args := m.Called(ctx, baseCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RefreshResult), args.Error(1)
}

func (m *MockRateRefreshService) RefreshAll(ctx context.Context, baseCodes []string) (*domain.RefreshSummary, error) {
	args := m.Called(ctx, baseCodes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RefreshSummary), args.Error(1)
}

var _ portssvc.RateRefreshSvc = (*MockRateRefreshService)(nil)

// --- Mock CurrencyPreferenceService ---
type MockCurrencyPreferenceService struct {
	mock.Mock
}

func (m *MockCurrencyPreferenceService) GetPreferredCurrency(ctx context.Context, tenantID string) (string, error) {
	args := m.Called(ctx, tenantID)
	return args.String(0), args.Error(1)
}

func (m *MockCurrencyPreferenceService) ListSupportedCurrencies(ctx context.Context) []domain.Currency {
	return domain.SupportedCurrencies
}

func (m *MockCurrencyPreferenceService) SetPreferredCurrency(ctx context.Context, tenantID, code string) (*domain.TenantCurrencyPreference, error) {
	args := m.Called(ctx, tenantID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TenantCurrencyPreference), args.Error(1)
}

var _ portssvc.CurrencyPreferenceSvcFacade = (*MockCurrencyPreferenceService)(nil)

// --- Mock ReportingService ---
type MockReportingService struct {
	mock.Mock
}

func (m *MockReportingService) Summary(ctx context.Context, tenantID string, kind domain.RecordKind, targetCode string, mode portssvc.ReportMode, asOf *time.Time) (*domain.Aggregation, error) {
	args := m.Called(ctx, tenantID, kind, targetCode, mode, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Aggregation), args.Error(1)
}

var _ portssvc.ReportingService = (*MockReportingService)(nil)
