package services_test

import (
	"context"
	"time"

	"github.com/featuringmyself/ledgy/internal/core/domain"
	"github.com/featuringmyself/ledgy/internal/core/ports/external"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock ExchangeRateRepository ---
type MockExchangeRateRepository struct {
	mock.Mock
}

func (m *MockExchangeRateRepository) FindExchangeRateOnDate(ctx context.Context, from, to string, date time.Time) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, from, to, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateRepository) FindLatestExchangeRate(ctx context.Context, from, to string, onOrBefore time.Time) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, from, to, onOrBefore)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateRepository) ListExchangeRates(ctx context.Context, filter domain.ExchangeRateFilter) ([]domain.ExchangeRate, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.ExchangeRate), args.Int(1), args.Error(2)
}

func (m *MockExchangeRateRepository) UpsertExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	args := m.Called(ctx, rate)
	return args.Error(0)
}

func (m *MockExchangeRateRepository) UpsertExchangeRates(ctx context.Context, rates []domain.ExchangeRate) error {
	args := m.Called(ctx, rates)
	return args.Error(0)
}

// --- Mock RateProvider ---
type MockRateProvider struct {
	mock.Mock
}

func (m *MockRateProvider) LatestRates(ctx context.Context, base string) (*external.LatestRates, error) {
	args := m.Called(ctx, base)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*external.LatestRates), args.Error(1)
}

// --- Mock RateEventPublisher ---
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishRatesRefreshed(ctx context.Context, result domain.RefreshResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

// --- Mock RunLocker ---
type MockLocker struct {
	mock.Mock
}

func (m *MockLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockLocker) Unlock(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// --- Mock ConverterSvc ---
type MockConverter struct {
	mock.Mock
}

func (m *MockConverter) Convert(ctx context.Context, amount decimal.Decimal, from, to string, asOf *time.Time) (*domain.Conversion, error) {
	args := m.Called(ctx, amount, from, to, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Conversion), args.Error(1)
}

func (m *MockConverter) CaptureSnapshot(ctx context.Context, record domain.MoneyRecord, base string, at time.Time) (domain.MoneyRecord, error) {
	args := m.Called(ctx, record, base, at)
	return args.Get(0).(domain.MoneyRecord), args.Error(1)
}

// --- Mock TenantPreferenceRepository ---
type MockPreferenceRepository struct {
	mock.Mock
}

func (m *MockPreferenceRepository) FindCurrencyPreference(ctx context.Context, tenantID string) (*domain.TenantCurrencyPreference, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TenantCurrencyPreference), args.Error(1)
}

func (m *MockPreferenceRepository) EnsureCurrencyPreference(ctx context.Context, tenantID, defaultCode string) (*domain.TenantCurrencyPreference, error) {
	args := m.Called(ctx, tenantID, defaultCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TenantCurrencyPreference), args.Error(1)
}

func (m *MockPreferenceRepository) UpsertCurrencyPreference(ctx context.Context, tenantID, code string) (*domain.TenantCurrencyPreference, error) {
	args := m.Called(ctx, tenantID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TenantCurrencyPreference), args.Error(1)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
