package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/featuringmyself/ledgy/internal/adapters/database/memory"
	"github.com/featuringmyself/ledgy/internal/apperrors"
	"github.com/featuringmyself/ledgy/internal/core/domain"
	portssvc "github.com/featuringmyself/ledgy/internal/core/ports/services"
	"github.com/featuringmyself/ledgy/internal/core/services"
	"github.com/featuringmyself/ledgy/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite ---
type ExchangeRateServiceTestSuite struct {
	suite.Suite
	store   *memory.ExchangeRateRepository
	service portssvc.ExchangeRateSvcFacade
	today   time.Time
}

func (suite *ExchangeRateServiceTestSuite) SetupTest() {
	suite.today = day(2024, 6, 15)
	suite.store = memory.NewExchangeRateRepository()
	suite.service = services.NewExchangeRateService(suite.store,
		services.WithExchangeRateClock(fixedClock(suite.today.Add(13*time.Hour))))
}

func (suite *ExchangeRateServiceTestSuite) seed(from, to string, d time.Time, r string) {
	suite.Require().NoError(suite.store.UpsertExchangeRate(context.Background(), domain.ExchangeRate{
		FromCurrencyCode: from,
		ToCurrencyCode:   to,
		Rate:             dec(r),
		DateEffective:    d,
		Source:           domain.SourceManual,
	}))
}

func (suite *ExchangeRateServiceTestSuite) resolve(from, to string, d time.Time) *domain.ResolvedRate {
	res, err := suite.service.ResolveRate(context.Background(), from, to, &d)
	suite.Require().NoError(err)
	suite.Require().NotNil(res)
	return res
}

// --- Test Cases ---

func (suite *ExchangeRateServiceTestSuite) TestResolveRate_Identity() {
	for _, code := range []string{"USD", "INR", "JPY", "XYZ"} {
		res := suite.resolve(code, code, day(2020, 1, 1))
		suite.True(res.Rate.Equal(decimal.NewFromInt(1)), code)
		suite.Equal(domain.TierIdentity, res.Tier)
		suite.Nil(res.DateEffective)
	}
}

func (suite *ExchangeRateServiceTestSuite) TestResolveRate_ExactAndReciprocal() {
	suite.seed("USD", "INR", day(2024, 1, 1), "83.5")

	res := suite.resolve("USD", "INR", day(2024, 1, 1))
	suite.True(res.Rate.Equal(dec("83.5")))
	suite.Equal(domain.TierExact, res.Tier)
	suite.Require().NotNil(res.DateEffective)
	suite.Equal(day(2024, 1, 1), *res.DateEffective)

	res = suite.resolve("INR", "USD", day(2024, 1, 1))
	suite.Equal(domain.TierReciprocal, res.Tier)
	suite.InDelta(0.011976, res.Rate.InexactFloat64(), 1e-6)
	suite.True(res.Rate.Equal(decimal.NewFromInt(1).Div(dec("83.5"))))
}

func (suite *ExchangeRateServiceTestSuite) TestResolveRate_LowercaseCodes() {
	suite.seed("USD", "INR", day(2024, 1, 1), "83.5")
	res := suite.resolve(" usd", "inr ", day(2024, 1, 1))
	suite.Equal("USD", res.FromCurrencyCode)
	suite.True(res.Rate.Equal(dec("83.5")))
}

func (suite *ExchangeRateServiceTestSuite) TestResolveRate_MostRecentOnOrBefore() {
	suite.seed("EUR", "USD", day(2024, 1, 1), "1.05")
	suite.seed("EUR", "USD", day(2024, 1, 31), "1.10")

	res := suite.resolve("EUR", "USD", day(2024, 1, 15))
	suite.Equal(domain.TierLatest, res.Tier)
	suite.True(res.Rate.Equal(dec("1.05")), "must use the earlier row, never the later one or an average")
	suite.Equal(day(2024, 1, 1), *res.DateEffective)

	res = suite.resolve("EUR", "USD", day(2024, 3, 1))
	suite.True(res.Rate.Equal(dec("1.10")))
}

func (suite *ExchangeRateServiceTestSuite) TestResolveRate_OlderDirectBeatsSameDayReverse() {
	suite.seed("GBP", "USD", day(2024, 1, 1), "1.25")
	suite.seed("USD", "GBP", day(2024, 2, 1), "0.5")

	res := suite.resolve("GBP", "USD", day(2024, 2, 1))
	suite.Equal(domain.TierLatest, res.Tier)
	suite.True(res.Rate.Equal(dec("1.25")))
}

func (suite *ExchangeRateServiceTestSuite) TestResolveRate_ReverseInFutureIsIgnored() {
	suite.seed("USD", "INR", day(2024, 5, 1), "83")

	res := suite.resolve("INR", "USD", day(2024, 4, 1))
	suite.Equal(domain.TierFallback, res.Tier)
	suite.True(res.Rate.Equal(decimal.NewFromInt(1)))
}

func (suite *ExchangeRateServiceTestSuite) TestResolveRate_FallbackWhenNothingStored() {
	res := suite.resolve("AUD", "CHF", day(2024, 1, 1))
	suite.Equal(domain.TierFallback, res.Tier)
	suite.True(res.IsFallback())
	suite.True(res.Rate.Equal(decimal.NewFromInt(1)))
}

func (suite *ExchangeRateServiceTestSuite) TestResolveRate_DefaultsToToday() {
	suite.seed("USD", "EUR", suite.today, "0.92")

	res, err := suite.service.ResolveRate(context.Background(), "USD", "EUR", nil)
	suite.Require().NoError(err)
	suite.Equal(suite.today, res.AsOf)
	suite.Equal(domain.TierExact, res.Tier)
}

func (suite *ExchangeRateServiceTestSuite) TestResolveRate_InvalidCode() {
	_, err := suite.service.ResolveRate(context.Background(), "US", "EUR", nil)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ExchangeRateServiceTestSuite) TestConvert_ConcreteScenario() {
	suite.seed("USD", "INR", day(2024, 1, 1), "83.5")
	d := day(2024, 1, 1)

	conv, err := suite.service.Convert(context.Background(), decimal.NewFromInt(100), "USD", "INR", &d)
	suite.Require().NoError(err)
	suite.True(conv.ConvertedAmount.Equal(decimal.NewFromInt(8350)))
	suite.True(conv.Rate.Equal(dec("83.5")))
	suite.Equal(domain.TierExact, conv.Tier)
}

func (suite *ExchangeRateServiceTestSuite) TestConvert_ReflectsLatestStoredRate() {
	d := day(2024, 1, 1)
	suite.seed("USD", "INR", d, "83")
	first, err := suite.service.Convert(context.Background(), decimal.NewFromInt(10), "USD", "INR", &d)
	suite.Require().NoError(err)

	suite.seed("USD", "INR", d, "84")
	second, err := suite.service.Convert(context.Background(), decimal.NewFromInt(10), "USD", "INR", &d)
	suite.Require().NoError(err)

	suite.True(first.ConvertedAmount.Equal(decimal.NewFromInt(830)))
	suite.True(second.ConvertedAmount.Equal(decimal.NewFromInt(840)))
}

func (suite *ExchangeRateServiceTestSuite) TestCaptureSnapshot() {
	suite.seed("USD", "INR", day(2024, 1, 1), "83.5")
	rec := domain.MoneyRecord{RecordID: "pay-1", Amount: decimal.NewFromInt(100), CurrencyCode: "usd"}

	snap, err := suite.service.CaptureSnapshot(context.Background(), rec, "INR", day(2024, 1, 1).Add(10*time.Hour))
	suite.Require().NoError(err)
	suite.True(snap.HasSnapshot())
	suite.NoError(snap.Validate())
	suite.Equal("USD", snap.CurrencyCode)
	suite.Equal("INR", *snap.BaseCurrencyCode)
	suite.True(snap.AmountInBaseCurrency.Equal(decimal.NewFromInt(8350)))
}

func (suite *ExchangeRateServiceTestSuite) TestCaptureSnapshot_FullPrecisionFitsStorage() {
	// Amounts are stored with scale 4 and rates with scale 10, so the base
	// amount column keeps scale 14.
	suite.seed("USD", "INR", day(2024, 1, 1), "83.1234567891")
	rec := domain.MoneyRecord{Amount: dec("1234.5678"), CurrencyCode: "USD"}

	snap, err := suite.service.CaptureSnapshot(context.Background(), rec, "INR", day(2024, 1, 1))
	suite.Require().NoError(err)
	suite.NoError(snap.Validate())
	suite.True(snap.AmountInBaseCurrency.Equal(dec("102621.54317651425098")), snap.AmountInBaseCurrency.String())
	suite.GreaterOrEqual(snap.AmountInBaseCurrency.Exponent(), int32(-14))
	suite.True(snap.AmountInBaseCurrency.Equal(snap.AmountInBaseCurrency.Round(14)))
}

func (suite *ExchangeRateServiceTestSuite) TestCreateExchangeRate_Success() {
	req := dto.CreateExchangeRateRequest{
		FromCurrencyCode: "USD",
		ToCurrencyCode:   "EUR",
		Rate:             dec("0.85"),
		DateEffective:    day(2024, 2, 2).Add(9 * time.Hour),
	}

	rate, err := suite.service.CreateExchangeRate(context.Background(), req, "user-1")
	suite.Require().NoError(err)
	suite.NotEmpty(rate.ExchangeRateID)
	suite.Equal(domain.SourceManual, rate.Source)
	suite.Equal(day(2024, 2, 2), rate.DateEffective)
	suite.Equal("user-1", rate.CreatedBy)

	stored, err := suite.store.FindExchangeRateOnDate(context.Background(), "USD", "EUR", day(2024, 2, 2))
	suite.Require().NoError(err)
	suite.True(stored.Rate.Equal(dec("0.85")))
}

func (suite *ExchangeRateServiceTestSuite) TestCreateExchangeRate_Validation() {
	cases := []dto.CreateExchangeRateRequest{
		{FromCurrencyCode: "USD", ToCurrencyCode: "EUR", Rate: decimal.Zero, DateEffective: suite.today},
		{FromCurrencyCode: "USD", ToCurrencyCode: "EUR", Rate: dec("-1"), DateEffective: suite.today},
		{FromCurrencyCode: "USD", ToCurrencyCode: "USD", Rate: dec("1"), DateEffective: suite.today},
		{FromCurrencyCode: "US1", ToCurrencyCode: "EUR", Rate: dec("1"), DateEffective: suite.today},
	}
	for _, req := range cases {
		_, err := suite.service.CreateExchangeRate(context.Background(), req, "user-1")
		suite.ErrorIs(err, apperrors.ErrValidation)
	}
	suite.Equal(0, suite.store.Count())
}

func (suite *ExchangeRateServiceTestSuite) TestListExchangeRates() {
	suite.seed("USD", "INR", day(2024, 1, 1), "83")
	suite.seed("USD", "INR", day(2024, 1, 2), "83.1")
	suite.seed("EUR", "USD", day(2024, 1, 2), "1.09")

	res, err := suite.service.ListExchangeRates(context.Background(), dto.ListExchangeRatesParams{From: "usd", Page: 1, PageSize: 1})
	suite.Require().NoError(err)
	suite.Equal(2, res.Total)
	suite.Require().Len(res.Rates, 1)
	suite.Equal("2024-01-02", res.Rates[0].DateEffective)

	_, err = suite.service.ListExchangeRates(context.Background(), dto.ListExchangeRatesParams{Date: "02/01/2024"})
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestExchangeRateServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ExchangeRateServiceTestSuite))
}

// --- Storage faults ---

type ExchangeRateStorageFaultTestSuite struct {
	suite.Suite
	mockRepo *MockExchangeRateRepository
	service  portssvc.ExchangeRateSvcFacade
}

func (suite *ExchangeRateStorageFaultTestSuite) SetupTest() {
	suite.mockRepo = new(MockExchangeRateRepository)
	suite.service = services.NewExchangeRateService(suite.mockRepo)
}

func (suite *ExchangeRateStorageFaultTestSuite) TestResolveRate_PropagatesStorageFailure() {
	ctx := context.Background()
	dbErr := errors.New("connection reset")
	suite.mockRepo.On("FindExchangeRateOnDate", ctx, "USD", "INR", mock.Anything).Return(nil, dbErr).Once()

	_, err := suite.service.ResolveRate(ctx, "USD", "INR", nil)
	suite.ErrorIs(err, dbErr)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindLatestExchangeRate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ExchangeRateStorageFaultTestSuite) TestResolveRate_ReverseLookupFailure() {
	ctx := context.Background()
	dbErr := errors.New("timeout")
	notFound := apperrors.NewNotFoundError("exchange rate not found")
	suite.mockRepo.On("FindExchangeRateOnDate", ctx, "USD", "INR", mock.Anything).Return(nil, notFound).Once()
	suite.mockRepo.On("FindLatestExchangeRate", ctx, "USD", "INR", mock.Anything).Return(nil, notFound).Once()
	suite.mockRepo.On("FindLatestExchangeRate", ctx, "INR", "USD", mock.Anything).Return(nil, dbErr).Once()

	res, err := suite.service.ResolveRate(ctx, "USD", "INR", nil)
	suite.Nil(res)
	suite.ErrorIs(err, dbErr)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ExchangeRateStorageFaultTestSuite) TestCreateExchangeRate_RepoError() {
	ctx := context.Background()
	dbErr := errors.New("disk full")
	suite.mockRepo.On("UpsertExchangeRate", ctx, mock.AnythingOfType("domain.ExchangeRate")).Return(dbErr).Once()

	_, err := suite.service.CreateExchangeRate(ctx, dto.CreateExchangeRateRequest{
		FromCurrencyCode: "USD",
		ToCurrencyCode:   "EUR",
		Rate:             dec("0.9"),
		DateEffective:    time.Now(),
	}, "user-1")
	suite.ErrorIs(err, dbErr)
}

func TestExchangeRateStorageFaultTestSuite(t *testing.T) {
	suite.Run(t, new(ExchangeRateStorageFaultTestSuite))
}
