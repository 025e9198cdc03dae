package dto

import (
	"fmt"
	"time"

	"github.com/featuringmyself/ledgy/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-day format accepted in query parameters.
const DateLayout = "2006-01-02"

// CreateExchangeRateRequest defines the structure for manually entering an exchange rate.
type CreateExchangeRateRequest struct {
	FromCurrencyCode string          `json:"fromCurrencyCode" binding:"required,len=3,uppercase"`
	ToCurrencyCode   string          `json:"toCurrencyCode" binding:"required,len=3,uppercase"`
	Rate             decimal.Decimal `json:"rate" binding:"required"`
	DateEffective    time.Time       `json:"dateEffective" binding:"required"`
}

// ExchangeRateResponse defines the structure for API responses containing exchange rate details.
type ExchangeRateResponse struct {
	ExchangeRateID   string          `json:"exchangeRateID"`
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Rate             decimal.Decimal `json:"rate"`
	DateEffective    string          `json:"dateEffective"`
	Source           string          `json:"source"`
	CreatedAt        time.Time       `json:"createdAt"`
	LastUpdatedAt    time.Time       `json:"lastUpdatedAt"`
}

// ToExchangeRateResponse converts a domain.ExchangeRate to ExchangeRateResponse DTO
func ToExchangeRateResponse(rate *domain.ExchangeRate) ExchangeRateResponse {
	return ExchangeRateResponse{
		ExchangeRateID:   rate.ExchangeRateID,
		FromCurrencyCode: rate.FromCurrencyCode,
		ToCurrencyCode:   rate.ToCurrencyCode,
		Rate:             rate.Rate,
		DateEffective:    rate.DateEffective.Format(DateLayout),
		Source:           rate.Source,
		CreatedAt:        rate.CreatedAt,
		LastUpdatedAt:    rate.LastUpdatedAt,
	}
}

// ListExchangeRatesParams are the query parameters of the rate listing.
type ListExchangeRatesParams struct {
	From     string `form:"from"`
	To       string `form:"to"`
	Date     string `form:"date"` // YYYY-MM-DD, rates dated on or before
	Page     int    `form:"page,default=1"`
	PageSize int    `form:"pageSize,default=50"`
}

// ListExchangeRatesResponse is one page of stored rates.
type ListExchangeRatesResponse struct {
	Rates    []ExchangeRateResponse `json:"rates"`
	Total    int                    `json:"total"`
	Page     int                    `json:"page"`
	PageSize int                    `json:"pageSize"`
}

// ToListExchangeRatesResponse converts stored rates into a listing page.
func ToListExchangeRatesResponse(rates []domain.ExchangeRate, total, page, pageSize int) *ListExchangeRatesResponse {
	res := make([]ExchangeRateResponse, len(rates))
	for i := range rates {
		res[i] = ToExchangeRateResponse(&rates[i])
	}
	return &ListExchangeRatesResponse{Rates: res, Total: total, Page: page, PageSize: pageSize}
}

// ResolveRateResponse is returned by the rate lookup endpoint.
type ResolveRateResponse struct {
	FromCurrencyCode string          `json:"fromCurrency"`
	ToCurrencyCode   string          `json:"toCurrency"`
	Rate             decimal.Decimal `json:"rate"`
	Tier             string          `json:"tier"`
	Date             string          `json:"date"`
	DateEffective    *string         `json:"dateEffective,omitempty"`
	Caveat           string          `json:"caveat,omitempty"`
}

// ToResolveRateResponse converts a resolved rate into its response.
func ToResolveRateResponse(r *domain.ResolvedRate) ResolveRateResponse {
	res := ResolveRateResponse{
		FromCurrencyCode: r.FromCurrencyCode,
		ToCurrencyCode:   r.ToCurrencyCode,
		Rate:             r.Rate,
		Tier:             string(r.Tier),
		Date:             r.AsOf.Format(DateLayout),
	}
	if r.DateEffective != nil {
		d := r.DateEffective.Format(DateLayout)
		res.DateEffective = &d
	}
	if r.IsFallback() {
		res.Caveat = "no exchange rate known, amounts shown unconverted"
	}
	return res
}

// ConvertResponse is returned by the conversion endpoint.
type ConvertResponse struct {
	Amount           decimal.Decimal `json:"amount"`
	FromCurrencyCode string          `json:"fromCurrency"`
	ToCurrencyCode   string          `json:"toCurrency"`
	ConvertedAmount  decimal.Decimal `json:"convertedAmount"`
	ExchangeRate     decimal.Decimal `json:"exchangeRate"`
	Tier             string          `json:"tier"`
	Date             string          `json:"date"`
	Formatted        string          `json:"formatted"`
}

// ToConvertResponse converts a domain.Conversion into its response.
func ToConvertResponse(c *domain.Conversion) ConvertResponse {
	return ConvertResponse{
		Amount:           c.Amount,
		FromCurrencyCode: c.FromCurrencyCode,
		ToCurrencyCode:   c.ToCurrencyCode,
		ConvertedAmount:  c.ConvertedAmount,
		ExchangeRate:     c.Rate,
		Tier:             string(c.Tier),
		Date:             c.AsOf.Format(DateLayout),
		Formatted:        domain.FormatAmount(c.ConvertedAmount, c.ToCurrencyCode),
	}
}

// RefreshRatesRequest triggers a manual refresh for one base currency.
type RefreshRatesRequest struct {
	BaseCurrency string `json:"baseCurrency" binding:"omitempty,len=3"`
}

// ResolveRateQuery are the query parameters of the rate lookup.
type ResolveRateQuery struct {
	From string `form:"from" binding:"required,len=3"`
	To   string `form:"to" binding:"required,len=3"`
	Date string `form:"date"` // YYYY-MM-DD, defaults to today
}

// SnapshotRequest asks for the base-currency values to freeze on a new money record.
type SnapshotRequest struct {
	Amount           decimal.Decimal `json:"amount" binding:"required"`
	CurrencyCode     string          `json:"currencyCode" binding:"required,len=3"`
	BaseCurrencyCode string          `json:"baseCurrencyCode" binding:"required,len=3"`
	At               *time.Time      `json:"at"` // Defaults to now
}

// SnapshotResponse carries the frozen conversion stored alongside a money record.
type SnapshotResponse struct {
	Amount               decimal.Decimal `json:"amount"`
	CurrencyCode         string          `json:"currencyCode"`
	ExchangeRate         decimal.Decimal `json:"exchangeRate"`
	BaseCurrencyCode     string          `json:"baseCurrencyCode"`
	AmountInBaseCurrency decimal.Decimal `json:"amountInBaseCurrency"`
}

// ToSnapshotResponse reads the snapshot fields off a record returned by CaptureSnapshot.
func ToSnapshotResponse(r domain.MoneyRecord) SnapshotResponse {
	res := SnapshotResponse{Amount: r.Amount, CurrencyCode: r.CurrencyCode}
	if r.HasSnapshot() {
		res.ExchangeRate = *r.ExchangeRate
		res.BaseCurrencyCode = *r.BaseCurrencyCode
		res.AmountInBaseCurrency = *r.AmountInBaseCurrency
	}
	return res
}

// ConvertQuery are the query parameters of the conversion endpoint.
type ConvertQuery struct {
	Amount string `form:"amount" binding:"required"`
	From   string `form:"from" binding:"required,len=3"`
	To     string `form:"to" binding:"required,len=3"`
	Date   string `form:"date"`
}

// RefreshResultResponse reports one base currency of a refresh.
type RefreshResultResponse struct {
	BaseCurrency  string `json:"baseCurrency"`
	Success       bool   `json:"success"`
	RatesStored   int    `json:"ratesStored"`
	Source        string `json:"source,omitempty"`
	DateEffective string `json:"dateEffective"`
	Error         string `json:"error,omitempty"`
}

// ToRefreshResultResponse converts a domain.RefreshResult into its response.
func ToRefreshResultResponse(r domain.RefreshResult) RefreshResultResponse {
	return RefreshResultResponse{
		BaseCurrency:  r.BaseCurrencyCode,
		Success:       r.Success,
		RatesStored:   r.RatesStored,
		Source:        r.Source,
		DateEffective: r.DateEffective.Format(DateLayout),
		Error:         r.Error,
	}
}

// RefreshRatesResponse reports a manual or scheduled refresh.
type RefreshRatesResponse struct {
	Success bool                    `json:"success"`
	Message string                  `json:"message"`
	Skipped bool                    `json:"skipped,omitempty"`
	Results []RefreshResultResponse `json:"results"`
}

// ToRefreshRatesResponse summarises a refresh run.
func ToRefreshRatesResponse(summary *domain.RefreshSummary) RefreshRatesResponse {
	if summary.Skipped {
		return RefreshRatesResponse{
			Success: true,
			Message: "Another exchange rate update is already running",
			Skipped: true,
			Results: []RefreshResultResponse{},
		}
	}
	results := make([]RefreshResultResponse, len(summary.Results))
	for i, r := range summary.Results {
		results[i] = ToRefreshResultResponse(r)
	}
	return RefreshRatesResponse{
		Success: true,
		Message: fmt.Sprintf("Updated exchange rates for %d/%d base currencies", summary.SuccessCount, len(results)),
		Results: results,
	}
}
