package dto

import "github.com/featuringmyself/ledgy/internal/core/domain"

// CurrencyResponse defines the data returned for a catalog currency.
type CurrencyResponse struct {
	CurrencyCode string `json:"code"`
	Name         string `json:"name"`
	Symbol       string `json:"symbol"`
	Precision    int    `json:"precision"`
}

// ToListCurrencyResponse converts the catalog to response DTOs
func ToListCurrencyResponse(currencies []domain.Currency) []CurrencyResponse {
	res := make([]CurrencyResponse, len(currencies))
	for i, c := range currencies {
		res[i] = CurrencyResponse{
			CurrencyCode: c.CurrencyCode,
			Name:         c.Name,
			Symbol:       c.Symbol,
			Precision:    c.Precision,
		}
	}
	return res
}

// SetUserCurrencyRequest updates the caller's display currency.
type SetUserCurrencyRequest struct {
	DefaultCurrency string `json:"defaultCurrency" binding:"required,len=3"`
}

// UserCurrencyResponse reports the caller's display currency.
type UserCurrencyResponse struct {
	DefaultCurrency string `json:"defaultCurrency"`
	Symbol          string `json:"symbol"`
}
