package dto

import (
	"sort"

	"github.com/featuringmyself/ledgy/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SummaryQuery are the query parameters of a report summary.
type SummaryQuery struct {
	Currency string `form:"currency"`
	Mode     string `form:"mode,default=live"`
	Date     string `form:"date"`
}

// CurrencySubtotalResponse is one native-currency subtotal.
type CurrencySubtotalResponse struct {
	CurrencyCode string           `json:"currency"`
	Amount       decimal.Decimal  `json:"amount"`
	Rate         *decimal.Decimal `json:"rate,omitempty"`
	RateTier     string           `json:"rateTier,omitempty"`
}

// SummaryResponse is an aggregated money summary.
type SummaryResponse struct {
	Kind           string                     `json:"kind"`
	Mode           string                     `json:"mode"`
	TargetCurrency string                     `json:"targetCurrency"`
	Date           string                     `json:"date"`
	RecordCount    int                        `json:"recordCount"`
	ByCurrency     []CurrencySubtotalResponse `json:"byCurrency"`
	Total          decimal.Decimal            `json:"total"`
	Formatted      string                     `json:"formatted"`
	Caveats        []string                   `json:"caveats"`
}

// ToSummaryResponse converts an aggregation, listing subtotals in currency order.
func ToSummaryResponse(kind domain.RecordKind, mode string, agg *domain.Aggregation) SummaryResponse {
	codes := make([]string, 0, len(agg.ByCurrency))
	for code := range agg.ByCurrency {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	subtotals := make([]CurrencySubtotalResponse, 0, len(codes))
	for _, code := range codes {
		st := CurrencySubtotalResponse{CurrencyCode: code, Amount: agg.ByCurrency[code]}
		if r, ok := agg.Rates[code]; ok {
			rate := r.Rate
			st.Rate = &rate
			st.RateTier = string(r.Tier)
		}
		subtotals = append(subtotals, st)
	}

	return SummaryResponse{
		Kind:           string(kind),
		Mode:           mode,
		TargetCurrency: agg.TargetCurrencyCode,
		Date:           agg.AsOf.Format(DateLayout),
		RecordCount:    agg.RecordCount,
		ByCurrency:     subtotals,
		Total:          agg.Total,
		Formatted:      domain.FormatAmount(agg.Total, agg.TargetCurrencyCode),
		Caveats:        agg.Caveats,
	}
}
