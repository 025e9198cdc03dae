package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is an entry of the supported-currency catalog.
type Currency struct {
	CurrencyCode string `json:"currencyCode"` // e.g., "USD"
	Name         string `json:"name"`         // e.g., "US Dollar"
	Symbol       string `json:"symbol"`       // e.g., "$"
	Precision    int    `json:"precision"`    // Minor unit digits used for display
}

// DefaultCurrencyCode is used when no configured fallback is provided.
const DefaultCurrencyCode = "INR"

// SupportedCurrencies is the static catalog a tenant may pick a display currency from.
var SupportedCurrencies = []Currency{
	{CurrencyCode: "USD", Name: "US Dollar", Symbol: "$", Precision: 2},
	{CurrencyCode: "EUR", Name: "Euro", Symbol: "€", Precision: 2},
	{CurrencyCode: "GBP", Name: "British Pound", Symbol: "£", Precision: 2},
	{CurrencyCode: "INR", Name: "Indian Rupee", Symbol: "₹", Precision: 2},
	{CurrencyCode: "JPY", Name: "Japanese Yen", Symbol: "¥", Precision: 0},
	{CurrencyCode: "CAD", Name: "Canadian Dollar", Symbol: "C$", Precision: 2},
	{CurrencyCode: "AUD", Name: "Australian Dollar", Symbol: "A$", Precision: 2},
	{CurrencyCode: "CHF", Name: "Swiss Franc", Symbol: "CHF", Precision: 2},
	{CurrencyCode: "CNY", Name: "Chinese Yuan", Symbol: "¥", Precision: 2},
	{CurrencyCode: "SGD", Name: "Singapore Dollar", Symbol: "S$", Precision: 2},
	{CurrencyCode: "AED", Name: "UAE Dirham", Symbol: "د.إ", Precision: 2},
	{CurrencyCode: "NZD", Name: "New Zealand Dollar", Symbol: "NZ$", Precision: 2},
	{CurrencyCode: "HKD", Name: "Hong Kong Dollar", Symbol: "HK$", Precision: 2},
	{CurrencyCode: "SEK", Name: "Swedish Krona", Symbol: "kr", Precision: 2},
	{CurrencyCode: "NOK", Name: "Norwegian Krone", Symbol: "kr", Precision: 2},
	{CurrencyCode: "DKK", Name: "Danish Krone", Symbol: "kr", Precision: 2},
	{CurrencyCode: "ZAR", Name: "South African Rand", Symbol: "R", Precision: 2},
	{CurrencyCode: "BRL", Name: "Brazilian Real", Symbol: "R$", Precision: 2},
	{CurrencyCode: "MXN", Name: "Mexican Peso", Symbol: "MX$", Precision: 2},
	{CurrencyCode: "KRW", Name: "South Korean Won", Symbol: "₩", Precision: 0},
}

// LookupCurrency finds code in the supported catalog (case-insensitive).
func LookupCurrency(code string) (Currency, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, c := range SupportedCurrencies {
		if c.CurrencyCode == code {
			return c, true
		}
	}
	return Currency{}, false
}

// IsSupportedCurrency reports whether code is in the supported catalog.
func IsSupportedCurrency(code string) bool {
	_, ok := LookupCurrency(code)
	return ok
}

// CurrencySymbol returns the display symbol for code, or the code itself when unknown.
func CurrencySymbol(code string) string {
	if c, ok := LookupCurrency(code); ok {
		return c.Symbol
	}
	return strings.ToUpper(code)
}

// FormatAmount renders amount with the currency's display precision,
// e.g. "USD 1234.50". Unknown codes use two decimals.
func FormatAmount(amount decimal.Decimal, code string) string {
	precision := 2
	if c, ok := LookupCurrency(code); ok {
		precision = c.Precision
	}
	return strings.ToUpper(code) + " " + amount.StringFixed(int32(precision))
}
