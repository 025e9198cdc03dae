package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// RecordKind identifies which owning entity a MoneyRecord was read from.
type RecordKind string

const (
	KindProject     RecordKind = "projects"     // project budget
	KindPayment     RecordKind = "payments"     // invoice/payment amount
	KindMilestone   RecordKind = "milestones"   // milestone amount
	KindTransaction RecordKind = "transactions" // money actually received
)

// ParseRecordKind maps a path segment onto a RecordKind.
func ParseRecordKind(s string) (RecordKind, bool) {
	switch RecordKind(s) {
	case KindProject, KindPayment, KindMilestone, KindTransaction:
		return RecordKind(s), true
	}
	return "", false
}

// MoneyRecord is the money-bearing part of a project, payment, milestone or transaction.
// Amount and CurrencyCode never change after creation.
type MoneyRecord struct {
	RecordID     string          `json:"recordID"`
	Kind         RecordKind      `json:"kind"`
	TenantID     string          `json:"tenantID"`
	Amount       decimal.Decimal `json:"amount"`       // Non-negative, native currency
	CurrencyCode string          `json:"currencyCode"` // Native currency
	OccurredAt   time.Time       `json:"occurredAt"`

	// Snapshot captured when the record was created. Either all three are set or none.
	ExchangeRate         *decimal.Decimal `json:"exchangeRate,omitempty"`
	BaseCurrencyCode     *string          `json:"baseCurrencyCode,omitempty"`
	AmountInBaseCurrency *decimal.Decimal `json:"amountInBaseCurrency,omitempty"`
}

// HasSnapshot reports whether the record carries a frozen base-currency conversion.
func (r MoneyRecord) HasSnapshot() bool {
	return r.ExchangeRate != nil && r.BaseCurrencyCode != nil && r.AmountInBaseCurrency != nil
}

// Validate checks the record invariants.
func (r MoneyRecord) Validate() error {
	if r.Amount.IsNegative() {
		return errors.New("amount must not be negative")
	}
	if _, err := NormalizeCurrencyCode(r.CurrencyCode); err != nil {
		return err
	}
	partial := r.ExchangeRate != nil || r.BaseCurrencyCode != nil || r.AmountInBaseCurrency != nil
	if !partial {
		return nil
	}
	if !r.HasSnapshot() {
		return errors.New("snapshot requires exchange rate, base currency and base amount together")
	}
	if !r.ExchangeRate.IsPositive() {
		return errors.New("snapshot exchange rate must be positive")
	}
	if !r.Amount.Mul(*r.ExchangeRate).Equal(*r.AmountInBaseCurrency) {
		return errors.New("snapshot base amount must equal amount times exchange rate")
	}
	return nil
}

// Aggregation is a multi-currency total.
type Aggregation struct {
	TargetCurrencyCode string                     `json:"targetCurrencyCode"`
	AsOf               time.Time                  `json:"asOf"`
	ByCurrency         map[string]decimal.Decimal `json:"byCurrency"` // Native-currency subtotals, unconverted
	Total              decimal.Decimal            `json:"total"`      // Sum converted into TargetCurrencyCode
	Rates              map[string]ResolvedRate    `json:"rates"`      // Rate used per converted currency
	RecordCount        int                        `json:"recordCount"`
	// Caveats lists currencies whose conversion fell back to the neutral rate.
	Caveats []string `json:"caveats"`
}

// NewAggregation returns an empty aggregation for target.
func NewAggregation(target string, asOf time.Time) *Aggregation {
	return &Aggregation{
		TargetCurrencyCode: target,
		AsOf:               asOf,
		ByCurrency:         map[string]decimal.Decimal{},
		Total:              decimal.Zero,
		Rates:              map[string]ResolvedRate{},
		Caveats:            []string{},
	}
}
