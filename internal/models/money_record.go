package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MoneyRecord is the money column set shared by projects, payments,
// milestones and transactions. Snapshot columns are nullable.
type MoneyRecord struct {
	RecordID             string              `db:"record_id"`
	TenantID             string              `db:"tenant_id"`
	Amount               decimal.Decimal     `db:"amount"`
	CurrencyCode         string              `db:"currency_code"`
	OccurredAt           time.Time           `db:"occurred_at"`
	ExchangeRate         decimal.NullDecimal `db:"exchange_rate"`
	BaseCurrencyCode     *string             `db:"base_currency_code"`
	AmountInBaseCurrency decimal.NullDecimal `db:"amount_in_base_currency"`
}
