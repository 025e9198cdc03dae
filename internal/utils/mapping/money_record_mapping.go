package mapping

import (
	"github.com/featuringmyself/ledgy/internal/core/domain"
	"github.com/featuringmyself/ledgy/internal/models"
)

// ToDomainMoneyRecord converts a money column set to a domain MoneyRecord.
// A snapshot is only carried over when all three snapshot columns are set.
func ToDomainMoneyRecord(m models.MoneyRecord, kind domain.RecordKind) domain.MoneyRecord {
	rec := domain.MoneyRecord{
		RecordID:     m.RecordID,
		Kind:         kind,
		TenantID:     m.TenantID,
		Amount:       m.Amount,
		CurrencyCode: m.CurrencyCode,
		OccurredAt:   m.OccurredAt,
	}
	if m.ExchangeRate.Valid && m.BaseCurrencyCode != nil && m.AmountInBaseCurrency.Valid {
		rate := m.ExchangeRate.Decimal
		base := *m.BaseCurrencyCode
		amt := m.AmountInBaseCurrency.Decimal
		rec.ExchangeRate = &rate
		rec.BaseCurrencyCode = &base
		rec.AmountInBaseCurrency = &amt
	}
	return rec
}
