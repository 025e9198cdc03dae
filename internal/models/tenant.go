package models

import "time"

// TenantSettings is a row of the tenant_settings table.
type TenantSettings struct {
	TenantID            string    `db:"tenant_id"`
	DefaultCurrencyCode string    `db:"default_currency_code"`
	CreatedAt           time.Time `db:"created_at"`
	LastUpdatedAt       time.Time `db:"last_updated_at"`
}
