package domain

import "time"

// TenantCurrencyPreference is the display/base currency a tenant reports in.
type TenantCurrencyPreference struct {
	TenantID            string    `json:"tenantID"` // Identity provider subject
	DefaultCurrencyCode string    `json:"defaultCurrencyCode"`
	CreatedAt           time.Time `json:"createdAt"`
	LastUpdatedAt       time.Time `json:"lastUpdatedAt"`
}

// RefreshResult reports one base currency of a rate refresh run.
type RefreshResult struct {
	BaseCurrencyCode string    `json:"baseCurrency"`
	Success          bool      `json:"success"`
	RatesStored      int       `json:"ratesStored"`
	Source           string    `json:"source,omitempty"`
	DateEffective    time.Time `json:"dateEffective"`
	Error            string    `json:"error,omitempty"`
}

// RefreshSummary reports a whole refresh run.
type RefreshSummary struct {
	Results      []RefreshResult `json:"results"`
	SuccessCount int             `json:"successCount"`
	Skipped      bool            `json:"skipped"` // Another run held the lock
}
