package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // UserID Reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // UserID Reference
}

// SystemUserID is recorded in audit fields for rows written by scheduled jobs.
const SystemUserID = "system"

var validate = validator.New()

// NormalizeDate truncates t to its calendar day (UTC midnight).
// Rates are stored and compared by day only.
func NormalizeDate(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// NormalizeCurrencyCode upper-cases and trims code and checks it looks like an
// ISO 4217 code (three letters). It does not check the supported catalog.
func NormalizeCurrencyCode(code string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if err := validate.Var(normalized, "required,len=3,alpha"); err != nil {
		return "", fmt.Errorf("currency code %q must be 3 letters", code)
	}
	return normalized, nil
}
