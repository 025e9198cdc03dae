package services

import (
	"context"
	"time"

	"github.com/featuringmyself/ledgy/internal/core/domain"
)

// ReportMode selects how historical amounts are priced.
type ReportMode string

const (
	ReportModeLive     ReportMode = "live"     // re-resolve rates as of the report date
	ReportModeSnapshot ReportMode = "snapshot" // use amounts frozen at record creation
)

// ReportingService defines the money summaries shown on reporting surfaces
type ReportingService interface {
	// Summary aggregates a tenant's records of one kind into targetCode.
	// An empty targetCode means the tenant's preferred currency.
	Summary(ctx context.Context, tenantID string, kind domain.RecordKind, targetCode string, mode ReportMode, asOf *time.Time) (*domain.Aggregation, error)
}
