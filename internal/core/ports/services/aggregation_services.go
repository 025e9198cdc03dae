package services

import (
	"context"
	"time"

	"github.com/featuringmyself/ledgy/internal/core/domain"
)

// AggregationSvc combines money records spanning several currencies.
type AggregationSvc interface {
	// Aggregate sums per native currency, then converts each subtotal once into target.
	Aggregate(ctx context.Context, records []domain.MoneyRecord, targetCode string, asOf *time.Time) (*domain.Aggregation, error)

	// AggregateSnapshots sums frozen base-currency amounts instead of re-pricing history,
	// converting only from each recorded base currency into target.
	AggregateSnapshots(ctx context.Context, records []domain.MoneyRecord, targetCode string, asOf *time.Time) (*domain.Aggregation, error)
}
