package repositories

import (
	"context"
	"time"

	"github.com/featuringmyself/ledgy/internal/core/domain"
)

// MoneyRecordReader reads the money fields embedded on projects, payments,
// milestones and transactions.
type MoneyRecordReader interface {
	// ListMoneyRecords returns a tenant's records of one kind that occurred on or before asOf.
	ListMoneyRecords(ctx context.Context, tenantID string, kind domain.RecordKind, asOf time.Time) ([]domain.MoneyRecord, error)
}
