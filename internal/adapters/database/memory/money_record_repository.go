package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/featuringmyself/ledgy/internal/core/domain"
	portsrepo "github.com/featuringmyself/ledgy/internal/core/ports/repositories"
)

// MoneyRecordRepository holds money records added with Add.
type MoneyRecordRepository struct {
	mu      sync.RWMutex
	records []domain.MoneyRecord
}

// NewMoneyRecordRepository creates an empty store.
func NewMoneyRecordRepository() *MoneyRecordRepository {
	return &MoneyRecordRepository{}
}

var _ portsrepo.MoneyRecordReader = (*MoneyRecordRepository)(nil)

// Add stores records after checking their invariants.
func (r *MoneyRecordRepository) Add(records ...domain.MoneyRecord) error {
	for _, rec := range records {
		if err := rec.Validate(); err != nil {
			return err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, records...)
	return nil
}

func (r *MoneyRecordRepository) ListMoneyRecords(_ context.Context, tenantID string, kind domain.RecordKind, asOf time.Time) ([]domain.MoneyRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.MoneyRecord, 0)
	for _, rec := range r.records {
		if rec.TenantID == tenantID && rec.Kind == kind && !rec.OccurredAt.After(asOf) {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].OccurredAt.Before(out[j].OccurredAt) })
	return out, nil
}
