package pgsql

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/featuringmyself/ledgy/internal/apperrors"
	"github.com/featuringmyself/ledgy/internal/core/domain"
	portsrepo "github.com/featuringmyself/ledgy/internal/core/ports/repositories"
	"github.com/featuringmyself/ledgy/internal/models"
	"github.com/featuringmyself/ledgy/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
)

// moneyColumns maps each record kind onto its table. Every table carries the
// same snapshot columns; only the id, amount and date columns differ.
type moneyColumns struct {
	table, id, amount, occurred string
}

var moneyTables = map[domain.RecordKind]moneyColumns{
	domain.KindProject:     {table: "projects", id: "project_id", amount: "budget", occurred: "created_at"},
	domain.KindPayment:     {table: "payments", id: "payment_id", amount: "amount", occurred: "payment_date"},
	domain.KindMilestone:   {table: "milestones", id: "milestone_id", amount: "amount", occurred: "due_date"},
	domain.KindTransaction: {table: "transactions", id: "transaction_id", amount: "amount", occurred: "transaction_date"},
}

// PgxMoneyRecordRepository reads the money fields of the owning entities.
type PgxMoneyRecordRepository struct {
	BaseRepository
}

func newPgxMoneyRecordRepository(pool *pgxpool.Pool) portsrepo.MoneyRecordReader {
	return &PgxMoneyRecordRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.MoneyRecordReader = (*PgxMoneyRecordRepository)(nil)

func (r *PgxMoneyRecordRepository) ListMoneyRecords(ctx context.Context, tenantID string, kind domain.RecordKind, asOf time.Time) ([]domain.MoneyRecord, error) {
	cols, ok := moneyTables[kind]
	if !ok {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown record kind %q", kind))
	}

	query := fmt.Sprintf(`
		SELECT %[2]s, tenant_id, %[3]s, currency_code, %[4]s,
			exchange_rate, base_currency_code, amount_in_base_currency
		FROM %[1]s
		WHERE tenant_id = $1 AND %[4]s <= $2
		ORDER BY %[4]s`, cols.table, cols.id, cols.amount, cols.occurred)

	rows, err := r.Pool.Query(ctx, query, tenantID, asOf)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to list "+string(kind), err)
	}
	defer rows.Close()

	records := make([]domain.MoneyRecord, 0)
	for rows.Next() {
		var m models.MoneyRecord
		if err := rows.Scan(
			&m.RecordID, &m.TenantID, &m.Amount, &m.CurrencyCode, &m.OccurredAt,
			&m.ExchangeRate, &m.BaseCurrencyCode, &m.AmountInBaseCurrency,
		); err != nil {
			return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to scan "+string(kind), err)
		}
		records = append(records, mapping.ToDomainMoneyRecord(m, kind))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "error iterating "+string(kind), err)
	}
	return records, nil
}
