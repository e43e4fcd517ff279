package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/crm-service/internal/domain"
)

// AuditRepository stores the append-only customer history. Appends take the
// transaction of the state change they narrate so both halves commit or
// roll back together; no update or delete operation exists.
type AuditRepository interface {
	Append(ctx context.Context, tx pgx.Tx, entry *domain.AuditEntry) error
	ListByCustomer(ctx context.Context, customerID string) ([]domain.AuditEntry, error)
}

type auditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository builds the repository.
func NewAuditRepository(pool *pgxpool.Pool) AuditRepository {
	return &auditRepository{pool: pool}
}

func (r *auditRepository) Append(ctx context.Context, tx pgx.Tx, entry *domain.AuditEntry) error {
	const query = `
        INSERT INTO customer_history (customer_id, text)
        VALUES ($1,$2)
        RETURNING id, created_at`
	return tx.QueryRow(ctx, query,
		entry.CustomerID,
		entry.Text,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *auditRepository) ListByCustomer(ctx context.Context, customerID string) ([]domain.AuditEntry, error) {
	const query = `
        SELECT id, customer_id, text, created_at
        FROM customer_history WHERE customer_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AuditEntry
	for rows.Next() {
		var entry domain.AuditEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.CustomerID,
			&entry.Text,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
