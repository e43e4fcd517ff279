package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/crm-service/internal/domain"
)

// CustomerRepository encapsulates customer persistence.
type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	// CreateTx inserts within the caller's transaction.
	CreateTx(ctx context.Context, tx pgx.Tx, customer *domain.Customer) error
	Update(ctx context.Context, customer *domain.Customer) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	List(ctx context.Context, limit, offset int) ([]domain.Customer, error)

	// GetFollowUpForUpdate reads the current follow-up value under a row
	// lock so concurrent updates to the same record serialize and each
	// transaction observes a distinct previous value.
	GetFollowUpForUpdate(ctx context.Context, tx pgx.Tx, id string) (*time.Time, error)
	// SetFollowUp writes the new value inside the same transaction.
	SetFollowUp(ctx context.Context, tx pgx.Tx, id string, next *time.Time) error
}

type customerRepository struct {
	pool *pgxpool.Pool
}

// NewCustomerRepository instantiates the repository.
func NewCustomerRepository(pool *pgxpool.Pool) CustomerRepository {
	return &customerRepository{pool: pool}
}

const customerInsertQuery = `
        INSERT INTO customers (number, name, email, phone, company, follow_up_on)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`

func (r *customerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	return r.pool.QueryRow(ctx, customerInsertQuery,
		customer.Number,
		customer.Name,
		customer.Email,
		customer.Phone,
		customer.Company,
		customer.FollowUpOn,
	).Scan(&customer.ID, &customer.CreatedAt, &customer.UpdatedAt)
}

func (r *customerRepository) CreateTx(ctx context.Context, tx pgx.Tx, customer *domain.Customer) error {
	return tx.QueryRow(ctx, customerInsertQuery,
		customer.Number,
		customer.Name,
		customer.Email,
		customer.Phone,
		customer.Company,
		customer.FollowUpOn,
	).Scan(&customer.ID, &customer.CreatedAt, &customer.UpdatedAt)
}

func (r *customerRepository) Update(ctx context.Context, customer *domain.Customer) error {
	const query = `
        UPDATE customers SET name=$1, email=$2, phone=$3, company=$4, updated_at=NOW()
        WHERE id=$5`
	cmd, err := r.pool.Exec(ctx, query,
		customer.Name,
		customer.Email,
		customer.Phone,
		customer.Company,
		customer.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *customerRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM customers WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *customerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	const query = `
        SELECT id, number, name, email, phone, company, follow_up_on, created_at, updated_at
        FROM customers WHERE id=$1`
	var customer domain.Customer
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&customer.ID,
		&customer.Number,
		&customer.Name,
		&customer.Email,
		&customer.Phone,
		&customer.Company,
		&customer.FollowUpOn,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) List(ctx context.Context, limit, offset int) ([]domain.Customer, error) {
	const query = `
        SELECT id, number, name, email, phone, company, follow_up_on, created_at, updated_at
        FROM customers ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Customer
	for rows.Next() {
		var customer domain.Customer
		if err := rows.Scan(
			&customer.ID,
			&customer.Number,
			&customer.Name,
			&customer.Email,
			&customer.Phone,
			&customer.Company,
			&customer.FollowUpOn,
			&customer.CreatedAt,
			&customer.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, customer)
	}
	return result, rows.Err()
}

func (r *customerRepository) GetFollowUpForUpdate(ctx context.Context, tx pgx.Tx, id string) (*time.Time, error) {
	var followUp *time.Time
	err := tx.QueryRow(ctx, `SELECT follow_up_on FROM customers WHERE id=$1 FOR UPDATE`, id).Scan(&followUp)
	if err != nil {
		return nil, err
	}
	return followUp, nil
}

func (r *customerRepository) SetFollowUp(ctx context.Context, tx pgx.Tx, id string, next *time.Time) error {
	cmd, err := tx.Exec(ctx, `UPDATE customers SET follow_up_on=$1, updated_at=NOW() WHERE id=$2`, next, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
