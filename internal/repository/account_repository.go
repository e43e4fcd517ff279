package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/crm-service/internal/domain"
)

// AccountRepository encapsulates login-account persistence.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	// CreateTx inserts within the caller's transaction so an account and
	// its customer record commit or roll back together.
	CreateTx(ctx context.Context, tx pgx.Tx, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
}

type accountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository instantiates the repository.
func NewAccountRepository(pool *pgxpool.Pool) AccountRepository {
	return &accountRepository{pool: pool}
}

const accountInsertQuery = `
        INSERT INTO accounts (email, password_hash, role, customer_id)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`

func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	return r.pool.QueryRow(ctx, accountInsertQuery,
		account.Email,
		account.PasswordHash,
		account.Role,
		account.CustomerID,
	).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
}

func (r *accountRepository) CreateTx(ctx context.Context, tx pgx.Tx, account *domain.Account) error {
	return tx.QueryRow(ctx, accountInsertQuery,
		account.Email,
		account.PasswordHash,
		account.Role,
		account.CustomerID,
	).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	const query = `
        SELECT id, email, password_hash, role, customer_id, created_at, updated_at
        FROM accounts WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	const query = `
        SELECT id, email, password_hash, role, customer_id, created_at, updated_at
        FROM accounts WHERE email=$1`
	return r.fetchSingle(ctx, query, email)
}

func (r *accountRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Account, error) {
	var account domain.Account
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&account.ID,
		&account.Email,
		&account.PasswordHash,
		&account.Role,
		&account.CustomerID,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &account, nil
}
