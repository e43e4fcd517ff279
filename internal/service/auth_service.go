package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/crm-service/internal/auth"
	"github.com/spec-kit/crm-service/internal/domain"
	"github.com/spec-kit/crm-service/internal/persistence"
	"github.com/spec-kit/crm-service/internal/repository"
	apperrors "github.com/spec-kit/crm-service/pkg/util"
)

// AuthService coordinates registration and login flows.
type AuthService struct {
	pool       *pgxpool.Pool
	accounts   repository.AccountRepository
	customers  repository.CustomerRepository
	codec      *auth.TokenCodec
	bcryptCost int
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	Pool         *pgxpool.Pool
	AccountRepo  repository.AccountRepository
	CustomerRepo repository.CustomerRepository
	Codec        *auth.TokenCodec
	BcryptCost   int
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	return &AuthService{
		pool:       deps.Pool,
		accounts:   deps.AccountRepo,
		customers:  deps.CustomerRepo,
		codec:      deps.Codec,
		bcryptCost: deps.BcryptCost,
	}
}

// RegisterCustomer creates a customer record plus its owning login account
// in one transaction and returns a fresh token for the new account. A
// duplicate email, including one racing past the existence check, surfaces
// as a conflict.
func (s *AuthService) RegisterCustomer(ctx context.Context, name, email, password string) (*domain.Account, string, time.Time, error) {
	if _, err := s.accounts.GetByEmail(ctx, email); err == nil {
		return nil, "", time.Time{}, apperrors.NewConflict("email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", time.Time{}, apperrors.NewPersistenceFailure(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	customer := &domain.Customer{
		Number: uuid.NewString(),
		Name:   name,
		Email:  email,
	}
	account := &domain.Account{
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleCustomer,
	}
	err = persistence.WithinTx(ctx, s.pool, func(tx pgx.Tx) error {
		if err := s.customers.CreateTx(ctx, tx, customer); err != nil {
			return err
		}
		account.CustomerID = &customer.ID
		return s.accounts.CreateTx(ctx, tx, account)
	})
	if err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, "", time.Time{}, apperrors.NewConflict("email already registered", nil)
		}
		return nil, "", time.Time{}, apperrors.NewPersistenceFailure(err)
	}

	token, exp, err := s.codec.Issue(account.Identity())
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return account, token, exp, nil
}

// Login authenticates any account and returns a role-bearing token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Account, string, time.Time, error) {
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewInvalidCredential()
		}
		return nil, "", time.Time{}, apperrors.NewPersistenceFailure(err)
	}
	if err := auth.ComparePassword(account.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewInvalidCredential()
	}

	token, exp, err := s.codec.Issue(account.Identity())
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return account, token, exp, nil
}

// EnsureAdmin creates the bootstrap admin account if no account exists for
// the configured email. The hash is generated here at startup; no
// credential material is baked into migrations. A concurrent bootstrap
// losing the insert race is treated as success.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) (*domain.Account, error) {
	if email == "" || password == "" {
		return nil, nil
	}

	existing, err := s.accounts.GetByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewPersistenceFailure(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	account := &domain.Account{
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		if apperrors.IsUniqueViolation(err) {
			existing, getErr := s.accounts.GetByEmail(ctx, email)
			if getErr != nil {
				return nil, apperrors.NewPersistenceFailure(getErr)
			}
			return existing, nil
		}
		return nil, apperrors.NewPersistenceFailure(err)
	}
	return account, nil
}
