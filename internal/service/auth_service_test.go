package service

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/crm-service/internal/auth"
	"github.com/spec-kit/crm-service/internal/domain"
	apperrors "github.com/spec-kit/crm-service/pkg/util"
)

// fakeAccountRepo is an in-memory AccountRepository with the same error
// contract as the pgx-backed one: pgx.ErrNoRows on a miss and a Postgres
// unique violation on a duplicate email.
type fakeAccountRepo struct {
	byEmail map[string]*domain.Account
	nextID  int
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{byEmail: make(map[string]*domain.Account)}
}

func (f *fakeAccountRepo) Create(_ context.Context, account *domain.Account) error {
	if _, exists := f.byEmail[account.Email]; exists {
		return &pgconn.PgError{Code: "23505", ConstraintName: "accounts_email_key"}
	}
	f.nextID++
	account.ID = "acc-" + strconv.Itoa(f.nextID)
	account.CreatedAt = time.Now()
	account.UpdatedAt = account.CreatedAt
	stored := *account
	f.byEmail[account.Email] = &stored
	return nil
}

func (f *fakeAccountRepo) CreateTx(ctx context.Context, _ pgx.Tx, account *domain.Account) error {
	return f.Create(ctx, account)
}

func (f *fakeAccountRepo) GetByID(_ context.Context, id string) (*domain.Account, error) {
	for _, account := range f.byEmail {
		if account.ID == id {
			copied := *account
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeAccountRepo) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	account, ok := f.byEmail[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *account
	return &copied, nil
}

func newTestAuthService(t *testing.T, accounts *fakeAccountRepo) *AuthService {
	t.Helper()
	codec, err := auth.NewTokenCodec("fixture-secret", time.Hour)
	require.NoError(t, err)
	return NewAuthService(AuthDependencies{
		AccountRepo: accounts,
		Codec:       codec,
		BcryptCost:  4,
	})
}

func TestEnsureAdminCreatesWorkingLogin(t *testing.T) {
	accounts := newFakeAccountRepo()
	svc := newTestAuthService(t, accounts)
	ctx := context.Background()

	account, err := svc.EnsureAdmin(ctx, "admin@example.com", "change-me-now")
	require.NoError(t, err)
	require.NotNil(t, account)
	assert.Equal(t, domain.RoleAdmin, account.Role)
	assert.Nil(t, account.CustomerID)

	// the configured password must actually log in
	logged, token, _, err := svc.Login(ctx, "admin@example.com", "change-me-now")
	require.NoError(t, err)
	assert.Equal(t, account.ID, logged.ID)
	assert.NotEmpty(t, token)
}

func TestEnsureAdminIsIdempotent(t *testing.T) {
	accounts := newFakeAccountRepo()
	svc := newTestAuthService(t, accounts)
	ctx := context.Background()

	first, err := svc.EnsureAdmin(ctx, "admin@example.com", "change-me-now")
	require.NoError(t, err)

	second, err := svc.EnsureAdmin(ctx, "admin@example.com", "a-different-password")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, accounts.byEmail, 1)

	// the original password still works; the later call changed nothing
	_, _, _, err = svc.Login(ctx, "admin@example.com", "change-me-now")
	assert.NoError(t, err)
}

func TestEnsureAdminSkippedWhenUnconfigured(t *testing.T) {
	accounts := newFakeAccountRepo()
	svc := newTestAuthService(t, accounts)

	for _, pair := range [][2]string{{"", ""}, {"admin@example.com", ""}, {"", "pw"}} {
		account, err := svc.EnsureAdmin(context.Background(), pair[0], pair[1])
		assert.NoError(t, err)
		assert.Nil(t, account)
	}
	assert.Empty(t, accounts.byEmail)
}

// racingAccountRepo reports a miss on the first lookup even though the row
// exists, simulating a concurrent bootstrap winning the insert race.
type racingAccountRepo struct {
	*fakeAccountRepo
	missedOnce bool
}

func (r *racingAccountRepo) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	if !r.missedOnce {
		r.missedOnce = true
		return nil, pgx.ErrNoRows
	}
	return r.fakeAccountRepo.GetByEmail(ctx, email)
}

func TestEnsureAdminSurvivesInsertRace(t *testing.T) {
	base := newFakeAccountRepo()
	ctx := context.Background()

	svc := newTestAuthService(t, base)
	winner, err := svc.EnsureAdmin(ctx, "admin@example.com", "change-me-now")
	require.NoError(t, err)

	racing := &racingAccountRepo{fakeAccountRepo: base}
	codec, err := auth.NewTokenCodec("fixture-secret", time.Hour)
	require.NoError(t, err)
	loser := NewAuthService(AuthDependencies{AccountRepo: racing, Codec: codec, BcryptCost: 4})

	account, err := loser.EnsureAdmin(ctx, "admin@example.com", "change-me-now")
	require.NoError(t, err)
	assert.Equal(t, winner.ID, account.ID)
	assert.Len(t, base.byEmail, 1)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	accounts := newFakeAccountRepo()
	svc := newTestAuthService(t, accounts)
	ctx := context.Background()

	_, err := svc.EnsureAdmin(ctx, "admin@example.com", "change-me-now")
	require.NoError(t, err)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{name: "wrong password", email: "admin@example.com", password: "nope"},
		{name: "unknown email", email: "ghost@example.com", password: "change-me-now"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := svc.Login(ctx, tt.email, tt.password)
			var domainErr *apperrors.DomainError
			require.ErrorAs(t, err, &domainErr)
			// unknown email and wrong password are indistinguishable
			assert.Equal(t, apperrors.CodeInvalidCredential, domainErr.Code)
		})
	}
}
