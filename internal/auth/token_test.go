package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/crm-service/internal/domain"
)

const testSecret = "fixture-secret"

func newTestCodec(t *testing.T, ttl time.Duration) *TokenCodec {
	t.Helper()
	codec, err := NewTokenCodec(testSecret, ttl)
	require.NoError(t, err)
	return codec
}

func customerIdentity(customerID string) domain.Identity {
	return domain.Identity{SubjectID: "acc-1", Role: domain.RoleCustomer, CustomerID: &customerID}
}

func TestNewTokenCodecRejectsEmptySecret(t *testing.T) {
	_, err := NewTokenCodec("", time.Hour)
	assert.ErrorIs(t, err, ErrEmptySecret)
}

func TestIssueDecodeRoundTrip(t *testing.T) {
	codec := newTestCodec(t, time.Hour)

	tests := []struct {
		name     string
		identity domain.Identity
	}{
		{name: "admin", identity: domain.Identity{SubjectID: "acc-admin", Role: domain.RoleAdmin}},
		{name: "staff", identity: domain.Identity{SubjectID: "acc-staff", Role: domain.RoleStaff}},
		{name: "customer", identity: customerIdentity("cust-42")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, expiresAt, err := codec.Issue(tt.identity)
			require.NoError(t, err)
			assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

			decoded, err := codec.Decode(token)
			require.NoError(t, err)
			assert.Equal(t, tt.identity, decoded)
		})
	}
}

func TestIssueRejectsInvalidClaims(t *testing.T) {
	codec := newTestCodec(t, time.Hour)
	scope := "cust-1"

	tests := []struct {
		name     string
		identity domain.Identity
		wantErr  error
	}{
		{
			name:     "customer without scope",
			identity: domain.Identity{SubjectID: "a", Role: domain.RoleCustomer},
			wantErr:  domain.ErrCustomerScopeRequired,
		},
		{
			name:     "staff with scope",
			identity: domain.Identity{SubjectID: "a", Role: domain.RoleStaff, CustomerID: &scope},
			wantErr:  domain.ErrCustomerScopeForbidden,
		},
		{
			name:     "unknown role",
			identity: domain.Identity{SubjectID: "a", Role: "superuser"},
			wantErr:  domain.ErrUnknownRole,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := codec.Issue(tt.identity)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDecodeExpiredToken(t *testing.T) {
	codec := newTestCodec(t, time.Millisecond)

	token, _, err := codec.Issue(customerIdentity("cust-1"))
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	_, err = codec.Decode(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestDecodeWrongSecret(t *testing.T) {
	codec := newTestCodec(t, time.Hour)
	token, _, err := codec.Issue(customerIdentity("cust-1"))
	require.NoError(t, err)

	other, err := NewTokenCodec("different-secret", time.Hour)
	require.NoError(t, err)

	_, err = other.Decode(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestDecodeMalformedToken(t *testing.T) {
	codec := newTestCodec(t, time.Hour)

	for _, token := range []string{"", "garbage", "a.b.c"} {
		_, err := codec.Decode(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}

// Expired, tampered and malformed tokens must be indistinguishable.
func TestDecodeFailuresCollapse(t *testing.T) {
	codec := newTestCodec(t, time.Millisecond)
	expired, _, err := codec.Issue(customerIdentity("cust-1"))
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)

	_, expiredErr := codec.Decode(expired)
	_, malformedErr := codec.Decode("garbage")

	assert.Equal(t, expiredErr, malformedErr)
}
