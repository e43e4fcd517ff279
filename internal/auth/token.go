package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/crm-service/internal/domain"
)

// ErrInvalidToken is the single decode failure surfaced by the codec.
// Expired, tampered and malformed tokens are deliberately indistinguishable
// so callers cannot probe which check failed.
var ErrInvalidToken = errors.New("invalid token")

// ErrEmptySecret is returned when a codec is constructed without a secret.
var ErrEmptySecret = errors.New("signing secret must not be empty")

// TokenCodec issues and decodes signed, time-bounded identity claims.
// The secret is injected at construction; the codec holds no other state,
// so verification needs no external lookup.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenCodec builds a codec for the given secret and token lifetime.
func NewTokenCodec(secret string, ttl time.Duration) (*TokenCodec, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if ttl <= 0 {
		ttl = 168 * time.Hour
	}
	return &TokenCodec{secret: []byte(secret), ttl: ttl}, nil
}

// Claims describes the JWT payload.
type Claims struct {
	Role       domain.Role `json:"role"`
	CustomerID *string     `json:"customer_id,omitempty"`
	jwt.RegisteredClaims
}

// Issue signs a token embedding the identity and an absolute expiry.
// The identity must satisfy the role/customer-scope invariant.
func (tc *TokenCodec) Issue(identity domain.Identity) (string, time.Time, error) {
	if err := identity.Validate(); err != nil {
		return "", time.Time{}, err
	}

	now := time.Now()
	expiresAt := now.Add(tc.ttl)
	claims := &Claims{
		Role:       identity.Role,
		CustomerID: identity.CustomerID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.SubjectID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tc.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Decode verifies the signature and expiry and returns the embedded
// identity. Any failure, whatever its cause, is ErrInvalidToken.
func (tc *TokenCodec) Decode(tokenStr string) (domain.Identity, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return tc.secret, nil
	})
	if err != nil {
		return domain.Identity{}, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return domain.Identity{}, ErrInvalidToken
	}

	identity := domain.Identity{
		SubjectID:  claims.Subject,
		Role:       claims.Role,
		CustomerID: claims.CustomerID,
	}
	if err := identity.Validate(); err != nil {
		return domain.Identity{}, ErrInvalidToken
	}
	return identity, nil
}
