package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/crm-service/internal/domain"
	apperrors "github.com/spec-kit/crm-service/pkg/util"
)

const identityKey = "auth_identity"

// Middleware resolves the bearer credential on protected routes.
// Resolution is stateless: the identity comes entirely from the token, so
// no storage is consulted and no per-request lookups can fail transiently.
type Middleware struct {
	codec *TokenCodec
}

// NewMiddleware constructs the resolver middleware.
func NewMiddleware(codec *TokenCodec) *Middleware {
	return &Middleware{codec: codec}
}

// Handle enforces authentication for protected routes. The raw token value
// is never logged or echoed back.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return apperrors.NewMissingCredential()
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return apperrors.NewMissingCredential()
	}

	identity, err := m.codec.Decode(parts[1])
	if err != nil {
		return apperrors.NewInvalidCredential()
	}

	c.Locals(identityKey, identity)
	return c.Next()
}

// IdentityFromContext retrieves the authenticated identity.
func IdentityFromContext(c *fiber.Ctx) (domain.Identity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return domain.Identity{}, false
	}
	identity, ok := val.(domain.Identity)
	return identity, ok
}
