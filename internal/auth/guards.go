package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/crm-service/internal/domain"
	apperrors "github.com/spec-kit/crm-service/pkg/util"
)

// Target is the route's declared subject, extracted from path parameters
// before any guard runs.
type Target struct {
	CustomerID string
}

// Guard is a pure authorization predicate. Guards decide solely from the
// identity and the route target; they never consult storage.
type Guard interface {
	Name() string
	Check(identity domain.Identity, target Target) error
}

// Chain is an ordered list of guards attached to a route. The first denial
// short-circuits the chain and the downstream handler never runs.
type Chain []Guard

// Handler adapts the chain into a request-pipeline step.
func (ch Chain) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		if !ok {
			return apperrors.NewMissingCredential()
		}
		target := Target{CustomerID: c.Params("customerID")}
		for _, g := range ch {
			if err := g.Check(identity, target); err != nil {
				return err
			}
		}
		return c.Next()
	}
}

type roleGuard struct {
	allowed map[domain.Role]struct{}
}

// RequireRole allows only callers holding one of the given roles.
func RequireRole(roles ...domain.Role) Guard {
	allowed := make(map[domain.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return &roleGuard{allowed: allowed}
}

func (g *roleGuard) Name() string { return "require_role" }

func (g *roleGuard) Check(identity domain.Identity, _ Target) error {
	if _, ok := g.allowed[identity.Role]; !ok {
		return apperrors.NewInsufficientRole()
	}
	return nil
}

type selfOrElevatedGuard struct{}

// RequireSelfOrElevated allows admin and staff for any target, and a
// customer only when their owned customer id exactly equals the target's
// path parameter. No normalization is applied to either side.
func RequireSelfOrElevated() Guard {
	return selfOrElevatedGuard{}
}

func (selfOrElevatedGuard) Name() string { return "require_self_or_elevated" }

func (selfOrElevatedGuard) Check(identity domain.Identity, target Target) error {
	if identity.Role.Elevated() {
		return nil
	}
	if identity.Role == domain.RoleCustomer && identity.CustomerID != nil && *identity.CustomerID == target.CustomerID {
		return nil
	}
	return apperrors.NewNotSelf()
}
