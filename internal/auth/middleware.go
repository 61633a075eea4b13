package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/sheet-analytics/internal/domain"
)

const principalKey = "auth_principal"

// Middleware adapts the Guard to fiber routes.
type Middleware struct {
	guard *Guard
}

// NewMiddleware constructs middleware around the guard.
func NewMiddleware(guard *Guard) *Middleware {
	return &Middleware{guard: guard}
}

// RequireUser admits any authenticated active user.
func (m *Middleware) RequireUser() fiber.Handler {
	return m.require(domain.RoleUser)
}

// RequireAdmin admits active admins only.
func (m *Middleware) RequireAdmin() fiber.Handler {
	return m.require(domain.RoleAdmin)
}

func (m *Middleware) require(role domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, err := m.guard.Authorize(c.UserContext(), c.Get("Authorization"), role)
		if err != nil {
			return err
		}
		c.Locals(principalKey, principal)
		return c.Next()
	}
}

// PrincipalFromContext retrieves the authenticated identity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
