package middleware

import (
	"errors"
	"strings"

	"opspulse/internal/adapters/persistence/models"
	"opspulse/internal/core/rbac"
	"opspulse/internal/core/services"
	"opspulse/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const principalKey = "principal"

// AuthMiddleware resolves the bearer token to the stored principal and
// makes it available to downstream handlers. Every protected operation
// goes through here before touching persisted state.
func AuthMiddleware(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			return response.Unauthorized(c, "Access token required")
		}
		token := strings.TrimPrefix(authHeader, "Bearer ")

		user, err := authService.ResolveUser(c.Context(), token)
		if err != nil {
			if errors.Is(err, services.ErrTokenExpired) {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		c.Locals(principalKey, user)
		return c.Next()
	}
}

// Principal returns the authenticated principal set by AuthMiddleware
func Principal(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(principalKey).(*models.User)
	return user
}

// RequireCapability creates authorization middleware for one capability.
// The principal is already identified here, so a missing capability is
// always 403, never 401.
func RequireCapability(capability rbac.Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := Principal(c)
		if user == nil {
			return response.Unauthorized(c, "Not authenticated")
		}
		if err := rbac.RequireCapability(user.Role, user.Roles, capability); err != nil {
			return response.Forbidden(c, "You don't have permission to access this resource")
		}
		return c.Next()
	}
}
