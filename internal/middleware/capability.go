package middleware

import (
	"context"

	"go-hrms/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

// CapabilityResolver maps a user's role names to the capability set they grant.
// The role feature's service satisfies this; declared here to avoid an import cycle.
type CapabilityResolver interface {
	CapabilitiesForRoles(ctx context.Context, roles []string) (map[string]bool, error)
}

// RequireCapability is the single authorization point: each route declares the
// capability it needs instead of comparing role strings ad hoc.
func RequireCapability(resolver CapabilityResolver, skipAuth bool, capability string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if skipAuth {
			return c.Next()
		}

		claims, ok := c.Locals(utils.UserClaimsKey).(*utils.UserClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		capabilities, err := resolver.CapabilitiesForRoles(c.Context(), claims.Roles)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Internal Server Error",
			})
		}

		if !capabilities[capability] {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Forbidden: missing capability " + capability,
			})
		}

		return c.Next()
	}
}
