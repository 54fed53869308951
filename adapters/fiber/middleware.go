package fiber

import (
	"github.com/gofiber/fiber/v3"

	"github.com/lcwang/idgate/core"
)

// RequireSession returns a middleware that validates the session token and
// stores its claims in the context for downstream handlers. Applications
// mount this on their own protected routes.
func RequireSession(handler core.AuthHandler) fiber.Handler {
	return func(c fiber.Ctx) error {
		token := extractBearer(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": core.ErrMissingAuthHeader.Error(),
			})
		}

		claims, err := handler.VerifySession(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": core.ErrInvalidToken.Error(),
			})
		}

		c.Locals("claims", claims)
		return c.Next()
	}
}
