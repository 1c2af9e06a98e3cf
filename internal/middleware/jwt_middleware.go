package middleware

import (
	"errors"
	"strings"

	"storefront/internal/logging"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UserIDKey is the fiber.Ctx local holding the authenticated user's ID.
const UserIDKey = "user_id"

const (
	msgNoToken      = "Access denied. No token provided."
	msgInvalidToken = "Invalid or expired token."
)

// AuthRequired is a Fiber middleware to check for a valid bearer token.
// A missing or malformed Authorization header is rejected with 401 and a
// token that fails verification with 403.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			return deny(c, fiber.StatusUnauthorized, msgNoToken)
		}

		userID, err := authService.VerifyToken(strings.TrimSpace(parts[1]))
		if err != nil {
			logging.FromContext(c.UserContext()).Debug("token verification failed", "error", err)
			if errors.Is(err, services.ErrMissingToken) {
				return deny(c, fiber.StatusUnauthorized, msgNoToken)
			}
			return deny(c, fiber.StatusForbidden, msgInvalidToken)
		}

		// Store the caller in Fiber context for subsequent handlers
		c.Locals(UserIDKey, userID)
		return c.Next()
	}
}

// UserID returns the authenticated user's ID, or "" outside AuthRequired.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(UserIDKey).(string)
	return id
}

func deny(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"errors":  []string{message},
		"message": message,
		"data":    nil,
	})
}
