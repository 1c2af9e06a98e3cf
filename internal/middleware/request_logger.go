package middleware

import (
	"log/slog"
	"time"

	"storefront/internal/logging"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// RequestLogger attaches a request scoped logger to the user context and logs
// one line per request once the response status is known.
func RequestLogger(base *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		log := base.With(
			"request_id", requestID(c),
			"method", c.Method(),
			"path", c.Path(),
		)
		c.SetUserContext(logging.IntoContext(c.UserContext(), log))

		// Run the error handler here so the logged status is the one sent.
		if chainErr := c.Next(); chainErr != nil {
			if err := c.App().Config().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		attrs := []any{"status", status, "duration", time.Since(start)}
		if userID := UserID(c); userID != "" {
			attrs = append(attrs, "user_id", userID)
		}
		switch {
		case status >= fiber.StatusInternalServerError:
			log.Error("request completed", attrs...)
		case status >= fiber.StatusBadRequest:
			log.Warn("request completed", attrs...)
		default:
			log.Info("request completed", attrs...)
		}
		return nil
	}
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals(requestid.ConfigDefault.ContextKey).(string); ok && id != "" {
		return id
	}
	return c.Get(fiber.HeaderXRequestID)
}
