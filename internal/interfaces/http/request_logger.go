package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/Retail-api/pkg/logger"
)

const headerRequestID = "X-Request-ID"

// RequestLogger asigna un request id y registra método, ruta, estado, latencia y empresa de cada petición.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		rid := c.Get(headerRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Locals(LocalRequestID, rid)
		c.Set(headerRequestID, rid)

		chainErr := c.Next()
		if chainErr != nil {
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		ev := log.Info()
		if status := c.Response().StatusCode(); status >= fiber.StatusInternalServerError {
			ev = log.Error()
		}
		if sess := GetSession(c); sess != nil {
			ev = ev.Int64("company_id", sess.CompanyID)
		}
		ev.Str("request_id", rid).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode()).
			Dur("latency", time.Since(start)).
			Msg("request")
		return nil
	}
}
