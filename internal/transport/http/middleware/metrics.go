package middleware

import (
	"time"

	"github.com/followup/backend/internal/infrastructure/metrics"
	"github.com/gofiber/fiber/v2"
)

// Metrics records request count and latency per route pattern, so ids in
// paths never become label values.
func Metrics(m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		route := "unmatched"
		if r := c.Route(); r != nil && r.Path != "" && r.Path != "/" {
			route = r.Path
		}
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		m.ObserveRequest(c.Method(), route, status, time.Since(start).Seconds())
		return err
	}
}
