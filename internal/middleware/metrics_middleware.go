package middleware

import (
	"errors"

	"catalog/internal/metrics"

	"github.com/gofiber/fiber/v2"
)

// Metrics counts every request by method, matched route pattern and status.
func Metrics(rec *metrics.Recorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				status = fiberErr.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		// Unmatched paths end on the Use route itself, which reports "/".
		route := c.Route().Path
		if status == fiber.StatusNotFound && route == "/" {
			route = "unknown"
		}
		rec.ObserveRequest(c.Method(), route, status)
		return err
	}
}
