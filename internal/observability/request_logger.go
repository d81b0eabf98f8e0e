package observability

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"
)

// UnmatchedRoute labels requests that no route handled.
const UnmatchedRoute = "unmatched"

// RouteLabel returns the route template that served c, for use as a metrics
// label. Raw paths are never returned: they alias request buffers fasthttp
// reuses and carry one value per record id.
func RouteLabel(c *fiber.Ctx) string {
	route := c.Route()
	if route == nil || len(route.Handlers) == 0 || route.Path == "" || route.Path == "/" {
		return UnmatchedRoute
	}
	return route.Path
}

// RequestLogger logs one line per request and records it in metrics.
func RequestLogger(logger *zap.Logger, metrics *Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		elapsed := time.Since(start)

		status := c.Response().StatusCode()
		metrics.RecordRequest(RouteLabel(c), c.Method(), status, elapsed)

		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", utils.CopyString(c.Path())),
			zap.Int("status", status),
			zap.Duration("latency", elapsed),
		}
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			fields = append(fields, zap.String("request_id", rid))
		}
		logger.Info("request", fields...)
		return err
	}
}
