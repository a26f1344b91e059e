package http

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

type ctxKey string

const requestIDKey ctxKey = "request_id"

// RequestIDLogMiddleware copies the Fiber request ID into the context and
// stores a request-scoped *slog.Logger so downstream code logs with the
// request ID baked in.
func RequestIDLogMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Locals("requestid")
		if rid == nil {
			return c.Next()
		}

		ridStr, ok := rid.(string)
		if !ok || ridStr == "" {
			return c.Next()
		}

		reqLogger := slog.Default().With("request_id", ridStr)

		ctx := context.WithValue(c.UserContext(), requestIDKey, ridStr)
		ctx = context.WithValue(ctx, ctxKey("logger"), reqLogger)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// LoggerFromCtx extracts the per-request slog.Logger from a context.
// Falls back to the default logger if none is set.
func LoggerFromCtx(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey("logger")).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}
