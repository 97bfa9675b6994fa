package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"finance-manager/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// errorLogSize bounds the recent error list kept for /health/errors.
const errorLogSize = 50

// NewErrorHandler returns the global error handler. It answers with the
// standard error format; server errors are logged and, when rdb is set,
// pushed onto the recent error list.
func NewErrorHandler(rdb *redis.Client) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal Server Error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		}

		if code >= fiber.StatusInternalServerError {
			log.Error().Err(err).
				Str("trace_id", GetTraceID(c)).
				Str("method", c.Method()).
				Str("path", c.Path()).
				Msg("Request failed")
			recordError(rdb, c, err)
		}
		return response.Error(c, message, code, nil)
	}
}

func recordError(rdb *redis.Client, c *fiber.Ctx, err error) {
	if rdb == nil {
		return
	}
	entry, _ := json.Marshal(map[string]interface{}{
		"time":     time.Now().UTC(),
		"method":   c.Method(),
		"path":     c.OriginalURL(),
		"trace_id": GetTraceID(c),
		"error":    err.Error(),
	})
	ctx := context.Background()
	pipe := rdb.Pipeline()
	pipe.LPush(ctx, KeyErrorLog, entry)
	pipe.LTrim(ctx, KeyErrorLog, 0, errorLogSize-1)
	_, _ = pipe.Exec(ctx)
}
