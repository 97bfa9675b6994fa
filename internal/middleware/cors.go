package middleware

import (
	"strings"

	"finance-manager/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// CORSConfig holds the allowed origins. "*" allows any origin.
type CORSConfig struct {
	AllowedOrigins []string
}

func (cfg CORSConfig) allows(origin string) bool {
	for _, o := range cfg.AllowedOrigins {
		if o == "*" || strings.EqualFold(strings.TrimSuffix(o, "/"), origin) {
			return true
		}
	}
	return false
}

// CORS returns a Fiber handler that allows the configured origins and answers
// their preflight requests.
func CORS(cfg CORSConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		origin := c.Get("Origin")
		// No origin (e.g. same-origin or tools): allow
		if origin == "" {
			return c.Next()
		}
		if !cfg.allows(origin) {
			return response.Forbidden(c, "Not allowed by CORS")
		}
		setCORSHeaders(c, origin)
		if c.Method() == fiber.MethodOptions {
			return c.SendStatus(fiber.StatusNoContent)
		}
		return c.Next()
	}
}

func setCORSHeaders(c *fiber.Ctx, origin string) {
	c.Set("Access-Control-Allow-Origin", origin)
	c.Set("Access-Control-Allow-Credentials", "true")
	c.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	c.Set("Access-Control-Allow-Headers", "Content-Type, X-Trace-Id")
	c.Set("Vary", "Origin")
}
