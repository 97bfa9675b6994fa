package bootstrap

import (
	"finance-manager/internal/config"
	"finance-manager/internal/interfaces/router"
	"finance-manager/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// New creates the Fiber app for serverless hosting (the api handler imports
// this package, not internal). No scheduler runs there.
func New() (*fiber.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
	app, _, err := router.CreateApp(cfg)
	return app, err
}
