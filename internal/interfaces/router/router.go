package router

import (
	"fmt"
	"net/http"
	"time"

	assetsvc "finance-manager/internal/application/assets"
	perfsvc "finance-manager/internal/application/performance"
	pricesvc "finance-manager/internal/application/prices"
	"finance-manager/internal/config"
	"finance-manager/internal/infrastructure/cache"
	"finance-manager/internal/infrastructure/database"
	"finance-manager/internal/infrastructure/quotes"
	assethandler "finance-manager/internal/interfaces/handlers/assets"
	healthhandler "finance-manager/internal/interfaces/handlers/health"
	perfhandler "finance-manager/internal/interfaces/handlers/performance"
	pricehandler "finance-manager/internal/interfaces/handlers/prices"
	"finance-manager/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps are the resources the app runs on. Redis is optional.
type Deps struct {
	DB       *gorm.DB
	Redis    *redis.Client
	Provider quotes.Provider
	Now      func() time.Time

	// Set by New; the scheduler shares it with the HTTP handlers.
	Prices *pricesvc.Service
}

// CreateApp opens the database (migrating it), the optional Redis and the
// quote provider named in cfg, then builds the app on them.
func CreateApp(cfg *config.Config) (*fiber.App, *Deps, error) {
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, nil, fmt.Errorf("migrate database: %w", err)
	}
	rdb, err := cache.Open(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("open redis: %w", err)
	}
	provider, err := quotes.New(cfg.QuoteProvider, cfg.FixturePrices)
	if err != nil {
		return nil, nil, err
	}

	deps := &Deps{DB: db, Redis: rdb, Provider: provider}
	return New(cfg, deps), deps, nil
}

// New registers middleware and routes on a new app.
func New(cfg *config.Config, deps *Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.NewErrorHandler(deps.Redis),
		EnableTrustedProxyCheck: true,
	})

	app.Use(middleware.Tracing())
	app.Use(middleware.CORS(middleware.CORSConfig{AllowedOrigins: cfg.AllowedOrigins}))
	app.Use(middleware.HealthMarker(deps.Redis))
	app.Use(middleware.RouteLogger())

	hh := &healthhandler.Handlers{
		Rdb:            deps.Redis,
		HealthAdminKey: cfg.HealthAdminKey,
	}
	if sqlDB, err := deps.DB.DB(); err == nil {
		hh.DB = sqlDB
	}
	app.Get("/", hh.Welcome)
	app.Get("/reset", hh.Reset)
	app.Get("/health/json", hh.JSON)
	app.Get("/health/errors", hh.Errors)

	perfCache := &cache.Performance{Rdb: deps.Redis, TTL: cfg.PerformanceCacheTTL}

	// Assets
	as := &assetsvc.Service{DB: deps.DB, Cache: perfCache, Now: deps.Now}
	ah := &assethandler.Handlers{Service: as}
	ag := app.Group("/api/assets")
	ag.Get("/", ah.List)
	ag.Post("/", ah.Create)
	ag.Get("/:id", ah.Get)
	ag.Put("/:id", ah.Update)
	ag.Delete("/:id", ah.Delete)

	// Prices
	deps.Prices = &pricesvc.Service{
		DB:           deps.DB,
		Provider:     deps.Provider,
		Cache:        perfCache,
		SymbolSuffix: cfg.QuoteSymbolSuffix,
		Now:          deps.Now,
	}
	ph := &pricehandler.Handlers{Service: deps.Prices}
	app.Post("/api/prices/update", ph.Update)

	// Performance
	ps := &perfsvc.Service{DB: deps.DB, Cache: perfCache}
	pfh := &perfhandler.Handlers{Service: ps}
	app.Get("/api/performance", pfh.Get)

	return app
}

func Handler(app *fiber.App) http.Handler {
	return adaptor.FiberApp(app)
}
