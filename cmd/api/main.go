package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"finance-manager/internal/application/scheduler"
	"finance-manager/internal/config"
	"finance-manager/internal/interfaces/router"
	"finance-manager/internal/pkg/logger"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load")
	}
	l := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	app, deps, err := router.CreateApp(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("app create")
	}

	// Verify connections before serving
	sqlDB, err := deps.DB.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("database handle")
	}
	if err := sqlDB.Ping(); err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	log.Info().Msg("Database connected")
	if deps.Redis != nil {
		if err := deps.Redis.Ping(context.Background()).Err(); err != nil {
			log.Fatal().Err(err).Msg("redis connection failed")
		}
		log.Info().Msg("Redis connected")
	} else {
		log.Info().Msg("REDIS_URL not set, performance cache and traffic stats disabled")
	}

	var sched *scheduler.Scheduler
	if cfg.PriceRefreshCron != "" {
		sched = scheduler.New(l)
		job := scheduler.NewPriceRefreshJob(l, deps.Prices, scheduler.DefaultRefreshTimeout)
		if err := sched.AddJob(cfg.PriceRefreshCron, job); err != nil {
			log.Fatal().Err(err).Str("schedule", cfg.PriceRefreshCron).Msg("invalid PRICE_REFRESH_CRON")
		}
		sched.Start()
	}

	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("env", cfg.Env).
			Str("quote_provider", cfg.QuoteProvider).
			Msg("Server running")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down")
	if sched != nil {
		sched.Stop()
	}
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
	if deps.Redis != nil {
		_ = deps.Redis.Close()
	}
	_ = sqlDB.Close()
}
