package config

import (
	"fmt"
	"strings"
	"time"

	"finance-manager/internal/infrastructure/quotes"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env            string
	Port           string
	DatabaseURL    string // postgres:// URL or SQLite file/URI
	RedisURL       string // optional; enables the performance cache and traffic stats
	AllowedOrigins []string
	HealthAdminKey string

	QuoteProvider     string             // "yahoo" or "fixture"
	QuoteSymbolSuffix string             // appended to bare tickers, e.g. ".T" for Tokyo
	FixturePrices     map[string]float64 // FIXTURE_PRICES, used by the fixture provider

	PriceRefreshCron    string // cron schedule for price refresh; empty disables it
	PerformanceCacheTTL time.Duration

	LogLevel  string
	LogPretty bool
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DATABASE_URL", "file:finance.db")
	v.SetDefault("ALLOWED_ORIGINS", "*")
	v.SetDefault("QUOTE_PROVIDER", "yahoo")
	v.SetDefault("QUOTE_SYMBOL_SUFFIX", ".T")
	v.SetDefault("PERFORMANCE_CACHE_TTL", "5m")
	v.SetDefault("LOG_LEVEL", "info")

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	fixture, err := quotes.ParseFixture(v.GetString("FIXTURE_PRICES"))
	if err != nil {
		return nil, fmt.Errorf("FIXTURE_PRICES: %w", err)
	}
	ttl, err := time.ParseDuration(v.GetString("PERFORMANCE_CACHE_TTL"))
	if err != nil {
		return nil, fmt.Errorf("PERFORMANCE_CACHE_TTL: %w", err)
	}
	provider := strings.ToLower(strings.TrimSpace(v.GetString("QUOTE_PROVIDER")))
	if provider != "yahoo" && provider != "fixture" {
		return nil, fmt.Errorf("QUOTE_PROVIDER: unknown provider %q", provider)
	}

	return &Config{
		Env:                 v.GetString("APP_ENV"),
		Port:                v.GetString("PORT"),
		DatabaseURL:         v.GetString("DATABASE_URL"),
		RedisURL:            v.GetString("REDIS_URL"),
		AllowedOrigins:      splitList(v.GetString("ALLOWED_ORIGINS")),
		HealthAdminKey:      v.GetString("HEALTH_ADMIN_KEY"),
		QuoteProvider:       provider,
		QuoteSymbolSuffix:   v.GetString("QUOTE_SYMBOL_SUFFIX"),
		FixturePrices:       fixture,
		PriceRefreshCron:    strings.TrimSpace(v.GetString("PRICE_REFRESH_CRON")),
		PerformanceCacheTTL: ttl,
		LogLevel:            v.GetString("LOG_LEVEL"),
		LogPretty:           v.GetBool("LOG_PRETTY"),
	}, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
