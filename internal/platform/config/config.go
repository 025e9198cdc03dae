package config

import (
	"log"
	"strings"
	"time"

	"github.com/featuringmyself/ledgy/internal/core/domain"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL     string
	Port            string
	IsProduction    bool
	EnableDBCheck   bool
	JWTSecret       string
	JWTIssuer       string
	DefaultCurrency string

	// Rate provider
	ExchangeRateAPIKey   string
	ExchangeRateAPIV4URL string
	ExchangeRateAPIV6URL string
	RatesHTTPTimeout     time.Duration

	// Refresh runs
	RatesBaseCurrencies []string
	RatesRefreshDelay   time.Duration
	RatesRefreshLimit   string // ulule formatted rate, e.g. "5-M"
	CronKeyHash         string // bcrypt hash of the scheduler key
	RatesLockTTL        time.Duration

	// Optional infrastructure; empty disables it.
	RedisURL        string
	KafkaBrokers    []string
	KafkaRatesTopic string
	PosthogAPIKey   string
	PosthogEndpoint string

	CORSAllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("JWT_ISSUER", "")
	viper.SetDefault("DEFAULT_CURRENCY", domain.DefaultCurrencyCode)
	viper.SetDefault("EXCHANGE_RATE_API_KEY", "")
	viper.SetDefault("EXCHANGE_RATE_API_V4_URL", "https://api.exchangerate-api.com/v4")
	viper.SetDefault("EXCHANGE_RATE_API_V6_URL", "https://v6.exchangerate-api.com/v6")
	viper.SetDefault("RATES_HTTP_TIMEOUT", "10s")
	viper.SetDefault("RATES_BASE_CURRENCIES", "INR,USD,EUR,GBP")
	viper.SetDefault("RATES_REFRESH_DELAY", "1s")
	viper.SetDefault("RATES_REFRESH_LIMIT", "5-M")
	viper.SetDefault("CRON_KEY_HASH", "")
	viper.SetDefault("RATES_LOCK_TTL", "10m")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("KAFKA_BROKERS", "")
	viper.SetDefault("KAFKA_RATES_TOPIC", "exchange-rates.refreshed")
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("POSTHOG_ENDPOINT", "https://eu.i.posthog.com")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		log.Println("Warning: JWT_SECRET environment variable not set. Authenticated routes will reject every request.")
	}
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.DefaultCurrency = strings.ToUpper(viper.GetString("DEFAULT_CURRENCY"))
	if !domain.IsSupportedCurrency(cfg.DefaultCurrency) {
		log.Printf("Warning: DEFAULT_CURRENCY %q is not supported. Defaulting to %s.\n", cfg.DefaultCurrency, domain.DefaultCurrencyCode)
		cfg.DefaultCurrency = domain.DefaultCurrencyCode
	}

	cfg.ExchangeRateAPIKey = viper.GetString("EXCHANGE_RATE_API_KEY")
	if cfg.ExchangeRateAPIKey == "" {
		log.Println("Warning: EXCHANGE_RATE_API_KEY not set. Using the keyless v4 endpoint.")
	}
	cfg.ExchangeRateAPIV4URL = strings.TrimRight(viper.GetString("EXCHANGE_RATE_API_V4_URL"), "/")
	cfg.ExchangeRateAPIV6URL = strings.TrimRight(viper.GetString("EXCHANGE_RATE_API_V6_URL"), "/")
	cfg.RatesHTTPTimeout = durationOrDefault("RATES_HTTP_TIMEOUT", 10*time.Second)

	cfg.RatesBaseCurrencies = splitList(viper.GetString("RATES_BASE_CURRENCIES"), true)
	cfg.RatesRefreshDelay = durationOrDefault("RATES_REFRESH_DELAY", time.Second)
	cfg.RatesRefreshLimit = viper.GetString("RATES_REFRESH_LIMIT")
	cfg.CronKeyHash = viper.GetString("CRON_KEY_HASH")
	if cfg.CronKeyHash == "" {
		log.Println("Warning: CRON_KEY_HASH not set. The cron endpoint will reject every request.")
	}
	cfg.RatesLockTTL = durationOrDefault("RATES_LOCK_TTL", 10*time.Minute)

	cfg.RedisURL = viper.GetString("REDIS_URL")
	cfg.KafkaBrokers = splitList(viper.GetString("KAFKA_BROKERS"), false)
	cfg.KafkaRatesTopic = viper.GetString("KAFKA_RATES_TOPIC")
	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")
	cfg.PosthogEndpoint = viper.GetString("POSTHOG_ENDPOINT")
	cfg.CORSAllowedOrigins = splitList(viper.GetString("CORS_ALLOWED_ORIGINS"), false)

	return cfg, nil
}

func durationOrDefault(key string, def time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, def.String())
		}
		return def
	}
	return d
}

func splitList(raw string, upper bool) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if upper {
			part = strings.ToUpper(part)
		}
		out = append(out, part)
	}
	return out
}
