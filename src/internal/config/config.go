package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/api-sage/brokerage-ledger/src/internal/domain"
)

const defaultConnectionString = "Host=localhost;Port=5432;Database=brokerage_ledger_db;Username=postgres;Password=postgres;Timeout=30;CommandTimeout=30"
const defaultHTTPAddr = ":8080"
const defaultCurrency = "USD"

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type Config struct {
	DatabaseDSN           string
	MigrationsDir         string
	HTTPAddr              string
	StoreDriver           string
	Currency              string
	PriceTolerancePercent decimal.Decimal
	AdminEmail            string
	AdminPassword         string
	LogLevel              string
	QuotePrices           string
	QuoteFallbackPrice    decimal.Decimal
}

// Load reads the environment, after merging an optional .env file from the
// working directory. Variables already set in the process win over the file.
func Load() (Config, error) {
	_ = godotenv.Load()

	conn := envOr("DATABASE_DSN", defaultConnectionString)

	driver := strings.ToLower(envOr("STORE_DRIVER", StoreDriverPostgres))
	if driver != StoreDriverPostgres && driver != StoreDriverMemory {
		return Config{}, fmt.Errorf("STORE_DRIVER must be %q or %q", StoreDriverPostgres, StoreDriverMemory)
	}

	currency := strings.ToUpper(envOr("LEDGER_CURRENCY", defaultCurrency))
	if _, err := domain.NewCurrency(currency); err != nil {
		return Config{}, fmt.Errorf("LEDGER_CURRENCY: %w", err)
	}

	tolerance := decimal.Zero
	if raw := strings.TrimSpace(os.Getenv("PRICE_TOLERANCE_PERCENT")); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil {
			return Config{}, fmt.Errorf("PRICE_TOLERANCE_PERCENT must be numeric: %w", err)
		}
		if parsed.IsNegative() {
			return Config{}, fmt.Errorf("PRICE_TOLERANCE_PERCENT cannot be negative")
		}
		tolerance = parsed
	}

	fallback := decimal.Zero
	if raw := strings.TrimSpace(os.Getenv("QUOTE_FALLBACK_PRICE")); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil || !parsed.IsPositive() {
			return Config{}, fmt.Errorf("QUOTE_FALLBACK_PRICE must be a positive number")
		}
		fallback = parsed
	}

	return Config{
		DatabaseDSN:           normalizeConnectionString(conn),
		MigrationsDir:         envOr("MIGRATIONS_DIR", filepath.Join("src", "migrations")),
		HTTPAddr:              envOr("HTTP_ADDR", defaultHTTPAddr),
		StoreDriver:           driver,
		Currency:              currency,
		PriceTolerancePercent: tolerance,
		AdminEmail:            strings.TrimSpace(os.Getenv("ADMIN_EMAIL")),
		AdminPassword:         os.Getenv("ADMIN_PASSWORD"),
		LogLevel:              envOr("LOG_LEVEL", "info"),
		QuotePrices:           strings.TrimSpace(os.Getenv("QUOTE_PRICES")),
		QuoteFallbackPrice:    fallback,
	}, nil
}

func envOr(key string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func normalizeConnectionString(raw string) string {
	if strings.HasPrefix(raw, "postgres://") || strings.HasPrefix(raw, "postgresql://") {
		return raw
	}

	parts := strings.Split(raw, ";")
	out := make([]string, 0, len(parts))
	hasSSLMode := false

	for _, part := range parts {
		p := strings.TrimSpace(part)
		if p == "" {
			continue
		}

		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			continue
		}

		key := strings.ToLower(strings.TrimSpace(kv[0]))
		val := strings.TrimSpace(kv[1])

		switch key {
		case "host":
			out = append(out, "host="+val)
		case "port":
			out = append(out, "port="+val)
		case "database":
			out = append(out, "dbname="+val)
		case "username":
			out = append(out, "user="+val)
		case "password":
			out = append(out, "password="+val)
		case "timeout", "connect timeout":
			out = append(out, "connect_timeout="+val)
		case "commandtimeout", "command timeout":
			out = append(out, "statement_timeout="+val+"s")
		case "sslmode":
			hasSSLMode = true
			out = append(out, "sslmode="+val)
		default:
			out = append(out, key+"="+val)
		}
	}

	if len(out) == 0 {
		return raw
	}

	if !hasSSLMode {
		out = append(out, "sslmode=disable")
	}

	return strings.Join(out, " ")
}
