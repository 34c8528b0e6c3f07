package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds service configuration.
type Config struct {
	ServerAddr  string
	DatabaseURL string
	CORSOrigins []string

	PaymentEnabled bool
	PaymentAddress string
	PaymentNetwork string
	FacilitatorURL string

	SessionPrice    string
	SessionDuration time.Duration
	SweepInterval   time.Duration

	RobotTimeout time.Duration
}

// Load reads configuration from environment.
func Load() (*Config, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		user := getenv("POSTGRES_USER", "yakrover")
		pass := getenv("POSTGRES_PASSWORD", "yakrover_pass")
		db := getenv("POSTGRES_DB", "yakrover")
		host := getenv("POSTGRES_HOST", "localhost")
		port := getenv("POSTGRES_PORT", "5432")
		sslmode := getenv("DATABASE_SSLMODE", "disable")
		dsn = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", user, pass, host, port, db, sslmode)
	}

	cfg := &Config{
		ServerAddr:      getenv("SERVER_ADDR", "0.0.0.0:8000"),
		DatabaseURL:     dsn,
		CORSOrigins:     splitCSV(getenv("CORS_ORIGINS", "http://localhost:5173")),
		PaymentEnabled:  parseBool(getenv("PAYMENT_ENABLED", "false"), false),
		PaymentAddress:  getenv("PAYMENT_ADDRESS", ""),
		PaymentNetwork:  getenv("X402_NETWORK", "base-sepolia"),
		FacilitatorURL:  getenv("X402_FACILITATOR_URL", "https://x402.org/facilitator"),
		SessionPrice:    getenv("SESSION_PRICE", "$0.10"),
		SessionDuration: parseDuration(getenv("SESSION_DURATION", "10m"), 10*time.Minute),
		SweepInterval:   parseDuration(getenv("SWEEP_INTERVAL", "30s"), 30*time.Second),
		RobotTimeout:    parseDuration(getenv("ROBOT_TIMEOUT", "5s"), 5*time.Second),
	}

	if cfg.PaymentEnabled && cfg.PaymentAddress == "" {
		return nil, fmt.Errorf("PAYMENT_ENABLED=true requires PAYMENT_ADDRESS")
	}

	return cfg, nil
}

func getenv(key, def string) string {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	return val
}

func parseDuration(val string, def time.Duration) time.Duration {
	if val == "" {
		return def
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return def
	}
	return d
}

func parseBool(val string, def bool) bool {
	if val == "" {
		return def
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return def
	}
	return b
}

func splitCSV(val string) []string {
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
