package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port            int
	DatabaseURL     string
	DatabaseType    string
	JWTSecret       string
	Timezone        string
	ShutdownTimeout time.Duration
}

// Location resolves the configured zone; unknown zones fall back to UTC
func (c Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// fallback returns flagVal when set, then the env variable, then def
func fallback(flagVal, env, def string) string {
	if flagVal != "" {
		return flagVal
	}
	if v := os.Getenv(env); v != "" {
		return v
	}
	return def
}

// ParseFlags reads flags first, then env variables, then defaults
func ParseFlags(args []string) (Config, error) {
	var (
		cfg      Config
		port     string
		shutdown string
	)

	fs := flag.NewFlagSet("voxpop", flag.ContinueOnError)

	// Network and storage (CLI or env)
	fs.StringVar(&port, "p", "", "Server port (default 3318)")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type: sqlite or postgres")
	fs.StringVar(&cfg.Timezone, "tz", "", "IANA timezone deciding streak days")
	fs.StringVar(&shutdown, "shutdown", "", "Graceful shutdown timeout (default 10s)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", "", "JWT signing secret (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	var err error
	if cfg.Port, err = strconv.Atoi(fallback(port, "PORT", "3318")); err != nil || cfg.Port <= 0 {
		return Config{}, fmt.Errorf("invalid port %q", fallback(port, "PORT", "3318"))
	}

	cfg.DatabaseURL = fallback(cfg.DatabaseURL, "DATABASE_URL", "")
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	cfg.DatabaseType = fallback(cfg.DatabaseType, "DATABASE_TYPE", "sqlite")
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	cfg.Timezone = fallback(cfg.Timezone, "APP_TIMEZONE", "UTC")
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return Config{}, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(fallback(shutdown, "SHUTDOWN_TIMEOUT", "10s")); err != nil {
		return Config{}, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	// Secrets - MUST be provided
	cfg.JWTSecret = fallback(cfg.JWTSecret, "JWT_SECRET", "")
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET required")
	}

	return cfg, nil
}
