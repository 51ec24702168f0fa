// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

main loads an optional .env file with godotenv before calling ParseFlags, so
values from it behave like ordinary environment variables.

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: connection string (required)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - JWTSecret: HS256 secret shared with the identity service (required)
  - Timezone: IANA zone that decides the calendar day for streaks (default: UTC)
  - ShutdownTimeout: grace period for in-flight requests on SIGINT/SIGTERM (default: 10s)

# CLI Flags

	-p           Server port
	-d           Database URL
	-t           Database type
	-tz          Timezone
	-shutdown    Shutdown timeout (Go duration)
	-jwt-secret  JWT signing secret

# Environment Variables

Flags fall back to environment variables:

	PORT          → -p
	DATABASE_URL  → -d
	DATABASE_TYPE → -t
	APP_TIMEZONE     → -tz
	SHUTDOWN_TIMEOUT → -shutdown
	JWT_SECRET    → -jwt-secret

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if:

  - DATABASE_URL is missing
  - JWT_SECRET is missing
  - the database type is not sqlite or postgres
  - the port or shutdown timeout does not parse
  - the timezone cannot be loaded

# Example

	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	conn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)
	// ...
	mux := router.NewRouter(conn, cfg, catalog)
*/
package cliparse
