// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the VoxPop API server.

VoxPop is a civic survey backend. Users answer targeted surveys once per
question, sponsors fund rewards from a budget, and every accepted submission
settles points, streaks, wallet credit and achievements in one transaction.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=voxpop.db JWT_SECRET=... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." -jwt-secret ...

A .env file in the working directory is loaded first when present.

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite path/DSN or PostgreSQL connection string
  - JWT_SECRET (-jwt-secret): HS256 secret of the identity service

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - APP_TIMEZONE (-tz): zone deciding the streak calendar day (default: UTC)

# Boot

  1. Open the database and create the schema
  2. Seed the achievement catalog
  3. Start the catalog cache
  4. Serve the router behind CORS until SIGINT/SIGTERM, then drain

# Architecture

  - settlement: the vote transaction engine
  - segment: demographic targeting
  - achievements: catalog, evaluator, cached catalog listing
  - results: aggregation, my-vote, sponsor ledger
  - handlers / router / middleware: HTTP surface
  - metrics: Prometheus collectors served on /metrics
  - models, db, auth, cliparse: shared types, storage, tokens, configuration

See package documentation for each component.
*/
package main
