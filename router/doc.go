// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the VoxPop API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg, catalog)

The caller owns the achievement catalog and closes it on shutdown.

# Endpoints

Public:

	GET /health  - Liveness
	GET /metrics - Prometheus exposition
	GET /        - Banner

Surveys (bearer token required):

	POST /surveys                      - Create survey (sponsor, admin)
	GET  /surveys/available            - Open, targeted, not voted
	GET  /surveys/voted                - Open, targeted, voted, with results
	GET  /surveys/finished             - Expired in the last 7 days, with results
	GET  /surveys/{id}                 - Survey with questions and options
	POST /surveys/{id}/votes           - Submit votes
	GET  /surveys/{id}/my-vote         - Caller's answers
	GET  /surveys/{id}/results         - Aggregated results
	GET  /surveys/{id}/transactions    - Sponsor ledger

Caller state (bearer token required):

	GET /me/gamification - Points, streak, level, achievements
	GET /me/wallet       - Balance and movements
	GET /me/history      - Participations

# Middleware Chain

Authenticated routes are wrapped, outermost first, in:

	metrics.Instrument → middleware.WithLogging → middleware.WithAuth → middleware.RequireAuth

Request metrics are labelled by route pattern, never by raw path.
*/
package router
