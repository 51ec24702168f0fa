// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/danielhkuo/voxpop/achievements"
	"github.com/danielhkuo/voxpop/cliparse"
	"github.com/danielhkuo/voxpop/handlers"
	"github.com/danielhkuo/voxpop/metrics"
	"github.com/danielhkuo/voxpop/middleware"
	"github.com/danielhkuo/voxpop/settlement"
)

func NewRouter(db *sql.DB, cfg cliparse.Config, catalog *achievements.Catalog) *http.ServeMux {
	mux := http.NewServeMux()

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	engine := settlement.NewEngine(db,
		settlement.WithLocation(cfg.Location()),
		settlement.WithMetrics(m),
	)

	// Initialize handlers
	surveyHandler := handlers.NewSurveyHandler(db, cfg)
	votingHandler := handlers.NewVotingHandler(db, cfg, engine)
	resultsHandler := handlers.NewResultsHandler(db, cfg)
	profileHandler := handlers.NewProfileHandler(db, cfg, catalog)

	// handle registers an authenticated route labelled by its pattern
	handle := func(pattern string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, m.Instrument(pattern, middleware.WithLogging(
			middleware.WithAuth(cfg.JWTSecret, middleware.RequireAuth(h)),
		)))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.Handle("GET /metrics", metrics.Handler(reg))

	// Surveys
	handle("POST /surveys", surveyHandler.CreateSurvey)
	handle("GET /surveys/available", surveyHandler.ListAvailable)
	handle("GET /surveys/voted", surveyHandler.ListVoted)
	handle("GET /surveys/finished", surveyHandler.ListFinished)
	handle("GET /surveys/{id}", surveyHandler.GetSurvey)

	// Voting
	handle("POST /surveys/{id}/votes", votingHandler.SubmitVotes)
	handle("GET /surveys/{id}/my-vote", votingHandler.GetMyVote)

	// Results
	handle("GET /surveys/{id}/results", resultsHandler.GetResults)
	handle("GET /surveys/{id}/transactions", resultsHandler.GetTransactions)

	// Caller's own state
	handle("GET /me/gamification", profileHandler.GetGamification)
	handle("GET /me/wallet", profileHandler.GetWallet)
	handle("GET /me/history", profileHandler.GetHistory)

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("voxpop API v1"))
	})

	return mux
}
