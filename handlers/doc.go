// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the VoxPop API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - SurveyHandler: survey creation, detail and the three listings
  - VotingHandler: vote submission through the settlement engine, my-vote
  - ResultsHandler: aggregated results and the sponsor ledger
  - ProfileHandler: gamification status, wallet, participation history

Handlers are created via constructor functions that accept *sql.DB and Config:

	surveyHandler := handlers.NewSurveyHandler(db, cfg)
	votingHandler := handlers.NewVotingHandler(db, cfg, engine)

# Authentication

Every handler resolves the bearer subject stored by middleware.WithAuth to an
app_user row. A missing subject or an unknown user answers 401.

# Listings

	GET /surveys/available → open, targeted at the caller, not voted yet
	GET /surveys/voted     → open, targeted at the caller, voted
	GET /surveys/finished  → expired within the last seven days

Voted and finished listings embed results whenever the caller may see them.

# Errors

Domain errors map onto status codes in one place:

	ErrNotFound         404
	ErrInvalidOption    400
	ErrForbidden        403
	ErrDuplicateVote    409 (question_id in the body)
	ErrBudgetExhausted  409
	ErrSurveyClosed     409
	anything else       500
*/
package handlers
