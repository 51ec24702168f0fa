// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/voxpop/cliparse"
	"github.com/danielhkuo/voxpop/middleware"
	"github.com/danielhkuo/voxpop/results"
)

type ResultsHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewResultsHandler(db *sql.DB, cfg cliparse.Config) *ResultsHandler {
	return &ResultsHandler{db: db, cfg: cfg}
}

// GetResults handles GET /surveys/:id/results
// Private surveys answer 403 unless the caller is an admin or the named sponsor.
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.db)
	if !ok {
		return
	}

	res, err := results.Aggregate(r.Context(), h.db, r.PathValue("id"), user)
	if err != nil {
		writeError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, res)
}

// GetTransactions handles GET /surveys/:id/transactions
func (h *ResultsHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.db)
	if !ok {
		return
	}

	ledger, err := results.SponsorLedger(r.Context(), h.db, r.PathValue("id"), user)
	if err != nil {
		writeError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, ledger)
}
