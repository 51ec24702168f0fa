// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/voxpop/cliparse"
	"github.com/danielhkuo/voxpop/middleware"
	"github.com/danielhkuo/voxpop/models"
	"github.com/danielhkuo/voxpop/results"
	"github.com/danielhkuo/voxpop/settlement"
)

type VotingHandler struct {
	db     *sql.DB
	cfg    cliparse.Config
	engine *settlement.Engine
}

func NewVotingHandler(db *sql.DB, cfg cliparse.Config, engine *settlement.Engine) *VotingHandler {
	return &VotingHandler{db: db, cfg: cfg, engine: engine}
}

// SubmitVotes handles POST /surveys/:id/votes
// All answers are settled together or not at all.
func (h *VotingHandler) SubmitVotes(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.db)
	if !ok {
		return
	}

	var req models.SubmitVotesRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if err := validate.Struct(req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	res, err := h.engine.SubmitVotes(r.Context(), r.PathValue("id"), user, req.Answers)
	if err != nil {
		writeError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.SubmitVotesResponse{
		Message:    "Votes recorded",
		Settlement: res,
	})
}

// GetMyVote handles GET /surveys/:id/my-vote
func (h *VotingHandler) GetMyVote(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.db)
	if !ok {
		return
	}

	mine, err := results.MyVote(r.Context(), h.db, r.PathValue("id"), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, mine)
}
