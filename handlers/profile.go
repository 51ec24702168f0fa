// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/voxpop/achievements"
	"github.com/danielhkuo/voxpop/cliparse"
	"github.com/danielhkuo/voxpop/middleware"
	"github.com/danielhkuo/voxpop/models"
)

type ProfileHandler struct {
	db        *sql.DB
	cfg       cliparse.Config
	evaluator *achievements.Evaluator
	catalog   *achievements.Catalog
}

func NewProfileHandler(db *sql.DB, cfg cliparse.Config, catalog *achievements.Catalog) *ProfileHandler {
	return &ProfileHandler{
		db:        db,
		cfg:       cfg,
		evaluator: achievements.NewEvaluator(nil),
		catalog:   catalog,
	}
}

// GetGamification handles GET /me/gamification
// Pending threshold achievements are granted before the status is read.
func (h *ProfileHandler) GetGamification(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.db)
	if !ok {
		return
	}
	ctx := r.Context()

	if _, err := h.evaluator.Evaluate(ctx, h.db, user.ID); err != nil {
		writeError(w, err)
		return
	}

	var resp models.GamificationResponse
	err := h.db.QueryRowContext(ctx, `
		SELECT points, streak_days, level FROM public_profile WHERE user_id = $1
	`, user.ID).Scan(&resp.Points, &resp.StreakDays, &resp.Level)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, models.ErrProfileNotFound)
		return
	}
	if err != nil {
		slog.Error("failed to load profile", "error", err, "user_id", user.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	resp.Achievements, err = achievements.ListGranted(ctx, h.db, user.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	resp.Catalog, err = h.catalog.List(ctx)
	if err != nil {
		writeError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// GetWallet handles GET /me/wallet
func (h *ProfileHandler) GetWallet(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.db)
	if !ok {
		return
	}
	ctx := r.Context()

	var wallet models.Wallet
	err := h.db.QueryRowContext(ctx, `
		SELECT id, user_id, balance, updated_at FROM wallet WHERE user_id = $1
	`, user.ID).Scan(&wallet.ID, &wallet.UserID, &wallet.Balance, &wallet.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Wallet not found")
		return
	}
	if err != nil {
		slog.Error("failed to load wallet", "error", err, "user_id", user.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	rows, err := h.db.QueryContext(ctx, `
		SELECT id, kind, amount, created_at
		FROM wallet_movement
		WHERE wallet_id = $1
		ORDER BY created_at DESC, id
	`, wallet.ID)
	if err != nil {
		slog.Error("failed to query movements", "error", err, "wallet_id", wallet.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	wallet.Movements = []models.WalletMovement{}
	for rows.Next() {
		var m models.WalletMovement
		if err := rows.Scan(&m.ID, &m.Kind, &m.Amount, &m.CreatedAt); err != nil {
			slog.Error("failed to scan movement", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		wallet.Movements = append(wallet.Movements, m)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to iterate movements", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, wallet)
}

// GetHistory handles GET /me/history
func (h *ProfileHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.db)
	if !ok {
		return
	}

	rows, err := h.db.QueryContext(r.Context(), `
		SELECT p.id, p.survey_id, s.title, p.created_at
		FROM participation p
		JOIN survey s ON s.id = p.survey_id
		WHERE p.user_id = $1
		ORDER BY p.created_at DESC, p.id
	`, user.ID)
	if err != nil {
		slog.Error("failed to query history", "error", err, "user_id", user.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	history := []models.Participation{}
	for rows.Next() {
		var p models.Participation
		if err := rows.Scan(&p.ID, &p.SurveyID, &p.SurveyTitle, &p.CreatedAt); err != nil {
			slog.Error("failed to scan participation", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		history = append(history, p)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to iterate history", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.HistoryResponse{
		UserID:  user.ID,
		History: history,
	})
}
