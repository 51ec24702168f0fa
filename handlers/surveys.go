// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/danielhkuo/voxpop/auth"
	"github.com/danielhkuo/voxpop/cliparse"
	"github.com/danielhkuo/voxpop/middleware"
	"github.com/danielhkuo/voxpop/models"
	"github.com/danielhkuo/voxpop/results"
	"github.com/danielhkuo/voxpop/segment"
)

// FinishedWindow is how long an expired survey stays in the finished listing
const FinishedWindow = 7 * 24 * time.Hour

type SurveyHandler struct {
	db  *sql.DB
	cfg cliparse.Config
	now func() time.Time
}

func NewSurveyHandler(db *sql.DB, cfg cliparse.Config) *SurveyHandler {
	return &SurveyHandler{db: db, cfg: cfg, now: time.Now}
}

// CreateSurvey handles POST /surveys
func (h *SurveyHandler) CreateSurvey(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.db)
	if !ok {
		return
	}
	if !user.Role.CanCreateSurveys() {
		middleware.ErrorResponse(w, http.StatusForbidden, "Only sponsors and admins can create surveys")
		return
	}

	var req models.CreateSurveyRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if err := validate.Struct(req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	now := h.now().UTC()

	// Rewards
	if req.Sponsored && req.RewardMoney <= 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "sponsored surveys need reward_money > 0")
		return
	}
	if !req.Sponsored && (req.RewardMoney > 0 || req.Budget > 0) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "reward_money and budget require a sponsored survey")
		return
	}
	if req.ExpiresAt != nil && !req.ExpiresAt.After(now) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "expires_at must be in the future")
		return
	}

	seg := models.Segmentation{}
	for dim, values := range req.Segmentation {
		if !models.ValidDimension(dim) {
			middleware.ErrorResponse(w, http.StatusBadRequest, "unknown segmentation dimension: "+string(dim))
			return
		}
		values = lo.Compact(lo.Map(values, func(v string, _ int) string { return strings.TrimSpace(v) }))
		if len(values) > 0 {
			seg[dim] = values
		}
	}

	survey := models.Survey{
		ID:           auth.NewID(),
		Title:        req.Title,
		Description:  req.Description,
		Segmentation: seg,
		Sponsored:    req.Sponsored,
		RewardPoints: req.RewardPoints,
		RewardMoney:  req.RewardMoney,
		Budget:       req.Budget,
		Visibility:   req.Visibility,
		CreatedAt:    now,
	}
	if req.ExpiresAt != nil {
		e := req.ExpiresAt.UTC()
		survey.ExpiresAt = &e
	}
	if survey.Visibility == "" {
		survey.Visibility = models.VisibilityPublic
	}
	if survey.Sponsored {
		survey.SponsorName = req.SponsorName
		if survey.SponsorName == "" || user.Role.IsSponsor() {
			// Sponsors always fund under their own name
			survey.SponsorName = user.Name
		}
	}

	tx, err := h.db.BeginTx(r.Context(), nil)
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	if err := insertSurvey(r.Context(), tx, &survey, req); err != nil {
		slog.Error("failed to create survey", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create survey")
		return
	}
	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit survey", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create survey")
		return
	}

	slog.Info("survey created",
		"survey_id", survey.ID,
		"creator", user.ID,
		"sponsored", survey.Sponsored,
		"budget", survey.Budget,
	)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateSurveyResponse{
		SurveyID: survey.ID,
		Survey:   survey,
	})
}

// GetSurvey handles GET /surveys/:id
func (h *SurveyHandler) GetSurvey(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.db)
	if !ok {
		return
	}

	survey, err := loadSurvey(r.Context(), h.db, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	// Voters only see surveys aimed at them
	if user.Role.CanVote() && !segment.Eligible(survey.Segmentation, user.Demographics) {
		middleware.ErrorResponse(w, http.StatusForbidden, "Survey is not targeted at this user")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.SurveySummary{
		Survey:           survey,
		SecondsRemaining: survey.SecondsRemaining(h.now()),
	})
}

// ListAvailable handles GET /surveys/available: open, eligible, not voted yet
func (h *SurveyHandler) ListAvailable(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, func(s models.Survey, voted bool, now time.Time) bool {
		return !s.Expired(now) && !voted
	}, false)
}

// ListVoted handles GET /surveys/voted: open, eligible, already voted
func (h *SurveyHandler) ListVoted(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, func(s models.Survey, voted bool, now time.Time) bool {
		return !s.Expired(now) && voted
	}, true)
}

// ListFinished handles GET /surveys/finished: expired within FinishedWindow
func (h *SurveyHandler) ListFinished(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, func(s models.Survey, _ bool, now time.Time) bool {
		return s.Expired(now) && now.Sub(*s.ExpiresAt) <= FinishedWindow
	}, true)
}

func (h *SurveyHandler) list(w http.ResponseWriter, r *http.Request, keep func(models.Survey, bool, time.Time) bool, withResults bool) {
	user, ok := currentUser(w, r, h.db)
	if !ok {
		return
	}
	ctx := r.Context()
	now := h.now()

	all, err := loadAllSurveys(ctx, h.db)
	if err != nil {
		slog.Error("failed to list surveys", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	voted, err := votedSurveyIDs(ctx, h.db, user.ID)
	if err != nil {
		slog.Error("failed to list votes", "error", err, "user_id", user.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	selected := lo.Filter(segment.Filter(all, user), func(s models.Survey, _ int) bool {
		return keep(s, voted[s.ID], now)
	})

	summaries := make([]models.SurveySummary, 0, len(selected))
	for _, s := range selected {
		summary := models.SurveySummary{
			Survey:           s,
			SecondsRemaining: s.SecondsRemaining(now),
		}
		if withResults && results.CanView(s, user) {
			res, err := results.Aggregate(ctx, h.db, s.ID, user)
			if err != nil {
				slog.Error("failed to aggregate results", "error", err, "survey_id", s.ID)
				middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
				return
			}
			summary.Results = &res
		}
		summaries = append(summaries, summary)
	}

	middleware.JSONResponse(w, http.StatusOK, models.SurveyListResponse{Surveys: summaries})
}
