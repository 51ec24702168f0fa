// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"

	"github.com/danielhkuo/voxpop/db"
	"github.com/danielhkuo/voxpop/middleware"
	"github.com/danielhkuo/voxpop/models"
)

var validate = validator.New()

// validationMessage flattens validator errors into one line for the client
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	return strings.Join(lo.Map(verrs, func(fe validator.FieldError, _ int) string {
		return fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag())
	}), "; ")
}

// loadUser reads an account with its demographics
func loadUser(ctx context.Context, q db.Querier, userID string) (models.User, error) {
	var (
		u    models.User
		role string
	)
	err := q.QueryRowContext(ctx, `
		SELECT id, name, email, role, sex, city, occupation, education_level,
		       religion, nationality, marital_status, created_at
		FROM app_user
		WHERE id = $1
	`, userID).Scan(
		&u.ID, &u.Name, &u.Email, &role,
		&u.Demographics.Sex, &u.Demographics.City, &u.Demographics.Occupation,
		&u.Demographics.Education, &u.Demographics.Religion, &u.Demographics.Nationality,
		&u.Demographics.MaritalStatus, &u.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, models.ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to load user: %w", err)
	}

	u.Role, err = models.ParseRole(role)
	if err != nil {
		return models.User{}, fmt.Errorf("user %s: %w", u.ID, err)
	}
	return u, nil
}

// currentUser resolves the bearer subject to an account.
// On failure the response has been written and ok is false.
func currentUser(w http.ResponseWriter, r *http.Request, conn *sql.DB) (models.User, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Valid bearer token required")
		return models.User{}, false
	}

	user, err := loadUser(r.Context(), conn, userID)
	if errors.Is(err, models.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Unknown user")
		return models.User{}, false
	}
	if err != nil {
		slog.Error("failed to load user", "error", err, "user_id", userID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return models.User{}, false
	}
	return user, true
}

// writeError maps domain errors onto status codes
func writeError(w http.ResponseWriter, err error) {
	var dup *models.DuplicateVoteError
	switch {
	case errors.As(err, &dup):
		middleware.JSONResponse(w, http.StatusConflict, models.ErrorResponse{
			Error:      http.StatusText(http.StatusConflict),
			Message:    err.Error(),
			QuestionID: dup.QuestionID,
		})
	case errors.Is(err, models.ErrDuplicateVote):
		middleware.ErrorResponse(w, http.StatusConflict, err.Error())
	case errors.Is(err, models.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrBudgetExhausted):
		middleware.ErrorResponse(w, http.StatusConflict, err.Error())
	case errors.Is(err, models.ErrSurveyClosed):
		middleware.ErrorResponse(w, http.StatusConflict, err.Error())
	case errors.Is(err, models.ErrInvalidOption):
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrForbidden):
		middleware.ErrorResponse(w, http.StatusForbidden, err.Error())
	case errors.Is(err, models.ErrProfileNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, err.Error())
	default:
		slog.Error("request failed", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Internal error")
	}
}
