// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package settlement

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/danielhkuo/voxpop/achievements"
	"github.com/danielhkuo/voxpop/auth"
	"github.com/danielhkuo/voxpop/db"
	"github.com/danielhkuo/voxpop/metrics"
	"github.com/danielhkuo/voxpop/models"
)

const dateLayout = "2006-01-02"

// Engine settles vote submissions
type Engine struct {
	db        *sql.DB
	now       func() time.Time
	loc       *time.Location
	evaluator *achievements.Evaluator
	metrics   *metrics.Metrics
}

type Option func(*Engine)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLocation sets the zone that decides the calendar day for streaks
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

func NewEngine(conn *sql.DB, opts ...Option) *Engine {
	e := &Engine{
		db:  conn,
		now: time.Now,
		loc: time.UTC,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.evaluator = achievements.NewEvaluator(e.now)
	return e
}

// surveyTerms is the part of a survey settlement needs
type surveyTerms struct {
	ID           string
	Title        string
	ExpiresAt    *time.Time
	Sponsored    bool
	RewardPoints int64
	RewardMoney  int64
	Budget       int64
}

// SubmitVotes records the user's answers and applies every reward effect in
// one transaction. Nothing is written unless all answers are accepted.
func (e *Engine) SubmitVotes(ctx context.Context, surveyID string, user models.User, answers []models.Answer) (result models.SettlementResult, err error) {
	start := time.Now()
	defer func() {
		e.metrics.ObserveSettlement(err, time.Since(start))
	}()

	if !user.Role.CanVote() {
		return models.SettlementResult{}, fmt.Errorf("%w: role %s cannot vote", models.ErrForbidden, user.Role)
	}

	now := e.now().UTC()

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return models.SettlementResult{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	survey, err := loadTerms(ctx, tx, surveyID)
	if err != nil {
		return models.SettlementResult{}, err
	}

	if survey.ExpiresAt != nil && !now.Before(*survey.ExpiresAt) {
		return models.SettlementResult{}, models.ErrSurveyClosed
	}
	if survey.Sponsored && survey.Budget <= 0 {
		return models.SettlementResult{}, models.ErrBudgetExhausted
	}

	if err := validateAnswers(ctx, tx, surveyID, answers); err != nil {
		return models.SettlementResult{}, err
	}
	if err := checkExistingVotes(ctx, tx, surveyID, user.ID, answers); err != nil {
		return models.SettlementResult{}, err
	}

	remaining, err := claimBudget(ctx, tx, survey)
	if err != nil {
		return models.SettlementResult{}, err
	}

	for _, a := range answers {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO vote (id, survey_id, question_id, option_id, user_id, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, auth.NewID(), surveyID, a.QuestionID, a.OptionID, user.ID, now)
		if db.IsUniqueViolation(err) {
			return models.SettlementResult{}, &models.DuplicateVoteError{QuestionID: a.QuestionID}
		}
		if err != nil {
			return models.SettlementResult{}, fmt.Errorf("failed to insert vote: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO participation (id, user_id, survey_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, survey_id) DO NOTHING
	`, auth.NewID(), user.ID, surveyID, now)
	if err != nil {
		return models.SettlementResult{}, fmt.Errorf("failed to record participation: %w", err)
	}

	balance, err := creditWallet(ctx, tx, user.ID, survey.RewardMoney, now)
	if err != nil {
		return models.SettlementResult{}, err
	}

	if survey.Sponsored {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO sponsor_transaction (id, survey_id, user_id, money, points, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, auth.NewID(), surveyID, user.ID, survey.RewardMoney, survey.RewardPoints, now)
		if err != nil {
			return models.SettlementResult{}, fmt.Errorf("failed to record sponsor transaction: %w", err)
		}
	}

	result = models.SettlementResult{
		SurveyID:        surveyID,
		RemainingBudget: remaining,
		WalletBalance:   balance,
		NewAchievements: []models.Achievement{},
	}

	result.Points, result.Level, result.StreakDays, err = e.updateProfile(ctx, tx, user.ID, survey.RewardPoints, now)
	if err != nil {
		return models.SettlementResult{}, err
	}

	if survey.Sponsored {
		granted, err := e.evaluator.Grant(ctx, tx, user.ID, achievements.CodeSponsoredSurvey)
		if err != nil {
			return models.SettlementResult{}, err
		}
		if granted {
			def, _ := achievements.Lookup(achievements.CodeSponsoredSurvey)
			result.NewAchievements = append(result.NewAchievements, def.Achievement())
		}
	}

	granted, err := e.evaluator.Evaluate(ctx, tx, user.ID)
	if err != nil {
		return models.SettlementResult{}, err
	}
	result.NewAchievements = append(result.NewAchievements, granted...)

	if err := tx.Commit(); err != nil {
		return models.SettlementResult{}, fmt.Errorf("failed to commit settlement: %w", err)
	}

	e.metrics.AddPayout(survey.RewardMoney, survey.RewardPoints, len(result.NewAchievements))
	slog.Info("votes settled",
		"survey_id", surveyID,
		"user_id", user.ID,
		"answers", len(answers),
		"remaining_budget", remaining,
		"points", result.Points,
		"streak_days", result.StreakDays,
		"new_achievements", len(result.NewAchievements),
	)

	return result, nil
}

func loadTerms(ctx context.Context, q db.Querier, surveyID string) (surveyTerms, error) {
	var s surveyTerms
	var expiresAt sql.NullTime
	err := q.QueryRowContext(ctx, `
		SELECT id, title, expires_at, sponsored, reward_points, reward_money, budget
		FROM survey WHERE id = $1
	`, surveyID).Scan(&s.ID, &s.Title, &expiresAt, &s.Sponsored, &s.RewardPoints, &s.RewardMoney, &s.Budget)
	if errors.Is(err, sql.ErrNoRows) {
		return surveyTerms{}, models.ErrNotFound
	}
	if err != nil {
		return surveyTerms{}, fmt.Errorf("failed to load survey: %w", err)
	}
	if expiresAt.Valid {
		t := expiresAt.Time
		s.ExpiresAt = &t
	}
	return s, nil
}

// validateAnswers checks every answer against the survey's questions and options
func validateAnswers(ctx context.Context, q db.Querier, surveyID string, answers []models.Answer) error {
	if len(answers) == 0 {
		return &models.InvalidOptionError{Reason: "no answers submitted"}
	}

	rows, err := q.QueryContext(ctx, `
		SELECT q.id, o.id
		FROM question q
		LEFT JOIN answer_option o ON o.question_id = q.id
		WHERE q.survey_id = $1
	`, surveyID)
	if err != nil {
		return fmt.Errorf("failed to load options: %w", err)
	}
	defer rows.Close()

	questions := map[string]bool{}
	optionQuestion := map[string]string{}
	for rows.Next() {
		var questionID string
		var optionID sql.NullString
		if err := rows.Scan(&questionID, &optionID); err != nil {
			return fmt.Errorf("failed to scan option: %w", err)
		}
		questions[questionID] = true
		if optionID.Valid {
			optionQuestion[optionID.String] = questionID
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to load options: %w", err)
	}

	seen := map[string]bool{}
	for _, a := range answers {
		if a.QuestionID == "" || a.OptionID == "" {
			return &models.InvalidOptionError{QuestionID: a.QuestionID, OptionID: a.OptionID, Reason: "question_id and option_id are required"}
		}
		if !questions[a.QuestionID] {
			return &models.InvalidOptionError{QuestionID: a.QuestionID, OptionID: a.OptionID, Reason: "question does not belong to this survey"}
		}
		owner, ok := optionQuestion[a.OptionID]
		if !ok {
			return &models.InvalidOptionError{QuestionID: a.QuestionID, OptionID: a.OptionID, Reason: "option does not exist"}
		}
		if owner != a.QuestionID {
			return &models.InvalidOptionError{QuestionID: a.QuestionID, OptionID: a.OptionID, Reason: "option does not belong to question"}
		}
		if seen[a.QuestionID] {
			return &models.DuplicateVoteError{QuestionID: a.QuestionID}
		}
		seen[a.QuestionID] = true
	}
	return nil
}

// checkExistingVotes is the fast path; the vote constraint still decides races
func checkExistingVotes(ctx context.Context, q db.Querier, surveyID, userID string, answers []models.Answer) error {
	rows, err := q.QueryContext(ctx, `
		SELECT question_id FROM vote WHERE survey_id = $1 AND user_id = $2
	`, surveyID, userID)
	if err != nil {
		return fmt.Errorf("failed to check existing votes: %w", err)
	}
	defer rows.Close()

	voted := map[string]bool{}
	for rows.Next() {
		var questionID string
		if err := rows.Scan(&questionID); err != nil {
			return fmt.Errorf("failed to scan vote: %w", err)
		}
		voted[questionID] = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to check existing votes: %w", err)
	}

	for _, a := range answers {
		if voted[a.QuestionID] {
			return &models.DuplicateVoteError{QuestionID: a.QuestionID}
		}
	}
	return nil
}

// claimBudget decrements the budget by the reward money, floored at zero.
// Sponsored surveys only match while budget remains, so a submission that lost
// the race for the last unit sees no row.
func claimBudget(ctx context.Context, q db.Querier, s surveyTerms) (int64, error) {
	if s.RewardMoney == 0 {
		return s.Budget, nil
	}

	query := `
		UPDATE survey
		SET budget = CASE WHEN budget > $1 THEN budget - $1 ELSE 0 END
		WHERE id = $2
		RETURNING budget
	`
	if s.Sponsored {
		query = `
			UPDATE survey
			SET budget = CASE WHEN budget > $1 THEN budget - $1 ELSE 0 END
			WHERE id = $2 AND budget > 0
			RETURNING budget
		`
	}

	var remaining int64
	err := q.QueryRowContext(ctx, query, s.RewardMoney, s.ID).Scan(&remaining)
	if errors.Is(err, sql.ErrNoRows) {
		if s.Sponsored {
			return 0, models.ErrBudgetExhausted
		}
		return 0, models.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to update budget: %w", err)
	}
	return remaining, nil
}

// creditWallet returns the resulting balance, or nil when the user has no wallet
func creditWallet(ctx context.Context, q db.Querier, userID string, amount int64, now time.Time) (*int64, error) {
	var walletID string
	var balance int64

	if amount == 0 {
		err := q.QueryRowContext(ctx, `
			SELECT id, balance FROM wallet WHERE user_id = $1
		`, userID).Scan(&walletID, &balance)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load wallet: %w", err)
		}
		return &balance, nil
	}

	err := q.QueryRowContext(ctx, `
		UPDATE wallet SET balance = balance + $1, updated_at = $2
		WHERE user_id = $3
		RETURNING id, balance
	`, amount, now, userID).Scan(&walletID, &balance)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to credit wallet: %w", err)
	}

	_, err = q.ExecContext(ctx, `
		INSERT INTO wallet_movement (id, wallet_id, kind, amount, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, auth.NewID(), walletID, models.MovementCredit, amount, now)
	if err != nil {
		return nil, fmt.Errorf("failed to record wallet movement: %w", err)
	}

	return &balance, nil
}

// updateProfile applies the streak rule for today's calendar day, adds the
// points and recomputes the level in one statement
func (e *Engine) updateProfile(ctx context.Context, q db.Querier, userID string, points int64, now time.Time) (total, level, streak int64, err error) {
	local := now.In(e.loc)
	today := local.Format(dateLayout)
	yesterday := local.AddDate(0, 0, -1).Format(dateLayout)

	err = q.QueryRowContext(ctx, `
		UPDATE public_profile SET
			streak_days = CASE
				WHEN last_participation = $1 THEN streak_days
				WHEN last_participation = $2 THEN streak_days + 1
				ELSE 1
			END,
			last_participation = $1,
			points = points + $3,
			level = 1 + (points + $3) / 100
		WHERE user_id = $4
		RETURNING points, level, streak_days
	`, today, yesterday, points, userID).Scan(&total, &level, &streak)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, 0, 0, models.ErrProfileNotFound
	}
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to update profile: %w", err)
	}
	return total, level, streak, nil
}
