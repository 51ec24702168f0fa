// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/samber/lo"

	"github.com/danielhkuo/voxpop/auth"
	"github.com/danielhkuo/voxpop/db"
	"github.com/danielhkuo/voxpop/models"
)

const surveyColumns = `
	id, title, description, expires_at, sponsored, sponsor_name,
	reward_points, reward_money, budget, visibility, created_at
`

func scanSurvey(row interface{ Scan(...any) error }) (models.Survey, error) {
	var (
		s          models.Survey
		visibility string
	)
	err := row.Scan(
		&s.ID, &s.Title, &s.Description, &s.ExpiresAt, &s.Sponsored, &s.SponsorName,
		&s.RewardPoints, &s.RewardMoney, &s.Budget, &visibility, &s.CreatedAt,
	)
	s.Visibility = models.Visibility(visibility)
	return s, err
}

// loadSurvey reads one survey with its segmentation, questions and options
func loadSurvey(ctx context.Context, q db.Querier, surveyID string) (models.Survey, error) {
	s, err := scanSurvey(q.QueryRowContext(ctx, `SELECT `+surveyColumns+` FROM survey WHERE id = $1`, surveyID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Survey{}, models.ErrNotFound
	}
	if err != nil {
		return models.Survey{}, fmt.Errorf("failed to load survey: %w", err)
	}
	if err := loadSurveyDetails(ctx, q, &s); err != nil {
		return models.Survey{}, err
	}
	return s, nil
}

// loadAllSurveys reads every survey, newest first, with details attached
func loadAllSurveys(ctx context.Context, q db.Querier) ([]models.Survey, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+surveyColumns+` FROM survey ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query surveys: %w", err)
	}

	surveys := []models.Survey{}
	for rows.Next() {
		s, err := scanSurvey(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan survey: %w", err)
		}
		surveys = append(surveys, s)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to iterate surveys: %w", err)
	}

	// Rows must be closed first: the SQLite handle has one connection
	for i := range surveys {
		if err := loadSurveyDetails(ctx, q, &surveys[i]); err != nil {
			return nil, err
		}
	}
	return surveys, nil
}

func loadSurveyDetails(ctx context.Context, q db.Querier, s *models.Survey) error {
	seg, err := loadSegmentation(ctx, q, s.ID)
	if err != nil {
		return err
	}
	s.Segmentation = seg

	questions, err := loadQuestions(ctx, q, s.ID)
	if err != nil {
		return err
	}
	s.Questions = questions
	return nil
}

func loadSegmentation(ctx context.Context, q db.Querier, surveyID string) (models.Segmentation, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT dimension, value FROM survey_segment WHERE survey_id = $1 ORDER BY dimension, value
	`, surveyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query segmentation: %w", err)
	}
	defer rows.Close()

	seg := models.Segmentation{}
	for rows.Next() {
		var dim, value string
		if err := rows.Scan(&dim, &value); err != nil {
			return nil, fmt.Errorf("failed to scan segmentation: %w", err)
		}
		seg[models.Dimension(dim)] = append(seg[models.Dimension(dim)], value)
	}
	return seg, rows.Err()
}

func loadQuestions(ctx context.Context, q db.Querier, surveyID string) ([]models.Question, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, survey_id, text, position FROM question
		WHERE survey_id = $1
		ORDER BY position, id
	`, surveyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	questions := []models.Question{}
	for rows.Next() {
		var qu models.Question
		if err := rows.Scan(&qu.ID, &qu.SurveyID, &qu.Text, &qu.Position); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, qu)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, err
	}

	rows, err = q.QueryContext(ctx, `
		SELECT o.id, o.question_id, o.text, o.position
		FROM answer_option o
		JOIN question qu ON qu.id = o.question_id
		WHERE qu.survey_id = $1
		ORDER BY o.position, o.id
	`, surveyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query options: %w", err)
	}
	defer rows.Close()

	var options []models.Option
	for rows.Next() {
		var o models.Option
		if err := rows.Scan(&o.ID, &o.QuestionID, &o.Text, &o.Position); err != nil {
			return nil, fmt.Errorf("failed to scan option: %w", err)
		}
		options = append(options, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	byQuestion := lo.GroupBy(options, func(o models.Option) string { return o.QuestionID })
	for i := range questions {
		questions[i].Options = byQuestion[questions[i].ID]
		if questions[i].Options == nil {
			questions[i].Options = []models.Option{}
		}
	}
	return questions, nil
}

// votedSurveyIDs returns the set of surveys the user has cast any vote in
func votedSurveyIDs(ctx context.Context, q db.Querier, userID string) (map[string]bool, error) {
	rows, err := q.QueryContext(ctx, `SELECT DISTINCT survey_id FROM vote WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query votes: %w", err)
	}
	defer rows.Close()

	voted := map[string]bool{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		voted[id] = true
	}
	return voted, rows.Err()
}

// insertSurvey writes a new survey with its segmentation and questions
func insertSurvey(ctx context.Context, tx *sql.Tx, s *models.Survey, req models.CreateSurveyRequest) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO survey (id, title, description, expires_at, sponsored, sponsor_name,
			reward_points, reward_money, budget, visibility, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, s.ID, s.Title, s.Description, s.ExpiresAt, s.Sponsored, s.SponsorName,
		s.RewardPoints, s.RewardMoney, s.Budget, string(s.Visibility), s.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert survey: %w", err)
	}

	for dim, values := range s.Segmentation {
		for _, v := range lo.Uniq(values) {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO survey_segment (survey_id, dimension, value) VALUES ($1, $2, $3)
			`, s.ID, string(dim), v)
			if err != nil {
				return fmt.Errorf("failed to insert segment: %w", err)
			}
		}
	}

	s.Questions = make([]models.Question, 0, len(req.Questions))
	for qi, qr := range req.Questions {
		question := models.Question{
			ID:       auth.NewID(),
			SurveyID: s.ID,
			Text:     qr.Text,
			Position: qi,
			Options:  make([]models.Option, 0, len(qr.Options)),
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO question (id, survey_id, text, position) VALUES ($1, $2, $3, $4)
		`, question.ID, s.ID, question.Text, question.Position)
		if err != nil {
			return fmt.Errorf("failed to insert question: %w", err)
		}

		for oi, optReq := range qr.Options {
			opt := models.Option{
				ID:         auth.NewID(),
				QuestionID: question.ID,
				Text:       optReq.Text,
				Position:   oi,
			}
			_, err := tx.ExecContext(ctx, `
				INSERT INTO answer_option (id, question_id, text, position) VALUES ($1, $2, $3, $4)
			`, opt.ID, opt.QuestionID, opt.Text, opt.Position)
			if err != nil {
				return fmt.Errorf("failed to insert option: %w", err)
			}
			question.Options = append(question.Options, opt)
		}
		s.Questions = append(s.Questions, question)
	}
	return nil
}
