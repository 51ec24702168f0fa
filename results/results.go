// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package results

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/samber/lo"

	"github.com/danielhkuo/voxpop/db"
	"github.com/danielhkuo/voxpop/models"
)

// CanView reports whether requester may see the survey's results.
// Private results are limited to admins and the survey's own sponsor.
func CanView(s models.Survey, requester models.User) bool {
	if s.Visibility != models.VisibilityPrivate {
		return true
	}
	return isOwner(s, requester)
}

// isOwner reports whether requester is an admin or the named sponsor
func isOwner(s models.Survey, requester models.User) bool {
	if requester.Role.IsAdmin() {
		return true
	}
	return requester.Role.IsSponsor() && s.SponsorName != "" && requester.Name == s.SponsorName
}

func loadHeader(ctx context.Context, q db.Querier, surveyID string) (models.Survey, error) {
	var s models.Survey
	var visibility string
	err := q.QueryRowContext(ctx, `
		SELECT id, title, visibility, sponsored, sponsor_name, budget
		FROM survey WHERE id = $1
	`, surveyID).Scan(&s.ID, &s.Title, &visibility, &s.Sponsored, &s.SponsorName, &s.Budget)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Survey{}, models.ErrNotFound
	}
	if err != nil {
		return models.Survey{}, fmt.Errorf("failed to load survey: %w", err)
	}
	s.Visibility = models.Visibility(visibility)
	return s, nil
}

// Aggregate counts votes per option for every question of the survey
func Aggregate(ctx context.Context, q db.Querier, surveyID string, requester models.User) (models.SurveyResults, error) {
	s, err := loadHeader(ctx, q, surveyID)
	if err != nil {
		return models.SurveyResults{}, err
	}
	if !CanView(s, requester) {
		return models.SurveyResults{}, models.ErrForbidden
	}

	rows, err := q.QueryContext(ctx, `
		SELECT qu.id, qu.text, o.id, o.text, COUNT(v.id)
		FROM question qu
		LEFT JOIN answer_option o ON o.question_id = qu.id
		LEFT JOIN vote v ON v.option_id = o.id
		WHERE qu.survey_id = $1
		GROUP BY qu.id, qu.text, qu.position, o.id, o.text, o.position
		ORDER BY qu.position, qu.id, o.position, o.id
	`, surveyID)
	if err != nil {
		return models.SurveyResults{}, fmt.Errorf("failed to count votes: %w", err)
	}
	defer rows.Close()

	questions := []models.QuestionResult{}
	index := map[string]int{}
	for rows.Next() {
		var questionID, questionText string
		var optionID, optionText sql.NullString
		var count int64
		if err := rows.Scan(&questionID, &questionText, &optionID, &optionText, &count); err != nil {
			return models.SurveyResults{}, fmt.Errorf("failed to scan result: %w", err)
		}

		i, ok := index[questionID]
		if !ok {
			i = len(questions)
			index[questionID] = i
			questions = append(questions, models.QuestionResult{
				QuestionID: questionID,
				Text:       questionText,
				Options:    []models.OptionResult{},
			})
		}
		if optionID.Valid {
			questions[i].Options = append(questions[i].Options, models.OptionResult{
				OptionID: optionID.String,
				Text:     optionText.String,
				Count:    count,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return models.SurveyResults{}, fmt.Errorf("failed to count votes: %w", err)
	}

	for i := range questions {
		fillPercentages(&questions[i])
	}

	return models.SurveyResults{
		SurveyID:    s.ID,
		Title:       s.Title,
		Visibility:  s.Visibility,
		Sponsored:   s.Sponsored,
		SponsorName: s.SponsorName,
		Questions:   questions,
	}, nil
}

// fillPercentages sets TotalVotes and each option's share rounded to one decimal
func fillPercentages(qr *models.QuestionResult) {
	qr.TotalVotes = lo.SumBy(qr.Options, func(o models.OptionResult) int64 { return o.Count })
	for j := range qr.Options {
		qr.Options[j].Percentage = percentage(qr.Options[j].Count, qr.TotalVotes)
	}
}

func percentage(count, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(count)/float64(total)*1000) / 10
}

// MyVote returns the user's answers for a survey, empty when there are none
func MyVote(ctx context.Context, q db.Querier, surveyID, userID string) (models.MyVote, error) {
	s, err := loadHeader(ctx, q, surveyID)
	if err != nil {
		return models.MyVote{}, err
	}

	rows, err := q.QueryContext(ctx, `
		SELECT v.question_id, v.option_id
		FROM vote v
		JOIN question qu ON qu.id = v.question_id
		WHERE v.survey_id = $1 AND v.user_id = $2
		ORDER BY qu.position, qu.id
	`, surveyID, userID)
	if err != nil {
		return models.MyVote{}, fmt.Errorf("failed to load votes: %w", err)
	}
	defer rows.Close()

	answers := []models.Answer{}
	for rows.Next() {
		var a models.Answer
		if err := rows.Scan(&a.QuestionID, &a.OptionID); err != nil {
			return models.MyVote{}, fmt.Errorf("failed to scan vote: %w", err)
		}
		answers = append(answers, a)
	}
	if err := rows.Err(); err != nil {
		return models.MyVote{}, fmt.Errorf("failed to load votes: %w", err)
	}

	return models.MyVote{SurveyID: s.ID, Title: s.Title, Answers: answers}, nil
}

// SponsorLedger lists the sponsor payouts of a survey, newest first.
// Only admins and the named sponsor may read it, whatever the visibility.
func SponsorLedger(ctx context.Context, q db.Querier, surveyID string, requester models.User) (models.SponsorLedger, error) {
	s, err := loadHeader(ctx, q, surveyID)
	if err != nil {
		return models.SponsorLedger{}, err
	}
	if !isOwner(s, requester) {
		return models.SponsorLedger{}, models.ErrForbidden
	}

	rows, err := q.QueryContext(ctx, `
		SELECT id, survey_id, user_id, money, points, created_at
		FROM sponsor_transaction
		WHERE survey_id = $1
		ORDER BY created_at DESC, id
	`, surveyID)
	if err != nil {
		return models.SponsorLedger{}, fmt.Errorf("failed to load transactions: %w", err)
	}
	defer rows.Close()

	txs := []models.SponsorTransaction{}
	for rows.Next() {
		var st models.SponsorTransaction
		if err := rows.Scan(&st.ID, &st.SurveyID, &st.UserID, &st.Money, &st.Points, &st.CreatedAt); err != nil {
			return models.SponsorLedger{}, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, st)
	}
	if err := rows.Err(); err != nil {
		return models.SponsorLedger{}, fmt.Errorf("failed to load transactions: %w", err)
	}

	return models.SponsorLedger{
		SurveyID:     s.ID,
		Title:        s.Title,
		SponsorName:  s.SponsorName,
		Budget:       s.Budget,
		Transactions: txs,
	}, nil
}
