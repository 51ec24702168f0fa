// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Request types

type CreateOptionRequest struct {
	Text string `json:"text" validate:"required"`
}

type CreateQuestionRequest struct {
	Text    string                `json:"text" validate:"required"`
	Options []CreateOptionRequest `json:"options" validate:"required,min=1,dive"`
}

type CreateSurveyRequest struct {
	Title        string                  `json:"title" validate:"required,max=300"`
	Description  string                  `json:"description"`
	ExpiresAt    *time.Time              `json:"expires_at"`
	Segmentation Segmentation            `json:"segmentation"`
	Sponsored    bool                    `json:"sponsored"`
	SponsorName  string                  `json:"sponsor_name"`
	RewardPoints int64                   `json:"reward_points" validate:"gte=0"`
	RewardMoney  int64                   `json:"reward_money" validate:"gte=0"`
	Budget       int64                   `json:"budget" validate:"gte=0"`
	Visibility   Visibility              `json:"visibility" validate:"omitempty,oneof=public private"`
	Questions    []CreateQuestionRequest `json:"questions" validate:"required,min=1,dive"`
}

type SubmitVotesRequest struct {
	Answers []Answer `json:"answers" validate:"required,min=1,dive"`
}

// Response types

type CreateSurveyResponse struct {
	SurveyID string `json:"survey_id"`
	Survey   Survey `json:"survey"`
}

type SubmitVotesResponse struct {
	Message    string           `json:"message"`
	Settlement SettlementResult `json:"settlement"`
}

// SurveySummary is the listing shape; Results is set only when the caller may see them
type SurveySummary struct {
	Survey
	SecondsRemaining *int64         `json:"seconds_remaining"`
	Results          *SurveyResults `json:"results,omitempty"`
}

type SurveyListResponse struct {
	Surveys []SurveySummary `json:"surveys"`
}

type GamificationResponse struct {
	Points       int64             `json:"points"`
	StreakDays   int64             `json:"streak_days"`
	Level        int64             `json:"level"`
	Achievements []UserAchievement `json:"achievements"`
	Catalog      []Achievement     `json:"catalog"`
}

type HistoryResponse struct {
	UserID  string          `json:"user_id"`
	History []Participation `json:"history"`
}
