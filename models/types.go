// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Result visibility values
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// Valid reports whether v is one of the known visibility values
func (v Visibility) Valid() bool {
	return v == VisibilityPublic || v == VisibilityPrivate
}

// Wallet movement kinds
const (
	MovementCredit = "credit"
	MovementDebit  = "debit"
)

// Domain types

type User struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	Role         Role         `json:"role"`
	Demographics Demographics `json:"demographics"`
	CreatedAt    time.Time    `json:"created_at"`
}

type Survey struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	ExpiresAt    *time.Time   `json:"expires_at,omitempty"`
	Segmentation Segmentation `json:"segmentation"`
	Sponsored    bool         `json:"sponsored"`
	SponsorName  string       `json:"sponsor_name,omitempty"`
	RewardPoints int64        `json:"reward_points"`
	RewardMoney  int64        `json:"reward_money"`
	Budget       int64        `json:"budget"`
	Visibility   Visibility   `json:"visibility"`
	Questions    []Question   `json:"questions"`
	CreatedAt    time.Time    `json:"created_at"`
}

// Expired reports whether the survey stopped accepting votes at or before now
func (s Survey) Expired(now time.Time) bool {
	return s.ExpiresAt != nil && !now.Before(*s.ExpiresAt)
}

// SecondsRemaining returns the whole seconds until expiry, or nil for surveys that never expire
func (s Survey) SecondsRemaining(now time.Time) *int64 {
	if s.ExpiresAt == nil {
		return nil
	}
	secs := int64(s.ExpiresAt.Sub(now).Seconds())
	if secs < 0 {
		secs = 0
	}
	return &secs
}

type Question struct {
	ID       string   `json:"id"`
	SurveyID string   `json:"survey_id"`
	Text     string   `json:"text"`
	Position int      `json:"position"`
	Options  []Option `json:"options"`
}

type Option struct {
	ID         string `json:"id"`
	QuestionID string `json:"question_id"`
	Text       string `json:"text"`
	Position   int    `json:"position"`
}

type Vote struct {
	ID         string    `json:"id"`
	SurveyID   string    `json:"survey_id"`
	QuestionID string    `json:"question_id"`
	OptionID   string    `json:"option_id"`
	UserID     string    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

type Participation struct {
	ID          string    `json:"id"`
	SurveyID    string    `json:"survey_id"`
	SurveyTitle string    `json:"survey_title"`
	CreatedAt   time.Time `json:"completed_at"`
}

type Wallet struct {
	ID        string           `json:"id"`
	UserID    string           `json:"user_id"`
	Balance   int64            `json:"balance"`
	UpdatedAt time.Time        `json:"updated_at"`
	Movements []WalletMovement `json:"movements"`
}

type WalletMovement struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Amount    int64     `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

// PublicProfile carries the gamification counters. Level is always 1 + Points/100.
type PublicProfile struct {
	UserID            string  `json:"user_id"`
	Alias             string  `json:"alias"`
	AvatarURL         *string `json:"avatar_url,omitempty"`
	Bio               *string `json:"bio,omitempty"`
	Level             int64   `json:"level"`
	Points            int64   `json:"points"`
	StreakDays        int64   `json:"streak_days"`
	LastParticipation *string `json:"last_participation,omitempty"` // YYYY-MM-DD
}

// LevelFor returns the level reached with the given point total
func LevelFor(points int64) int64 {
	return 1 + points/100
}

type Achievement struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type UserAchievement struct {
	Achievement
	GrantedAt time.Time `json:"granted_at"`
}

type SponsorTransaction struct {
	ID        string    `json:"id"`
	SurveyID  string    `json:"survey_id"`
	UserID    string    `json:"user_id"`
	Money     int64     `json:"money"`
	Points    int64     `json:"points"`
	CreatedAt time.Time `json:"created_at"`
}

// Answer is one question→option pair of a vote submission
type Answer struct {
	QuestionID string `json:"question_id" validate:"required"`
	OptionID   string `json:"option_id" validate:"required"`
}

// SettlementResult summarizes the effects applied by one vote submission
type SettlementResult struct {
	SurveyID        string        `json:"survey_id"`
	RemainingBudget int64         `json:"remaining_budget"`
	Points          int64         `json:"points"`
	Level           int64         `json:"level"`
	StreakDays      int64         `json:"streak_days"`
	WalletBalance   *int64        `json:"wallet_balance"`
	NewAchievements []Achievement `json:"new_achievements"`
}

// Results types

type OptionResult struct {
	OptionID   string  `json:"option_id"`
	Text       string  `json:"text"`
	Count      int64   `json:"count"`
	Percentage float64 `json:"percentage"`
}

type QuestionResult struct {
	QuestionID string         `json:"question_id"`
	Text       string         `json:"text"`
	TotalVotes int64          `json:"total_votes"`
	Options    []OptionResult `json:"options"`
}

type SurveyResults struct {
	SurveyID    string           `json:"survey_id"`
	Title       string           `json:"title"`
	Visibility  Visibility       `json:"visibility"`
	Sponsored   bool             `json:"sponsored"`
	SponsorName string           `json:"sponsor_name,omitempty"`
	Questions   []QuestionResult `json:"questions"`
}

type MyVote struct {
	SurveyID string   `json:"survey_id"`
	Title    string   `json:"title"`
	Answers  []Answer `json:"answers"`
}

type SponsorLedger struct {
	SurveyID     string               `json:"survey_id"`
	Title        string               `json:"title"`
	SponsorName  string               `json:"sponsor_name,omitempty"`
	Budget       int64                `json:"budget"`
	Transactions []SponsorTransaction `json:"transactions"`
}
