// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
// The DDL sticks to the subset PostgreSQL and SQLite share.
func CreateSchema(db *sql.DB) error {
	return CreateSchemaContext(context.Background(), db)
}

func CreateSchemaContext(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Tables lists every table in drop order (children first)
var Tables = []string{
	"sponsor_transaction",
	"user_achievement",
	"achievement",
	"participation",
	"vote",
	"answer_option",
	"question",
	"survey_segment",
	"survey",
	"wallet_movement",
	"wallet",
	"public_profile",
	"app_user",
}

const schema = `
-- Users (written by the registration service, read here)
CREATE TABLE IF NOT EXISTS app_user (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    role TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('user', 'sponsor', 'admin')),
    sex TEXT,
    city TEXT,
    occupation TEXT,
    education_level TEXT,
    religion TEXT,
    nationality TEXT,
    marital_status TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Public profiles
CREATE TABLE IF NOT EXISTS public_profile (
    user_id TEXT PRIMARY KEY REFERENCES app_user(id) ON DELETE CASCADE,
    alias TEXT NOT NULL UNIQUE,
    avatar_url TEXT,
    bio TEXT,
    level BIGINT NOT NULL DEFAULT 1,
    points BIGINT NOT NULL DEFAULT 0,
    streak_days BIGINT NOT NULL DEFAULT 0,
    last_participation TEXT
);

-- Wallets
CREATE TABLE IF NOT EXISTS wallet (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL UNIQUE REFERENCES app_user(id) ON DELETE CASCADE,
    balance BIGINT NOT NULL DEFAULT 0 CHECK (balance >= 0),
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS wallet_movement (
    id TEXT PRIMARY KEY,
    wallet_id TEXT NOT NULL REFERENCES wallet(id) ON DELETE CASCADE,
    kind TEXT NOT NULL CHECK (kind IN ('credit', 'debit')),
    amount BIGINT NOT NULL CHECK (amount >= 0),
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_wallet_movement_wallet ON wallet_movement(wallet_id);

-- Surveys
CREATE TABLE IF NOT EXISTS survey (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    expires_at TIMESTAMP,
    sponsored BOOLEAN NOT NULL DEFAULT FALSE,
    sponsor_name TEXT NOT NULL DEFAULT '',
    reward_points BIGINT NOT NULL DEFAULT 0 CHECK (reward_points >= 0),
    reward_money BIGINT NOT NULL DEFAULT 0 CHECK (reward_money >= 0),
    budget BIGINT NOT NULL DEFAULT 0 CHECK (budget >= 0),
    visibility TEXT NOT NULL DEFAULT 'public' CHECK (visibility IN ('public', 'private')),
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- One row per accepted value; no rows for a dimension means unrestricted
CREATE TABLE IF NOT EXISTS survey_segment (
    survey_id TEXT NOT NULL REFERENCES survey(id) ON DELETE CASCADE,
    dimension TEXT NOT NULL,
    value TEXT NOT NULL,
    PRIMARY KEY (survey_id, dimension, value)
);

CREATE TABLE IF NOT EXISTS question (
    id TEXT PRIMARY KEY,
    survey_id TEXT NOT NULL REFERENCES survey(id) ON DELETE CASCADE,
    text TEXT NOT NULL,
    position INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_question_survey ON question(survey_id);

CREATE TABLE IF NOT EXISTS answer_option (
    id TEXT PRIMARY KEY,
    question_id TEXT NOT NULL REFERENCES question(id) ON DELETE CASCADE,
    text TEXT NOT NULL,
    position INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_answer_option_question ON answer_option(question_id);

-- Votes: the (user_id, question_id) constraint is the uniqueness guarantee
CREATE TABLE IF NOT EXISTS vote (
    id TEXT PRIMARY KEY,
    survey_id TEXT NOT NULL REFERENCES survey(id) ON DELETE CASCADE,
    question_id TEXT NOT NULL REFERENCES question(id) ON DELETE CASCADE,
    option_id TEXT NOT NULL REFERENCES answer_option(id) ON DELETE CASCADE,
    user_id TEXT NOT NULL REFERENCES app_user(id) ON DELETE CASCADE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    CONSTRAINT unique_vote_per_question UNIQUE (user_id, question_id)
);

CREATE INDEX IF NOT EXISTS idx_vote_survey_user ON vote(survey_id, user_id);
CREATE INDEX IF NOT EXISTS idx_vote_option ON vote(option_id);

CREATE TABLE IF NOT EXISTS participation (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES app_user(id) ON DELETE CASCADE,
    survey_id TEXT NOT NULL REFERENCES survey(id) ON DELETE CASCADE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (user_id, survey_id)
);

-- Achievements
CREATE TABLE IF NOT EXISTS achievement (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    description TEXT NOT NULL DEFAULT '',
    icon TEXT NOT NULL DEFAULT '',
    metric TEXT NOT NULL DEFAULT '',
    threshold BIGINT NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS user_achievement (
    user_id TEXT NOT NULL REFERENCES app_user(id) ON DELETE CASCADE,
    achievement_id TEXT NOT NULL REFERENCES achievement(id) ON DELETE CASCADE,
    granted_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (user_id, achievement_id)
);

-- Sponsor payouts (append-only)
CREATE TABLE IF NOT EXISTS sponsor_transaction (
    id TEXT PRIMARY KEY,
    survey_id TEXT NOT NULL REFERENCES survey(id) ON DELETE CASCADE,
    user_id TEXT NOT NULL REFERENCES app_user(id) ON DELETE CASCADE,
    money BIGINT NOT NULL DEFAULT 0,
    points BIGINT NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_sponsor_transaction_survey ON sponsor_transaction(survey_id);
`
