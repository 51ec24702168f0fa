// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database, creates the schema, and classifies driver errors.

# Connecting

Open accepts "postgres" (lib/pq) or "sqlite" (modernc.org/sqlite):

	conn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)

SQLite connections are capped at one so concurrent transactions queue up.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The DDL only uses syntax both engines accept, and every query in the
application uses $n placeholders, which both drivers understand.

# Tables

  - app_user: identity, role, demographics
  - public_profile: alias and gamification counters (1:1 with app_user)
  - wallet / wallet_movement: balance and append-only ledger
  - survey / survey_segment: survey settings and accepted segment values
  - question / answer_option: ordered content
  - vote: UNIQUE (user_id, question_id)
  - participation: UNIQUE (user_id, survey_id)
  - achievement / user_achievement: catalog and grants
  - sponsor_transaction: paid vote audit trail

# Relationships

	app_user 1──1 public_profile
	app_user 1──1 wallet 1──* wallet_movement
	survey 1──* question 1──* answer_option
	survey 1──* survey_segment
	app_user *──* question (via vote)
	app_user *──* survey (via participation)
	app_user *──* achievement (via user_achievement)

All foreign keys use ON DELETE CASCADE.

# Errors

IsUniqueViolation recognizes unique constraint failures from either driver:

	if db.IsUniqueViolation(err) {
		return &models.DuplicateVoteError{QuestionID: qid}
	}
*/
package db
