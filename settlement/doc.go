// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package settlement records vote submissions and applies their rewards.

# Submitting Votes

	engine := settlement.NewEngine(conn,
		settlement.WithLocation(cfg.Location()),
		settlement.WithMetrics(m),
	)
	res, err := engine.SubmitVotes(ctx, surveyID, user, answers)

Only users with the plain "user" role may vote; other roles get ErrForbidden.

# Validation Order

Each check fails fast and nothing is written when one fails:

 1. survey exists (ErrNotFound)
 2. survey has not expired (ErrSurveyClosed)
 3. sponsored surveys have budget left (ErrBudgetExhausted)
 4. every answer names a question of the survey and one of its options
    (InvalidOptionError); a question answered twice in the same submission is
    a DuplicateVoteError
 5. the user has not voted on any of the questions (DuplicateVoteError)

# Effects

All inside one transaction:

  - budget decremented by the reward money, floored at zero
  - one vote row per answer
  - participation row for (user, survey) if missing
  - wallet credited with a credit movement, when the user has a wallet and the
    reward is non-zero
  - sponsor_transaction row for sponsored surveys
  - profile streak, points and level updated
  - sponsored-survey and threshold achievements granted

Any error rolls the whole submission back.

# Concurrency

The vote table's UNIQUE (user_id, question_id) constraint is what guarantees
one vote per question. The pre-insert check only returns the error early; a
constraint violation raised by a racing submission is translated into the same
DuplicateVoteError.

The budget is claimed with a conditional UPDATE ... RETURNING. For sponsored
surveys the WHERE clause requires budget > 0, so once a concurrent submission
takes the last unit the loser sees ErrBudgetExhausted instead of a negative
balance.

# Streaks

The calendar day comes from the engine clock in the configured location:

	last participation == today      streak unchanged
	last participation == yesterday  streak + 1
	anything else                    streak = 1

Level is always 1 + points/100.
*/
package settlement
