// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package achievements holds the badge catalog and grants badges to users.

# Catalog

Definitions lists every achievement. Most carry a threshold on one counter:

	participations  1, 10, 50, 100
	streak          7, 30, 100
	points          100, 500, 1000, 2500, 5000, 10000
	level           5, 10, 20, 30

The rest (sponsored survey, invite a friend, share results, feedback sent) are
granted explicitly with Grant. Each definition's Code is its row id, so ids
are identical across databases. Seed writes the catalog at boot.

# Evaluation

	granted, err := evaluator.Evaluate(ctx, tx, userID)

Evaluate reads the participation count and the profile counters, then grants
every achievement whose threshold is met and the user does not hold yet. The
(user_id, achievement_id) primary key makes repeated evaluation a no-op.
Counters are never written here.

Qualified is the pure decision table behind Evaluate:

	achievements.Qualified(achievements.Stats{Points: 120, Level: 2})

# Cached catalog

Catalog keeps the catalog in a ristretto cache behind gocache's marshaler, so
status views do not query it on every request.
*/
package achievements
