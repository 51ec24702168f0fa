// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package results computes vote counts and the other read-only survey views.

# Aggregation

	res, err := results.Aggregate(ctx, conn, surveyID, requester)

For each question, in position order:

  - total_votes is the number of votes cast on the question
  - each option reports its count and count/total*100 rounded to one decimal
  - with no votes every percentage is 0

Aggregate never writes and is safe to call concurrently.

# Visibility

Public results are visible to everyone. Private results are visible to admins
and to the sponsor whose account name equals the survey's sponsor name; anyone
else gets models.ErrForbidden.

# Other Views

  - MyVote: the caller's own answers for a survey (empty when none)
  - SponsorLedger: sponsor payouts of a survey, for admins and the named sponsor
*/
package results
