// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package segment decides whether a user may see and vote on a survey.

A survey targets up to seven demographic dimensions (sex, city, occupation,
education level, religion, nationality, marital status). For each dimension
with a non-empty accepted set, the user's value must be present and match a
member case-insensitively. Empty sets always pass; the result is the AND of
all dimensions.

	if !segment.Eligible(survey.Segmentation, user.Demographics) {
		continue
	}

The filter has no side effects. Listings apply it; the vote path relies on the
vote uniqueness constraint instead of re-deriving eligibility.
*/
package segment
