// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines domain, request, response, and error types for the API.

# Domain Types

  - User: identity, Role, and Demographics used for segmentation
  - Survey: rewards, sponsor budget, visibility, Segmentation, ordered Questions
  - Question / Option: ordered survey content
  - Vote: one user's option for one question (unique per user and question)
  - Participation: one per user and survey
  - Wallet / WalletMovement: balance plus append-only ledger
  - PublicProfile: alias, points, level, streak, last participation day
  - Achievement / UserAchievement: badge catalog and grants
  - SponsorTransaction: audit row for each paid vote on a sponsored survey

# Roles

Role is a closed enumeration (RoleUser, RoleSponsor, RoleAdmin). Callers ask for a
capability instead of comparing names:

	if !user.Role.CanVote() {
		return models.ErrForbidden
	}

# Segmentation

Segmentation maps each Dimension to its accepted values. An empty or missing entry
leaves the dimension unrestricted.

# Errors

Sentinel errors classify every failure of the core:

	ErrNotFound, ErrBudgetExhausted, ErrInvalidOption, ErrDuplicateVote,
	ErrForbidden, ErrSurveyClosed, ErrProfileNotFound

DuplicateVoteError and InvalidOptionError carry detail and match their sentinel
through errors.Is.

# Levels

Level is derived from points:

	level := models.LevelFor(points) // 1 + points/100
*/
package models
