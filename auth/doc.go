// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth verifies the bearer tokens issued by the identity service.

Registration and sessions live outside this service. Requests arrive with an
HS256 JWT whose subject is the user id; the secret is shared through
JWT_SECRET.

# Verifying

	userID, err := auth.ParseToken(cfg.JWTSecret, token)
	if errors.Is(err, auth.ErrInvalidToken) {
		// 401
	}

Only HS256 is accepted. Expired tokens and tokens without a subject are
rejected.

# Issuing

IssueToken signs a token with the same claims. It is used by tests and local
tooling:

	tok, err := auth.IssueToken(secret, userID, auth.DefaultTokenTTL)

# Identifiers

NewID returns a random UUID for new rows.
*/
package auth
