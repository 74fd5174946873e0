// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth turns bearer tokens into callers and answers authorization
questions about them.

# Callers

A Caller is the verified (identity, role) pair a request acts as:

	caller, err := auth.ParseToken(secret, token)

The zero Caller is anonymous. Roles are "admin" and "user"; any other role
claim is treated as "user".

# Tokens

Tokens are HS256 JWTs issued by the identity provider. The identity id is the
"sub" claim and the role is the "role" claim. SignToken exists for tests and
local tooling:

	tok, err := auth.SignToken(secret, "user-1", models.RoleUser, time.Hour)

# Authorization

Authorization is a pure function of the caller:

	auth.IsAdmin(caller)
	auth.CanModerate(caller, poll.CreatorID)  // creator or admin
	auth.CanSeeHidden(caller, poll.CreatorID) // deactivated polls
*/
package auth
