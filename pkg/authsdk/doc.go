/*
Package authsdk provides a client SDK for the pantry authentication service.

# Overview

The service speaks JSON wrapped in an envelope:

	{"success": true, "data": {...}, "message": "..."}
	{"success": false, "error": "...", "code": "TOKEN_EXPIRED", "message": "...", "details": {...}}

Client decodes the envelope for you. Failures come back as *APIError,
which matches the predefined errors in this package by code:

	_, err := client.Login(ctx, email, password)
	switch {
	case errors.Is(err, authsdk.ErrAccountLocked):
		var apiErr *authsdk.APIError
		errors.As(err, &apiErr)
		fmt.Println("locked until", apiErr.Details.LockedUntil)
	case errors.Is(err, authsdk.ErrInvalidCredentials):
		// wrong email or password
	}

The server uses the same catalogue to write its responses, so the codes
cannot drift between the two sides.

# Client vs Session

Client covers each endpoint one call at a time:

	client := authsdk.NewClient("https://auth.example.com")

	reg, err := client.Register(ctx, authsdk.RegisterRequest{
		Email:    "ada@example.com",
		Password: "Correct-Horse-9",
		FullName: "Ada Lovelace",
	})

	me, err := client.Me(ctx, reg.Tokens.AccessToken)

Session holds a token pair and refreshes the access token 30 seconds before
it expires. If the server still reports TOKEN_EXPIRED (clock skew), the
session refreshes once and retries the call:

	session, user, err := client.LoginSession(ctx, email, password)
	me, err := session.Me(ctx)
	defer session.Logout(ctx)

When the server rotates refresh tokens every refresh spends the previous
one; Session always keeps the latest. A session must not be copied between
processes that refresh independently, since the second refresh of a spent
token fails with TOKEN_REVOKED.

# Health Checks

	health, err := client.GetLiveness(ctx)
	ready, err := client.GetReadiness(ctx)
*/
package authsdk
