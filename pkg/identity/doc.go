// Package identity provides authenticated identity management for Zealot requests.
//
// An Identity combines the claims of a verified access token (user id, issue
// and expiry times) with the user record it names (username, role) and the
// request context (remote IP).
//
// # Basic Usage
//
//	// Create identity from a loaded user
//	id := identity.FromUser(user).
//	    WithTokenTimes(issuedAt, expiresAt).
//	    WithRemoteIP(clientIP)
//
//	// Store in request context
//	ctx = identity.Set(ctx, id)
//
//	// Retrieve from context
//	id, ok := identity.Get(ctx)
//
// # Guests
//
// When guest mode is enabled, requests without a token carry no Identity.
// Code receiving the identity must treat a nil *Identity as a guest; the
// authorization policy and AuditName both do.
package identity
