// Package authn issues and verifies Zealot access tokens.
//
// Access tokens are HS256 JWTs signed with ZEALOT_SECRET_KEY. The subject is
// the numeric user ID and the issuer is always "zealot":
//
//	issuer, _ := authn.NewTokenIssuer(secret, 7*24*time.Hour)
//	token, _ := issuer.Issue(user)
//	claims, err := issuer.Verify(token)
//
// Clients present tokens as "Authorization: Bearer <token>". Tokens are
// minted with "zealotctl user token".
package authn
