// Package authz holds the authorization policy for app operations.
//
// Handlers call Authorizer.Allowed with the acting identity, the action and
// the target app before doing any work. The decision is a pure function of
// its arguments: AppPolicy performs no I/O, so the caller is responsible for
// loading whatever the decision needs (for destroy, the app's members).
package authz
