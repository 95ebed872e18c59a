// Package middleware holds the HTTP middleware of the Zealot server:
// access token authentication, request metrics and client IP resolution.
package middleware
