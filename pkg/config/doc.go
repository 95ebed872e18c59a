// Package config provides configuration management for Zealot.
//
// This package handles loading and validating Zealot server configuration
// from environment variables and configuration files.
//
// # Configuration Sources
//
// Configuration is loaded from, in increasing order of precedence:
//
//   - Built-in defaults
//   - zealot.yml in ZEALOT_CONFIG_PATH (default /etc/zealot)
//   - ZEALOT_* environment variables
//
// # Key Configuration Options
//
//   - ZEALOT_GUEST_MODE: Allow browsing apps without signing in
//   - ZEALOT_UPLOADS_ROOT: Directory holding app binaries and icons
//   - ZEALOT_STORAGE_BACKEND: local or s3
//   - ZEALOT_DEFAULT_LOCALE: Fallback locale for messages
//   - ZEALOT_LOG_LEVEL: Logging verbosity
//
// Secrets are never read from the file:
//
//   - DATABASE_URL: Database connection
//   - ZEALOT_SECRET_KEY: Access token signing key
//   - AUDIT_DATABASE_URL: Optional audit database
package config
