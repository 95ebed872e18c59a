// Package main is zealotctl, the command line entry point of Zealot, a
// self-hosted distribution server for mobile app builds.
//
// # Architecture
//
// The server is organized into several packages:
//
//   - pkg/server: HTTP server and routing
//   - pkg/server/endpoints: app management and status handlers
//   - pkg/server/store: persistence interfaces and their GORM implementations
//   - pkg/assets: uploaded binaries and icons on local disk or S3
//   - pkg/authn, pkg/authz: access tokens and the app policy
//   - pkg/model: Database models
//   - pkg/db: Database connection utilities
//   - pkg/audit: Audit logging
//   - pkg/config: Configuration management
//
// # Quick Start
//
//	export DATABASE_URL=postgres://postgres@localhost/zealot?sslmode=disable
//	export ZEALOT_SECRET_KEY=$(openssl rand -base64 32)
//
//	# Run database migrations
//	zealotctl db migrate
//
//	# Create an admin and print an access token
//	zealotctl user create admin --role admin
//
//	# Start the server
//	zealotctl server
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string
//   - ZEALOT_SECRET_KEY: Access token signing key
//   - ZEALOT_CONFIG_PATH: Directory holding zealot.yml
//   - PORT: Server port (default: 8000)
//   - BIND_ADDRESS: Server bind address (default: 0.0.0.0)
package main
