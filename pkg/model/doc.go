// Package model defines the database models for Zealot.
//
// This package contains GORM models that map to the Zealot database schema.
// Records validate themselves in BeforeSave hooks; a failing hook aborts the
// write with a *ValidationError.
//
// # Core Models
//
//   - App: A mobile application, with schemes and member users
//   - Scheme: A build variant of an app
//   - Channel: A platform distribution target of a scheme (iOS, Android)
//   - User: A person who signs in, with a Role
//   - Membership: The app/user join row
//
// # Database Schema
//
//   - apps
//   - apps_users
//   - schemes
//   - channels
//   - users
package model
