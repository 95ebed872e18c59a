// Package store provides storage abstractions for the Zealot server.
//
// This package defines interfaces for database operations, allowing the
// server endpoints to be decoupled from the specific database implementation.
// This enables easier testing with mocks.
//
// # Available Stores
//
//   - AppsStore: Apps with their schemes, channels and members
//   - UsersStore: User lookup and creation
//   - HealthStore: Database connectivity check
//
// # Usage
//
//	apps := gorm.NewAppsStore(db)
//	app, err := apps.FetchApp(42)
//	if err != nil {
//	    if errors.Is(err, store.ErrAppNotFound) {
//	        // Handle not found
//	    }
//	}
package store
