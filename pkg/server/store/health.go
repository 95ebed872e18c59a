package store

import (
	"context"
	"errors"
)

// ErrSchemaMissing is returned when the database answers but the apps
// tables have not been migrated.
var ErrSchemaMissing = errors.New("apps schema is not migrated")

// HealthStore reports whether the database can serve app requests.
type HealthStore interface {
	// CheckConnectivity pings the database and checks that the apps,
	// schemes and channels tables exist.
	CheckConnectivity(ctx context.Context) error
}
