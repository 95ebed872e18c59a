package identity

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/doodlesbykumbi/zealot-in-go/pkg/model"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

const (
	// Key is the context key for Identity.
	Key ContextKey = "identity"
)

// Identity represents the authenticated identity for a request.
// It combines token claims with the user record and request context.
type Identity struct {
	// Token claims
	UserID    uint
	IssuedAt  time.Time
	ExpiresAt time.Time

	// User record
	Username string
	Role     model.Role

	// Request context
	RemoteIP net.IP
}

// FromUser creates an Identity for a signed-in user.
func FromUser(u *model.User) *Identity {
	return &Identity{
		UserID:   u.ID,
		Username: u.Username,
		Role:     u.Role,
	}
}

// WithTokenTimes sets the token issue and expiry times.
func (i *Identity) WithTokenTimes(issuedAt, expiresAt time.Time) *Identity {
	i.IssuedAt = issuedAt
	i.ExpiresAt = expiresAt
	return i
}

// WithRemoteIP sets the remote IP address.
func (i *Identity) WithRemoteIP(ip net.IP) *Identity {
	i.RemoteIP = ip
	return i
}

// IsAdmin returns true if the identity has the admin role.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == model.RoleAdmin
}

// AuditName returns the name used for this identity in audit records.
// A nil identity is a guest.
func AuditName(i *Identity) string {
	if i == nil {
		return "guest"
	}
	if i.Username != "" {
		return i.Username
	}
	return "user:" + strconv.FormatUint(uint64(i.UserID), 10)
}

// Get retrieves Identity from context.
func Get(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(Key).(*Identity)
	return id, ok
}

// Set stores Identity in context.
func Set(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, Key, id)
}
