package middleware

import (
	"errors"
	"net"
	"net/http"
	"regexp"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/doodlesbykumbi/zealot-in-go/pkg/audit"
	"github.com/doodlesbykumbi/zealot-in-go/pkg/authn"
	"github.com/doodlesbykumbi/zealot-in-go/pkg/identity"
	"github.com/doodlesbykumbi/zealot-in-go/pkg/logging"
	"github.com/doodlesbykumbi/zealot-in-go/pkg/server/store"
)

var tokenRegex = regexp.MustCompile(`^Bearer\s+(\S+)$`)

// TokenVerifier verifies access tokens
type TokenVerifier interface {
	Verify(token string) (*authn.Claims, error)
}

// JWTAuthenticator is middleware that validates access tokens
type JWTAuthenticator struct {
	Tokens TokenVerifier
	Users  store.UsersStore
}

// NewJWTAuthenticator creates a new JWT authenticator middleware
func NewJWTAuthenticator(tokens TokenVerifier, users store.UsersStore) *JWTAuthenticator {
	return &JWTAuthenticator{Tokens: tokens, Users: users}
}

// ForGuestMode returns Optional when guests may browse and Required otherwise.
func (j *JWTAuthenticator) ForGuestMode(guestMode bool) mux.MiddlewareFunc {
	if guestMode {
		return j.Optional
	}
	return j.Required
}

// Required rejects requests without a valid access token.
func (j *JWTAuthenticator) Required(next http.Handler) http.Handler {
	return j.middleware(next, false)
}

// Optional lets requests without an Authorization header through as
// guests. A token that is present must still be valid.
func (j *JWTAuthenticator) Optional(next http.Handler) http.Handler {
	return j.middleware(next, true)
}

func (j *JWTAuthenticator) middleware(next http.Handler, allowGuest bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")

		if len(authHeader) == 0 {
			if allowGuest {
				next.ServeHTTP(w, r)
				return
			}
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("Authorization missing"))
			return
		}

		tokenMatches := tokenRegex.FindStringSubmatch(authHeader)
		if len(tokenMatches) != 2 {
			j.reject(w, r, "unknown", "Malformed authorization header")
			return
		}

		claims, err := j.Tokens.Verify(tokenMatches[1])
		if err != nil {
			logging.L().Debug("Rejected access token", zap.Error(err))
			j.reject(w, r, "unknown", "Invalid token")
			return
		}

		user, err := j.Users.FetchUser(claims.UserID)
		if err != nil {
			if !errors.Is(err, store.ErrUserNotFound) {
				logging.L().Error("Failed to load token user", zap.Uint("user_id", claims.UserID), zap.Error(err))
			}
			j.reject(w, r, identity.AuditName(&identity.Identity{UserID: claims.UserID}), "Unknown user")
			return
		}

		clientIP := ClientIP(r)
		id := identity.FromUser(user).
			WithTokenTimes(claims.IssuedAt, claims.ExpiresAt).
			WithRemoteIP(net.ParseIP(clientIP))

		next.ServeHTTP(w, r.WithContext(identity.Set(r.Context(), id)))
	})
}

func (j *JWTAuthenticator) reject(w http.ResponseWriter, r *http.Request, user, reason string) {
	audit.Log(audit.AuthenticateEvent{
		UserID:       user,
		ClientIP:     ClientIP(r),
		Success:      false,
		ErrorMessage: reason,
	})

	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(reason))
}
