package endpoints

import (
	"net/http"

	"github.com/doodlesbykumbi/zealot-in-go/pkg/identity"
	"github.com/doodlesbykumbi/zealot-in-go/pkg/server"
)

// WhoamiResponse represents the response from the /whoami endpoint
type WhoamiResponse struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	TokenIAT int64  `json:"token_iat,omitempty"`
	TokenExp int64  `json:"token_exp,omitempty"`
}

// RegisterWhoamiEndpoint registers the /whoami endpoint. It always
// requires a token, guest mode or not.
func RegisterWhoamiEndpoint(s *server.Server) {
	whoamiRouter := s.Router.PathPrefix("/whoami").Subrouter()
	if s.JWTMiddleware != nil {
		whoamiRouter.Use(s.JWTMiddleware.Required)
	}

	whoamiRouter.HandleFunc("", handleWhoami()).Methods("GET")
}

func handleWhoami() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity.Get(r.Context())
		if !ok || id == nil {
			http.Error(w, "Unable to determine identity", http.StatusUnauthorized)
			return
		}

		response := WhoamiResponse{
			UserID:   id.UserID,
			Username: id.Username,
			Role:     id.Role.String(),
		}
		if !id.IssuedAt.IsZero() {
			response.TokenIAT = id.IssuedAt.Unix()
		}
		if !id.ExpiresAt.IsZero() {
			response.TokenExp = id.ExpiresAt.Unix()
		}

		respondWithJSON(w, http.StatusOK, response)
	}
}
