package endpoints

import (
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"os"
	"strings"

	"github.com/doodlesbykumbi/zealot-in-go/pkg/server"
	"github.com/doodlesbykumbi/zealot-in-go/pkg/server/store"
)

// Version is reported by the status endpoint unless ZEALOT_VERSION_DISPLAY is set
var Version = "0.1.0"

// HealthResponse represents the response from /health
type HealthResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// RegisterStatusEndpoints registers the status and health endpoints
func RegisterStatusEndpoints(s *server.Server) {
	// GET / - Status page (no auth required)
	s.Router.HandleFunc("/", handleStatus()).Methods("GET")

	// GET /health - Database connectivity (no auth required)
	s.Router.HandleFunc("/health", handleHealth(s.HealthStore)).Methods("GET")
}

var statusPage = template.Must(template.New("status").Parse(`<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width">
    <title>Zealot Status</title>
  </head>
  <body>
    <main>
      <h1>Status</h1>
      <p class="status-text">Your Zealot server is running!</p>
      <dl>
        <dt>Details:</dt>
        <dd>Version {{.}}</dd>
      </dl>
    </main>
  </body>
</html>
`))

func displayVersion() string {
	if version := os.Getenv("ZEALOT_VERSION_DISPLAY"); version != "" {
		return version
	}
	return Version
}

func handleStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		version := displayVersion()

		// Check if JSON is requested via Accept header or format query param
		accept := r.Header.Get("Accept")
		format := r.URL.Query().Get("format")
		if format == "json" || strings.Contains(accept, "application/json") {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]string{"version": version})
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = statusPage.Execute(w, version)
	}
}

func handleHealth(healthStore store.HealthStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := healthStore.CheckConnectivity(r.Context()); err != nil {
			msg := "database connectivity check failed"
			if errors.Is(err, store.ErrSchemaMissing) {
				msg = "database schema is not migrated"
			}
			respondWithJSON(w, http.StatusServiceUnavailable, HealthResponse{
				Status: "error",
				Error:  msg,
			})
			return
		}
		respondWithJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
	}
}
