package endpoints

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/zealot-in-go/pkg/assets"
	"github.com/doodlesbykumbi/zealot-in-go/pkg/audit"
	"github.com/doodlesbykumbi/zealot-in-go/pkg/authz"
	"github.com/doodlesbykumbi/zealot-in-go/pkg/identity"
	"github.com/doodlesbykumbi/zealot-in-go/pkg/locale"
	"github.com/doodlesbykumbi/zealot-in-go/pkg/model"
	"github.com/doodlesbykumbi/zealot-in-go/pkg/server"
)

var (
	adminUser     = &identity.Identity{UserID: 1, Username: "admin", Role: model.RoleAdmin}
	developerUser = &identity.Identity{UserID: 2, Username: "dev", Role: model.RoleDeveloper}
	plainUser     = &identity.Identity{UserID: 3, Username: "viewer", Role: model.RoleUser}
)

// newTestServer builds a server around mock stores with the app routes registered
func newTestServer(t *testing.T, apps *MockAppsStore, assetStore assets.Store) *server.Server {
	t.Helper()

	// Keep audit lines out of test output
	audit.SetEnabled(false)
	t.Cleanup(func() { audit.SetEnabled(true) })

	translator, err := locale.New(nil)
	require.NoError(t, err)

	s := &server.Server{
		Router:     mux.NewRouter(),
		AppsStore:  apps,
		Authorizer: authz.AppPolicy{},
		Assets:     assetStore,
		Translator: translator,
	}
	RegisterAppsEndpoints(s)
	return s
}

// requestWithIdentity creates a request carrying actor, or a guest request when actor is nil
func requestWithIdentity(method, target string, body io.Reader, contentType string, actor *identity.Identity) *http.Request {
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if actor != nil {
		req = req.WithContext(identity.Set(req.Context(), actor))
	}
	return req
}

func jsonRequest(method, target, body string, actor *identity.Identity) *http.Request {
	return requestWithIdentity(method, target, strings.NewReader(body), "application/json", actor)
}

func formRequest(method, target string, form url.Values, actor *identity.Identity) *http.Request {
	return requestWithIdentity(method, target, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", actor)
}

func serve(s *server.Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)
	return w
}

// flashNotice returns the notice set on a redirect response
func flashNotice(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == flashCookie {
			notice, err := url.QueryUnescape(cookie.Value)
			require.NoError(t, err)
			return notice
		}
	}
	return ""
}
