package endpoints

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/doodlesbykumbi/zealot-in-go/pkg/locale"
)

const (
	// flashCookie carries a notice across a redirect to the next page view
	flashCookie = "zealot_flash"
	// noticeHeader echoes the notice on the redirect itself
	noticeHeader = "X-Zealot-Notice"

	appsPath = "/apps"
)

func respondWithError(w http.ResponseWriter, code int, payload interface{}) {
	respondWithJSON(w, code, map[string]interface{}{"error": payload})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// redirectWithNotice redirects to path, leaving notice for the next page
// view when it is not empty.
func redirectWithNotice(w http.ResponseWriter, r *http.Request, path, notice string) {
	if notice != "" {
		http.SetCookie(w, &http.Cookie{
			Name:     flashCookie,
			Value:    url.QueryEscape(notice),
			Path:     "/",
			HttpOnly: true,
		})
		w.Header().Set(noticeHeader, notice)
	}
	http.Redirect(w, r, path, http.StatusFound)
}

// consumeNotice returns the pending notice, if any, and clears it.
func consumeNotice(w http.ResponseWriter, r *http.Request) string {
	cookie, err := r.Cookie(flashCookie)
	if err != nil {
		return ""
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})

	notice, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return ""
	}
	return notice
}

// translateFunc renders a catalog message in the locale of one request
type translateFunc func(key string, args locale.Args) string

func translatorFor(tr *locale.Translator, r *http.Request) translateFunc {
	loc := tr.Match(r.Header.Get("Accept-Language"))
	return func(key string, args locale.Args) string {
		return tr.T(loc, key, args)
	}
}
