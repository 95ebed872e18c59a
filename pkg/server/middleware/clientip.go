package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/doodlesbykumbi/zealot-in-go/pkg/config"
)

// ClientIP returns the address of the client that made r. X-Forwarded-For
// is only honoured when the direct peer is a trusted proxy.
func ClientIP(r *http.Request) string {
	peer := r.RemoteAddr
	if host, _, err := net.SplitHostPort(peer); err == nil {
		peer = host
	}

	forwarded := r.Header.Get("X-Forwarded-For")
	if forwarded == "" || !config.Get().IsTrustedProxy(peer) {
		return peer
	}

	// Take the first IP in the chain
	if first, _, ok := strings.Cut(forwarded, ","); ok {
		forwarded = first
	}
	return strings.TrimSpace(forwarded)
}
