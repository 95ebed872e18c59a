package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/zealot-in-go/pkg/config"
)

func TestClientIP(t *testing.T) {
	t.Setenv("ZEALOT_CONFIG_PATH", t.TempDir())
	t.Setenv("ZEALOT_TRUSTED_PROXIES", "10.0.0.0/8")
	require.NoError(t, config.Reload())
	t.Cleanup(func() {
		_ = config.Reload()
	})

	tests := []struct {
		name      string
		remote    string
		forwarded string
		want      string
	}{
		{"direct client", "192.168.1.5:5000", "", "192.168.1.5"},
		{"untrusted peer ignores header", "192.168.1.5:5000", "1.2.3.4", "192.168.1.5"},
		{"trusted proxy", "10.0.0.2:5000", "1.2.3.4", "1.2.3.4"},
		{"trusted proxy chain", "10.0.0.2:5000", "1.2.3.4, 10.0.0.9", "1.2.3.4"},
		{"remote without port", "192.168.1.5", "", "192.168.1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remote
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			assert.Equal(t, tt.want, ClientIP(req))
		})
	}
}
