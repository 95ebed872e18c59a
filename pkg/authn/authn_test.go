package authn

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/zealot-in-go/pkg/model"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newTestIssuer(t *testing.T, now time.Time) *TokenIssuer {
	t.Helper()
	issuer, err := NewTokenIssuer(testSecret, time.Hour)
	require.NoError(t, err)
	issuer.now = func() time.Time { return now }
	return issuer
}

func TestNewTokenIssuer(t *testing.T) {
	_, err := NewTokenIssuer(nil, time.Hour)
	assert.ErrorIs(t, err, ErrMissingSecret)

	_, err = NewTokenIssuer(testSecret, 0)
	assert.Error(t, err)

	issuer, err := NewTokenIssuer(testSecret, time.Minute)
	require.NoError(t, err)
	assert.NotNil(t, issuer)
}

func TestIssueAndVerify(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	issuer := newTestIssuer(t, now)

	token, err := issuer.Issue(&model.User{ID: 42, Username: "alice"})
	require.NoError(t, err)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.True(t, claims.IssuedAt.Equal(now))
	assert.True(t, claims.ExpiresAt.Equal(now.Add(time.Hour)))
}

func TestIssue_UnsavedUser(t *testing.T) {
	issuer := newTestIssuer(t, time.Now())

	_, err := issuer.Issue(&model.User{Username: "alice"})
	assert.Error(t, err)

	_, err = issuer.Issue(nil)
	assert.Error(t, err)
}

func TestVerify_Expired(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	issuer := newTestIssuer(t, now)

	token, err := issuer.Issue(&model.User{ID: 1})
	require.NoError(t, err)

	issuer.now = func() time.Time { return now.Add(2 * time.Hour) }
	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Rejects(t *testing.T) {
	now := time.Now()
	issuer := newTestIssuer(t, now)

	sign := func(method jwt.SigningMethod, key interface{}, claims jwt.Claims) string {
		token, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return token
	}
	valid := jwt.RegisteredClaims{
		Subject:   "7",
		Issuer:    Issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}

	wrongIssuer := valid
	wrongIssuer.Issuer = "someone-else"

	badSubject := valid
	badSubject.Subject = "alice"

	noExpiry := valid
	noExpiry.ExpiresAt = nil

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"wrong secret", sign(jwt.SigningMethodHS256, []byte("another-secret"), valid)},
		{"wrong algorithm", sign(jwt.SigningMethodHS512, testSecret, valid)},
		{"none algorithm", sign(jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, valid)},
		{"wrong issuer", sign(jwt.SigningMethodHS256, testSecret, wrongIssuer)},
		{"non numeric subject", sign(jwt.SigningMethodHS256, testSecret, badSubject)},
		{"missing expiry", sign(jwt.SigningMethodHS256, testSecret, noExpiry)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := issuer.Verify(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
