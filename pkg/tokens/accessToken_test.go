package tokens

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-jwt-secret")

func TestNewAccessToken_SetsExpectedClaims(t *testing.T) {
	t.Parallel()

	now := time.Now()
	token, exp, err := NewAccessToken(AccessClaims{UserID: 7, Email: "a@x.com", FullName: "A", RoleID: 2}, secret, now)
	require.NoError(t, err)
	assert.WithinDuration(t, now.Add(5*time.Hour), exp, time.Second)

	claims, err := AccessClaimsFromToken(token, secret)
	require.NoError(t, err)
	assert.EqualValues(t, 7, claims.UserID)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, "A", claims.FullName)
	assert.Equal(t, 2, claims.RoleID)
	assert.WithinDuration(t, exp, claims.ExpiresAt.Time, time.Second)
}

func TestAccessClaimsFromToken_Errors(t *testing.T) {
	t.Parallel()

	expired, _, err := NewAccessToken(AccessClaims{UserID: 1}, secret, time.Now().Add(-6*time.Hour))
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, AccessClaims{UserID: 1}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name        string
		token       string
		secret      []byte
		wantExpired bool
	}{
		{name: "expired", token: expired, secret: secret, wantExpired: true},
		{name: "garbage", token: "not-a-jwt", secret: secret},
		{name: "wrong secret", token: mustSign(t), secret: []byte("other")},
		{name: "alg none", token: none, secret: secret},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			claims, err := AccessClaimsFromToken(tt.token, tt.secret)
			require.Error(t, err)
			assert.Nil(t, claims)
			assert.Equal(t, tt.wantExpired, errors.Is(err, jwt.ErrTokenExpired))
		})
	}
}

func mustSign(t *testing.T) string {
	t.Helper()
	token, _, err := NewAccessToken(AccessClaims{UserID: 1}, secret, time.Now())
	require.NoError(t, err)
	return token
}
