package tokens

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignSession_RoundTrip(t *testing.T) {
	t.Parallel()

	secret := []byte("test-secret")
	userID := uuid.NewString()
	jti := uuid.NewString()
	exp := time.Now().Add(time.Hour).UTC()

	token, err := SignSession(userID, "owner", jti, exp, secret)
	require.NoError(t, err)

	claims, err := SessionClaimsFromToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.Subject)
	assert.Equal(t, "owner", claims.Role)
	assert.Equal(t, jti, claims.ID)
	assert.WithinDuration(t, exp, claims.ExpiresAt.Time, time.Second)
}

func TestSessionClaimsFromToken_Rejects(t *testing.T) {
	t.Parallel()

	secret := []byte("test-secret")

	expired, err := SignSession("u", "customer", "j", time.Now().Add(-time.Minute), secret)
	require.NoError(t, err)
	_, err = SessionClaimsFromToken(expired, secret)
	require.ErrorIs(t, err, jwt.ErrTokenExpired)

	good, err := SignSession("u", "customer", "j", time.Now().Add(time.Minute), secret)
	require.NoError(t, err)
	_, err = SessionClaimsFromToken(good, []byte("other-secret"))
	require.Error(t, err)

	_, err = SessionClaimsFromToken("garbage", secret)
	require.Error(t, err)
}
