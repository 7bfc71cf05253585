package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mkulima/soko/internal/models"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	secret := "test-secret"

	token, err := GenerateSessionToken("sess-1", &models.User{
		ID: 7, Fullname: "Wanjiku Kamau", Phone: "0712345678", Role: models.RoleFarmer,
	}, secret, time.Hour)
	require.NoError(t, err)

	claims, err := ValidateSessionToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", claims.SessionID)

	user := claims.User()
	require.NotNil(t, user)
	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, "Wanjiku Kamau", user.Fullname)
	assert.False(t, user.IsAdmin())
}

func TestSessionTokenAnonymous(t *testing.T) {
	token, err := GenerateSessionToken("sess-2", nil, "s", time.Hour)
	require.NoError(t, err)

	claims, err := ValidateSessionToken(token, "s")
	require.NoError(t, err)
	assert.Equal(t, "sess-2", claims.SessionID)
	assert.Nil(t, claims.User())
}

func TestSessionTokenRejectsWrongSecretAndExpiry(t *testing.T) {
	token, err := GenerateSessionToken("sess-3", nil, "right", time.Hour)
	require.NoError(t, err)
	_, err = ValidateSessionToken(token, "wrong")
	assert.Error(t, err)

	expired, err := GenerateSessionToken("sess-4", nil, "right", -time.Minute)
	require.NoError(t, err)
	_, err = ValidateSessionToken(expired, "right")
	assert.Error(t, err)
}
