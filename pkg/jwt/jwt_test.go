package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "a_test_secret_of_enough_length"

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken(testSecret, 42, "client-1", "tok-1", time.Now(), time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(testSecret, token)
	require.NoError(t, err)

	userID, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
	assert.Equal(t, "client-1", claims.ClientID)
	assert.Equal(t, "tok-1", claims.ID)
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := GenerateToken(testSecret, 1, "client-1", "tok-1", time.Now(), time.Hour)
	require.NoError(t, err)

	_, err = ParseToken("another_secret_of_enough_length", token)
	assert.Error(t, err)
}

func TestParseToken_Expired(t *testing.T) {
	token, err := GenerateToken(testSecret, 1, "client-1", "tok-1", time.Now().Add(-2*time.Hour), time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(testSecret, token)
	assert.Error(t, err)
}

func TestParseToken_MissingID(t *testing.T) {
	token, err := GenerateToken(testSecret, 1, "client-1", "", time.Now(), time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(testSecret, token)
	assert.Error(t, err)
}
