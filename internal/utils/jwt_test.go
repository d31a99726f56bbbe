package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestTokenPair_RoundTrip(t *testing.T) {
	userID := primitive.NewObjectID()

	pair, err := GenerateTokenPair(userID, "partner", "p@example.org", "secret", time.Hour, 2*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(3600), pair.ExpiresIn)

	claims, err := ValidateToken(pair.AccessToken, "secret")
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "partner", claims.Role)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)

	_, err = ValidateToken(pair.AccessToken, "other-secret")
	assert.Error(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	token, err := signToken(primitive.NewObjectID(), "donor", "", TokenTypeAccess, "secret", -time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken(token, "secret")
	assert.Error(t, err)
}
