package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := IssueAccessToken("secret", "homestay-backend", 12, "owner", time.Hour)
	require.NoError(t, err)

	claims, err := ParseAccessToken("secret", "homestay-backend", tok)
	require.NoError(t, err)
	assert.Equal(t, uint(12), claims.UserID)
	assert.Equal(t, "owner", claims.Role)
	assert.Equal(t, "12", claims.Subject)
}

func TestParseAccessToken_Rejects(t *testing.T) {
	valid, err := IssueAccessToken("secret", "homestay-backend", 12, "owner", time.Hour)
	require.NoError(t, err)

	_, err = ParseAccessToken("other", "homestay-backend", valid)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ParseAccessToken("secret", "elsewhere", valid)
	assert.ErrorIs(t, err, ErrInvalidToken)

	noRole, err := IssueAccessToken("secret", "homestay-backend", 12, "", time.Hour)
	require.NoError(t, err)
	_, err = ParseAccessToken("secret", "homestay-backend", noRole)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// alg none is never accepted
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, AccessClaims{UserID: 1, Role: "admin", RegisteredClaims: jwt.RegisteredClaims{
		Issuer:    "homestay-backend",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}})
	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = ParseAccessToken("secret", "homestay-backend", raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
