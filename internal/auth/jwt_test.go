package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndValidate(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)

	token, issued, err := svc.Issue(42)
	require.NoError(t, err)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, issued.ID, claims.ID)
	assert.NotEmpty(t, claims.ID)
}

func TestIssueGivesEachTokenItsOwnID(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)

	_, first, err := svc.Issue(1)
	require.NoError(t, err)
	_, second, err := svc.Issue(1)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	svc := NewJWTService("secret", time.Minute)
	issuedAt := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issuedAt }

	token, _, err := svc.Issue(7)
	require.NoError(t, err)

	svc.now = func() time.Time { return issuedAt.Add(2 * time.Minute) }
	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestValidateRejectsForeignSecret(t *testing.T) {
	token, _, err := NewJWTService("one", time.Hour).Issue(7)
	require.NoError(t, err)

	_, err = NewJWTService("two", time.Hour).Validate(token)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestValidateRejectsOtherAlgorithms(t *testing.T) {
	claims := &Claims{
		UserID: 7,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewJWTService("secret", time.Hour).Validate(token)
	assert.Error(t, err)
}

func TestValidateRejectsGarbage(t *testing.T) {
	_, err := NewJWTService("secret", time.Hour).Validate("not-a-token")
	assert.Error(t, err)
}
