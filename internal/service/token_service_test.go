package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/horario-admin-api/internal/models"
	appErrors "github.com/noah-isme/horario-admin-api/pkg/errors"
)

func TestTokenServiceRoundTrip(t *testing.T) {
	svc := NewTokenService("secret", "horarios")
	token, err := svc.IssueToken(models.JWTClaims{UserID: "u-1", Role: models.RoleCoordinator, Email: "c@uni.edu"}, time.Hour)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, models.RoleCoordinator, claims.Role)
	assert.Equal(t, "horarios", claims.Issuer)
}

func TestTokenServiceRejects(t *testing.T) {
	svc := NewTokenService("secret", "")

	expired, err := svc.IssueToken(models.JWTClaims{UserID: "u-1", Role: models.RoleAdmin}, -time.Minute)
	require.NoError(t, err)
	_, err = svc.ValidateToken(expired)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
	assert.Equal(t, "token expired", appErrors.FromError(err).Message)

	foreign, err := NewTokenService("other", "").IssueToken(models.JWTClaims{UserID: "u-1", Role: models.RoleAdmin}, time.Hour)
	require.NoError(t, err)
	_, err = svc.ValidateToken(foreign)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))

	roleless, err := svc.IssueToken(models.JWTClaims{UserID: "u-1"}, time.Hour)
	require.NoError(t, err)
	_, err = svc.ValidateToken(roleless)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))

	none := jwt.NewWithClaims(jwt.SigningMethodNone, models.JWTClaims{UserID: "u-1", Role: models.RoleAdmin})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.ValidateToken(unsigned)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))

	_, err = svc.ValidateToken("garbage")
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
}

func TestTokenServiceIssuerMismatch(t *testing.T) {
	token, err := NewTokenService("secret", "elsewhere").IssueToken(models.JWTClaims{UserID: "u-1", Role: models.RoleAdmin}, time.Hour)
	require.NoError(t, err)
	_, err = NewTokenService("secret", "horarios").ValidateToken(token)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
}
