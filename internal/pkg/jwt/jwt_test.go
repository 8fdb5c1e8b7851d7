package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessToken_VerifiableRoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", "15m")

	employeeID := "emp-1"
	tokenString, expiresAt, err := svc.GenerateAccessToken("user-1", &employeeID, "company-1", "admin")
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)
	assert.Greater(t, expiresAt, time.Now().Unix())

	token, err := jwtauth.VerifyToken(svc.JWTAuth(), tokenString)
	require.NoError(t, err)

	claims, err := token.AsMap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims["user_id"])
	assert.Equal(t, "company-1", claims["company_id"])
	assert.Equal(t, "admin", claims["role"])
	assert.Equal(t, "access", claims["type"])
	assert.Equal(t, "emp-1", claims["employee_id"])
}

func TestGenerateAccessToken_OmitsEmployeeClaimWhenUnlinked(t *testing.T) {
	svc := NewJWTService("test-secret", "15m")

	tokenString, _, err := svc.GenerateAccessToken("user-1", nil, "company-1", "hr")
	require.NoError(t, err)

	token, err := jwtauth.VerifyToken(svc.JWTAuth(), tokenString)
	require.NoError(t, err)

	claims, err := token.AsMap(context.Background())
	require.NoError(t, err)
	_, ok := claims["employee_id"]
	assert.False(t, ok)
}

func TestGenerateAccessToken_RejectsBadExpiration(t *testing.T) {
	svc := NewJWTService("test-secret", "soon")

	_, _, err := svc.GenerateAccessToken("user-1", nil, "company-1", "employee")
	assert.Error(t, err)
}
