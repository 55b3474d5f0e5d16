package auth

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/SE-Project-VCF/virtual-career-fair-sub001/internal/models"
)

func TestJWTRoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", 1)

	token, err := svc.Generate("u1", "user@test.dev", models.RoleCompanyOwner)
	require.NoError(t, err)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	require.Equal(t, "u1", claims.UserID)
	require.Equal(t, "user@test.dev", claims.Email)
	require.Equal(t, string(models.RoleCompanyOwner), claims.Role)
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	token, err := NewJWTService("secret-a", 1).Generate("u1", "user@test.dev", models.RoleStudent)
	require.NoError(t, err)

	_, err = NewJWTService("secret-b", 1).Validate(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTRejectsGarbage(t *testing.T) {
	_, err := NewJWTService("secret", 1).Validate("not-a-token")
	require.ErrorIs(t, err, ErrInvalidToken)
}
