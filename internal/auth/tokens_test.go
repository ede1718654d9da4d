package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	// Arrange
	issuer := NewTokenIssuer("test-secret", "bookstore-user", time.Hour)
	claims := Claims{UserID: "user-1", Username: "john@example.com", Role: RoleUser}

	// Act
	token, err := issuer.Issue(claims)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	verified, err := issuer.Verify(token)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, claims, verified)
}

func TestVerifyRejectsOtherNamespace(t *testing.T) {
	// Um token de usuário nunca valida no namespace administrativo
	userIssuer := NewTokenIssuer("user-secret", "bookstore-user", time.Hour)
	adminIssuer := NewTokenIssuer("admin-secret", "bookstore-admin", time.Hour)

	token, err := userIssuer.Issue(Claims{UserID: "user-1", Username: "john@example.com", Role: RoleUser})
	require.NoError(t, err)

	_, err = adminIssuer.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsWrongAudienceSameSecret(t *testing.T) {
	// Mesmo segredo, audiência diferente: a audiência ainda barra o token
	issuerA := NewTokenIssuer("shared-secret", "bookstore-user", time.Hour)
	issuerB := NewTokenIssuer("shared-secret", "bookstore-admin", time.Hour)

	token, err := issuerA.Issue(Claims{UserID: "user-1", Username: "john@example.com", Role: RoleUser})
	require.NoError(t, err)

	_, err = issuerB.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", "bookstore-user", -time.Minute)

	token, err := issuer.Issue(Claims{UserID: "user-1", Username: "john@example.com", Role: RoleUser})
	require.NoError(t, err)

	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", "bookstore-user", time.Hour)

	_, err := issuer.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIsAdmin(t *testing.T) {
	assert.True(t, Claims{Role: RoleAdmin}.IsAdmin())
	assert.False(t, Claims{Role: RoleUser}.IsAdmin())
	assert.False(t, Claims{}.IsAdmin())
}
