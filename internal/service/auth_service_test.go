package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dex-sniper/internal/config"
	"github.com/dex-sniper/internal/models"
)

func testAuthService() *AuthService {
	return NewAuthService(nil, config.JWTConfig{
		Secret:      "test-secret",
		ExpireHours: 1,
	})
}

func TestTokenRoundTrip(t *testing.T) {
	s := testAuthService()
	operator := &models.Operator{ID: 42, Username: "trader", Role: models.RoleAdmin}

	token, err := s.generateToken(operator)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.Equal(t, 3600, token.ExpiresIn)
	assert.Equal(t, models.RoleAdmin, token.Role)

	claims, err := s.ValidateToken(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.OperatorID)
	assert.Equal(t, "trader", claims.Username)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.Equal(t, "dex-sniper", claims.Issuer)
}

func TestTokenCarriesObserverRole(t *testing.T) {
	s := testAuthService()

	token, err := s.generateToken(&models.Operator{ID: 7, Username: "watcher", Role: models.RoleObserver})
	require.NoError(t, err)

	claims, err := s.ValidateToken(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, models.RoleObserver, claims.Role)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	s := testAuthService()

	_, err := s.ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	issuer := testAuthService()
	token, err := issuer.generateToken(&models.Operator{ID: 1, Username: "trader", Role: models.RoleAdmin})
	require.NoError(t, err)

	verifier := NewAuthService(nil, config.JWTConfig{Secret: "other-secret", ExpireHours: 1})
	_, err = verifier.ValidateToken(token.AccessToken)
	assert.Error(t, err)
}
