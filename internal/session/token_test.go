package session

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager(TokenConfig{Secret: []byte("test-secret")})
	sessionID := uuid.New()

	token, err := m.Generate(sessionID, "42", "alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, sessionID, claims.SessionID)
	assert.Equal(t, "42", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "course-helper", claims.Issuer)
}

func TestTokenExpired(t *testing.T) {
	m := NewTokenManager(TokenConfig{Secret: []byte("test-secret"), TTL: -time.Minute})

	token, err := m.Generate(uuid.New(), "42", "alice")
	require.NoError(t, err)

	_, err = m.Validate(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenWrongSecret(t *testing.T) {
	m := NewTokenManager(TokenConfig{Secret: []byte("secret-a")})
	other := NewTokenManager(TokenConfig{Secret: []byte("secret-b")})

	token, err := m.Generate(uuid.New(), "42", "alice")
	require.NoError(t, err)

	_, err = other.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenGarbage(t *testing.T) {
	m := NewTokenManager(TokenConfig{Secret: []byte("test-secret")})

	_, err := m.Validate("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
