package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	s := New("secret", time.Hour)

	token, err := s.GenerateToken("admin@example.com", "admin")
	require.NoError(t, err)

	claims, err := s.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", claims.Subject)
	assert.Equal(t, "admin", claims.Role)
}

func TestValidate_WrongSecret(t *testing.T) {
	token, err := New("one", time.Hour).GenerateToken("a@b.c", "admin")
	require.NoError(t, err)

	_, err = New("two", time.Hour).ValidateToken(token)
	assert.Error(t, err)
}

func TestValidate_Expired(t *testing.T) {
	s := New("secret", time.Minute)
	s.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := s.GenerateToken("a@b.c", "admin")
	require.NoError(t, err)

	_, err = s.ValidateToken(token)
	assert.Error(t, err)
}
