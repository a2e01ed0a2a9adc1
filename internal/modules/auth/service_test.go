package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type mockTokenIssuer struct {
	mock.Mock
}

func (m *mockTokenIssuer) GenerateToken(subject, role string) (string, error) {
	args := m.Called(subject, role)
	return args.String(0), args.Error(1)
}

func (m *mockTokenIssuer) TTL() time.Duration {
	return time.Hour
}

func hashPassword(t *testing.T, pw string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestLogin_Success(t *testing.T) {
	tokens := new(mockTokenIssuer)
	tokens.On("GenerateToken", "owner@example.com", RoleAdmin).Return("signed-token", nil)

	svc := NewService("Owner@Example.com", hashPassword(t, "s3cret!"), tokens)
	res, err := svc.Login(context.Background(), LoginRequest{Email: " owner@example.com ", Password: "s3cret!"})

	require.NoError(t, err)
	assert.Equal(t, "signed-token", res.Token)
	assert.Equal(t, int64(3600), res.ExpiresIn)
	assert.Equal(t, RoleAdmin, res.Role)
	tokens.AssertExpectations(t)
}

func TestLogin_WrongPassword(t *testing.T) {
	tokens := new(mockTokenIssuer)
	svc := NewService("owner@example.com", hashPassword(t, "s3cret!"), tokens)

	_, err := svc.Login(context.Background(), LoginRequest{Email: "owner@example.com", Password: "nope"})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	tokens.AssertNotCalled(t, "GenerateToken", mock.Anything, mock.Anything)
}

func TestLogin_WrongEmail(t *testing.T) {
	tokens := new(mockTokenIssuer)
	svc := NewService("owner@example.com", hashPassword(t, "s3cret!"), tokens)

	_, err := svc.Login(context.Background(), LoginRequest{Email: "intruder@example.com", Password: "s3cret!"})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_NotConfigured(t *testing.T) {
	svc := NewService("", "", new(mockTokenIssuer))

	_, err := svc.Login(context.Background(), LoginRequest{Email: "a@b.c", Password: "x"})

	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestLogin_TokenError(t *testing.T) {
	tokens := new(mockTokenIssuer)
	tokens.On("GenerateToken", "owner@example.com", RoleAdmin).Return("", errors.New("sign failed"))
	svc := NewService("owner@example.com", hashPassword(t, "pw"), tokens)

	_, err := svc.Login(context.Background(), LoginRequest{Email: "owner@example.com", Password: "pw"})

	assert.EqualError(t, err, "sign failed")
}
