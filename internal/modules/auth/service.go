package auth

import (
	"context"
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const RoleAdmin = "admin"

// Service authenticates the single site administrator configured through
// ADMIN_EMAIL and ADMIN_PASSWORD_HASH.
type Service struct {
	email        string
	passwordHash []byte
	tokens       TokenIssuer
}

func NewService(email, passwordHash string, tokens TokenIssuer) *Service {
	return &Service{
		email:        normalizeEmail(email),
		passwordHash: []byte(passwordHash),
		tokens:       tokens,
	}
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.email == "" || len(s.passwordHash) == 0 {
		return nil, ErrNotConfigured
	}

	emailOK := subtle.ConstantTimeCompare([]byte(normalizeEmail(req.Email)), []byte(s.email)) == 1
	// Always run bcrypt so a wrong email costs the same as a wrong password.
	pwErr := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(req.Password))
	if !emailOK || pwErr != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(s.email, RoleAdmin)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		Token:     token,
		ExpiresIn: int64(s.tokens.TTL().Seconds()),
		Email:     s.email,
		Role:      RoleAdmin,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
