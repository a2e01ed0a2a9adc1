package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotConfigured      = errors.New("admin credentials are not configured")
)
