package auth

import "time"

// TokenIssuer is the subset of the jwt service the login flow needs.
type TokenIssuer interface {
	GenerateToken(subject, role string) (string, error)
	TTL() time.Duration
}
