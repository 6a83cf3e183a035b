package jwt

import (
	"time"
)

const defaultExpiry = 24 * time.Hour

// Service is a wrapper for session token operations
type Service struct {
	secretKey string
	expiry    time.Duration
}

// NewService creates a new JWT service
func NewService(secretKey string, expiry time.Duration) *Service {
	if expiry == 0 {
		expiry = defaultExpiry
	}

	return &Service{
		secretKey: secretKey,
		expiry:    expiry,
	}
}

// GenerateToken generates a session token for a user
func (s *Service) GenerateToken(userID, email string) (string, error) {
	return generateToken(s.secretKey, userID, email, s.expiry)
}

// ValidateToken validates a session token and returns the claims
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	return validateToken(s.secretKey, tokenString)
}
