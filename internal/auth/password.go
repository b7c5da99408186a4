package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/helpdesk-core/pkg/util"
)

// bcrypt ignores input past 72 bytes, so longer passwords are rejected
// rather than silently truncated.
const passwordMaxBytes = 72

// HashPassword hashes a plaintext password. A cost outside bcrypt's
// supported range falls back to the library default.
func HashPassword(password string, cost int) (string, error) {
	if len(password) > passwordMaxBytes {
		return "", util.NewInvalidInput("password must not exceed 72 bytes", nil)
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}
