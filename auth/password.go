package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/PaperyIron/notesWebApp/domain"
)

// HashPassword validates the plaintext length and produces a salted
// bcrypt digest. The length check runs on the plaintext; a digest is
// always long enough.
func HashPassword(password string) (string, error) {
	if err := domain.ValidatePassword(password); err != nil {
		return "", err
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(digest), nil
}

// CheckPassword reports whether password matches the stored digest.
// A mismatch is a false return, never an error.
func CheckPassword(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
