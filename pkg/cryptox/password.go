package cryptox

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// passwordCost is the bcrypt work factor. 12 keeps a single hash in the
// hundreds-of-milliseconds range, which is what makes offline brute force
// impractical.
const passwordCost = 12

// ErrPasswordMismatch is returned by VerifyPassword when the plaintext does
// not match the stored digest. Callers must not distinguish this from an
// unknown account at their own boundary.
var ErrPasswordMismatch = errors.New("cryptox: password does not match")

// HashPassword generates a salted bcrypt digest of the given plaintext.
// The salt and cost are embedded in the returned string.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword compares a plaintext password against a bcrypt digest.
// The comparison is constant-time within bcrypt itself. Any failure,
// including a malformed digest, collapses to ErrPasswordMismatch.
func VerifyPassword(password, encodedHash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password)); err != nil {
		return ErrPasswordMismatch
	}
	return nil
}
