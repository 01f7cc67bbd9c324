package auth

import (
	"crypto/subtle"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const bcryptHashLen = 60

func isBcryptHash(stored string) bool {
	if len(stored) != bcryptHashLen {
		return false
	}
	return strings.HasPrefix(stored, "$2a$") ||
		strings.HasPrefix(stored, "$2b$") ||
		strings.HasPrefix(stored, "$2y$")
}

// checkPassword compares a claimed password with the stored value. Stored
// values that are not bcrypt hashes are legacy plaintext; for those a match
// also reports upgrade=true.
func checkPassword(stored, claimed string) (ok bool, upgrade bool) {
	if isBcryptHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(claimed)) == nil, false
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(claimed)) != 1 {
		return false, false
	}
	return true, true
}

func hashPassword(pw string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrInvalidInput
		}
		return "", err
	}
	return string(hash), nil
}
