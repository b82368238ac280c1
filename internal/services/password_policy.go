package services

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const MinPasswordLength = 6

var ErrWeakPassword = errors.New("weak password")

// ValidatePasswordStrength only enforces a length floor; the roster default
// of six digits must stay valid.
func ValidatePasswordStrength(password string) error {
	if len([]rune(password)) < MinPasswordLength {
		return ErrWeakPassword
	}
	return nil
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// LegacyPasswordDigest is the unsalted sha256 hex digest older deployments
// stored in the users sheet.
func LegacyPasswordDigest(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

func IsLegacyPasswordDigest(hash string) bool {
	if len(hash) != sha256.Size*2 {
		return false
	}
	_, err := hex.DecodeString(hash)
	return err == nil
}

// VerifyPassword checks password against a bcrypt hash or a legacy digest and
// reports whether the stored value should be rehashed.
func VerifyPassword(hash string, password string) (ok bool, needsRehash bool) {
	hash = strings.TrimSpace(hash)
	if IsLegacyPasswordDigest(hash) {
		candidate := LegacyPasswordDigest(password)
		if subtle.ConstantTimeCompare([]byte(strings.ToLower(hash)), []byte(candidate)) == 1 {
			return true, true
		}
		return false, false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil, false
}
