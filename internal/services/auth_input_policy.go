package services

import (
	"errors"
	"strings"
	"unicode/utf8"
)

const MaxUsernameLength = 64

var (
	ErrUsernameRequired = errors.New("username required")
	ErrUsernameTooLong  = errors.New("username too long")
	ErrPasswordRequired = errors.New("password required")
	ErrPasswordMismatch = errors.New("password mismatch")
)

// NormalizeUsername trims surrounding space and folds runs of inner
// whitespace. Case is kept: roster names are stored as written.
func NormalizeUsername(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}

func NormalizeCredentialsInput(usernameRaw string, passwordRaw string) (string, string, error) {
	username := NormalizeUsername(usernameRaw)
	if username == "" {
		return "", "", ErrUsernameRequired
	}
	if utf8.RuneCountInString(username) > MaxUsernameLength {
		return "", "", ErrUsernameTooLong
	}
	if strings.TrimSpace(passwordRaw) == "" {
		return "", "", ErrPasswordRequired
	}
	return username, passwordRaw, nil
}
