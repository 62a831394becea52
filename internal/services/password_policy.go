package services

import (
	"errors"
	"unicode"
)

const minAccessPasswordLength = 8

var ErrWeakPassword = errors.New("weak password")

// ValidateAccessPassword requires at least eight characters mixing letters
// and digits.
func ValidateAccessPassword(password string) error {
	if len([]rune(password)) < minAccessPasswordLength {
		return ErrWeakPassword
	}

	hasLetter := false
	hasDigit := false
	for _, char := range password {
		switch {
		case unicode.IsLetter(char):
			hasLetter = true
		case unicode.IsDigit(char):
			hasDigit = true
		}
	}

	if hasLetter && hasDigit {
		return nil
	}
	return ErrWeakPassword
}
