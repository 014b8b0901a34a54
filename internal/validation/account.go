package validation

import (
	"fmt"
	"regexp"
	"unicode"
	"unicode/utf8"
)

var accountEmailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidatePassword checks if a password meets security requirements
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}

	// Prevent unreasonable inputs
	if len(password) > 128 {
		return fmt.Errorf("password must not exceed 128 characters")
	}

	hasLetter := false
	hasDigit := false
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return fmt.Errorf("password must contain at least one letter and one digit")
	}

	return nil
}

// ValidateEmail checks basic email format
func ValidateEmail(email string) error {
	if !accountEmailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}

	if len(email) > 254 {
		return fmt.Errorf("email must not exceed 254 characters")
	}

	return nil
}

// ValidateNickname checks a profile nickname. Nicknames are optional;
// an empty string falls back to the ID-derived pseudonym.
func ValidateNickname(nickname string) error {
	if nickname == "" {
		return nil
	}

	if utf8.RuneCountInString(nickname) > 30 {
		return fmt.Errorf("nickname must not exceed 30 characters")
	}

	for _, r := range nickname {
		if unicode.IsControl(r) {
			return fmt.Errorf("nickname contains invalid characters")
		}
	}

	return nil
}
