// Package validation holds the input rules applied before requests reach the
// services: password strength, handle/email/course-code formats, lengths.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	usernamePattern   = regexp.MustCompile(`^[A-Za-z0-9_]{3,80}$`)
	emailPattern      = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	courseCodePattern = regexp.MustCompile(`^[A-Za-z0-9]{3,10}$`)
)

const MaxEmailLength = 120

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

// Password enforces: at least 8 characters, one upper, one lower, one digit.
func Password(password string) error {
	if password == "" {
		return fmt.Errorf("password is required")
	}
	if utf8.RuneCountInString(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}
	if len(password) > MaxPasswordBytes {
		return fmt.Errorf("password is too long (max %d bytes)", MaxPasswordBytes)
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper {
		return fmt.Errorf("password must contain at least one uppercase letter")
	}
	if !hasLower {
		return fmt.Errorf("password must contain at least one lowercase letter")
	}
	if !hasDigit {
		return fmt.Errorf("password must contain at least one number")
	}
	return nil
}

func Username(username string) error {
	if username == "" {
		return fmt.Errorf("username is required")
	}
	if !usernamePattern.MatchString(username) {
		return fmt.Errorf("username must be 3-80 letters, numbers, or underscores")
	}
	return nil
}

func Email(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if len(email) > MaxEmailLength {
		return fmt.Errorf("email is too long (max %d characters)", MaxEmailLength)
	}
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

func CourseCode(code string) error {
	if code == "" {
		return fmt.Errorf("course code is required")
	}
	if !courseCodePattern.MatchString(code) {
		return fmt.Errorf("course code must be 3-10 alphanumeric characters")
	}
	return nil
}

// Length checks a trimmed string against inclusive rune bounds.
func Length(field, value string, minLen, maxLen int) error {
	n := utf8.RuneCountInString(strings.TrimSpace(value))
	if n == 0 && minLen > 0 {
		return fmt.Errorf("%s is required", field)
	}
	if n < minLen {
		return fmt.Errorf("%s must be at least %d characters", field, minLen)
	}
	if n > maxLen {
		return fmt.Errorf("%s must not exceed %d characters", field, maxLen)
	}
	return nil
}
