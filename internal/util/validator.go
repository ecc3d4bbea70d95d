package util

import (
	"fmt"
	"net/mail"
	"regexp"
)

// studentIDRe matches university IDs like "ugr/32337/15" (case-insensitive).
var studentIDRe = regexp.MustCompile(`^(?i)[a-z]{3}/[0-9]{4,6}/[0-9]{2}$`)

// ValidateStudentID checks the university ID format.
func ValidateStudentID(id string) error {
	if id == "" {
		return fmt.Errorf("student id is empty")
	}
	if !studentIDRe.MatchString(id) {
		return fmt.Errorf("invalid student id format, expected e.g. ugr/32337/15")
	}
	return nil
}

// ValidateEmail checks the address parses as a single RFC 5322 address.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is empty")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("invalid email: %w", err)
	}
	return nil
}

// ValidateDesktopCode checks the external desktop code (e.g. "LIB-001").
func ValidateDesktopCode(code string) error {
	if code == "" {
		return fmt.Errorf("desktop code is empty")
	}
	if len(code) > 32 {
		return fmt.Errorf("desktop code too long, max 32 characters")
	}
	return nil
}
