package service

import (
	"regexp"
	"strings"

	"github.com/dtroode/journal-auth/internal/apierror"
	"github.com/dtroode/journal-auth/internal/password"
)

// MinPasswordLength is the shortest password accepted at registration and reset.
const MinPasswordLength = 8

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	return len(email) <= 254 && emailPattern.MatchString(email)
}

func validatePassword(pw, confirm string) error {
	if len(pw) < MinPasswordLength {
		return apierror.NewValidation("password must be at least %d characters", MinPasswordLength)
	}
	if len(pw) > password.MaxLength {
		return apierror.NewValidation("password must be at most %d bytes", password.MaxLength)
	}
	if pw != confirm {
		return apierror.NewValidation("passwords do not match")
	}
	return nil
}
