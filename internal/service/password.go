package service

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"clinic-portal/pkg/apierror"
)

// MinPasswordLength applies to registration, staff creation, password change
// and password reset alike.
const MinPasswordLength = 8

var bcryptCost = 12

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func validatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return apierror.New("BAD_REQUEST", fmt.Sprintf("Password must be at least %d characters long", MinPasswordLength), "password", http.StatusBadRequest)
	}
	if len(password) > 72 {
		return apierror.New("BAD_REQUEST", "Password must be at most 72 bytes long", "password", http.StatusBadRequest)
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func passwordMatches(hash string, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func optional(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
