package httpx

import (
	"errors"
	"strings"
)

// Input limits carried over from the original store's validation rules.
const (
	minUsernameLen = 3
	maxUsernameLen = 30
	minPasswordLen = 8
	maxPasswordLen = 128
	maxEmailLen    = 254
	maxContentLen  = 500
)

func validateUsername(s string) (string, error) {
	s = strings.TrimSpace(s)
	if len(s) < minUsernameLen {
		return "", errors.New("username too short (min 3)")
	}
	if len(s) > maxUsernameLen {
		return "", errors.New("username too long (max 30)")
	}
	return s, nil
}

func validateEmail(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || len(s) > maxEmailLen || !strings.Contains(s, "@") {
		return "", errors.New("invalid email")
	}
	return s, nil
}

func validatePassword(s string) (string, error) {
	if len(s) < minPasswordLen {
		return "", errors.New("password too short (min 8)")
	}
	if len(s) > maxPasswordLen {
		return "", errors.New("password too long (max 128)")
	}
	return s, nil
}

func validateContent(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", errors.New("empty message")
	}
	if len(s) > maxContentLen {
		return "", errors.New("message too long (max 500)")
	}
	return s, nil
}

func validateRating(n int) error {
	if n < 1 || n > 5 {
		return errors.New("rating must be between 1 and 5")
	}
	return nil
}

func validatePrice(p float64) error {
	if p < 0 {
		return errors.New("price cannot be negative")
	}
	return nil
}
