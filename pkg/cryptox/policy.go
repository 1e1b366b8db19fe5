package cryptox

import (
	"errors"
	"unicode"
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

var (
	ErrPasswordTooShort = errors.New("password must be at least 8 characters long")
	ErrPasswordNoLower  = errors.New("password must contain a lowercase letter")
	ErrPasswordNoUpper  = errors.New("password must contain an uppercase letter")
	ErrPasswordNoDigit  = errors.New("password must contain a digit")
)

// ValidateStrength enforces the password complexity rules shared by signup,
// change-password, reset, and invite-accept flows. The signature matches
// ozzo-validation's validation.By, so it plugs straight into request DTOs.
func ValidateStrength(value any) error {
	password, _ := value.(string)

	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	var hasLower, hasUpper, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	switch {
	case !hasLower:
		return ErrPasswordNoLower
	case !hasUpper:
		return ErrPasswordNoUpper
	case !hasDigit:
		return ErrPasswordNoDigit
	}

	return nil
}
