package handlers

import (
	"net/mail"
	"strings"
	"unicode/utf8"
)

// Validation limits for account forms.
const (
	MinPasswordLen = 8
	maxPasswordLen = 72 // bcrypt ignores anything longer
	maxEmailLen    = 254
)

// validateSignUp checks sign-up form inputs and returns the first error found.
func validateSignUp(email, password, confirm string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return "Email is required."
	}
	if utf8.RuneCountInString(email) > maxEmailLen {
		return "Email is too long."
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return "Please enter a valid email address."
	}
	if utf8.RuneCountInString(password) < MinPasswordLen {
		return "Password must be at least 8 characters."
	}
	if len(password) > maxPasswordLen {
		return "Password is too long (max 72 bytes)."
	}
	if password != confirm {
		return "Passwords do not match."
	}
	return ""
}

// validateTOTPCode checks that code looks like a 6-digit TOTP code.
func validateTOTPCode(code string) string {
	if len(code) != 6 {
		return "Enter the 6-digit code from your authenticator app."
	}
	for _, c := range code {
		if c < '0' || c > '9' {
			return "Enter the 6-digit code from your authenticator app."
		}
	}
	return ""
}
