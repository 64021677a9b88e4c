package utils

import (
	"fmt"
	"strings"
	"unicode"
)

// Field length limits for account registration. The limits match the
// column widths in schema.sql.
const (
	MaxUserIDLen = 20
	MaxNameLen   = 50
	MaxUnitLen   = 15
	MaxPhoneLen  = 12
)

// passwordBlacklist lists common passwords that are rejected outright,
// compared case-insensitively.
var passwordBlacklist = []string{
	"password",
	"passw0rd",
	"password1",
	"12345678",
	"qwerty123",
	"letmein123",
	"iloveyou1",
	"abc12345",
}

// ValidateRegistration checks the account fields and password supplied
// during registration. It returns the complete list of violated rules
// rather than stopping at the first, so the client can fix everything
// in one round trip. An empty slice means the input is acceptable.
func ValidateRegistration(userID, name, unit, phone, password string) []string {
	var violations []string
	violations = append(violations, validateField("user_id", userID, MaxUserIDLen)...)
	violations = append(violations, validateField("name", name, MaxNameLen)...)
	violations = append(violations, validateField("unit", unit, MaxUnitLen)...)
	violations = append(violations, validateField("phone", phone, MaxPhoneLen)...)
	violations = append(violations, ValidatePassword(password)...)
	return violations
}

// validateField enforces presence and a maximum length for one field.
func validateField(field, value string, max int) []string {
	var violations []string
	if strings.TrimSpace(value) == "" {
		violations = append(violations, fmt.Sprintf("%s is required", field))
	}
	if len(value) > max {
		violations = append(violations, fmt.Sprintf("%s must be at most %d characters", field, max))
	}
	return violations
}

// ValidatePassword applies the password policy: length 8–100, at least
// one uppercase letter, one lowercase letter, two digits, no whitespace
// and not a blacklisted common password. All violated rules are
// reported together.
func ValidatePassword(password string) []string {
	var violations []string
	if len(password) < 8 || len(password) > 100 {
		violations = append(violations, "password must be between 8 and 100 characters")
	}
	var upper, lower, digits int
	hasSpace := false
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper++
		case unicode.IsLower(r):
			lower++
		case unicode.IsDigit(r):
			digits++
		case unicode.IsSpace(r):
			hasSpace = true
		}
	}
	if upper < 1 {
		violations = append(violations, "password must contain at least 1 uppercase letter")
	}
	if lower < 1 {
		violations = append(violations, "password must contain at least 1 lowercase letter")
	}
	if digits < 2 {
		violations = append(violations, "password must contain at least 2 digits")
	}
	if hasSpace {
		violations = append(violations, "password must not contain whitespace")
	}
	for _, banned := range passwordBlacklist {
		if strings.EqualFold(password, banned) {
			violations = append(violations, "password is too common")
			break
		}
	}
	return violations
}

// ValidateVisitor checks the required visitor fields on registration.
// Visitors are registered by authenticated users, so the checks are
// lighter than account registration: presence and length caps only.
func ValidateVisitor(refNum, name, icNum string) []string {
	var violations []string
	violations = append(violations, validateField("ref_num", refNum, MaxUserIDLen)...)
	violations = append(violations, validateField("name", name, MaxNameLen)...)
	violations = append(violations, validateField("IC_num", icNum, MaxUserIDLen)...)
	return violations
}
