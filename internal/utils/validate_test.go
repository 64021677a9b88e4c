package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantOK   bool
		wantRule string // substring of one expected violation
	}{
		{"accepts compliant password", "GoodPass99", true, ""},
		{"too short", "short1A", false, "between 8 and 100"},
		{"no uppercase", "alllowercase12", false, "uppercase"},
		{"fewer than two digits", "NoDigitsHere", false, "2 digits"},
		{"blacklisted", "Passw0rd", false, "too common"},
		{"whitespace", "Good Pass99", false, "whitespace"},
		{"blacklist is case-insensitive", "PASSW0RD", false, "too common"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			violations := ValidatePassword(tt.password)
			if tt.wantOK {
				assert.Empty(t, violations)
				return
			}
			assert.NotEmpty(t, violations)
			found := false
			for _, v := range violations {
				if strings.Contains(v, tt.wantRule) {
					found = true
				}
			}
			assert.True(t, found, "expected a violation mentioning %q, got %v", tt.wantRule, violations)
		})
	}
}

// All broken rules must come back in one response, not just the first.
func TestValidatePasswordAccumulates(t *testing.T) {
	violations := ValidatePassword("ab")
	// short, no uppercase and fewer than two digits all apply at once.
	assert.GreaterOrEqual(t, len(violations), 3)
}

func TestValidateRegistration(t *testing.T) {
	ok := ValidateRegistration("alice01", "Alice Tan", "A-12-3", "0123456789", "GoodPass99")
	assert.Empty(t, ok)

	violations := ValidateRegistration("", "", "", "", "GoodPass99")
	assert.Len(t, violations, 4) // every required field reported

	long := strings.Repeat("x", 21)
	violations = ValidateRegistration(long, "Alice", "A-1", "012", "GoodPass99")
	assert.Len(t, violations, 1)
	assert.Contains(t, violations[0], "user_id")
	assert.Contains(t, violations[0], "20")
}

func TestValidateVisitor(t *testing.T) {
	assert.Empty(t, ValidateVisitor("V001", "Bob", "990101-14-5678"))
	violations := ValidateVisitor("", "Bob", "")
	assert.Len(t, violations, 2)
}
