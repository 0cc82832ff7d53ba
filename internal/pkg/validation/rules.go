package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Validation rule patterns
var (
	// Email validation pattern
	EmailPattern = `^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`

	// DefaultPasswordMinLength is used when no policy is configured.
	DefaultPasswordMinLength = 6

	// GraduationYearSpan bounds graduation_year to current year..+span.
	GraduationYearSpan = 6
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Email *regexp.Regexp
}{
	Email: regexp.MustCompile(EmailPattern),
}

// ValidateEmail checks that an email is non-empty and well formed.
func ValidateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return fmt.Errorf("email cannot be empty")
	}
	if !CompiledPatterns.Email.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidatePassword enforces the minimum-length policy. minLength values
// below 1 fall back to the default.
func ValidatePassword(password string, minLength int) error {
	if minLength < 1 {
		minLength = DefaultPasswordMinLength
	}
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}
	if len(password) < minLength {
		return fmt.Errorf("password must be at least %d characters long", minLength)
	}
	return nil
}

// CurrentYear returns the current calendar year, the lower bound of
// the accepted graduation year range.
func CurrentYear() int {
	return time.Now().Year()
}

// ValidateGraduationYear checks that a graduation year falls in a
// plausible range (current year through current year + span).
func ValidateGraduationYear(year int) error {
	current := time.Now().Year()
	if year < current || year > current+GraduationYearSpan {
		return fmt.Errorf("graduation year must be between %d and %d", current, current+GraduationYearSpan)
	}
	return nil
}
