package format

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	reEmail = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	reUpper = regexp.MustCompile(`[A-Z]`)
	reDigit = regexp.MustCompile(`[0-9]`)
)

// Requirement is one line of the password checklist shown on signup.
type Requirement struct {
	Label string `json:"label"`
	Met   bool   `json:"met"`
}

func ValidateEmail(email string) bool { return reEmail.MatchString(email) }

// ValidatePassword requires 8+ characters with an uppercase letter and a digit.
func ValidatePassword(password string) bool {
	return utf8.RuneCountInString(password) >= 8 && HasUpper(password) && HasDigit(password)
}

func ValidateName(name string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(name)) >= 2
}

func HasUpper(s string) bool { return reUpper.MatchString(s) }
func HasDigit(s string) bool { return reDigit.MatchString(s) }

func PasswordRequirements(password, confirm string) []Requirement {
	return []Requirement{
		{Label: "At least 8 characters", Met: utf8.RuneCountInString(password) >= 8},
		{Label: "Contains uppercase letter", Met: HasUpper(password)},
		{Label: "Contains number", Met: HasDigit(password)},
		{Label: "Passwords match", Met: password == confirm && password != ""},
	}
}
