package domain

import "strings"

// NormalizeHumanName trims leading/trailing whitespace and collapses internal
// whitespace runs. It is used for first/last name normalization.
func NormalizeHumanName(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeEmail lowercases and trims an email address so it can serve as the
// soft join key between people and login rows.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
