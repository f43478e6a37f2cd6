package utils

import "strings"

// NormalizeText canonicalizes free text for case- and whitespace-insensitive
// matching: lowercase, trimmed, with internal whitespace runs collapsed to a
// single space.
func NormalizeText(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
