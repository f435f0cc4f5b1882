package model

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// trims and lower-cases an email so it can be used as a group key
func NormalizeEmail(s string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(s))
}

// strips spaces, collapses inner whitespace runs into a single space
func CleanupName(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
