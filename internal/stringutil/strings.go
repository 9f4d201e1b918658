// Package stringutil provides common string manipulation utilities.
package stringutil

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Fold normalizes a string for case-insensitive matching.
// NFKC normalization collapses compatibility forms that show up in text
// scraped from web pages (non-breaking spaces, ligatures, full-width forms)
// before lowercasing, so "ﬁnance" and "Finance" compare equal.
func Fold(s string) string {
	return strings.ToLower(norm.NFKC.String(s))
}

// ContainsFold reports whether substr is contained in s under Fold normalization.
// An empty substr matches everything, mirroring strings.Contains.
func ContainsFold(s, substr string) bool {
	return strings.Contains(Fold(s), Fold(substr))
}

// IsNumeric checks if a string contains only digits.
// Returns false for empty strings.
func IsNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
