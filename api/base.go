package api

import (
	"regexp"
	"strings"
)

// DefaultBase is used whenever no base URL was given or stored.
const DefaultBase = "http://localhost:5000"

var schemeRe = regexp.MustCompile(`(?i)^https?://`)

// NormalizeBase trims input, falls back to DefaultBase, adds an http://
// scheme when none is present and strips trailing slashes.
func NormalizeBase(input string) string {
	b := strings.TrimSpace(input)
	if b == "" {
		b = DefaultBase
	}
	if !schemeRe.MatchString(b) {
		b = "http://" + b
	}
	return strings.TrimRight(b, "/")
}
