package resolver

import (
	"strings"
	"unicode"
)

// TrimLeadingToken drops the first whitespace-delimited token of address and any
// whitespace that follows it. When address starts with whitespace only that
// whitespace is removed.
func TrimLeadingToken(address string) string {
	rest := strings.TrimLeftFunc(address, func(r rune) bool { return !unicode.IsSpace(r) })
	return strings.TrimLeftFunc(rest, unicode.IsSpace)
}

// IsExhausted reports whether a candidate is too short to be worth another query:
// it is empty or down to a single token.
func IsExhausted(candidate string) bool {
	return candidate == "" || strings.IndexFunc(candidate, unicode.IsSpace) < 0
}
