// Package phone normalizes user-typed phone numbers towards E.164 with a
// Senegalese default country code. Normalization is best-effort: anything the
// rules cannot classify is passed through cleaned, and the server stays the
// authoritative validator.
package phone

import (
	"regexp"
	"strings"
)

// CountryCode is the default country prefix applied to bare local numbers.
const CountryCode = "+221"

var (
	nineDigits  = regexp.MustCompile(`^\d{9}$`)
	localPrefix = regexp.MustCompile(`^221\d{9}$`)
	e164Shape   = regexp.MustCompile(`^\+\d{11,15}$`)
)

// Normalize produces a best-effort E.164-shaped candidate from raw input.
//
// Rules, in order: strip spaces and hyphens; empty stays empty; a leading '+'
// is trusted as-is; exactly 9 digits get the default country code; "221"
// followed by 9 digits gets a '+'; everything else is returned cleaned.
func Normalize(raw string) string {
	cleaned := strings.NewReplacer(" ", "", "-", "").Replace(raw)
	cleaned = strings.TrimSpace(cleaned)

	switch {
	case cleaned == "":
		return ""
	case strings.HasPrefix(cleaned, "+"):
		return cleaned
	case nineDigits.MatchString(cleaned):
		return CountryCode + cleaned
	case localPrefix.MatchString(cleaned):
		return "+" + cleaned
	default:
		return cleaned
	}
}

// IsLikelyE164 reports whether s looks like a full international number:
// a '+' followed by 11 to 15 digits. The check is advisory and only gates
// submission; it never replaces server-side validation.
func IsLikelyE164(s string) bool {
	return e164Shape.MatchString(s)
}
