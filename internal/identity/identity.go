// Package identity holds record-metadata helpers for the identity field: canonical
// normalization and the email format rules shared by validation and commit.
package identity

import (
	"net"
	"regexp"
	"strings"
)

// EmailPattern is an RFC-5322-derived ASCII pattern for addr-spec without quoted
// strings, comments, or domain literals. Domains need at least two labels.
var EmailPattern = regexp.MustCompile(
	`^[A-Za-z0-9!#$%&'*+/=?^_` + "`" + `{|}~-]+(?:\.[A-Za-z0-9!#$%&'*+/=?^_` + "`" + `{|}~-]+)*` +
		`@[A-Za-z0-9](?:[A-Za-z0-9-]{0,61}[A-Za-z0-9])?` +
		`(?:\.[A-Za-z0-9](?:[A-Za-z0-9-]{0,61}[A-Za-z0-9])?)+$`,
)

// Normalize canonicalizes a raw identity value: surrounding whitespace is trimmed
// and ASCII letters are lowered. Applied before format validation and before any
// uniqueness claim so equivalent spellings collide.
func Normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// ValidEmail reports whether a normalized value is an acceptable address:
// it must match [EmailPattern] and its domain must not be a bare IP literal.
func ValidEmail(value string) bool {
	if !EmailPattern.MatchString(value) {
		return false
	}
	at := strings.LastIndexByte(value, '@')
	domain := value[at+1:]
	return net.ParseIP(domain) == nil
}
