// Deep-link resolver.
//
// Resolve builds the exact URI a client should open for a search: the native
// app deep link when the app is present, otherwise the platform's https
// search URL. Resolution is pure; probing app presence and launching the URI
// both stay on the caller's side, and a failed native launch must always fall
// back to the web target (never surfaced to the end user).
package platform

import (
	"errors"
	"strings"
)

// ErrEmptyQueryUnsupported is returned when the query is empty and the
// requested mode has no defined empty-query URI. Native targets fall back to
// the platform's open-app URI, so this only occurs for web targets: no
// platform declares a meaningful empty-query search URL.
var ErrEmptyQueryUnsupported = errors.New("empty query not supported for this target")

// LaunchTarget is a resolved, launchable URI.
type LaunchTarget struct {
	URI      string `json:"uri"`
	IsNative bool   `json:"is_native"`
}

// Resolve builds the launch target for query on p.
//
// When nativeAppPresent is true the native deep link is built: the query is
// percent-encoded and appended to the platform's app search URI. Instagram
// queries beginning with "@" route to the profile deep link instead, with the
// prefix stripped before encoding. An empty query opens the app itself.
//
// When nativeAppPresent is false the web search URL is built the same way;
// an empty query yields ErrEmptyQueryUnsupported.
func Resolve(query string, p Platform, nativeAppPresent bool) (LaunchTarget, error) {
	if !nativeAppPresent {
		return WebTarget(query, p)
	}

	if query == "" {
		return LaunchTarget{URI: p.AppOpenURI, IsNative: true}, nil
	}
	if p.ProfileURI != "" && strings.HasPrefix(query, "@") {
		handle := strings.TrimPrefix(query, "@")
		return LaunchTarget{URI: p.ProfileURI + EncodeQuery(handle), IsNative: true}, nil
	}
	return LaunchTarget{URI: p.AppSearchURI + EncodeQuery(query), IsNative: true}, nil
}

// WebTarget builds the https fallback target for query on p. This is the
// unconditional recovery path when a native launch fails.
func WebTarget(query string, p Platform) (LaunchTarget, error) {
	if query == "" {
		return LaunchTarget{}, ErrEmptyQueryUnsupported
	}
	return LaunchTarget{URI: p.WebSearchURL + EncodeQuery(query), IsNative: false}, nil
}

// EncodeQuery percent-encodes s for use as a URL query value. Every byte
// outside the RFC 3986 unreserved set (ALPHA / DIGIT / "-" / "_" / "." / "~")
// is encoded, and space becomes %20 rather than "+" (several native app URI
// parsers reject the form-encoding convention).
func EncodeQuery(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0F])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '-' || c == '_' || c == '.' || c == '~':
		return true
	}
	return false
}
