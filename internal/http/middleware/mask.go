// This file implements query-string masking for access logs. Search queries
// reveal what the user was looking for, so their values never reach the logs;
// only parameter names and value lengths do.
package middleware

import (
	"net/url"
	"strconv"
	"strings"
)

// sensitiveParams are query parameters whose values are always masked.
// "q" and "query" carry search text; "after" is a Reddit pagination cursor
// derived from a prior search.
var sensitiveParams = map[string]struct{}{
	"q":     {},
	"query": {},
	"after": {},
}

// MaskSearchParams rewrites a raw query string so sensitive parameter values
// are replaced with a length marker, e.g. "q=[masked:14]&sort=top". Parameter
// order is preserved. Undecodable input is masked wholesale rather than
// leaked.
func MaskSearchParams(rawQuery string) string {
	if rawQuery == "" {
		return ""
	}
	var b strings.Builder
	for i, pair := range strings.Split(rawQuery, "&") {
		if i > 0 {
			b.WriteByte('&')
		}
		key, val, hasVal := strings.Cut(pair, "=")
		decoded, err := url.QueryUnescape(key)
		if err != nil {
			b.WriteString("[masked]")
			continue
		}
		if _, sensitive := sensitiveParams[strings.ToLower(decoded)]; !sensitive {
			b.WriteString(pair)
			continue
		}
		b.WriteString(key)
		if hasVal {
			b.WriteString("=[masked:")
			b.WriteString(strconv.Itoa(len(val)))
			b.WriteByte(']')
		}
	}
	return b.String()
}
