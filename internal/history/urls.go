package history

import "strings"

// NormalizeURL canonicalizes a portal URL for identity comparison: the
// query string is dropped and a trailing slash is enforced, since the
// portal serves the same article under both forms.
func NormalizeURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if i := strings.IndexByte(trimmed, '?'); i >= 0 {
		trimmed = trimmed[:i]
	}
	if !strings.HasSuffix(trimmed, "/") {
		trimmed += "/"
	}
	return trimmed
}
