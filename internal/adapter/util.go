package adapter

import (
	"html"
	"regexp"
	"strings"
	"time"
)

var htmlTagRegex = regexp.MustCompile(`<[^>]*>`)

// extractText flattens a listing body to plain text for storage and
// fingerprinting. Entities are unescaped before tags are stripped because
// Greenhouse double-encodes its content field.
func extractText(content string) string {
	unescaped := html.UnescapeString(content)
	plain := htmlTagRegex.ReplaceAllString(unescaped, " ")
	return strings.Join(strings.Fields(plain), " ")
}

// parseTimestamp returns the first value that parses as RFC3339, in UTC.
// Boards leave dates empty or malformed often enough that a bad value falls
// through to the next candidate and finally to fallback.
func parseTimestamp(fallback time.Time, values ...string) time.Time {
	for _, v := range values {
		if v == "" {
			continue
		}
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return t.UTC()
		}
	}
	return fallback.UTC()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
