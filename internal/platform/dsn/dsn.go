// Package dsn edits Postgres connection strings in either URL form
// (postgres://...) or lib/pq key=value form.
package dsn

import (
	"net/url"
	"strings"
)

const binaryParametersKey = "binary_parameters"

func parseURL(raw string) (*url.URL, bool) {
	parsed, err := url.Parse(raw)
	if err != nil || parsed == nil || parsed.Scheme == "" {
		return nil, false
	}
	return parsed, true
}

func keyValue(raw, key string) (string, bool) {
	for _, token := range strings.Fields(raw) {
		name, value, found := strings.Cut(token, "=")
		if found && name == key {
			return strings.Trim(value, `"'`), true
		}
	}
	return "", false
}

// WithBinaryParameters turns on lib/pq binary parameters unless the
// connection string already sets the option, so statements are sent in
// one round trip without server-side prepare.
func WithBinaryParameters(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return raw
	}

	if parsed, ok := parseURL(trimmed); ok {
		query := parsed.Query()
		if query.Get(binaryParametersKey) != "" {
			return raw
		}
		query.Set(binaryParametersKey, "yes")
		parsed.RawQuery = query.Encode()
		return parsed.String()
	}

	if _, ok := keyValue(trimmed, binaryParametersKey); ok {
		return raw
	}
	return trimmed + " " + binaryParametersKey + "=yes"
}

// DatabaseName returns the database a connection string points at, or ""
// when none is named.
func DatabaseName(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if parsed, ok := parseURL(trimmed); ok {
		if name := strings.TrimSpace(strings.TrimPrefix(parsed.Path, "/")); name != "" {
			return name
		}
	}
	name, _ := keyValue(trimmed, "dbname")
	return name
}
