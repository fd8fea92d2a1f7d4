package metadata

import (
	"net/url"
	"strings"
)

// Key joins path segments into a repository key. Each segment is escaped
// so that identifiers containing "/" cannot collide with nested keys.
func Key(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return strings.Join(escaped, "/")
}

// SplitKey reverses Key.
func SplitKey(key string) []string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		if s, err := url.PathUnescape(p); err == nil {
			parts[i] = s
		}
	}
	return parts
}
