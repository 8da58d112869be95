package util

import (
	"net/http"
	"strings"
	"unicode"

	"clinic-archive/pkg/apierror"
)

const (
	maxNameRunes     = 200
	maxEntityIDRunes = 128
)

// SanitizeName cleans a display name before it is snapshotted into an archive
// entry: control and invisible characters are dropped, whitespace runs collapse
// to a single space and the result is truncated to maxNameRunes.
func SanitizeName(name string) (string, error) {
	builder := strings.Builder{}
	builder.Grow(len(name))

	for _, char := range name {
		if unicode.IsSpace(char) {
			builder.WriteRune(' ')
			continue
		}
		if unicode.IsControl(char) || isInvisibleUnicode(char) {
			continue
		}
		builder.WriteRune(char)
	}

	cleaned := strings.Join(strings.Fields(builder.String()), " ")
	if cleaned == "" {
		return "", apierror.New("BAD_REQUEST", "name is required", "name", http.StatusBadRequest)
	}

	// Truncate by runes (not bytes) to avoid splitting multi-byte characters.
	runes := []rune(cleaned)
	if len(runes) > maxNameRunes {
		cleaned = strings.TrimSpace(string(runes[:maxNameRunes]))
	}

	return cleaned, nil
}

// ValidateEntityID rejects IDs that cannot round-trip through a URL path segment.
func ValidateEntityID(id string) error {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return apierror.New("BAD_REQUEST", "entity id is required", "entity_id", http.StatusBadRequest)
	}
	if trimmed != id {
		return apierror.New("BAD_REQUEST", "entity id has surrounding whitespace", id, http.StatusBadRequest)
	}
	if len([]rune(id)) > maxEntityIDRunes {
		return apierror.New("BAD_REQUEST", "entity id is too long", "", http.StatusBadRequest)
	}

	for _, char := range id {
		if char == '/' || unicode.IsControl(char) || isInvisibleUnicode(char) {
			return apierror.New("BAD_REQUEST", "entity id contains invalid characters", id, http.StatusBadRequest)
		}
	}

	return nil
}

// isInvisibleUnicode returns true for zero-width, formatting, and other
// invisible Unicode characters.
func isInvisibleUnicode(r rune) bool {
	switch r {
	case
		'\u200B', // Zero-Width Space
		'\u200C', // Zero-Width Non-Joiner
		'\u200D', // Zero-Width Joiner
		'\u200E', // Left-to-Right Mark
		'\u200F', // Right-to-Left Mark
		'\u2060', // Word Joiner
		'\uFEFF': // Zero-Width No-Break Space / BOM
		return true
	}

	return unicode.Is(unicode.Cf, r)
}
