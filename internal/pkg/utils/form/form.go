// Package form holds the scalar-field conventions of the ingestion form.
package form

import "strings"

// SplitTags turns a comma-separated tag string into a trimmed slice, order
// preserved. An empty input means "no tags were provided" and yields nil.
func SplitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		tags = append(tags, strings.TrimSpace(p))
	}
	return tags
}

// IsTrue implements the form's boolean convention: only the literal string
// "true" is true, anything else (including absence) is false.
func IsTrue(raw string) bool {
	return raw == "true"
}

// StatusOrDefault applies the status default. Values are passed through as
// provided; validation is the caller's concern.
func StatusOrDefault(raw string) string {
	if raw == "" {
		return "draft"
	}
	return raw
}
