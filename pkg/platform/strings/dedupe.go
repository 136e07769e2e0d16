// Package strings provides slice normalization helpers for caller-supplied
// string lists such as participant research interests.
package strings

import (
	"strings"
)

// DedupeAndTrim trims whitespace from each element and drops duplicates and
// empties, preserving first-seen order. Input like
// {"  sleep ", "memory", "sleep", ""} normalizes to {"sleep", "memory"}.
func DedupeAndTrim(values []string) []string {
	return normalize(values, strings.TrimSpace)
}

// DedupeAndTrimLower additionally lowercases, for case-insensitive lists.
func DedupeAndTrimLower(values []string) []string {
	return normalize(values, func(v string) string {
		return strings.ToLower(strings.TrimSpace(v))
	})
}

func normalize(values []string, clean func(string) string) []string {
	if len(values) == 0 {
		return values
	}
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		cleaned := clean(v)
		if cleaned == "" {
			continue
		}
		if _, ok := seen[cleaned]; ok {
			continue
		}
		seen[cleaned] = struct{}{}
		result = append(result, cleaned)
	}
	return result
}
