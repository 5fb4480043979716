// Package normalize canonicalizes user-entered strings before they are
// stored or compared.
package normalize

import (
	"strings"
)

// Email trims and lowercases an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims a display name and collapses inner whitespace. Case is kept.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Role trims and lowercases a role.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Status trims and lowercases an application status.
func Status(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Branch trims a branch code and uppercases it ("cse " -> "CSE").
func Branch(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Branches normalizes each entry, dropping blanks and duplicates.
// Order of first appearance is kept.
func Branches(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, b := range in {
		b = Branch(b)
		if b == "" {
			continue
		}
		if _, dup := seen[b]; dup {
			continue
		}
		seen[b] = struct{}{}
		out = append(out, b)
	}
	return out
}

// List splits a comma-separated form value into trimmed, non-empty entries.
// Duplicates are dropped, keeping the first.
func List(s string) []string {
	out := []string{}
	seen := map[string]struct{}{}
	for _, part := range strings.Split(s, ",") {
		part = Name(part)
		if part == "" {
			continue
		}
		if _, dup := seen[part]; dup {
			continue
		}
		seen[part] = struct{}{}
		out = append(out, part)
	}
	return out
}

// QueryParam trims a query-string value.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}
