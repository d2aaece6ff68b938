package catalog

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// RoleDirector is the crew role that owns a movie.
const RoleDirector = "Director"

// NormalizeName is the storage key for genres and languages.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// DisplayName title-cases a stored name for clients.
func DisplayName(name string) string {
	return cases.Title(language.English).String(name)
}

// IsDirector reports whether a role name refers to the Director role.
func IsDirector(role string) bool {
	return strings.EqualFold(strings.TrimSpace(role), RoleDirector)
}

// HasDirector reports whether the role list names the Director role.
func HasDirector(roles []string) bool {
	for _, role := range roles {
		if IsDirector(role) {
			return true
		}
	}
	return false
}

func uniqueNormalized(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, raw := range names {
		name := NormalizeName(raw)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
