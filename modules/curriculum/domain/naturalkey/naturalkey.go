// Package naturalkey qualifies uploaded natural keys with a campus scope so
// that two campuses can import overlapping codes into the shared store.
package naturalkey

import "strings"

const separator = ":"

// Qualify prefixes code with the campus qualifier. An empty campusID leaves
// the code untouched, and an already-qualified code is not qualified twice.
func Qualify(campusID, code string) string {
	code = strings.TrimSpace(code)
	if campusID == "" || code == "" {
		return code
	}
	if strings.HasPrefix(code, campusID+separator) {
		return code
	}
	return campusID + separator + code
}

// Unqualify strips the campus prefix for presentation purposes.
func Unqualify(campusID, code string) string {
	if campusID == "" {
		return code
	}
	return strings.TrimPrefix(code, campusID+separator)
}

// Compose builds a deterministic composite key from parts, used for derived
// entities such as course instances.
func Compose(parts ...string) string {
	trimmed := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed = append(trimmed, strings.TrimSpace(p))
	}
	return strings.Join(trimmed, separator)
}
