package sqlguard

import "regexp"

var identifierPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// IsValidIdentifier reports whether name is safe to interpolate into a
// statement as a table or view name. Identifiers cannot be bound as
// parameters, so this check is the only thing standing between a caller
// and the query text.
func IsValidIdentifier(name string) bool {
	return identifierPattern.MatchString(name)
}
