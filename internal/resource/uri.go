// Package resource implements the mysql:// addressing scheme used for
// tables, views and the database summary.
package resource

import (
	"fmt"
	"strings"
)

// Scheme is the URI scheme of every resource this server exposes
const Scheme = "mysql"

const prefix = Scheme + "://"

// Type is the kind of object a URI points at
type Type string

const (
	TypeTable Type = "table"
	TypeView  Type = "view"
	TypeInfo  Type = "info"
)

// URI is a parsed resource address. Name is empty for TypeInfo.
type URI struct {
	Database string
	Type     Type
	Name     string
}

// String returns the canonical form of the address
func (u URI) String() string {
	return Construct(u.Database, u.Type, u.Name)
}

// Construct builds the URI for a database object
func Construct(database string, typ Type, name string) string {
	if typ == TypeInfo {
		return prefix + database + "/" + string(TypeInfo)
	}
	return prefix + database + "/" + string(typ) + "/" + name
}

// Parse splits raw into its parts and checks that it addresses database.
// The database comparison is exact and case-sensitive.
func Parse(raw, database string) (URI, error) {
	if !strings.HasPrefix(raw, prefix) {
		return URI{}, fmt.Errorf("invalid resource URI %q: must start with %s", raw, prefix)
	}

	parts := strings.Split(strings.TrimPrefix(raw, prefix), "/")
	if len(parts) < 2 {
		return URI{}, fmt.Errorf("invalid resource URI %q: expected %sdatabase/type/name", raw, prefix)
	}

	if parts[0] != database {
		return URI{}, fmt.Errorf("database mismatch: %q does not match the connected database", parts[0])
	}

	u := URI{Database: parts[0], Type: Type(parts[1])}
	if len(parts) > 2 {
		u.Name = parts[2]
	}

	switch u.Type {
	case TypeTable, TypeView, TypeInfo:
		return u, nil
	default:
		return URI{}, fmt.Errorf("unknown resource type: %s", parts[1])
	}
}
