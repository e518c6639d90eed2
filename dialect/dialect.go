// Package dialect renders differ.Operation values as SQL fragments for
// a specific database engine (§4.4). Each adapter either returns a
// fragment or reports the operation unsupported, leaving the caller
// (migrate) to turn that into a commented stanza and a warning.
package dialect

import (
	"github.com/neonnomad/laforge/ast"
	"github.com/neonnomad/laforge/differ"
)

// Kind identifies a target database engine.
type Kind string

const (
	Postgres Kind = "postgres"
	MySQL    Kind = "mysql"
	SQLite   Kind = "sqlite"
)

// Adapter renders operations and maps scalar field types for one
// dialect. Render returns ok=false for an operation this dialect
// cannot express (§4.4: sqlite alter-type, sqlite drop-FK, ...);
// the caller is responsible for the fallback stanza.
type Adapter interface {
	Kind() Kind
	Render(op *differ.Operation) (sql string, ok bool)
	ColumnType(t ast.FieldType) string
}

// For looks up the adapter for k, or nil if k names no known dialect.
func For(k Kind) Adapter {
	switch k {
	case Postgres:
		return postgresAdapter{}
	case MySQL:
		return mysqlAdapter{}
	case SQLite:
		return sqliteAdapter{}
	default:
		return nil
	}
}
