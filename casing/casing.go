// Package casing implements the identifier-casing rules shared by the
// policy lowerer and the artifact emitters (§6): PascalCase model
// names become plural snake_case table names, camelCase field names
// become snake_case column names. The mapping is total over the
// identifier classes the parser accepts — every Model/Field name
// matches `[A-Za-z_][A-Za-z0-9_]*` by construction of the lexer.
package casing

import "github.com/go-openapi/inflect"

// TableName lowers a PascalCase model name to its plural snake_case
// table name using simple "append s" pluralisation (§6): "FooBar" ->
// "foo_bars". The spec mandates this literal rule rather than
// irregular-plural inflection, so Pluralize is intentionally not used
// here.
func TableName(modelName string) string {
	return inflect.Underscore(modelName) + "s"
}

// ColumnName lowers a camelCase field name to its snake_case column
// name: "createdAt" -> "created_at".
func ColumnName(fieldName string) string {
	return inflect.Underscore(fieldName)
}

// ForeignKeyConstraintName renders the stable constraint name used by
// every dialect adapter (§4.4): "fk_<table>_<column>".
func ForeignKeyConstraintName(table, column string) string {
	return "fk_" + table + "_" + column
}
