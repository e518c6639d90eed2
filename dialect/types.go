package dialect

import "github.com/neonnomad/laforge/ast"

// columnTypes is the type-mapping table from §4.4: each scalar field
// type's native column type per dialect, in Postgres/MySQL/SQLite
// order.
var columnTypes = map[ast.FieldType][3]string{
	ast.TypeUUID:     {"UUID", "CHAR(36)", "TEXT"},
	ast.TypeString:   {"VARCHAR(255)", "VARCHAR(255)", "TEXT"},
	ast.TypeText:     {"TEXT", "TEXT", "TEXT"},
	ast.TypeInteger:  {"INTEGER", "INTEGER", "INTEGER"},
	ast.TypeBoolean:  {"BOOLEAN", "TINYINT(1)", "INTEGER"},
	ast.TypeDatetime: {"TIMESTAMP WITH TIME ZONE", "DATETIME", "TEXT"},
	ast.TypeJSONB:    {"JSONB", "JSON", "TEXT"},
}

func columnType(k Kind, t ast.FieldType) string {
	row, ok := columnTypes[t]
	if !ok {
		return "TEXT"
	}
	switch k {
	case Postgres:
		return row[0]
	case MySQL:
		return row[1]
	case SQLite:
		return row[2]
	default:
		return row[0]
	}
}
