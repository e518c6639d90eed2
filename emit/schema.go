package emit

import (
	"fmt"
	"strings"

	"github.com/neonnomad/laforge/ast"
	"github.com/neonnomad/laforge/dialect"
	"github.com/neonnomad/laforge/differ"
)

// Schema renders schema.sql: one CREATE TABLE per model with columns
// in declaration order and the primary key inline, followed by each
// foreign key as a separate ALTER TABLE once all tables exist (§6).
// Foreign keys the adapter cannot render (all of them on sqlite) are
// left out.
func Schema(a *ast.AST, adapter dialect.Adapter) string {
	s := differ.Project(a)

	var parts []string
	for _, t := range s.Tables {
		parts = append(parts, renderCreateTable(adapter, t))
	}
	for _, t := range s.Tables {
		for _, fk := range t.ForeignKeys {
			op := &differ.Operation{Kind: differ.AddForeignKey, Table: t.Name, FK: fk}
			sql, ok := adapter.Render(op)
			if !ok {
				continue
			}
			parts = append(parts, sql)
		}
	}
	return strings.Join(parts, "\n\n") + "\n"
}

func renderCreateTable(adapter dialect.Adapter, t *differ.Table) string {
	defs := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		def := fmt.Sprintf("%s %s", c.Name, adapter.ColumnType(c.Type))
		if !c.Nullable {
			def += " NOT NULL"
		}
		if c.Default != nil {
			def += " DEFAULT " + *c.Default
		}
		if c.Name == t.PrimaryKey {
			def += " PRIMARY KEY"
		}
		defs = append(defs, def)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n);", t.Name, strings.Join(defs, ",\n\t"))
}
