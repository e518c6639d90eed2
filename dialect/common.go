package dialect

import (
	"fmt"
	"strings"

	"github.com/neonnomad/laforge/differ"
)

func renderColumnDef(k Kind, c *differ.Column) string {
	def := fmt.Sprintf("%s %s", c.Name, columnType(k, c.Type))
	if !c.Nullable {
		def += " NOT NULL"
	}
	if c.Default != nil {
		def += " DEFAULT " + *c.Default
	}
	return def
}

// renderCreateTable builds the shared "CREATE TABLE IF NOT EXISTS"
// form used by every dialect (§6): columns in declaration order, one
// per line.
func renderCreateTable(k Kind, op *differ.Operation) string {
	defs := make([]string, 0, len(op.Columns))
	for _, c := range op.Columns {
		defs = append(defs, renderColumnDef(k, c))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n);", op.Table, strings.Join(defs, ",\n\t"))
}
