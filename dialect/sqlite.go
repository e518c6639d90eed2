package dialect

import (
	"fmt"

	"github.com/neonnomad/laforge/ast"
	"github.com/neonnomad/laforge/differ"
)

type sqliteAdapter struct{}

func (sqliteAdapter) Kind() Kind { return SQLite }

func (sqliteAdapter) ColumnType(t ast.FieldType) string { return columnType(SQLite, t) }

func sqliteQuote(s string) string { return `"` + s + `"` }

func (sqliteAdapter) Render(op *differ.Operation) (string, bool) {
	q := sqliteQuote
	switch op.Kind {
	case differ.AddTable:
		return renderCreateTable(SQLite, op), true
	case differ.DropTable:
		return fmt.Sprintf("DROP TABLE %s;", q(op.Table)), true
	case differ.RenameTable:
		return fmt.Sprintf("ALTER TABLE %s RENAME TO %s;", q(op.From), q(op.To)), true
	case differ.AddColumn:
		return fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s;", q(op.Table), renderColumnDef(SQLite, op.Column)), true
	case differ.DropColumn:
		return fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s;", q(op.Table), q(op.Column.Name)), true
	case differ.RenameColumn:
		// Requires SQLite >= 3.25 (§4.4); earlier versions are out of scope.
		return fmt.Sprintf("ALTER TABLE %s RENAME COLUMN %s TO %s;", q(op.Table), q(op.From), q(op.To)), true
	case differ.AlterColumnType, differ.DropForeignKey, differ.AlterForeignKey:
		// SQLite has no ALTER COLUMN ... TYPE and no named-constraint
		// DROP CONSTRAINT/FOREIGN KEY form (§4.4).
		return "", false
	case differ.AddForeignKey:
		// SQLite only accepts new foreign keys at table-creation time;
		// an existing table cannot gain one via ALTER TABLE either, so
		// this is unsupported like the other constraint-mutating ops.
		return "", false
	case differ.AlterNullability, differ.AlterDefault:
		return "", false
	default:
		return "", false
	}
}
