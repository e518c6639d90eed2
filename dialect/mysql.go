package dialect

import (
	"fmt"

	"github.com/neonnomad/laforge/ast"
	"github.com/neonnomad/laforge/differ"
)

type mysqlAdapter struct{}

func (mysqlAdapter) Kind() Kind { return MySQL }

func (mysqlAdapter) ColumnType(t ast.FieldType) string { return columnType(MySQL, t) }

func mysqlQuote(s string) string { return "`" + s + "`" }

func (mysqlAdapter) Render(op *differ.Operation) (string, bool) {
	q := mysqlQuote
	switch op.Kind {
	case differ.AddTable:
		return renderCreateTable(MySQL, op), true
	case differ.DropTable:
		return fmt.Sprintf("DROP TABLE %s;", q(op.Table)), true
	case differ.RenameTable:
		return fmt.Sprintf("RENAME TABLE %s TO %s;", q(op.From), q(op.To)), true
	case differ.AddColumn:
		return fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s;", q(op.Table), renderColumnDef(MySQL, op.Column)), true
	case differ.DropColumn:
		return fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s;", q(op.Table), q(op.Column.Name)), true
	case differ.RenameColumn:
		// RENAME COLUMN requires MySQL >= 8.0 (§4.4); earlier versions
		// are out of scope.
		return fmt.Sprintf("ALTER TABLE %s RENAME COLUMN %s TO %s;", q(op.Table), q(op.From), q(op.To)), true
	case differ.AlterColumnType:
		return fmt.Sprintf("ALTER TABLE %s MODIFY %s;", q(op.Table), renderColumnDef(MySQL, op.Column)), true
	case differ.AlterNullability:
		return fmt.Sprintf("ALTER TABLE %s MODIFY %s;", q(op.Table), renderColumnDef(MySQL, op.Column)), true
	case differ.AlterDefault:
		if op.To == "" {
			return fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s DROP DEFAULT;", q(op.Table), q(op.Column.Name)), true
		}
		return fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s SET DEFAULT %s;", q(op.Table), q(op.Column.Name), op.To), true
	case differ.AddForeignKey:
		return fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s (%s);",
			q(op.Table), q(op.FK.Name), q(op.FK.Column), q(op.FK.RefTable), q(op.FK.RefColumn)), true
	case differ.DropForeignKey:
		return fmt.Sprintf("ALTER TABLE %s DROP FOREIGN KEY %s;", q(op.Table), q(op.FK.Name)), true
	case differ.AlterForeignKey:
		return fmt.Sprintf("ALTER TABLE %s DROP FOREIGN KEY %s;\nALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s (%s);",
			q(op.Table), q(op.FKOld.Name), q(op.Table), q(op.FK.Name), q(op.FK.Column), q(op.FK.RefTable), q(op.FK.RefColumn)), true
	default:
		return "", false
	}
}
