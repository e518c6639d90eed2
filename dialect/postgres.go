package dialect

import (
	"fmt"

	"github.com/lib/pq"

	"github.com/neonnomad/laforge/ast"
	"github.com/neonnomad/laforge/differ"
)

type postgresAdapter struct{}

func (postgresAdapter) Kind() Kind { return Postgres }

func (postgresAdapter) ColumnType(t ast.FieldType) string { return columnType(Postgres, t) }

func (postgresAdapter) Render(op *differ.Operation) (string, bool) {
	q := pq.QuoteIdentifier
	switch op.Kind {
	case differ.AddTable:
		return renderCreateTable(Postgres, op), true
	case differ.DropTable:
		return fmt.Sprintf("DROP TABLE %s;", q(op.Table)), true
	case differ.RenameTable:
		return fmt.Sprintf("ALTER TABLE %s RENAME TO %s;", q(op.From), q(op.To)), true
	case differ.AddColumn:
		return fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s;", q(op.Table), renderColumnDef(Postgres, op.Column)), true
	case differ.DropColumn:
		return fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s;", q(op.Table), q(op.Column.Name)), true
	case differ.RenameColumn:
		return fmt.Sprintf("ALTER TABLE %s RENAME COLUMN %s TO %s;", q(op.Table), q(op.From), q(op.To)), true
	case differ.AlterColumnType:
		t := columnType(Postgres, op.Column.Type)
		return fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s TYPE %s USING %s::%s;",
			q(op.Table), q(op.Column.Name), t, q(op.Column.Name), t), true
	case differ.AlterNullability:
		if op.To == string(differ.NotNull) {
			return fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s SET NOT NULL;", q(op.Table), q(op.Column.Name)), true
		}
		return fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s DROP NOT NULL;", q(op.Table), q(op.Column.Name)), true
	case differ.AlterDefault:
		if op.To == "" {
			return fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s DROP DEFAULT;", q(op.Table), q(op.Column.Name)), true
		}
		return fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s SET DEFAULT %s;", q(op.Table), q(op.Column.Name), op.To), true
	case differ.AddForeignKey:
		return fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s (%s);",
			q(op.Table), q(op.FK.Name), q(op.FK.Column), q(op.FK.RefTable), q(op.FK.RefColumn)), true
	case differ.DropForeignKey:
		return fmt.Sprintf("ALTER TABLE %s DROP CONSTRAINT %s;", q(op.Table), q(op.FK.Name)), true
	case differ.AlterForeignKey:
		return fmt.Sprintf("ALTER TABLE %s DROP CONSTRAINT %s;\nALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s (%s);",
			q(op.Table), q(op.FKOld.Name), q(op.Table), q(op.FK.Name), q(op.FK.Column), q(op.FK.RefTable), q(op.FK.RefColumn)), true
	default:
		return "", false
	}
}
