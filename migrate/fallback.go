package migrate

import (
	"fmt"

	"github.com/neonnomad/laforge/dialect"
	"github.com/neonnomad/laforge/differ"
)

// fallbackStanza renders the non-destructive substitute for a
// destructive op, per §4.5's four rules. ok is false for any op kind
// this function doesn't know how to soften (the caller should fall
// back to a comment explaining the op was simply skipped).
func fallbackStanza(a dialect.Adapter, op *differ.Operation) (string, bool) {
	switch op.Kind {
	case differ.DropTable:
		renamed := &differ.Operation{Kind: differ.RenameTable, From: op.Table, To: op.Table + "_deprecated"}
		sql, ok := a.Render(renamed)
		return sql, ok

	case differ.DropColumn:
		renamed := &differ.Operation{
			Kind:  differ.RenameColumn,
			Table: op.Table,
			From:  op.Column.Name,
			To:    op.Column.Name + "_deprecated",
		}
		sql, ok := a.Render(renamed)
		return sql, ok

	case differ.AlterColumnType:
		shadowName := op.Column.Name + "_shadow"
		addShadow := &differ.Operation{
			Kind:  differ.AddColumn,
			Table: op.Table,
			Column: &differ.Column{
				Name:     shadowName,
				Type:     op.Column.Type,
				Nullable: true,
			},
		}
		addSQL, ok := a.Render(addShadow)
		if !ok {
			return "", false
		}
		update := fmt.Sprintf("UPDATE %s SET %s = %s;", op.Table, shadowName, op.Column.Name)
		comment := fmt.Sprintf(
			"-- Manual step required: verify %s, then drop %s and rename %s to %s.",
			shadowName, op.Column.Name, shadowName, op.Column.Name,
		)
		return addSQL + "\n" + update + "\n" + comment, true

	case differ.DropForeignKey:
		return fmt.Sprintf("-- Skipped dropping foreign key %q on %q; drop manually once verified safe.", op.FK.Name, op.Table), true

	default:
		return "", false
	}
}
