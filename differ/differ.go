package differ

import (
	"sort"

	"github.com/neonnomad/laforge/diag"
)

// Diff computes the ordered operation list that turns previous into
// current (§4.3), plus the human-readable warnings the differ
// accumulates for heuristic decisions and destructive operations. It
// never returns an error: every input is already a validated AST
// projection, so there is nothing left to reject.
func Diff(previous, current *Schema) ([]*Operation, []*diag.EmissionWarning) {
	d := &differ{previous: previous, current: current}
	d.run()
	return d.ops, d.warnings
}

type differ struct {
	previous, current *Schema
	ops               []*Operation
	warnings          []*diag.EmissionWarning
	pendingAdded      []tableCols
	pendingAltered    []alterTable
}

func (d *differ) warn(kind diag.WarningKind, format string, args ...any) {
	d.warnings = append(d.warnings, diag.Warnf(kind, format, args...))
}

func (d *differ) emit(op *Operation) {
	d.ops = append(d.ops, op)
	if op.Kind.Destructive() {
		d.warn(diag.WarnDestructive, "%s on %s is destructive", op.Kind, describeOperation(op))
	}
}

func describeOperation(op *Operation) string {
	if op.Column != nil {
		return op.Table + "." + op.Column.Name
	}
	return op.Table
}

func (d *differ) currentIndex(name string) int {
	for i, t := range d.current.Tables {
		if t.Name == name {
			return i
		}
	}
	return len(d.current.Tables) + 1
}

func (d *differ) run() {
	prevByName := map[string]*Table{}
	for _, t := range d.previous.Tables {
		prevByName[t.Name] = t
	}
	curByName := map[string]*Table{}
	for _, t := range d.current.Tables {
		curByName[t.Name] = t
	}

	var removed, added []*Table
	for _, t := range d.previous.Tables {
		if _, ok := curByName[t.Name]; !ok {
			removed = append(removed, t)
		}
	}
	for _, t := range d.current.Tables {
		if _, ok := prevByName[t.Name]; !ok {
			added = append(added, t)
		}
	}

	renames, remainingRemoved, remainingAdded := detectTableRenames(removed, added)

	// Every table the diff must inspect for column/FK changes: matched
	// same-name pairs, plus each rename pair (compared under its new
	// name so column-level operations use current identifiers).
	type pair struct{ from, to *Table }
	var pairs []pair
	for _, t := range d.current.Tables {
		if from, ok := prevByName[t.Name]; ok {
			pairs = append(pairs, pair{from: from, to: t})
		}
	}
	for _, r := range renames {
		pairs = append(pairs, pair{from: r.from, to: r.to})
	}

	// 1. dropForeignKey — ahead of anything touching a referenced table.
	var dropFKs []*Operation
	for _, p := range pairs {
		fromFKs := map[string]*ForeignKey{}
		for _, fk := range p.from.ForeignKeys {
			fromFKs[fk.Column] = fk
		}
		toFKs := map[string]*ForeignKey{}
		for _, fk := range p.to.ForeignKeys {
			toFKs[fk.Column] = fk
		}
		for col, fk := range fromFKs {
			if _, ok := toFKs[col]; !ok {
				dropFKs = append(dropFKs, &Operation{Kind: DropForeignKey, Table: p.to.Name, FK: fk})
			}
		}
	}
	for _, t := range remainingRemoved {
		for _, fk := range t.ForeignKeys {
			dropFKs = append(dropFKs, &Operation{Kind: DropForeignKey, Table: t.Name, FK: fk})
		}
	}
	sortOps(dropFKs, d.currentIndex, func(op *Operation) string { return op.Table + "." + op.FK.Column })
	for _, op := range dropFKs {
		d.emit(op)
	}

	// 2/3. dropColumn and renameColumn, table by table.
	var dropCols, renameCols []*Operation
	for _, p := range pairs {
		var removedCols, addedCols []*Column
		toCol := map[string]*Column{}
		for _, c := range p.to.Columns {
			toCol[c.Name] = c
		}
		fromCol := map[string]*Column{}
		for _, c := range p.from.Columns {
			fromCol[c.Name] = c
			if _, ok := toCol[c.Name]; !ok {
				removedCols = append(removedCols, c)
			}
		}
		for _, c := range p.to.Columns {
			if _, ok := fromCol[c.Name]; !ok {
				addedCols = append(addedCols, c)
			}
		}
		sharedChanged := false
		for _, c := range p.from.Columns {
			if tc, ok := toCol[c.Name]; ok && sig(c) != sig(tc) {
				sharedChanged = true
			}
		}
		if rn, remRemoved, remAdded := detectColumnRenames(removedCols, addedCols); rn != nil && !sharedChanged {
			renameCols = append(renameCols, &Operation{Kind: RenameColumn, Table: p.to.Name, From: rn.from.Name, To: rn.to.Name})
			d.warn(diag.WarnRenameHeuristic, "treated %s.%s -> %s.%s as a rename", p.to.Name, rn.from.Name, p.to.Name, rn.to.Name)
			removedCols, addedCols = remRemoved, remAdded
		}
		for _, c := range removedCols {
			dropCols = append(dropCols, &Operation{Kind: DropColumn, Table: p.to.Name, Column: c})
		}
		d.pendingAdded = append(d.pendingAdded, tableCols{table: p.to.Name, cols: addedCols})
		d.pendingAltered = append(d.pendingAltered, alterTable{from: p.from, to: p.to})
	}
	sortOps(dropCols, d.currentIndex, func(op *Operation) string { return op.Table + "." + op.Column.Name })
	for _, op := range dropCols {
		d.emit(op)
	}
	sortOps(renameCols, d.currentIndex, func(op *Operation) string { return op.Table + "." + op.From })
	for _, op := range renameCols {
		d.emit(op)
	}

	// 4. renameTable.
	renameTableOps := make([]*Operation, 0, len(renames))
	for _, r := range renames {
		renameTableOps = append(renameTableOps, &Operation{Kind: RenameTable, From: r.from.Name, To: r.to.Name})
		d.warn(diag.WarnRenameHeuristic, "treated %s -> %s as a rename", r.from.Name, r.to.Name)
	}
	sortOps(renameTableOps, d.currentIndex, func(op *Operation) string { return op.To })
	for _, op := range renameTableOps {
		d.emit(op)
	}

	// 5. dropTable, for tables with no rename candidate.
	dropTableOps := make([]*Operation, 0, len(remainingRemoved))
	for _, t := range remainingRemoved {
		dropTableOps = append(dropTableOps, &Operation{Kind: DropTable, Table: t.Name, Columns: t.Columns})
	}
	sort.Slice(dropTableOps, func(i, j int) bool { return dropTableOps[i].Table < dropTableOps[j].Table })
	for _, op := range dropTableOps {
		d.emit(op)
	}

	// 6. addTable, strictly before any addForeignKey (#1).
	addTableOps := make([]*Operation, 0, len(remainingAdded))
	for _, t := range remainingAdded {
		addTableOps = append(addTableOps, &Operation{Kind: AddTable, Table: t.Name, Columns: t.Columns})
	}
	sortOps(addTableOps, d.currentIndex, func(op *Operation) string { return op.Table })
	for _, op := range addTableOps {
		d.emit(op)
	}

	// 7. addColumn.
	var addCols []*Operation
	for _, pc := range d.pendingAdded {
		for _, c := range pc.cols {
			addCols = append(addCols, &Operation{Kind: AddColumn, Table: pc.table, Column: c})
		}
	}
	sortOps(addCols, d.currentIndex, func(op *Operation) string { return op.Table + "." + op.Column.Name })
	for _, op := range addCols {
		d.emit(op)
	}

	// 8. alterColumnType/alterNullability/alterDefault — after every
	// rename so an alter always addresses the renamed target (#3).
	var alters []*Operation
	for _, at := range d.pendingAltered {
		alters = append(alters, diffColumnAlters(at.from, at.to)...)
	}
	sortOps(alters, d.currentIndex, func(op *Operation) string { return op.Table + "." + describeOperation(op) })
	for _, op := range alters {
		d.emit(op)
	}

	// 9/10. addForeignKey and alterForeignKey — after every addTable (#1).
	var addFKs, alterFKs []*Operation
	for _, p := range pairs {
		fromFKs := map[string]*ForeignKey{}
		for _, fk := range p.from.ForeignKeys {
			fromFKs[fk.Column] = fk
		}
		for _, fk := range p.to.ForeignKeys {
			old, ok := fromFKs[fk.Column]
			switch {
			case !ok:
				addFKs = append(addFKs, &Operation{Kind: AddForeignKey, Table: p.to.Name, FK: fk})
			case old.RefTable != fk.RefTable || old.RefColumn != fk.RefColumn:
				alterFKs = append(alterFKs, &Operation{Kind: AlterForeignKey, Table: p.to.Name, FK: fk, FKOld: old})
			}
		}
	}
	for _, t := range remainingAdded {
		for _, fk := range t.ForeignKeys {
			addFKs = append(addFKs, &Operation{Kind: AddForeignKey, Table: t.Name, FK: fk})
		}
	}
	sortOps(addFKs, d.currentIndex, func(op *Operation) string { return op.Table + "." + op.FK.Column })
	for _, op := range addFKs {
		d.emit(op)
	}
	sortOps(alterFKs, d.currentIndex, func(op *Operation) string { return op.Table + "." + op.FK.Column })
	for _, op := range alterFKs {
		d.emit(op)
	}
}

type tableCols struct {
	table string
	cols  []*Column
}

type alterTable struct {
	from, to *Table
}

func diffColumnAlters(from, to *Table) []*Operation {
	var ops []*Operation
	for _, tc := range to.Columns {
		fc := from.Column(tc.Name)
		if fc == nil {
			continue // handled as addColumn
		}
		if fc.Type != tc.Type {
			ops = append(ops, &Operation{Kind: AlterColumnType, Table: to.Name, Column: tc, From: string(fc.Type), To: string(tc.Type)})
		}
		if fc.Nullable != tc.Nullable {
			to2 := string(NotNull)
			if tc.Nullable {
				to2 = string(Null)
			}
			ops = append(ops, &Operation{Kind: AlterNullability, Table: to.Name, Column: tc, To: to2})
		}
		if !defaultEqual(fc.Default, tc.Default) {
			var to3 string
			if tc.Default != nil {
				to3 = *tc.Default
			}
			ops = append(ops, &Operation{Kind: AlterDefault, Table: to.Name, Column: tc, To: to3})
		}
	}
	return ops
}

func defaultEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// sortOps orders a slice of operations by the current AST's
// declaration order of the owning table, falling back to lexicographic
// order on key (§4.3 rule 4).
func sortOps(ops []*Operation, index func(string) int, key func(*Operation) string) {
	sort.SliceStable(ops, func(i, j int) bool {
		ii, ij := index(ops[i].Table), index(ops[j].Table)
		if ii != ij {
			return ii < ij
		}
		return key(ops[i]) < key(ops[j])
	})
}
