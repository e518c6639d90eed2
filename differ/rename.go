package differ

// columnSignature is the part of a Column that must match for a
// rename heuristic to consider two columns "the same" (§4.3).
type columnSignature struct {
	Type     string
	Nullable bool
}

func sig(c *Column) columnSignature {
	return columnSignature{Type: string(c.Type), Nullable: c.Nullable}
}

// tableRename pairs a dropped table with its candidate renamed twin.
type tableRename struct {
	from *Table
	to   *Table
}

// detectTableRenames matches tables present only in previous against
// tables present only in current (§4.3's table rename heuristic):
// identical primary-key type, every shared-by-name column signature
// equal, and a total column-count difference of at most 1. A name that
// matches more than one candidate on either side is ambiguous and is
// left as drop+add (§9 open-question decision — the heuristic is never
// widened to disambiguate).
func detectTableRenames(removed, added []*Table) (renames []tableRename, remainingRemoved, remainingAdded []*Table) {
	matched := map[string]bool{} // removed.Name already claimed
	usedAdded := map[string]bool{}

	for _, r := range removed {
		var candidate *Table
		ambiguous := false
		for _, a := range added {
			if usedAdded[a.Name] {
				continue
			}
			if tableLooksRenamed(r, a) {
				if candidate != nil {
					ambiguous = true
					break
				}
				candidate = a
			}
		}
		if candidate != nil && !ambiguous {
			for _, other := range removed {
				if other != r && tableLooksRenamed(other, candidate) {
					ambiguous = true
					break
				}
			}
		}
		if candidate != nil && !ambiguous {
			renames = append(renames, tableRename{from: r, to: candidate})
			matched[r.Name] = true
			usedAdded[candidate.Name] = true
		}
	}

	for _, r := range removed {
		if !matched[r.Name] {
			remainingRemoved = append(remainingRemoved, r)
		}
	}
	for _, a := range added {
		if !usedAdded[a.Name] {
			remainingAdded = append(remainingAdded, a)
		}
	}
	return renames, remainingRemoved, remainingAdded
}

func tableLooksRenamed(from, to *Table) bool {
	fromPK := from.Column(from.PrimaryKey)
	toPK := to.Column(to.PrimaryKey)
	if fromPK == nil || toPK == nil || fromPK.Type != toPK.Type {
		return false
	}
	shared := 0
	for _, fc := range from.Columns {
		tc := to.Column(fc.Name)
		if tc == nil {
			continue
		}
		if sig(fc) != sig(tc) {
			return false
		}
		shared++
	}
	sizeDiff := len(from.Columns) - len(to.Columns)
	if sizeDiff < 0 {
		sizeDiff = -sizeDiff
	}
	return shared > 0 && sizeDiff <= 1
}

// columnRename pairs a dropped column with its candidate renamed twin
// within a single table.
type columnRename struct {
	from *Column
	to   *Column
}

// detectColumnRenames applies §4.3's column rename heuristic: exactly
// one column removed and one added with the same signature. The third
// condition, every other shared column unchanged, is checked by the
// caller, which only calls it when that holds.
func detectColumnRenames(removed, added []*Column) (rename *columnRename, remainingRemoved, remainingAdded []*Column) {
	if len(removed) != 1 || len(added) != 1 {
		return nil, removed, added
	}
	if sig(removed[0]) != sig(added[0]) {
		return nil, removed, added
	}
	return &columnRename{from: removed[0], to: added[0]}, nil, nil
}
