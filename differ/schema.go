// Package differ derives an ordered list of schema operations between
// two canonical Model ASTs (§4.3). It never touches a live database:
// both sides of a diff are the in-memory relational projection of an
// ast.AST, built by Project.
package differ

import (
	"github.com/neonnomad/laforge/ast"
	"github.com/neonnomad/laforge/casing"
)

// Column is one relational column derived from a scalar Field.
type Column struct {
	Name     string
	Type     ast.FieldType
	Nullable bool
	Default  *string
}

// ForeignKey is one relational foreign-key constraint derived from a
// belongsTo relation.
type ForeignKey struct {
	Name      string // fk_<table>_<column>, per §4.4
	Column    string
	RefTable  string
	RefColumn string
}

// Table is the relational projection of a single Model: an ordered
// column list (declaration order, matching §3's determinism rule) plus
// the foreign keys it owns.
type Table struct {
	Name        string
	ModelName   string // preserved for rename-heuristic comparison
	Columns     []*Column
	PrimaryKey  string
	ForeignKeys []*ForeignKey
}

// Column looks up a column by name.
func (t *Table) Column(name string) *Column {
	for _, c := range t.Columns {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Schema is the full relational projection of an ast.AST: one Table
// per Model, in the AST's declaration order.
type Schema struct {
	Tables []*Table
}

// Table looks up a table by name.
func (s *Schema) Table(name string) *Table {
	for _, t := range s.Tables {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// Project derives a Schema from a, the sole translation point between
// the Model AST's scalar/relation vocabulary and this package's
// table/column/foreign-key vocabulary.
func Project(a *ast.AST) *Schema {
	s := &Schema{}
	for _, m := range a.Models {
		s.Tables = append(s.Tables, projectTable(a, m))
	}
	return s
}

func projectTable(a *ast.AST, m *ast.Model) *Table {
	t := &Table{
		Name:      casing.TableName(m.Name),
		ModelName: m.Name,
	}
	for _, f := range m.OrderedFields() {
		t.Columns = append(t.Columns, &Column{
			Name:     casing.ColumnName(f.Name),
			Type:     f.Type,
			Nullable: f.Optional,
			Default:  f.Default,
		})
		if f.PrimaryKey {
			t.PrimaryKey = casing.ColumnName(f.Name)
		}
	}
	for _, r := range m.Relations {
		if r.Kind != ast.BelongsTo {
			continue
		}
		target := a.Models[r.Target]
		column := casing.ColumnName(r.ForeignKey)
		t.ForeignKeys = append(t.ForeignKeys, &ForeignKey{
			Name:      casing.ForeignKeyConstraintName(t.Name, column),
			Column:    column,
			RefTable:  casing.TableName(target.Name),
			RefColumn: casing.ColumnName(target.PrimaryKey().Name),
		})
	}
	return t
}
