package ast

import "github.com/neonnomad/laforge/span"

// RelationKind is the closed set of relation kinds the DSL accepts (§3).
type RelationKind string

const (
	BelongsTo  RelationKind = "belongsTo"
	HasMany    RelationKind = "hasMany"
	ManyToMany RelationKind = "manyToMany"
)

// Relation is an edge from the owning Model to a Target Model (§3).
//
// Target is resolved by the validator to an index into the enclosing
// Model AST's model list rather than a direct pointer, so the relation
// graph can never encode a reference cycle at the Go-value level and so
// it serializes trivially to the snapshot (spec §9 design note).
type Relation struct {
	Name       string
	Kind       RelationKind
	TargetName string // as written in the DSL
	Target     int    // index into Models, set by the validator; -1 until resolved
	ForeignKey string // defaults to Name+"Id" when not given explicitly
	Through    string // join table name; only set for manyToMany
	Span       span.Span
}
