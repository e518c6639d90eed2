package ast

import "github.com/neonnomad/laforge/span"

// Phase is the closed set of lifecycle hook phases (§3).
type Phase string

const (
	BeforeCreate Phase = "beforeCreate"
	AfterCreate  Phase = "afterCreate"
	BeforeUpdate Phase = "beforeUpdate"
	AfterUpdate  Phase = "afterUpdate"
	BeforeDelete Phase = "beforeDelete"
	AfterDelete  Phase = "afterDelete"
)

// Hook is a lifecycle hook attached to a Model. Its Body is carried
// opaquely — the core never evaluates a hook body (§3); it is passed
// through to downstream, out-of-core emitters untouched.
type Hook struct {
	Phase Phase
	Body  string
	Span  span.Span
}

// Model is a single domain-model declaration (§3).
//
// FieldNames preserves declaration order; Fields is keyed by name for
// O(1) lookup. Downstream emitters must iterate FieldNames, never
// range over the map, to stay deterministic with respect to source
// order (§3: "Deterministic ordering follows source declaration
// order").
type Model struct {
	Name       string
	FieldNames []string
	Fields     map[string]*Field
	Relations  []*Relation
	Policies   map[Action]*Policy
	Hooks      []*Hook
	Span       span.Span
}

// OrderedFields returns the model's fields in declaration order.
func (m *Model) OrderedFields() []*Field {
	out := make([]*Field, 0, len(m.FieldNames))
	for _, n := range m.FieldNames {
		out = append(out, m.Fields[n])
	}
	return out
}

// PrimaryKey returns the model's single primary-key field. The
// validator guarantees exactly one exists before any emitter runs.
func (m *Model) PrimaryKey() *Field {
	for _, n := range m.FieldNames {
		if f := m.Fields[n]; f.PrimaryKey {
			return f
		}
	}
	return nil
}

// TenantField returns the model's tenant field, or nil if untenanted.
// The validator guarantees at most one exists.
func (m *Model) TenantField() *Field {
	for _, n := range m.FieldNames {
		if f := m.Fields[n]; f.Tenant {
			return f
		}
	}
	return nil
}

// Relation looks up a relation by name.
func (m *Model) Relation(name string) *Relation {
	for _, r := range m.Relations {
		if r.Name == name {
			return r
		}
	}
	return nil
}

// AST is the canonical, validated representation of a compiled domain
// file: an ordered sequence of Model records (§3). It is constructed
// once per compilation, is immutable thereafter, and is the sole input
// to every downstream component.
type AST struct {
	Models []*Model
	// MultiTenant indicates whether the compilation runs in
	// multi-tenant mode (§4.2 tenant composition).
	MultiTenant bool
}

// Model looks up a model by name.
func (a *AST) Model(name string) *Model {
	for _, m := range a.Models {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// ModelIndex returns the index of the model named name in a.Models, or
// -1 if it is not declared.
func (a *AST) ModelIndex(name string) int {
	for i, m := range a.Models {
		if m.Name == name {
			return i
		}
	}
	return -1
}
