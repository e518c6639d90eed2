package laforge

import (
	"encoding/json"

	"github.com/neonnomad/laforge/ast"
)

// SnapshotVersion is the on-disk layout version. Bump it whenever the
// wire shape below changes incompatibly (§6).
const SnapshotVersion = 1

// Snapshot is the plain JSON-serialised form of a Model AST that a
// snapshot store persists between compilations (§6). It carries the
// structural subset of the AST the schema differ operates on —
// scalar fields and relations — omitting hook bodies entirely and
// omitting policies, whose expression trees the differ never reads.
// See DESIGN.md's Snapshot section for why policies are
// dropped rather than given a JSON-tagged-union encoding.
type Snapshot struct {
	Version int              `json:"version"`
	Models  []*snapshotModel `json:"models"`
}

type snapshotModel struct {
	Name      string              `json:"name"`
	Fields    []*snapshotField    `json:"fields"`
	Relations []*snapshotRelation `json:"relations,omitempty"`
	// Hooks records only the phases a model reacts to; bodies are
	// opaque to the core and are never persisted (§6).
	Hooks []ast.Phase `json:"hooks,omitempty"`
}

type snapshotField struct {
	Name       string  `json:"name"`
	Type       string  `json:"type"`
	Optional   bool    `json:"optional,omitempty"`
	PrimaryKey bool    `json:"primaryKey,omitempty"`
	Tenant     bool    `json:"tenant,omitempty"`
	Default    *string `json:"default,omitempty"`
}

type snapshotRelation struct {
	Name       string `json:"name"`
	Kind       string `json:"kind"`
	TargetName string `json:"targetName"`
	ForeignKey string `json:"foreignKey,omitempty"`
	Through    string `json:"through,omitempty"`
}

// MarshalSnapshot encodes models into a Snapshot's JSON form.
func MarshalSnapshot(models []*ast.Model) ([]byte, error) {
	s := &Snapshot{Version: SnapshotVersion}
	for _, m := range models {
		sm := &snapshotModel{Name: m.Name}
		for _, f := range m.OrderedFields() {
			var def *string
			if f.Default != nil {
				v := *f.Default
				def = &v
			}
			sm.Fields = append(sm.Fields, &snapshotField{
				Name:       f.Name,
				Type:       string(f.Type),
				Optional:   f.Optional,
				PrimaryKey: f.PrimaryKey,
				Tenant:     f.Tenant,
				Default:    def,
			})
		}
		for _, r := range m.Relations {
			sm.Relations = append(sm.Relations, &snapshotRelation{
				Name:       r.Name,
				Kind:       string(r.Kind),
				TargetName: r.TargetName,
				ForeignKey: r.ForeignKey,
				Through:    r.Through,
			})
		}
		for _, h := range m.Hooks {
			sm.Hooks = append(sm.Hooks, h.Phase)
		}
		s.Models = append(s.Models, sm)
	}
	return json.Marshal(s)
}

// UnmarshalSnapshot decodes buf into an unvalidated []*ast.Model — the
// caller must run ast.Validate before using it as a differ input, just
// as it would for a freshly parsed domain file.
func UnmarshalSnapshot(buf []byte) ([]*ast.Model, error) {
	var s Snapshot
	if err := json.Unmarshal(buf, &s); err != nil {
		return nil, err
	}
	models := make([]*ast.Model, 0, len(s.Models))
	for _, sm := range s.Models {
		m := &ast.Model{
			Name:     sm.Name,
			Fields:   make(map[string]*ast.Field, len(sm.Fields)),
			Policies: make(map[ast.Action]*ast.Policy),
		}
		for _, sf := range sm.Fields {
			var def *string
			if sf.Default != nil {
				v := *sf.Default
				def = &v
			}
			m.FieldNames = append(m.FieldNames, sf.Name)
			m.Fields[sf.Name] = &ast.Field{
				Name:       sf.Name,
				Type:       ast.FieldType(sf.Type),
				Optional:   sf.Optional,
				PrimaryKey: sf.PrimaryKey,
				Tenant:     sf.Tenant,
				Default:    def,
			}
		}
		for _, sr := range sm.Relations {
			m.Relations = append(m.Relations, &ast.Relation{
				Name:       sr.Name,
				Kind:       ast.RelationKind(sr.Kind),
				TargetName: sr.TargetName,
				Target:     -1,
				ForeignKey: sr.ForeignKey,
				Through:    sr.Through,
			})
		}
		for _, phase := range sm.Hooks {
			m.Hooks = append(m.Hooks, &ast.Hook{Phase: phase})
		}
		models = append(models, m)
	}
	return models, nil
}
