package ast

import "github.com/neonnomad/laforge/span"

// FieldType is the closed set of scalar field types the DSL accepts (§3).
type FieldType string

// The seven scalar field types.
const (
	TypeUUID     FieldType = "uuid"
	TypeString   FieldType = "string"
	TypeText     FieldType = "text"
	TypeInteger  FieldType = "integer"
	TypeBoolean  FieldType = "boolean"
	TypeDatetime FieldType = "datetime"
	TypeJSONB    FieldType = "jsonb"
)

// Valid reports whether t is one of the seven accepted scalar types.
func (t FieldType) Valid() bool {
	switch t {
	case TypeUUID, TypeString, TypeText, TypeInteger, TypeBoolean, TypeDatetime, TypeJSONB:
		return true
	default:
		return false
	}
}

// Field is a scalar column declaration on a Model (§3).
//
// A Field is never both a relation and a scalar: relations are modeled
// separately as Relation values on the owning Model.
type Field struct {
	Name       string
	Type       FieldType
	Optional   bool
	PrimaryKey bool
	Tenant     bool
	Default    *string // literal text as written in the DSL, or nil
	Secret     bool
	Residency  string // tag, empty if unset
	Span       span.Span
}
