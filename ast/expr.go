package ast

import "github.com/neonnomad/laforge/span"

// Expr is a node in the whitelisted policy expression grammar (§4.2).
// The parser builds Expr trees; the policy lowerer (package policy) is
// the only consumer that interprets them.
type Expr interface {
	exprNode()
	Pos() span.Span
}

type base struct{ Span span.Span }

func (base) exprNode()        {}
func (b base) Pos() span.Span { return b.Span }

// Constructors below are how other packages (chiefly dsl's parser)
// build Expr nodes: base is unexported so every node's Span is set
// consistently through one path.

func NewBoolLit(sp span.Span, v bool) *BoolLit     { return &BoolLit{base{sp}, v} }
func NewStringLit(sp span.Span, v string) *StringLit { return &StringLit{base{sp}, v} }
func NewNumberLit(sp span.Span, v string) *NumberLit { return &NumberLit{base{sp}, v} }
func NewIdent(sp span.Span, name string) *Ident    { return &Ident{base{sp}, name} }

func NewMember(sp span.Span, x Expr, name string) *Member {
	return &Member{base{sp}, x, name}
}

func NewBinary(sp span.Span, op BinaryOp, x, y Expr) *Binary {
	return &Binary{base{sp}, op, x, y}
}

func NewNot(sp span.Span, x Expr) *Not     { return &Not{base{sp}, x} }
func NewGroup(sp span.Span, x Expr) *Group { return &Group{base{sp}, x} }

func NewArrow(sp span.Span, params []string, body Expr) *Arrow {
	return &Arrow{base{sp}, params, body}
}

func NewMethodCall(sp span.Span, receiver Expr, method string, arg Expr) *MethodCall {
	return &MethodCall{base{sp}, receiver, method, arg}
}

// BoolLit is a boolean literal (true/false).
type BoolLit struct {
	base
	Value bool
}

// StringLit is a single- or double-quoted string literal.
type StringLit struct {
	base
	Value string
}

// NumberLit is a decimal numeric literal, kept as source text so the
// lowerer can render it back verbatim.
type NumberLit struct {
	base
	Value string
}

// Ident is a bare identifier: a parameter, "user", or "record".
type Ident struct {
	base
	Name string
}

// Member is a dotted member access, e.g. user.id or record.team.name.
type Member struct {
	base
	X    Expr
	Name string
}

// BinaryOp is the closed set of binary operators the grammar accepts.
type BinaryOp string

const (
	OpStrictEq    BinaryOp = "==="
	OpStrictNotEq BinaryOp = "!=="
	OpLooseEq     BinaryOp = "=="
	OpLooseNotEq  BinaryOp = "!="
	OpLT          BinaryOp = "<"
	OpLTE         BinaryOp = "<="
	OpGT          BinaryOp = ">"
	OpGTE         BinaryOp = ">="
	OpAnd         BinaryOp = "&&"
	OpOr          BinaryOp = "||"
)

// Binary is a binary expression: equality, ordering, or a logical
// connective. The lowerer wraps every Binary in parentheses on render
// so that operator precedence survives round-tripping through SQL
// (§4.2, §8).
type Binary struct {
	base
	Op   BinaryOp
	X, Y Expr
}

// Not is the logical negation operator "!".
type Not struct {
	base
	X Expr
}

// Group is an explicit parenthesised subexpression written by the user.
// The lowerer preserves it as-is; it never flattens a Group away.
type Group struct {
	base
	X Expr
}

// Arrow is a "(params) => expr" lambda, used both as a full policy body
// and as the callback argument of .some/.every.
type Arrow struct {
	base
	Params []string
	Body   Expr
}

// MethodCall is a restricted method call on a relation-typed receiver:
// .some(arg => pred), .every(arg => pred), or .includes(value).
type MethodCall struct {
	base
	Receiver Expr
	Method   string // "some", "every", or "includes"
	Arg      Expr   // an *Arrow for some/every, any Expr for includes
}

// Policy is the top-level expression tree attached to a Model×action
// pair (§3). Body is either a bare Expr or an *Arrow.
type Policy struct {
	Action Action
	Body   Expr
	Span   span.Span
}

// Action is the closed set of policy actions (§3).
type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)
