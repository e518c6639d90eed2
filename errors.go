// Package laforge compiles a domain-definition language into a model AST,
// relational schema, row-level-security predicates, CRUD query templates,
// and an incremental migration stream.
package laforge

import (
	"github.com/neonnomad/laforge/diag"
	"github.com/neonnomad/laforge/span"
)

// Re-exported so callers of the root package never need to import
// laforge/diag or laforge/span directly. See those packages for the
// full doc comments.
type (
	ErrorKind    = diag.ErrorKind
	CompileError = diag.CompileError
	Span         = span.Span
)

const (
	KindSyntax   = diag.KindSyntax
	KindSemantic = diag.KindSemantic
	KindPolicy   = diag.KindPolicy
)

var (
	SyntaxError   = diag.Syntaxf
	SemanticError = diag.Semanticf
	PolicyError   = diag.Policyf

	IsSyntaxError     = diag.IsSyntax
	IsSemanticError   = diag.IsSemantic
	IsPolicyErrorKind = diag.IsPolicy
)

type (
	WarningKind     = diag.WarningKind
	EmissionWarning = diag.EmissionWarning
)

const (
	WarnDestructiveSkipped = diag.WarnDestructiveSkipped
	WarnRenameHeuristic    = diag.WarnRenameHeuristic
	WarnUnsupportedOp      = diag.WarnUnsupportedOp
	WarnDestructive        = diag.WarnDestructive
)

var NewWarning = diag.Warnf
