// Package diag defines the two error families that escape the core
// compiler (§7): CompileError, a fatal diagnostic from the front end,
// the validator, or the policy lowerer; and EmissionWarning, a
// non-fatal diagnostic accumulated by the schema differ and migration
// emitter. Every other package imports diag rather than redeclaring
// these types, so a single errors.Is/errors.As vocabulary works across
// the whole pipeline.
package diag

import (
	"errors"
	"fmt"

	"github.com/neonnomad/laforge/span"
)

// ErrorKind classifies a CompileError.
type ErrorKind string

// CompileError kinds, per spec §7.
const (
	KindSyntax   ErrorKind = "syntax"
	KindSemantic ErrorKind = "semantic"
	KindPolicy   ErrorKind = "policy"
)

// CompileError is the single error type returned by the front end, the
// validator, and the policy lowerer. Every error carries a kind tag, a
// message, and an optional source span.
type CompileError struct {
	Kind    ErrorKind
	Message string
	Span    span.Span
	// Caret, when non-empty, is a rendered source excerpt with a caret
	// pointing at Span — produced by the lexer/parser for syntax errors.
	Caret string
}

func (e *CompileError) Error() string {
	if e.Span.Line == 0 && e.Span.Column == 0 {
		return fmt.Sprintf("laforge: %s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("laforge: %s: %s (at %s)", e.Kind, e.Message, e.Span)
}

// Is reports whether target is a CompileError of the same kind, so
// callers can write errors.Is(err, &diag.CompileError{Kind: KindSemantic}).
func (e *CompileError) Is(target error) bool {
	var other *CompileError
	if !errors.As(target, &other) {
		return false
	}
	return other.Kind == "" || other.Kind == e.Kind
}

func newError(kind ErrorKind, sp span.Span, format string, args ...any) *CompileError {
	return &CompileError{Kind: kind, Message: fmt.Sprintf(format, args...), Span: sp}
}

// Syntaxf builds a CompileError of kind Syntax.
func Syntaxf(sp span.Span, format string, args ...any) *CompileError {
	return newError(KindSyntax, sp, format, args...)
}

// Semanticf builds a CompileError of kind Semantic.
func Semanticf(sp span.Span, format string, args ...any) *CompileError {
	return newError(KindSemantic, sp, format, args...)
}

// Policyf builds a CompileError of kind Policy.
func Policyf(sp span.Span, format string, args ...any) *CompileError {
	return newError(KindPolicy, sp, format, args...)
}

// IsSyntax reports whether err is a CompileError of kind Syntax.
func IsSyntax(err error) bool { return isKind(err, KindSyntax) }

// IsSemantic reports whether err is a CompileError of kind Semantic.
func IsSemantic(err error) bool { return isKind(err, KindSemantic) }

// IsPolicy reports whether err is a CompileError of kind Policy.
func IsPolicy(err error) bool { return isKind(err, KindPolicy) }

func isKind(err error, kind ErrorKind) bool {
	var e *CompileError
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// WarningKind classifies an EmissionWarning.
type WarningKind string

// EmissionWarning kinds, per spec §7.
const (
	WarnDestructiveSkipped WarningKind = "destructive_skipped"
	WarnRenameHeuristic    WarningKind = "rename_heuristic"
	WarnUnsupportedOp      WarningKind = "unsupported_op"
	WarnDestructive        WarningKind = "destructive"
)

// EmissionWarning is a non-fatal diagnostic accumulated during schema
// diffing and migration emission. Warnings never abort a compilation;
// they are returned alongside the result and rendered inline as
// "-- WARNING: " comments in migration files.
type EmissionWarning struct {
	Kind    WarningKind
	Message string
}

func (w *EmissionWarning) Error() string {
	return fmt.Sprintf("laforge: warning: %s", w.Message)
}

// Warnf builds an EmissionWarning.
func Warnf(kind WarningKind, format string, args ...any) *EmissionWarning {
	return &EmissionWarning{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Comment renders the warning as a "-- WARNING: " SQL comment line.
func (w *EmissionWarning) Comment() string {
	return "-- WARNING: " + w.Message
}
