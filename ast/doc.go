// Package ast defines the canonical Model AST: the validated,
// deterministically ordered representation of a domain file that every
// downstream component (policy lowerer, schema differ, dialect adapters,
// migration emitter) consumes.
//
// A Model AST is constructed once per compilation by the front end
// (package dsl) and the validator in this package, is immutable
// thereafter, and is never mutated by any consumer.
package ast
