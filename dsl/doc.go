// Package dsl is the hand-written front end: a lexer and a
// recursive-descent parser that turn domain-file source text into an
// unresolved []*ast.Model slice (§4.1). It never depends on a
// host-language expression parser or a parser-generator library (§9);
// the whitelisted policy expression grammar (§4.2) is implemented
// directly as a precedence chain over the token stream.
//
// Parse rejects duplicate model, field, and policy declarations, but
// does not validate the remaining invariants (primary keys, unresolved
// relation targets, foreign-key types, cycles) — call ast.Validate on
// its result for that.
package dsl
