// Package span defines the source-location type shared by the lexer,
// parser, validator, and policy lowerer so diagnostics can be pinned to
// a token wherever they are detected.
package span

import "fmt"

// Span pins a diagnostic (or an AST node) to a location in source text.
// Offset and Length are byte offsets into the source buffer; Line and
// Column are 1-based, following the lexer's token bookkeeping (§4.1).
type Span struct {
	Offset int
	Length int
	Line   int
	Column int
}

// String renders the span as "line:column".
func (s Span) String() string {
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}
