package policy

import (
	"fmt"

	"github.com/neonnomad/laforge/ast"
)

// binding associates an in-scope identifier with the model it ranges
// over and the SQL prefix used to reach its columns: "" for the
// current row, "<alias>." for a bound collection element introduced
// by .some/.every.
type binding struct {
	model *ast.Model
	ref   string
}

// env is the lowering environment for one policy expression tree. It
// is extended, never mutated, on entering a .some/.every callback body
// so an inner scope can never leak back into its caller.
type env struct {
	ast     *ast.AST
	owner   *ast.Model
	binds   map[string]binding
	aliases *int // shared across one Lower call, so s0, s1, ... never collide
}

func newEnv(a *ast.AST, owner *ast.Model) *env {
	n := 0
	return &env{
		ast:     a,
		owner:   owner,
		binds:   map[string]binding{"record": {model: owner, ref: ""}},
		aliases: &n,
	}
}

// with returns a new env with name bound to b, leaving e untouched.
func (e *env) with(name string, b binding) *env {
	next := make(map[string]binding, len(e.binds)+1)
	for k, v := range e.binds {
		next[k] = v
	}
	next[name] = b
	return &env{ast: e.ast, owner: e.owner, binds: next, aliases: e.aliases}
}

// nextAlias allocates the next collection-subquery alias (s0, s1, ...).
func (e *env) nextAlias() string {
	n := *e.aliases
	*e.aliases = n + 1
	return fmt.Sprintf("s%d", n)
}
