package policy

import (
	"fmt"
	"strings"

	"github.com/neonnomad/laforge/ast"
	"github.com/neonnomad/laforge/casing"
	"github.com/neonnomad/laforge/diag"
	"github.com/neonnomad/laforge/span"
)

// maxChainDepth is the hard ceiling on a belongsTo chain's relation
// hops before the final field access (§4.2, §8: "depth ≤ 3").
const maxChainDepth = 3

// Lower renders pol's expression tree into a single SQL predicate for
// owner's USING clause (WITH CHECK for a create policy). When
// multiTenant is true and owner carries a
// tenant field, the predicate is composed behind a tenant-scoping
// conjunct (§4.2): "(<tenant column> = <session tenant>) AND (<policy
// predicate>)".
func Lower(a *ast.AST, owner *ast.Model, pol *ast.Policy, multiTenant bool) (string, error) {
	e := newEnv(a, owner)

	body := pol.Body
	if arrow, ok := body.(*ast.Arrow); ok {
		body = arrow.Body
	}

	predicate, err := lowerExpr(e, body)
	if err != nil {
		return "", err
	}

	if multiTenant {
		if tf := owner.TenantField(); tf != nil {
			return fmt.Sprintf("(%s = %s) AND (%s)", casing.ColumnName(tf.Name), userTenantIDExpr, predicate), nil
		}
	}
	return predicate, nil
}

func lowerExpr(e *env, x ast.Expr) (string, error) {
	switch n := x.(type) {
	case *ast.BoolLit:
		if n.Value {
			return "TRUE", nil
		}
		return "FALSE", nil
	case *ast.StringLit:
		return sqlString(n.Value), nil
	case *ast.NumberLit:
		return n.Value, nil
	case *ast.Ident:
		return "", diag.Policyf(n.Pos(), "identifier %q must be followed by a field access", n.Name)
	case *ast.Member:
		return lowerMember(e, n)
	case *ast.Group:
		inner, err := lowerExpr(e, n.X)
		if err != nil {
			return "", err
		}
		if alreadyParenthesized(n.X) {
			// The inner node's own enclosing parentheses stand for the group.
			return inner, nil
		}
		return "(" + inner + ")", nil
	case *ast.Not:
		inner, err := lowerExpr(e, n.X)
		if err != nil {
			return "", err
		}
		return "NOT (" + inner + ")", nil
	case *ast.Binary:
		return lowerBinary(e, n)
	case *ast.MethodCall:
		return lowerMethodCall(e, n)
	case *ast.Arrow:
		return "", diag.Policyf(n.Pos(), "an arrow expression is only valid as a .some/.every/.includes callback")
	default:
		return "", diag.Policyf(x.Pos(), "unsupported expression")
	}
}

// alreadyParenthesized reports whether x lowers to a string wrapped in
// one enclosing pair of parentheses (every Binary and every Group).
func alreadyParenthesized(x ast.Expr) bool {
	switch x.(type) {
	case *ast.Binary, *ast.Group:
		return true
	default:
		return false
	}
}

func lowerBinary(e *env, b *ast.Binary) (string, error) {
	x, err := lowerExpr(e, b.X)
	if err != nil {
		return "", err
	}
	y, err := lowerExpr(e, b.Y)
	if err != nil {
		return "", err
	}
	op, ok := sqlOps[b.Op]
	if !ok {
		return "", diag.Policyf(b.Pos(), "unsupported operator %q", b.Op)
	}
	return fmt.Sprintf("(%s %s %s)", x, op, y), nil
}

// flattenChain walks a left-nested Member chain down to its root
// identifier, returning the root's name and the dotted path after it:
// record.team.id -> ("record", ["team", "id"]).
func flattenChain(x ast.Expr) (root string, path []string, ok bool) {
	var segs []string
	cur := x
	for {
		m, isMember := cur.(*ast.Member)
		if !isMember {
			break
		}
		segs = append([]string{m.Name}, segs...)
		cur = m.X
	}
	id, isIdent := cur.(*ast.Ident)
	if !isIdent {
		return "", nil, false
	}
	return id.Name, segs, true
}

func lowerMember(e *env, m *ast.Member) (string, error) {
	root, path, ok := flattenChain(m)
	if !ok {
		return "", diag.Policyf(m.Pos(), "unsupported member expression")
	}

	if root == "user" {
		if len(path) != 1 {
			return "", diag.Policyf(m.Pos(), "unsupported user accessor %q", strings.Join(path, "."))
		}
		switch path[0] {
		case "id":
			return userIDExpr, nil
		case "tenantId":
			return userTenantIDExpr, nil
		case "role":
			return userRoleExpr, nil
		default:
			return "", diag.Policyf(m.Pos(), "unsupported user accessor %q", path[0])
		}
	}

	b, ok := e.binds[root]
	if !ok {
		return "", diag.Policyf(m.Pos(), "unknown identifier %q", root)
	}
	return resolveScalarChain(e, b, path, m.Pos())
}

// resolveScalarChain consumes path[:-1] as belongsTo hops starting
// from b.model, then reaches the final scalar field — either directly
// on b.model (no hops) or, through renderBelongsToChain, on the last
// hop's target.
func resolveScalarChain(e *env, b binding, path []string, sp span.Span) (string, error) {
	if len(path) == 0 {
		return "", diag.Policyf(sp, "member expression has no field access")
	}

	model := b.model
	hops := make([]*ast.Relation, 0, len(path)-1)
	for _, seg := range path[:len(path)-1] {
		rel := model.Relation(seg)
		if rel == nil {
			return "", diag.Policyf(sp, "unknown relation %q on model %q", seg, model.Name)
		}
		if rel.Kind != ast.BelongsTo {
			return "", diag.Policyf(sp, "relation %q on model %q is not single-valued and cannot be chained", seg, model.Name)
		}
		hops = append(hops, rel)
		model = e.ast.Models[rel.Target]
	}
	if len(hops) > maxChainDepth {
		return "", diag.Policyf(sp, "relation chain depth %d exceeds the maximum of %d", len(hops), maxChainDepth)
	}

	final := path[len(path)-1]
	if _, ok := model.Fields[final]; !ok {
		return "", diag.Policyf(sp, "unknown field %q on model %q", final, model.Name)
	}

	if len(hops) == 0 {
		return b.ref + casing.ColumnName(final), nil
	}
	return renderBelongsToChain(e.ast, b.ref, hops, final), nil
}

// resolveCollectionRelation resolves a .some/.every/.includes receiver.
// Only a direct relation access is supported (no intermediate belongsTo
// hops before the collection relation).
func resolveCollectionRelation(e *env, recv ast.Expr) (owner *ast.Model, rel *ast.Relation, ownerRef string, err error) {
	root, path, ok := flattenChain(recv)
	if !ok || len(path) != 1 {
		return nil, nil, "", diag.Policyf(recv.Pos(), "collection method receiver must be a direct relation access")
	}
	b, ok := e.binds[root]
	if !ok {
		return nil, nil, "", diag.Policyf(recv.Pos(), "unknown identifier %q", root)
	}
	r := b.model.Relation(path[0])
	if r == nil {
		return nil, nil, "", diag.Policyf(recv.Pos(), "unknown relation %q on model %q", path[0], b.model.Name)
	}
	if r.Kind != ast.HasMany && r.Kind != ast.ManyToMany {
		return nil, nil, "", diag.Policyf(recv.Pos(), "relation %q is not a collection relation", path[0])
	}
	return b.model, r, b.ref, nil
}

func lowerMethodCall(e *env, mc *ast.MethodCall) (string, error) {
	owner, rel, ownerRef, err := resolveCollectionRelation(e, mc.Receiver)
	if err != nil {
		return "", err
	}
	target := e.ast.Models[rel.Target]

	switch mc.Method {
	case "some", "every":
		arrow, ok := mc.Arg.(*ast.Arrow)
		if !ok || len(arrow.Params) != 1 {
			return "", diag.Policyf(mc.Pos(), "%s() requires a single-parameter callback", mc.Method)
		}
		alias := e.nextAlias()
		fromSQL, joinCond, serr := quantifierSource(e.ast, owner, target, rel, ownerRef, alias)
		if serr != nil {
			return "", diag.Policyf(mc.Pos(), "%s", serr)
		}
		inner := e.with(arrow.Params[0], binding{model: target, ref: alias + "."})
		pred, perr := lowerExpr(inner, arrow.Body)
		if perr != nil {
			return "", perr
		}
		if !alreadyParenthesized(arrow.Body) {
			pred = "(" + pred + ")"
		}
		if mc.Method == "some" {
			return fmt.Sprintf("EXISTS (SELECT 1 FROM %s WHERE %s AND %s)", fromSQL, joinCond, pred), nil
		}
		return fmt.Sprintf("NOT EXISTS (SELECT 1 FROM %s WHERE %s AND NOT %s)", fromSQL, joinCond, pred), nil

	case "includes":
		if mc.Arg == nil {
			return "", diag.Policyf(mc.Pos(), "includes() requires a value argument")
		}
		val, verr := lowerExpr(e, mc.Arg)
		if verr != nil {
			return "", verr
		}
		alias := e.nextAlias()
		fromSQL, joinCond, serr := quantifierSource(e.ast, owner, target, rel, ownerRef, alias)
		if serr != nil {
			return "", diag.Policyf(mc.Pos(), "%s", serr)
		}
		pkCol := casing.ColumnName(target.PrimaryKey().Name)
		return fmt.Sprintf("%s IN (SELECT %s.%s FROM %s WHERE %s)", val, alias, pkCol, fromSQL, joinCond), nil

	default:
		return "", diag.Policyf(mc.Pos(), "unsupported method %q", mc.Method)
	}
}
