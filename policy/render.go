package policy

import (
	"fmt"
	"strings"

	"github.com/neonnomad/laforge/ast"
	"github.com/neonnomad/laforge/casing"
)

// The three user accessor expressions §4.2 fixes: user.id resolves to
// the session's current-user function, user.tenantId and user.role to
// session GUC lookups.
const (
	userIDExpr       = "laforge_user_id()"
	userTenantIDExpr = "current_setting('app.tenant_id')::uuid"
	userRoleExpr     = "current_setting('app.role')"
)

var sqlOps = map[ast.BinaryOp]string{
	ast.OpStrictEq:    "=",
	ast.OpLooseEq:     "=",
	ast.OpStrictNotEq: "<>",
	ast.OpLooseNotEq:  "<>",
	ast.OpLT:          "<",
	ast.OpLTE:         "<=",
	ast.OpGT:          ">",
	ast.OpGTE:         ">=",
	ast.OpAnd:         "AND",
	ast.OpOr:          "OR",
}

// sqlString renders a DSL string literal as a SQL single-quoted string,
// doubling any embedded quote (§4.2).
func sqlString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// renderBelongsToChain builds the nested correlated-subquery form of a
// belongsTo chain (§4.2, §8): each hop introduces one alias j0, j1, ...
// and the innermost SELECT reaches finalField on the last hop's target.
// ownerRef is the SQL prefix ("" for the current row, "<alias>." for a
// bound collection element) that anchors the first hop.
func renderBelongsToChain(a *ast.AST, ownerRef string, hops []*ast.Relation, finalField string) string {
	var build func(i int, compareTo string) string
	build = func(i int, compareTo string) string {
		rel := hops[i]
		target := a.Models[rel.Target]
		alias := fmt.Sprintf("j%d", i)
		pkCol := casing.ColumnName(target.PrimaryKey().Name)

		var selectExpr string
		if i == len(hops)-1 {
			selectExpr = alias + "." + casing.ColumnName(finalField)
		} else {
			nextFK := casing.ColumnName(hops[i+1].ForeignKey)
			selectExpr = build(i+1, alias+"."+nextFK)
		}
		return fmt.Sprintf("(SELECT %s FROM public.%s %s WHERE %s.%s = %s)",
			selectExpr, casing.TableName(target.Name), alias, alias, pkCol, compareTo)
	}
	firstComparand := ownerRef + casing.ColumnName(hops[0].ForeignKey)
	return build(0, firstComparand)
}

// findInverseBelongsTo locates, on target, the belongsTo relation that
// points back at owner — the convention this lowerer uses to find the
// foreign-key column for a hasMany relation's quantifier subquery,
// since hasMany itself never declares one (§4.1 grammar).
func findInverseBelongsTo(a *ast.AST, target, owner *ast.Model) *ast.Relation {
	ownerIdx := a.ModelIndex(owner.Name)
	for _, r := range target.Relations {
		if r.Kind == ast.BelongsTo && r.Target == ownerIdx {
			return r
		}
	}
	return nil
}

// quantifierSource builds the FROM clause and join condition shared by
// .some/.every/.includes (§4.2): a direct table scan for hasMany, or a
// through-table join for manyToMany. alias names the target row.
func quantifierSource(a *ast.AST, owner, target *ast.Model, rel *ast.Relation, ownerRef, alias string) (fromSQL, joinCond string, err error) {
	ownerPK := ownerRef + casing.ColumnName(owner.PrimaryKey().Name)
	switch rel.Kind {
	case ast.HasMany:
		inverse := findInverseBelongsTo(a, target, owner)
		if inverse == nil {
			return "", "", fmt.Errorf("no inverse belongsTo relation from %q back to %q for %q", target.Name, owner.Name, rel.Name)
		}
		fkCol := casing.ColumnName(inverse.ForeignKey)
		fromSQL = fmt.Sprintf("public.%s %s", casing.TableName(target.Name), alias)
		joinCond = fmt.Sprintf("%s.%s = %s", alias, fkCol, ownerPK)
		return fromSQL, joinCond, nil
	case ast.ManyToMany:
		throughAlias := alias + "t"
		ownerFK := casing.ColumnName(lowerFirst(owner.Name) + "Id")
		targetFK := casing.ColumnName(lowerFirst(target.Name) + "Id")
		targetPK := casing.ColumnName(target.PrimaryKey().Name)
		fromSQL = fmt.Sprintf("public.%s %s JOIN public.%s %s ON %s.%s = %s.%s",
			rel.Through, throughAlias, casing.TableName(target.Name), alias,
			throughAlias, targetFK, alias, targetPK)
		joinCond = fmt.Sprintf("%s.%s = %s", throughAlias, ownerFK, ownerPK)
		return fromSQL, joinCond, nil
	default:
		return "", "", fmt.Errorf("relation %q is not a collection relation", rel.Name)
	}
}
