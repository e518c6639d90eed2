package emit

import (
	"fmt"
	"strings"

	"github.com/neonnomad/laforge/ast"
	"github.com/neonnomad/laforge/casing"
)

// Queries renders the per-model insert/find-by-id/update/delete
// template source (§6): numbered placeholders, parameter order listed
// in a leading comment, and an extra `AND tenant_id = $k` conjunct on
// every predicate for multi-tenant models.
func Queries(a *ast.AST) string {
	var blocks []string
	for _, m := range a.Models {
		blocks = append(blocks, renderModelQueries(m))
	}
	return strings.Join(blocks, "\n\n") + "\n"
}

func renderModelQueries(m *ast.Model) string {
	table := casing.TableName(m.Name)
	pk := casing.ColumnName(m.PrimaryKey().Name)
	tenant := m.TenantField()

	var cols []string
	for _, f := range m.OrderedFields() {
		cols = append(cols, casing.ColumnName(f.Name))
	}

	stmts := []string{
		fmt.Sprintf("-- %s", table),
		renderInsert(table, cols),
		renderFindByID(table, pk, tenant),
		renderUpdate(table, pk, cols, tenant),
		renderDelete(table, pk, tenant),
	}
	return strings.Join(stmts, "\n\n")
}

func renderInsert(table string, cols []string) string {
	placeholders := make([]string, len(cols))
	params := make([]string, len(cols))
	for i, c := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		params[i] = fmt.Sprintf("$%d %s", i+1, c)
	}
	return fmt.Sprintf(
		"-- params: %s\nINSERT INTO %s (%s) VALUES (%s);",
		strings.Join(params, ", "), table, strings.Join(cols, ", "), strings.Join(placeholders, ", "),
	)
}

func renderFindByID(table, pk string, tenant *ast.Field) string {
	params := []string{fmt.Sprintf("$1 %s", pk)}
	where := fmt.Sprintf("%s = $1", pk)
	if tenant != nil {
		tc := casing.ColumnName(tenant.Name)
		params = append(params, fmt.Sprintf("$2 %s", tc))
		where += fmt.Sprintf(" AND %s = $2", tc)
	}
	return fmt.Sprintf(
		"-- params: %s\nSELECT * FROM %s WHERE %s;",
		strings.Join(params, ", "), table, where,
	)
}

func renderUpdate(table, pk string, cols []string, tenant *ast.Field) string {
	var sets []string
	var params []string
	n := 1
	for _, c := range cols {
		if c == pk {
			continue
		}
		sets = append(sets, fmt.Sprintf("%s = $%d", c, n))
		params = append(params, fmt.Sprintf("$%d %s", n, c))
		n++
	}
	params = append(params, fmt.Sprintf("$%d %s", n, pk))
	where := fmt.Sprintf("%s = $%d", pk, n)
	n++
	if tenant != nil {
		tc := casing.ColumnName(tenant.Name)
		params = append(params, fmt.Sprintf("$%d %s", n, tc))
		where += fmt.Sprintf(" AND %s = $%d", tc, n)
	}
	return fmt.Sprintf(
		"-- params: %s\nUPDATE %s SET %s WHERE %s;",
		strings.Join(params, ", "), table, strings.Join(sets, ", "), where,
	)
}

func renderDelete(table, pk string, tenant *ast.Field) string {
	params := []string{fmt.Sprintf("$1 %s", pk)}
	where := fmt.Sprintf("%s = $1", pk)
	if tenant != nil {
		tc := casing.ColumnName(tenant.Name)
		params = append(params, fmt.Sprintf("$2 %s", tc))
		where += fmt.Sprintf(" AND %s = $2", tc)
	}
	return fmt.Sprintf(
		"-- params: %s\nDELETE FROM %s WHERE %s;",
		strings.Join(params, ", "), table, where,
	)
}
