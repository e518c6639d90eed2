package emit

import (
	"fmt"
	"strings"

	"github.com/neonnomad/laforge/ast"
	"github.com/neonnomad/laforge/casing"
	"github.com/neonnomad/laforge/policy"
)

// actionOrder fixes the iteration order over a Model's Policies map so
// rendering stays deterministic across compilations (§8).
var actionOrder = []ast.Action{ast.ActionRead, ast.ActionCreate, ast.ActionUpdate, ast.ActionDelete}

var actionSQL = map[ast.Action]string{
	ast.ActionRead:   "SELECT",
	ast.ActionCreate: "INSERT",
	ast.ActionUpdate: "UPDATE",
	ast.ActionDelete: "DELETE",
}

// RLS renders rls.sql: ENABLE ROW LEVEL SECURITY for every model that
// declares at least one policy, followed by one CREATE POLICY per
// model×action (§6). Row-level security is a Postgres feature; unlike
// Schema and Queries this renderer is not parameterized by dialect.
func RLS(a *ast.AST) (string, error) {
	var enables, policies []string

	for _, m := range a.Models {
		if len(m.Policies) == 0 {
			continue
		}
		table := casing.TableName(m.Name)
		enables = append(enables, fmt.Sprintf("ALTER TABLE %s ENABLE ROW LEVEL SECURITY;", table))

		for _, action := range actionOrder {
			pol, ok := m.Policies[action]
			if !ok {
				continue
			}
			predicate, err := policy.Lower(a, m, pol, a.MultiTenant)
			if err != nil {
				return "", err
			}
			name := fmt.Sprintf("%s_%s_policy", table, action)
			clause := "USING"
			if action == ast.ActionCreate {
				// Postgres requires WITH CHECK (not USING) for a
				// policy scoping FOR INSERT.
				clause = "WITH CHECK"
			}
			policies = append(policies, fmt.Sprintf(
				"CREATE POLICY %s ON %s FOR %s %s (%s);",
				name, table, actionSQL[action], clause, predicate,
			))
		}
	}

	if len(enables) == 0 && len(policies) == 0 {
		return "", nil
	}

	var parts []string
	parts = append(parts, enables...)
	parts = append(parts, policies...)
	return strings.Join(parts, "\n") + "\n", nil
}
