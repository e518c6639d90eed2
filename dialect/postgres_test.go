package dialect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neonnomad/laforge/ast"
	"github.com/neonnomad/laforge/dialect"
	"github.com/neonnomad/laforge/differ"
)

func TestPostgresRenderAddTable(t *testing.T) {
	a := dialect.For(dialect.Postgres)
	require.NotNil(t, a)

	op := &differ.Operation{
		Kind:  differ.AddTable,
		Table: "notes",
		Columns: []*differ.Column{
			{Name: "id", Type: ast.TypeUUID},
			{Name: "text", Type: ast.TypeString, Nullable: true},
		},
	}
	sql, ok := a.Render(op)
	require.True(t, ok)
	assert.Contains(t, sql, "CREATE TABLE IF NOT EXISTS notes")
	assert.Contains(t, sql, "id UUID NOT NULL")
	assert.Contains(t, sql, "text VARCHAR(255)")
	assert.NotContains(t, sql, "text VARCHAR(255) NOT NULL")
}

func TestPostgresRenderAlterColumnTypeUsesUsing(t *testing.T) {
	a := dialect.For(dialect.Postgres)
	op := &differ.Operation{
		Kind:  differ.AlterColumnType,
		Table: "users",
		Column: &differ.Column{
			Name: "email",
			Type: ast.TypeInteger,
		},
	}
	sql, ok := a.Render(op)
	require.True(t, ok)
	assert.Contains(t, sql, `ALTER TABLE "users" ALTER COLUMN "email" TYPE INTEGER USING "email"::INTEGER;`)
}

func TestPostgresRenderDropForeignKey(t *testing.T) {
	a := dialect.For(dialect.Postgres)
	op := &differ.Operation{
		Kind:  differ.DropForeignKey,
		Table: "users",
		FK:    &differ.ForeignKey{Name: "fk_users_team_id", Column: "team_id"},
	}
	sql, ok := a.Render(op)
	require.True(t, ok)
	assert.Equal(t, `ALTER TABLE "users" DROP CONSTRAINT "fk_users_team_id";`, sql)
}
