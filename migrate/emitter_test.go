package migrate_test

import (
	"strings"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	laforgeast "github.com/neonnomad/laforge/ast"
	"github.com/neonnomad/laforge/dialect"
	"github.com/neonnomad/laforge/diag"
	"github.com/neonnomad/laforge/differ"
	"github.com/neonnomad/laforge/migrate"
)

var fixedNow = time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC)

// statements splits contents into SQL statements, skipping comment
// lines and joining the lines of a multi-line statement up to its ';'.
func statements(contents string) []string {
	var stmts, cur []string
	for _, line := range strings.Split(contents, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		cur = append(cur, line)
		if strings.HasSuffix(line, ";") {
			stmts = append(stmts, strings.Join(cur, " "))
			cur = nil
		}
	}
	return stmts
}

func TestEmitExecutesStatementsInOrder(t *testing.T) {
	ops := []*differ.Operation{
		{
			Kind:  differ.AddTable,
			Table: "teams",
			Columns: []*differ.Column{
				{Name: "id", Type: laforgeast.TypeUUID},
			},
		},
		{
			Kind:  differ.AddTable,
			Table: "users",
			Columns: []*differ.Column{
				{Name: "id", Type: laforgeast.TypeUUID},
				{Name: "team_id", Type: laforgeast.TypeUUID},
			},
		},
		{
			Kind:  differ.AddForeignKey,
			Table: "users",
			FK:    &differ.ForeignKey{Name: "fk_users_team_id", Column: "team_id", RefTable: "teams", RefColumn: "id"},
		},
	}

	result := migrate.Emit(ops, dialect.For(dialect.Postgres), false, fixedNow)
	require.Len(t, result.Files, 1)
	assert.Equal(t, "migrations/20260305120000_schema.sql", result.Files[0].RelativePath)

	stmts := statements(result.Files[0].Contents)
	require.Len(t, stmts, 3)
	assert.Contains(t, stmts[0], "CREATE TABLE IF NOT EXISTS teams")
	assert.Contains(t, stmts[1], "CREATE TABLE IF NOT EXISTS users")
	assert.Contains(t, stmts[2], "ADD CONSTRAINT")

	db, mk, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	for _, s := range stmts {
		mk.ExpectExec(regexpEscape(s)).WillReturnResult(sqlmock.NewResult(0, 0))
	}
	for _, s := range stmts {
		_, err := db.Exec(s)
		require.NoError(t, err)
	}
	require.NoError(t, mk.ExpectationsWereMet())
}

func regexpEscape(s string) string {
	r := strings.NewReplacer(
		"(", `\(`, ")", `\)`,
		"*", `\*`, ".", `\.`,
	)
	return "^" + r.Replace(s) + "$"
}

func TestEmitSkipsDestructiveOpAndWritesFallback(t *testing.T) {
	ops := []*differ.Operation{
		{
			Kind:  differ.AddTable,
			Table: "notes",
			Columns: []*differ.Column{
				{Name: "id", Type: laforgeast.TypeUUID},
			},
		},
		{Kind: differ.DropTable, Table: "legacy_notes"},
	}

	result := migrate.Emit(ops, dialect.For(dialect.Postgres), false, fixedNow)
	require.Len(t, result.Files, 2)

	var schemaFile, fallbackFile *migrate.File
	for i := range result.Files {
		if strings.HasSuffix(result.Files[i].RelativePath, "_schema.sql") {
			schemaFile = &result.Files[i]
		} else {
			fallbackFile = &result.Files[i]
		}
	}
	require.NotNil(t, schemaFile)
	require.NotNil(t, fallbackFile)

	assert.NotContains(t, schemaFile.Contents, "DROP TABLE")
	assert.Contains(t, fallbackFile.Contents, `RENAME TO "legacy_notes_deprecated"`)

	var sawDestructive, sawSkipped bool
	for _, w := range result.Warnings {
		if w.Kind == diag.WarnDestructive {
			sawDestructive = true
		}
		if w.Kind == diag.WarnDestructiveSkipped {
			sawSkipped = true
		}
	}
	assert.True(t, sawDestructive)
	assert.True(t, sawSkipped)
}

func TestEmitAllowDestructiveAppliesDropDirectly(t *testing.T) {
	ops := []*differ.Operation{
		{Kind: differ.DropTable, Table: "legacy_notes"},
	}

	result := migrate.Emit(ops, dialect.For(dialect.Postgres), true, fixedNow)
	require.Len(t, result.Files, 1)
	assert.Contains(t, result.Files[0].Contents, `DROP TABLE "legacy_notes"`)
}

func TestEmitEmptyOpsProducesNoFiles(t *testing.T) {
	result := migrate.Emit(nil, dialect.For(dialect.Postgres), false, fixedNow)
	assert.Empty(t, result.Files)
	assert.Empty(t, result.Warnings)
}
