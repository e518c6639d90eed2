package laforge_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	laforge "github.com/neonnomad/laforge"
	"github.com/neonnomad/laforge/dialect"
	"github.com/neonnomad/laforge/dsl"
)

const noteSource = `
	model Note {
		id: uuid pk
		tenantId: uuid tenant
		text: string
	}
	policy Note.read { true }
`

func TestCompileRendersAllThreeArtifacts(t *testing.T) {
	result, err := laforge.Compile(laforge.Options{
		Source:      noteSource,
		Dialect:     dialect.Postgres,
		MultiTenant: true,
		Now:         time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Contains(t, result.SchemaSQL, "CREATE TABLE IF NOT EXISTS notes")
	assert.Contains(t, result.RLSSQL, "(tenant_id = current_setting('app.tenant_id')::uuid) AND (TRUE)")
	assert.Contains(t, result.Queries, "INSERT INTO notes")
	assert.Empty(t, result.MigrationFiles)
}

func TestCompileWithPreviousProducesMigration(t *testing.T) {
	previous, err := dsl.Parse(`model Note { id: uuid pk }`)
	require.NoError(t, err)

	result, err := laforge.Compile(laforge.Options{
		Source:   `model Note { id: uuid pk; text: string }`,
		Dialect:  dialect.Postgres,
		Previous: previous,
		Now:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, result.MigrationFiles, 1)
	assert.Contains(t, result.MigrationFiles[0].Contents, "ADD COLUMN text")
}

func TestCompileReturnsSyntaxErrorWithoutPartialResult(t *testing.T) {
	result, err := laforge.Compile(laforge.Options{Source: `model {`})
	assert.Error(t, err)
	assert.Nil(t, result)
}

