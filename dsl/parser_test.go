package dsl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neonnomad/laforge/ast"
	"github.com/neonnomad/laforge/diag"
	"github.com/neonnomad/laforge/dsl"
)

func TestParseModelFieldsAndModifiers(t *testing.T) {
	models, err := dsl.Parse(`
		model Note {
			id: uuid pk
			tenantId: uuid tenant
			text: string default "untitled"
			archived: boolean optional
			ssn: string secret residency us
		}
	`)
	require.NoError(t, err)
	require.Len(t, models, 1)
	note := models[0]
	assert.Equal(t, "Note", note.Name)
	assert.Equal(t, []string{"id", "tenantId", "text", "archived", "ssn"}, note.FieldNames)
	assert.True(t, note.Fields["id"].PrimaryKey)
	assert.True(t, note.Fields["tenantId"].Tenant)
	require.NotNil(t, note.Fields["text"].Default)
	assert.Equal(t, "untitled", *note.Fields["text"].Default)
	assert.True(t, note.Fields["archived"].Optional)
	assert.True(t, note.Fields["ssn"].Secret)
	assert.Equal(t, "us", note.Fields["ssn"].Residency)
}

func TestParseRelations(t *testing.T) {
	models, err := dsl.Parse(`
		model Team { id: uuid pk }
		model User {
			id: uuid pk
			teamId: uuid
			team: belongsTo(Team)
			tags: manyToMany(Tag, through: "user_tags")
		}
		model Tag { id: uuid pk }
	`)
	require.NoError(t, err)
	user := models[1]
	require.Len(t, user.Relations, 2)
	assert.Equal(t, ast.BelongsTo, user.Relations[0].Kind)
	assert.Equal(t, "Team", user.Relations[0].TargetName)
	assert.Equal(t, ast.ManyToMany, user.Relations[1].Kind)
	assert.Equal(t, "user_tags", user.Relations[1].Through)
}

func TestParseManyToManyRequiresThrough(t *testing.T) {
	_, err := dsl.Parse(`
		model Tag { id: uuid pk }
		model User { id: uuid pk; tags: manyToMany(Tag) }
	`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires a through")
}

func TestParsePolicyBareExpression(t *testing.T) {
	models, err := dsl.Parse(`
		model Note { id: uuid pk }
		policy Note.read { true }
	`)
	require.NoError(t, err)
	pol := models[0].Policies[ast.ActionRead]
	require.NotNil(t, pol)
	lit, ok := pol.Body.(*ast.BoolLit)
	require.True(t, ok)
	assert.True(t, lit.Value)
}

func TestParsePolicyArrowWithParens(t *testing.T) {
	models, err := dsl.Parse(`
		model Note { id: uuid pk }
		policy Note.update { (user, record) => user.id === record.ownerId }
	`)
	require.NoError(t, err)
	pol := models[0].Policies[ast.ActionUpdate]
	arrow, ok := pol.Body.(*ast.Arrow)
	require.True(t, ok)
	assert.Equal(t, []string{"user", "record"}, arrow.Params)
	bin, ok := arrow.Body.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, ast.OpStrictEq, bin.Op)
}

func TestParsePolicyQuantifierWithoutParens(t *testing.T) {
	models, err := dsl.Parse(`
		model Post { id: uuid pk }
		policy Post.read { record.comments.some(c => c.authorId === user.id) }
	`)
	require.NoError(t, err)
	pol := models[0].Policies[ast.ActionRead]
	call, ok := pol.Body.(*ast.MethodCall)
	require.True(t, ok)
	assert.Equal(t, "some", call.Method)
	arrow, ok := call.Arg.(*ast.Arrow)
	require.True(t, ok)
	assert.Equal(t, []string{"c"}, arrow.Params)
}

func TestParsePolicyReturnBlock(t *testing.T) {
	models, err := dsl.Parse(`
		model Note { id: uuid pk }
		policy Note.delete { return user.role === "admin" }
	`)
	require.NoError(t, err)
	require.NotNil(t, models[0].Policies[ast.ActionDelete])
}

func TestParsePolicyGroupPreserved(t *testing.T) {
	models, err := dsl.Parse(`
		model Note { id: uuid pk }
		policy Note.read { (user.role === "admin" || user.role === "owner") && true }
	`)
	require.NoError(t, err)
	bin := models[0].Policies[ast.ActionRead].Body.(*ast.Binary)
	assert.Equal(t, ast.OpAnd, bin.Op)
	_, ok := bin.X.(*ast.Group)
	require.True(t, ok)
}

func TestParseRejectsArithmetic(t *testing.T) {
	_, err := dsl.Parse(`
		model Note { id: uuid pk }
		policy Note.read { 1 + 2 }
	`)
	require.Error(t, err)
	assert.True(t, diag.IsSyntax(err))
}

func TestParseRejectsUnknownMethod(t *testing.T) {
	_, err := dsl.Parse(`
		model Note { id: uuid pk }
		policy Note.read { record.comments.map(c => c) }
	`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not allowed")
}

func TestParseDuplicatePolicyRejected(t *testing.T) {
	_, err := dsl.Parse(`
		model Note { id: uuid pk }
		policy Note.read { true }
		policy Note.read { false }
	`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate policy")
}

func TestParseHookCapturesOpaqueBody(t *testing.T) {
	models, err := dsl.Parse(`
		model Note { id: uuid pk }
		hook Note.beforeCreate { record.id = generateId(); notify({ kind: "created" }) }
	`)
	require.NoError(t, err)
	require.Len(t, models[0].Hooks, 1)
	hook := models[0].Hooks[0]
	assert.Equal(t, ast.BeforeCreate, hook.Phase)
	assert.Contains(t, hook.Body, "generateId()")
	assert.Contains(t, hook.Body, `notify({ kind: "created" })`)
}

func TestParseUnknownFieldType(t *testing.T) {
	_, err := dsl.Parse(`model Note { id: wat }`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown field type")
}

func TestParseUnterminatedModel(t *testing.T) {
	_, err := dsl.Parse(`model Note { id: uuid pk`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unterminated model body")
}
