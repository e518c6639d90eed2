package differ_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neonnomad/laforge/ast"
	"github.com/neonnomad/laforge/differ"
)

func field(name string, typ ast.FieldType, mods ...func(*ast.Field)) *ast.Field {
	f := &ast.Field{Name: name, Type: typ}
	for _, m := range mods {
		m(f)
	}
	return f
}

func pk(f *ast.Field) { f.PrimaryKey = true }

func model(name string, fields ...*ast.Field) *ast.Model {
	m := &ast.Model{Name: name, Fields: map[string]*ast.Field{}, Policies: map[ast.Action]*ast.Policy{}}
	for _, f := range fields {
		m.FieldNames = append(m.FieldNames, f.Name)
		m.Fields[f.Name] = f
	}
	return m
}

func TestDiffIdenticalModelYieldsNoOperations(t *testing.T) {
	note := model("Note", field("id", ast.TypeUUID, pk), field("text", ast.TypeString))
	a, err := ast.Validate([]*ast.Model{note}, false)
	require.NoError(t, err)

	s := differ.Project(a)
	ops, warnings := differ.Diff(s, s)
	assert.Empty(t, ops)
	assert.Empty(t, warnings)
}

func TestDiffDetectsTableRename(t *testing.T) {
	prev, err := ast.Validate([]*ast.Model{model("Article", field("id", ast.TypeUUID, pk), field("title", ast.TypeString))}, false)
	require.NoError(t, err)
	cur, err := ast.Validate([]*ast.Model{model("Post", field("id", ast.TypeUUID, pk), field("title", ast.TypeString))}, false)
	require.NoError(t, err)

	ops, warnings := differ.Diff(differ.Project(prev), differ.Project(cur))
	require.Len(t, ops, 1)
	assert.Equal(t, differ.RenameTable, ops[0].Kind)
	assert.Equal(t, "articles", ops[0].From)
	assert.Equal(t, "posts", ops[0].To)
	require.Len(t, warnings, 1)
	assert.Equal(t, "rename_heuristic", string(warnings[0].Kind))
}

func TestDiffAmbiguousRenameFallsBackToDropAndAdd(t *testing.T) {
	prev, err := ast.Validate([]*ast.Model{
		model("Article", field("id", ast.TypeUUID, pk), field("title", ast.TypeString)),
	}, false)
	require.NoError(t, err)
	cur, err := ast.Validate([]*ast.Model{
		model("Post", field("id", ast.TypeUUID, pk), field("title", ast.TypeString)),
		model("Page", field("id", ast.TypeUUID, pk), field("title", ast.TypeString)),
	}, false)
	require.NoError(t, err)

	ops, _ := differ.Diff(differ.Project(prev), differ.Project(cur))
	var kinds []differ.Kind
	for _, op := range ops {
		kinds = append(kinds, op.Kind)
	}
	assert.Contains(t, kinds, differ.DropTable)
	assert.Contains(t, kinds, differ.AddTable)
	assert.NotContains(t, kinds, differ.RenameTable)
}

func TestDiffDetectsColumnRename(t *testing.T) {
	prev, err := ast.Validate([]*ast.Model{model("Note", field("id", ast.TypeUUID, pk), field("body", ast.TypeString))}, false)
	require.NoError(t, err)
	cur, err := ast.Validate([]*ast.Model{model("Note", field("id", ast.TypeUUID, pk), field("content", ast.TypeString))}, false)
	require.NoError(t, err)

	ops, _ := differ.Diff(differ.Project(prev), differ.Project(cur))
	require.Len(t, ops, 1)
	assert.Equal(t, differ.RenameColumn, ops[0].Kind)
	assert.Equal(t, "body", ops[0].From)
	assert.Equal(t, "content", ops[0].To)
}

func TestDiffAddTableBeforeAddForeignKey(t *testing.T) {
	prev, err := ast.Validate([]*ast.Model{model("User", field("id", ast.TypeUUID, pk))}, false)
	require.NoError(t, err)

	team := model("Team", field("id", ast.TypeUUID, pk))
	user := model("User", field("id", ast.TypeUUID, pk), field("teamId", ast.TypeUUID))
	user.Relations = append(user.Relations, &ast.Relation{Name: "team", Kind: ast.BelongsTo, TargetName: "Team"})
	cur, err := ast.Validate([]*ast.Model{team, user}, false)
	require.NoError(t, err)

	ops, _ := differ.Diff(differ.Project(prev), differ.Project(cur))
	var addTableIdx, addFKIdx, addColIdx = -1, -1, -1
	for i, op := range ops {
		switch op.Kind {
		case differ.AddTable:
			if addTableIdx == -1 {
				addTableIdx = i
			}
		case differ.AddForeignKey:
			addFKIdx = i
		case differ.AddColumn:
			addColIdx = i
		}
	}
	require.NotEqual(t, -1, addTableIdx)
	require.NotEqual(t, -1, addFKIdx)
	require.NotEqual(t, -1, addColIdx)
	assert.Less(t, addTableIdx, addFKIdx)
	assert.Less(t, addColIdx, addFKIdx)
}

func TestDiffDestructiveColumnTypeChangeWarns(t *testing.T) {
	prev, err := ast.Validate([]*ast.Model{model("User", field("id", ast.TypeUUID, pk), field("email", ast.TypeString))}, false)
	require.NoError(t, err)
	cur, err := ast.Validate([]*ast.Model{model("User", field("id", ast.TypeUUID, pk), field("email", ast.TypeInteger))}, false)
	require.NoError(t, err)

	ops, warnings := differ.Diff(differ.Project(prev), differ.Project(cur))
	require.Len(t, ops, 1)
	assert.Equal(t, differ.AlterColumnType, ops[0].Kind)
	assert.True(t, ops[0].Kind.Destructive())
	require.Len(t, warnings, 1)
	assert.Equal(t, "destructive", string(warnings[0].Kind))
}
