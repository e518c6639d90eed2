package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neonnomad/laforge/ast"
	"github.com/neonnomad/laforge/diag"
)

func field(name string, typ ast.FieldType, mods ...func(*ast.Field)) *ast.Field {
	f := &ast.Field{Name: name, Type: typ}
	for _, m := range mods {
		m(f)
	}
	return f
}

func pk(f *ast.Field)     { f.PrimaryKey = true }
func tenant(f *ast.Field) { f.Tenant = true }

func model(name string, fields ...*ast.Field) *ast.Model {
	m := &ast.Model{Name: name, Fields: map[string]*ast.Field{}}
	for _, f := range fields {
		m.FieldNames = append(m.FieldNames, f.Name)
		m.Fields[f.Name] = f
	}
	return m
}

func TestValidateMissingPrimaryKey(t *testing.T) {
	note := model("Note", field("text", ast.TypeString))
	_, err := ast.Validate([]*ast.Model{note}, false)
	require.Error(t, err)
	assert.True(t, diag.IsSemantic(err))
	assert.Contains(t, err.Error(), "no primary key")
}

func TestValidateDuplicateField(t *testing.T) {
	dup := model("Note", field("id", ast.TypeUUID, pk))
	dup.FieldNames = append(dup.FieldNames, "id")
	_, err := ast.Validate([]*ast.Model{dup}, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "declared more than once")
}

func TestValidateMultipleTenantFields(t *testing.T) {
	m := model("Note", field("id", ast.TypeUUID, pk), field("a", ast.TypeUUID, tenant), field("b", ast.TypeUUID, tenant))
	_, err := ast.Validate([]*ast.Model{m}, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "more than one tenant field")
}

func TestValidateUnresolvedRelationTarget(t *testing.T) {
	user := model("User", field("id", ast.TypeUUID, pk), field("teamId", ast.TypeUUID))
	user.Relations = append(user.Relations, &ast.Relation{Name: "team", Kind: ast.BelongsTo, TargetName: "Team", ForeignKey: "teamId"})
	_, err := ast.Validate([]*ast.Model{user}, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unresolved target")
}

func TestValidateForeignKeyTypeMismatch(t *testing.T) {
	team := model("Team", field("id", ast.TypeUUID, pk))
	user := model("User", field("id", ast.TypeUUID, pk), field("teamId", ast.TypeString))
	user.Relations = append(user.Relations, &ast.Relation{Name: "team", Kind: ast.BelongsTo, TargetName: "Team", ForeignKey: "teamId"})
	_, err := ast.Validate([]*ast.Model{team, user}, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has type string")
}

func TestValidateDefaultsForeignKeyName(t *testing.T) {
	team := model("Team", field("id", ast.TypeUUID, pk))
	user := model("User", field("id", ast.TypeUUID, pk), field("teamId", ast.TypeUUID))
	user.Relations = append(user.Relations, &ast.Relation{Name: "team", Kind: ast.BelongsTo, TargetName: "Team"})
	a, err := ast.Validate([]*ast.Model{team, user}, false)
	require.NoError(t, err)
	assert.Equal(t, "teamId", a.Models[1].Relations[0].ForeignKey)
	assert.Equal(t, 0, a.Models[1].Relations[0].Target)
}

func TestValidateRejectsBelongsToCycle(t *testing.T) {
	a := model("A", field("id", ast.TypeUUID, pk), field("bId", ast.TypeUUID))
	b := model("B", field("id", ast.TypeUUID, pk), field("cId", ast.TypeUUID))
	c := model("C", field("id", ast.TypeUUID, pk), field("aId", ast.TypeUUID))
	a.Relations = append(a.Relations, &ast.Relation{Name: "b", Kind: ast.BelongsTo, TargetName: "B", ForeignKey: "bId"})
	b.Relations = append(b.Relations, &ast.Relation{Name: "c", Kind: ast.BelongsTo, TargetName: "C", ForeignKey: "cId"})
	c.Relations = append(c.Relations, &ast.Relation{Name: "a", Kind: ast.BelongsTo, TargetName: "A", ForeignKey: "aId"})
	_, err := ast.Validate([]*ast.Model{a, b, c}, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
}

func TestValidateAcceptsHasManyCycleFree(t *testing.T) {
	// hasMany is the inverse side and must never be walked by the
	// belongsTo cycle check, even when it points back at the owner.
	post := model("Post", field("id", ast.TypeUUID, pk))
	comment := model("Comment", field("id", ast.TypeUUID, pk), field("postId", ast.TypeUUID))
	post.Relations = append(post.Relations, &ast.Relation{Name: "comments", Kind: ast.HasMany, TargetName: "Comment"})
	comment.Relations = append(comment.Relations, &ast.Relation{Name: "post", Kind: ast.BelongsTo, TargetName: "Post", ForeignKey: "postId"})
	_, err := ast.Validate([]*ast.Model{post, comment}, false)
	require.NoError(t, err)
}
