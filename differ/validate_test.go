package differ_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/neonnomad/laforge/differ"
)

func TestGateRoutesDestructiveOpsToFallbackByDefault(t *testing.T) {
	ops := []*differ.Operation{
		{Kind: differ.AddColumn, Table: "users", Column: &differ.Column{Name: "name"}},
		{Kind: differ.DropColumn, Table: "users", Column: &differ.Column{Name: "legacy_name"}},
	}
	result := differ.Gate(ops)
	assert.Len(t, result.Apply, 1)
	assert.Len(t, result.Fallback, 1)
	assert.Equal(t, differ.DropColumn, result.Fallback[0].Kind)
}

func TestGateAllowDestructiveAppliesEverything(t *testing.T) {
	ops := []*differ.Operation{
		{Kind: differ.DropTable, Table: "legacy"},
	}
	result := differ.Gate(ops, differ.AllowDestructive())
	assert.Len(t, result.Apply, 1)
	assert.Empty(t, result.Fallback)
}
