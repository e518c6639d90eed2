package laforge

import (
	"time"

	"github.com/neonnomad/laforge/ast"
	"github.com/neonnomad/laforge/diag"
	"github.com/neonnomad/laforge/dialect"
	"github.com/neonnomad/laforge/differ"
	"github.com/neonnomad/laforge/dsl"
	"github.com/neonnomad/laforge/emit"
	"github.com/neonnomad/laforge/migrate"
)

// Options configures a single Compile call (§6's "Driver contract").
type Options struct {
	// Source is the domain file's text.
	Source string
	// Dialect selects the target SQL dialect for schema.sql and any
	// migration files.
	Dialect dialect.Kind
	// MultiTenant enables tenant-predicate composition in policies and
	// queries (§4.2, §6).
	MultiTenant bool
	// Previous is the prior compilation's Model AST, typically loaded
	// from a snapshot store. Nil means there is nothing to diff against
	// — no migration files are produced.
	Previous []*ast.Model
	// AllowDestructive lets destructive schema operations through to
	// the primary migration instead of being routed to a fallback
	// stanza (§4.5).
	AllowDestructive bool
	// Now stamps migration filenames; callers pass the compilation
	// wall-clock time explicitly so a compiler run stays a pure
	// function of its inputs (§5).
	Now time.Time
}

// Result is everything a successful Compile call hands back to its
// driver (§6): the validated Model AST, the three non-migration
// artifacts, an optional migration file set, and any accumulated
// warnings.
type Result struct {
	AST *ast.AST

	SchemaSQL string
	RLSSQL    string
	Queries   string

	MigrationFiles []migrate.File
	Warnings       []*diag.EmissionWarning
}

// Compile runs the full pipeline: front end -> validator -> emitters,
// and, when opts.Previous is set, differ -> dialect adapter ->
// migration emitter (§5, §6). It returns on the first error from any
// stage; nothing partially emits on failure.
func Compile(opts Options) (*Result, error) {
	models, err := dsl.Parse(opts.Source)
	if err != nil {
		return nil, err
	}

	a, err := ast.Validate(models, opts.MultiTenant)
	if err != nil {
		return nil, err
	}

	adapter := dialect.For(opts.Dialect)

	rlsSQL, err := emit.RLS(a)
	if err != nil {
		return nil, err
	}

	result := &Result{
		AST:       a,
		SchemaSQL: emit.Schema(a, adapter),
		RLSSQL:    rlsSQL,
		Queries:   emit.Queries(a),
	}

	if opts.Previous == nil {
		return result, nil
	}

	previousAST, err := ast.Validate(opts.Previous, opts.MultiTenant)
	if err != nil {
		return nil, err
	}

	ops, warnings := differ.Diff(differ.Project(previousAST), differ.Project(a))
	result.Warnings = append(result.Warnings, warnings...)

	m := migrate.Emit(ops, adapter, opts.AllowDestructive, opts.Now)
	result.MigrationFiles = m.Files
	result.Warnings = append(result.Warnings, m.Warnings...)

	return result, nil
}
