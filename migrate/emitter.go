package migrate

import (
	"fmt"
	"strings"
	"time"

	"github.com/neonnomad/laforge/dialect"
	"github.com/neonnomad/laforge/diag"
	"github.com/neonnomad/laforge/differ"
)

// File is one generated artifact: a relative path and its full text
// contents (§6's "migration file set").
type File struct {
	RelativePath string
	Contents     string
}

// Result is the migration emitter's output: the primary schema file,
// an optional paired fallback file (present only when at least one
// destructive op was skipped), and the accumulated warnings.
type Result struct {
	Files    []File
	Warnings []*diag.EmissionWarning
}

// Emit renders ops against adapter into a migration file set. When ops
// is empty, it returns a zero-value Result with no files — per §4.5,
// an unchanged schema produces no migration.
func Emit(ops []*differ.Operation, adapter dialect.Adapter, allowDestructive bool, now time.Time) *Result {
	if len(ops) == 0 {
		return &Result{}
	}

	e := &emitter{adapter: adapter}

	var gateOpts []differ.GateOption
	if allowDestructive {
		gateOpts = append(gateOpts, differ.AllowDestructive())
	}
	gate := differ.Gate(ops, gateOpts...)

	var schema, fallback []string

	for _, op := range gate.Apply {
		if op.Kind.Destructive() {
			e.warn(diag.WarnDestructive, "%s", describe(op))
		}
		sql, ok := adapter.Render(op)
		if !ok {
			e.warn(diag.WarnUnsupportedOp, "%s is unsupported by %s; statement skipped", describe(op), adapter.Kind())
			schema = append(schema, fmt.Sprintf("-- unsupported: %s", describe(op)))
			continue
		}
		schema = append(schema, sql)
	}

	for _, op := range gate.Fallback {
		e.warn(diag.WarnDestructive, "%s", describe(op))
		e.warn(diag.WarnDestructiveSkipped, "Destructive change skipped: %s (see fallback)", describe(op))
		stanza, ok := fallbackStanza(adapter, op)
		if !ok {
			e.warn(diag.WarnUnsupportedOp, "no fallback stanza available for %s", describe(op))
			fallback = append(fallback, fmt.Sprintf("-- unsupported: %s", describe(op)))
			continue
		}
		fallback = append(fallback, stanza)
	}

	header := commentHeader(now, e.warnings)

	// The primary file is written even when every op was diverted to
	// the fallback, so its header still carries the skip warnings.
	body := ""
	if len(schema) > 0 {
		body = strings.Join(schema, "\n") + "\n"
	}
	files := []File{{
		RelativePath: SchemaFilename(now),
		Contents:     header + body,
	}}
	if len(fallback) > 0 {
		files = append(files, File{
			RelativePath: FallbackFilename(now),
			Contents:     header + strings.Join(fallback, "\n") + "\n",
		})
	}

	return &Result{Files: files, Warnings: e.warnings}
}

type emitter struct {
	adapter  dialect.Adapter
	warnings []*diag.EmissionWarning
}

func (e *emitter) warn(kind diag.WarningKind, format string, args ...any) {
	e.warnings = append(e.warnings, diag.Warnf(kind, format, args...))
}

func commentHeader(now time.Time, warnings []*diag.EmissionWarning) string {
	var b strings.Builder
	fmt.Fprintf(&b, "-- Generated %s\n", now.UTC().Format(time.RFC3339))
	for _, w := range warnings {
		b.WriteString(w.Comment())
		b.WriteByte('\n')
	}
	return b.String()
}

func describe(op *differ.Operation) string {
	switch op.Kind {
	case differ.RenameTable:
		return fmt.Sprintf("%s %s -> %s", op.Kind, op.From, op.To)
	case differ.RenameColumn:
		return fmt.Sprintf("%s %s.%s -> %s", op.Kind, op.Table, op.From, op.To)
	case differ.AddColumn, differ.DropColumn:
		return fmt.Sprintf("%s %s.%s", op.Kind, op.Table, op.Column.Name)
	case differ.AlterColumnType, differ.AlterNullability, differ.AlterDefault:
		return fmt.Sprintf("%s %s.%s", op.Kind, op.Table, op.Column.Name)
	case differ.AddForeignKey, differ.DropForeignKey:
		return fmt.Sprintf("%s %s.%s", op.Kind, op.Table, op.FK.Name)
	case differ.AlterForeignKey:
		return fmt.Sprintf("%s %s.%s -> %s", op.Kind, op.Table, op.FKOld.Name, op.FK.Name)
	default:
		return fmt.Sprintf("%s %s", op.Kind, op.Table)
	}
}
