// Package migrate sequences a differ.Operation list into the SQL text
// of a primary migration file and, when destructive ops were skipped,
// a paired fallback file (§4.5).
package migrate

import (
	"fmt"
	"time"
)

// timestamp renders t in the migration filename's UTC form
// (yyyymmddHHMMSS). Both files of one compilation must share the same
// timestamp so their names stay paired (§4.5).
func timestamp(t time.Time) string {
	return t.UTC().Format("20060102150405")
}

// SchemaFilename returns the primary migration file's relative path.
func SchemaFilename(t time.Time) string {
	return fmt.Sprintf("migrations/%s_schema.sql", timestamp(t))
}

// FallbackFilename returns the paired fallback file's relative path.
func FallbackFilename(t time.Time) string {
	return fmt.Sprintf("migrations/%s_fallback.sql", timestamp(t))
}
