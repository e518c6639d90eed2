// Package emit renders a validated Model AST into the three
// non-migration artifacts a driver writes to disk (§6): schema.sql,
// rls.sql, and the CRUD query template source. Every renderer is a
// pure function of the AST — none of them touch the filesystem.
package emit
