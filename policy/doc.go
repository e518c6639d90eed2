// Package policy lowers a policy's whitelisted expression tree (§4.2)
// into the SQL predicate used in a Postgres row-level security USING
// clause (WITH CHECK for a create policy). See Lower.
package policy
