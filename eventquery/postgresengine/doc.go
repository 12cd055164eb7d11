// Package postgresengine renders compiled predicates into SQL SELECT
// statements over the events table.
//
// It is the database-facing half of the query pipeline: eventquery compiles
// a query string into a Predicate, and a QueryBuilder turns that predicate
// into the statement an executor runs against Postgres. Simple attributes
// map to columns, payload paths map to jsonb extraction ("data #>> '{...}'"),
// and "in" maps to jsonb containment on payload paths or LIKE on plain
// columns. The package never opens a database connection; executing the
// statement belongs to the storage layer.
package postgresengine
