// Package eventquery implements the filter-query language used to select
// event records.
//
// A query is a flat chain of filters joined by the literal connectives
// " and " / " or ":
//
//	id = 1 and timestamp > 1643723400
//	data.user.name = "bob" or source = auth
//
// Each filter compares a top-level attribute (id, timestamp, source) or a
// dot-separated path into the event's JSON payload (data.user.name) against a
// number, a quoted string, or a bare identifier.
//
// The pipeline is: query string -> Parse -> Query (flat AST) -> Compile ->
// Predicate. A Predicate can be evaluated in memory against Event records or
// rendered to SQL by the postgresengine subpackage. Chains are folded strictly
// left to right; "and" does NOT bind tighter than "or", so
// "a or b and c" means "(a or b) and c". This matches the behavior of queries
// already stored by existing deployments and must not be changed silently.
//
// Common usage pattern:
//
//	predicate, err := eventquery.CompileString(`data.user.name = "bob" and id > 100`)
//	if err != nil {
//		// *eventquery.SyntaxError, report as a client error
//	}
//	if eventquery.IsNone(predicate) {
//		// empty query string, treat as "no query supplied"
//	}
//	matches, err := eventquery.MatchAll(predicate, events)
//
// Parsing and compiling are pure and hold no shared mutable state, so a single
// process-wide grammar serves concurrent callers without locking.
package eventquery
