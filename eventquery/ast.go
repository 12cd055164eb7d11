package eventquery

import (
	"strconv"
	"strings"
)

/***** AttributePath *****/

// AttributePath identifies the field a filter compares. It is either a
// simple top-level attribute (id, timestamp, source) or a path into the
// event's JSON payload, e.g. data.user.name with Name "data" and
// Keys ["user", "name"].
type AttributePath struct {
	Name string
	Keys []string
}

// IsPayload reports whether the path traverses the event payload. A bare
// "data" path (zero keys) addresses the whole payload and is still a payload
// path.
func (p AttributePath) IsPayload() bool {
	return p.Name == AttrData
}

// String renders the path in query syntax, e.g. "data.user.name".
func (p AttributePath) String() string {
	if len(p.Keys) == 0 {
		return p.Name
	}

	return p.Name + "." + strings.Join(p.Keys, ".")
}

/***** Literal *****/

// LiteralKind discriminates the closed set of literal value variants.
type LiteralKind int

const (
	LiteralNumber LiteralKind = iota
	LiteralText
	LiteralIdent
)

// Literal is a comparison operand taken verbatim from the query text.
//
// For LiteralNumber, Num holds the parsed value and Text the raw lexeme.
// For LiteralText and LiteralIdent, Text holds the (unquoted) string value.
// A bare identifier is just its literal text, it is never resolved against
// any variable scope.
type Literal struct {
	Kind LiteralKind
	Text string
	Num  float64
}

// String renders the literal in query syntax; text literals are re-quoted.
func (l Literal) String() string {
	if l.Kind == LiteralText {
		return strconv.Quote(l.Text)
	}

	return l.Text
}

/***** Filter and Query *****/

// Filter is a single comparison: path comparator value.
type Filter struct {
	Path  AttributePath
	Cmp   Comparator
	Value Literal
}

// Query is the parsed form of a query string: n filters interleaved with
// n-1 boolean connectives, kept flat exactly as written. Ops[i] joins
// Filters[i] and Filters[i+1]. The parser guarantees
// len(Ops) == len(Filters)-1 for non-empty queries.
type Query struct {
	Filters []Filter
	Ops     []BoolOp
}

// IsEmpty reports whether the query contains no filters, which is what an
// empty input string parses to.
func (q Query) IsEmpty() bool {
	return len(q.Filters) == 0
}
