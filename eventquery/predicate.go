package eventquery

import (
	"fmt"
)

// Predicate is the compiled, composable form of a query: a boolean-valued
// tree over event records. The variants form a closed set: Comparison, And,
// Or, and the None sentinel.
//
// Predicates are ephemeral values, built per compile call and handed to an
// executor; they carry no identity and no state beyond their structure.
type Predicate interface {
	// Match evaluates the predicate against a single event record.
	Match(event Event) (bool, error)

	// String renders a canonical, fully parenthesized form of the predicate.
	String() string

	isPredicate()
}

/***** Comparison *****/

// Comparison is a leaf predicate: one attribute compared against one literal.
// The attr, comparator and value are preserved from the parsed filter
// unchanged; no type cross-check happens at compile time, so a mismatched
// comparison compiles fine and only fails when evaluated.
type Comparison struct {
	Path  AttributePath
	Cmp   Comparator
	Value Literal
}

func (Comparison) isPredicate() {}

func (c Comparison) String() string {
	return fmt.Sprintf("%s %s %s", c.Path, c.Cmp, c.Value)
}

/***** And / Or *****/

// And matches when both children match.
type And struct {
	Left  Predicate
	Right Predicate
}

func (And) isPredicate() {}

func (a And) String() string {
	return fmt.Sprintf("(%s and %s)", a.Left, a.Right)
}

// Or matches when either child matches.
type Or struct {
	Left  Predicate
	Right Predicate
}

func (Or) isPredicate() {}

func (o Or) String() string {
	return fmt.Sprintf("(%s or %s)", o.Left, o.Right)
}

/***** None *****/

// None is the sentinel an empty query compiles to. It is not a predicate
// that matches nothing: it means "no predicate was supplied", and callers
// must treat the query as absent instead of evaluating it. Match returns
// ErrNoPredicate, and the SQL engine refuses to render it.
type None struct{}

func (None) isPredicate() {}

func (None) String() string {
	return "<none>"
}

// IsNone reports whether the predicate is the "no predicate" sentinel.
func IsNone(p Predicate) bool {
	_, ok := p.(None)
	return ok
}

/***** Compile *****/

// Compile folds the flat filter/connective sequence of a parsed query into a
// predicate tree.
//
// The fold is strictly left to right with NO precedence between the
// connectives: "f1 op1 f2 op2 f3" becomes "(f1 op1 f2) op2 f3". This differs
// from conventional boolean precedence where "and" binds tighter than "or";
// it is kept because query strings stored by existing deployments rely on it.
//
// Compiling is deterministic and idempotent: the same query always yields a
// structurally identical predicate. An empty query yields the None sentinel.
func Compile(query Query) Predicate {
	if query.IsEmpty() {
		return None{}
	}

	acc := Predicate(comparisonFromFilter(query.Filters[0]))

	for i, op := range query.Ops {
		if i+1 >= len(query.Filters) {
			break
		}

		right := comparisonFromFilter(query.Filters[i+1])

		if op == BoolOr {
			acc = Or{Left: acc, Right: right}
		} else {
			acc = And{Left: acc, Right: right}
		}
	}

	return acc
}

// CompileString parses and compiles a query string in one step.
func CompileString(input string) (Predicate, error) {
	query, err := Parse(input)
	if err != nil {
		return nil, err
	}

	return Compile(query), nil
}

func comparisonFromFilter(filter Filter) Comparison {
	return Comparison{Path: filter.Path, Cmp: filter.Cmp, Value: filter.Value}
}
