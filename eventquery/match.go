package eventquery

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fastjson"
)

var (
	// ErrNoPredicate is returned when the None sentinel is evaluated or
	// rendered. Callers must treat the query as absent instead.
	ErrNoPredicate = errors.New("no predicate was compiled from the query")

	// ErrUnresolvedPath is returned when a payload path does not exist in the
	// event being evaluated. This is an evaluation-time concern: the compiler
	// never validates payload keys against any schema.
	ErrUnresolvedPath = errors.New("attribute path does not resolve in event")

	// ErrOperatorMismatch is returned when a comparator is applied to operand
	// types it does not support, e.g. "in" on a numeric field. Such filters
	// compile fine and only fail here.
	ErrOperatorMismatch = errors.New("comparator does not support the operand types")
)

// payloadParsers is shared across Match calls; fastjson parsers are cheap to
// reuse and the pool keeps evaluation allocation-free on the hot path.
var payloadParsers fastjson.ParserPool

// MatchAll applies a predicate to an event collection and returns the
// matching records in input order. This is the in-process form of the
// executor-binding contract; passing the None sentinel is an error, not a
// match-all or match-none filter.
func MatchAll(predicate Predicate, events Events) (Events, error) {
	if predicate == nil || IsNone(predicate) {
		return nil, ErrNoPredicate
	}

	matched := make(Events, 0, len(events))

	for _, event := range events {
		ok, err := predicate.Match(event)
		if err != nil {
			return nil, err
		}

		if ok {
			matched = append(matched, event)
		}
	}

	return matched, nil
}

// Match on the None sentinel always fails: there is nothing to evaluate.
func (None) Match(_ Event) (bool, error) {
	return false, ErrNoPredicate
}

// Match evaluates both children; there is no short-circuit, so evaluation
// errors surface deterministically regardless of operand values.
func (a And) Match(event Event) (bool, error) {
	left, err := a.Left.Match(event)
	if err != nil {
		return false, err
	}

	right, err := a.Right.Match(event)
	if err != nil {
		return false, err
	}

	return left && right, nil
}

func (o Or) Match(event Event) (bool, error) {
	left, err := o.Left.Match(event)
	if err != nil {
		return false, err
	}

	right, err := o.Right.Match(event)
	if err != nil {
		return false, err
	}

	return left || right, nil
}

// Match resolves the attribute path to a field of the event and applies the
// comparator. Simple attributes map directly to record fields; payload paths
// index into the JSON payload one key per step.
func (c Comparison) Match(event Event) (bool, error) {
	if c.Path.IsPayload() {
		return c.matchPayload(event)
	}

	switch c.Path.Name {
	case AttrID:
		return compareNumber(float64(event.ID), c.Cmp, c.Value)
	case AttrTimestamp:
		return compareTimestamp(event.Timestamp, c.Cmp, c.Value)
	case AttrSource:
		return compareText(event.Source, c.Cmp, c.Value)
	default:
		return false, errors.Join(ErrUnresolvedPath, fmt.Errorf("unknown attribute %q", c.Path.Name))
	}
}

func (c Comparison) matchPayload(event Event) (bool, error) {
	parser := payloadParsers.Get()
	defer payloadParsers.Put(parser)

	root, err := parser.ParseBytes(event.PayloadJSON)
	if err != nil {
		return false, errors.Join(ErrInvalidPayloadJSON, err)
	}

	value := root.Get(c.Path.Keys...)
	if value == nil {
		return false, errors.Join(ErrUnresolvedPath, fmt.Errorf("payload has no key path %q", strings.Join(c.Path.Keys, ".")))
	}

	switch value.Type() {
	case fastjson.TypeNumber:
		return compareNumber(value.GetFloat64(), c.Cmp, c.Value)

	case fastjson.TypeString:
		text, stringErr := value.StringBytes()
		if stringErr != nil {
			return false, errors.Join(ErrOperatorMismatch, stringErr)
		}

		return compareText(string(text), c.Cmp, c.Value)

	case fastjson.TypeTrue, fastjson.TypeFalse, fastjson.TypeNull:
		return compareScalarWord(value.Type(), c.Cmp, c.Value)

	case fastjson.TypeArray:
		return containsInArray(value, c.Cmp, c.Value)

	default:
		return false, errors.Join(
			ErrOperatorMismatch,
			fmt.Errorf("payload value at %q is a %s", c.Path, value.Type()),
		)
	}
}

// compareNumber applies a relational comparator to a numeric field. The
// literal must be numeric too: typing is taken at face value from the
// parser, so a textual literal against a numeric field is a mismatch.
func compareNumber(field float64, cmp Comparator, literal Literal) (bool, error) {
	if literal.Kind != LiteralNumber {
		return false, errors.Join(ErrOperatorMismatch, fmt.Errorf("numeric field compared against %s", literal))
	}

	return relateNumbers(field, cmp, literal.Num)
}

// compareTimestamp compares the record timestamp against a numeric literal
// (Unix seconds) or a quoted RFC 3339 string.
func compareTimestamp(field time.Time, cmp Comparator, literal Literal) (bool, error) {
	switch literal.Kind {
	case LiteralNumber:
		return relateNumbers(float64(field.Unix()), cmp, literal.Num)

	case LiteralText:
		ts, err := time.Parse(time.RFC3339, literal.Text)
		if err != nil {
			return false, errors.Join(ErrOperatorMismatch, err)
		}

		return relateNumbers(float64(field.Unix()), cmp, float64(ts.Unix()))

	default:
		return false, errors.Join(ErrOperatorMismatch, fmt.Errorf("timestamp compared against identifier %s", literal))
	}
}

// compareText applies a comparator to a string field. Ordering comparators
// are lexicographic. "in" is the fixed-direction containment test: the FIELD
// must contain the literal, never the other way around.
func compareText(field string, cmp Comparator, literal Literal) (bool, error) {
	if literal.Kind == LiteralNumber {
		return false, errors.Join(ErrOperatorMismatch, fmt.Errorf("text field compared against number %s", literal))
	}

	switch cmp {
	case CmpEQ:
		return field == literal.Text, nil
	case CmpNE:
		return field != literal.Text, nil
	case CmpGT:
		return field > literal.Text, nil
	case CmpGE:
		return field >= literal.Text, nil
	case CmpLT:
		return field < literal.Text, nil
	case CmpLE:
		return field <= literal.Text, nil
	case CmpIn:
		return strings.Contains(field, literal.Text), nil
	default:
		return false, errors.Join(ErrOperatorMismatch, fmt.Errorf("unsupported comparator %s", cmp))
	}
}

// compareScalarWord handles JSON true/false/null payload values, which only
// support equality against the matching bare identifier.
func compareScalarWord(jsonType fastjson.Type, cmp Comparator, literal Literal) (bool, error) {
	if literal.Kind == LiteralNumber || (cmp != CmpEQ && cmp != CmpNE) {
		return false, errors.Join(ErrOperatorMismatch, fmt.Errorf("%s payload value compared with %s %s", jsonType, cmp, literal))
	}

	equal := jsonType.String() == literal.Text

	if cmp == CmpNE {
		return !equal, nil
	}

	return equal, nil
}

// containsInArray implements "in" against a JSON array field: membership of
// the literal among the array elements.
func containsInArray(array *fastjson.Value, cmp Comparator, literal Literal) (bool, error) {
	if cmp != CmpIn {
		return false, errors.Join(ErrOperatorMismatch, fmt.Errorf("array payload value compared with %s", cmp))
	}

	items, err := array.Array()
	if err != nil {
		return false, errors.Join(ErrOperatorMismatch, err)
	}

	for _, item := range items {
		if literalEqualsJSONValue(literal, item) {
			return true, nil
		}
	}

	return false, nil
}

func literalEqualsJSONValue(literal Literal, value *fastjson.Value) bool {
	switch value.Type() {
	case fastjson.TypeNumber:
		return literal.Kind == LiteralNumber && literal.Num == value.GetFloat64()

	case fastjson.TypeString:
		if literal.Kind == LiteralNumber {
			return false
		}

		text, err := value.StringBytes()

		return err == nil && literal.Text == string(text)

	default:
		return false
	}
}

func relateNumbers(field float64, cmp Comparator, literal float64) (bool, error) {
	switch cmp {
	case CmpEQ:
		return field == literal, nil
	case CmpNE:
		return field != literal, nil
	case CmpGT:
		return field > literal, nil
	case CmpGE:
		return field >= literal, nil
	case CmpLT:
		return field < literal, nil
	case CmpLE:
		return field <= literal, nil
	case CmpIn:
		return false, errors.Join(ErrOperatorMismatch, errors.New("containment requires a string or array field"))
	default:
		return false, errors.Join(ErrOperatorMismatch, fmt.Errorf("unsupported comparator %s", cmp))
	}
}
