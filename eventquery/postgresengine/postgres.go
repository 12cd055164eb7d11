package postgresengine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // driver import
	"github.com/doug-martin/goqu/v9/exp"
	jsoniter "github.com/json-iterator/go"

	"github.com/gregoryhugaerts/mini-siem/eventquery"
)

const (
	defaultEventTableName     = "events"
	logMsgBuildSelectFailed   = "failed to build select query"
	logMsgSelectRendered      = "rendered select query"
	logAttrError              = "error"
	logAttrQuery              = "query"
	logAttrPredicate          = "predicate"
	colID                     = "id"
	colTimestamp              = "timestamp"
	colSource                 = "source"
	colPayload                = "data"
	dialectPostgres           = "postgres"
	jsonbExtractText          = "%s #>> '{%s}'"
	jsonbExtractTextAsNumeric = "(%s #>> '{%s}')::numeric"
	jsonbContains             = "%s #> '{%s}' @> '%s'"
	likeContainsPattern       = "%%%s%%"
)

type sqlQueryString = string

var (
	// ErrEmptyEventsTableName is returned when an empty table name is supplied.
	ErrEmptyEventsTableName = errors.New("empty eventTableName supplied")

	// ErrBuildingQueryFailed is returned when a predicate cannot be rendered to SQL.
	ErrBuildingQueryFailed = errors.New("building select query failed")
)

// QueryBuilder renders predicates compiled by eventquery into SQL SELECT
// statements for a Postgres events table, with customizable logging and
// table configuration. It holds no connection and executes nothing.
type QueryBuilder struct {
	eventTableName string
	logger         Logger
}

// NewQueryBuilder creates a new QueryBuilder with optional configuration.
func NewQueryBuilder(options ...Option) (QueryBuilder, error) {
	qb := QueryBuilder{
		eventTableName: defaultEventTableName,
	}

	for _, option := range options {
		if err := option(&qb); err != nil {
			return QueryBuilder{}, err
		}
	}

	return qb, nil
}

// BuildSelectSQL renders the predicate into a complete SELECT statement over
// the events table, ordered by id.
//
// The None sentinel is refused with eventquery.ErrNoPredicate: an absent
// query must not silently become a match-all statement.
func (qb QueryBuilder) BuildSelectSQL(predicate eventquery.Predicate) (sqlQueryString, error) {
	if predicate == nil || eventquery.IsNone(predicate) {
		return "", eventquery.ErrNoPredicate
	}

	whereExpr, err := qb.expression(predicate)
	if err != nil {
		qb.logError(logMsgBuildSelectFailed, err, predicate)
		return "", err
	}

	selectStmt := goqu.Dialect(dialectPostgres).
		From(qb.eventTableName).
		Select(colID, colTimestamp, colSource, colPayload).
		Where(whereExpr).
		Order(goqu.I(colID).Asc())

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		qb.logError(logMsgBuildSelectFailed, toSQLErr, predicate)
		return "", errors.Join(ErrBuildingQueryFailed, toSQLErr)
	}

	if qb.logger != nil {
		qb.logger.Debug(logMsgSelectRendered, logAttrQuery, sqlQuery, logAttrPredicate, predicate.String())
	}

	return sqlQuery, nil
}

// expression maps the predicate tree onto goqu expressions, preserving the
// grouping produced by the compiler's left-to-right fold.
func (qb QueryBuilder) expression(predicate eventquery.Predicate) (goqu.Expression, error) {
	switch node := predicate.(type) {
	case eventquery.Comparison:
		return qb.comparisonExpression(node)

	case eventquery.And:
		left, err := qb.expression(node.Left)
		if err != nil {
			return nil, err
		}

		right, err := qb.expression(node.Right)
		if err != nil {
			return nil, err
		}

		return goqu.And(left, right), nil

	case eventquery.Or:
		left, err := qb.expression(node.Left)
		if err != nil {
			return nil, err
		}

		right, err := qb.expression(node.Right)
		if err != nil {
			return nil, err
		}

		return goqu.Or(left, right), nil

	default:
		return nil, errors.Join(ErrBuildingQueryFailed, fmt.Errorf("unexpected predicate node %T", predicate))
	}
}

func (qb QueryBuilder) comparisonExpression(comparison eventquery.Comparison) (goqu.Expression, error) {
	if comparison.Path.IsPayload() {
		return qb.payloadExpression(comparison)
	}

	return qb.columnExpression(comparison)
}

// columnExpression renders a comparison on one of the plain columns. "in"
// becomes a LIKE containment test: the column value must contain the literal.
func (qb QueryBuilder) columnExpression(comparison eventquery.Comparison) (goqu.Expression, error) {
	column := goqu.C(comparison.Path.Name)
	value := literalValue(comparison.Value)

	switch comparison.Cmp {
	case eventquery.CmpEQ:
		return column.Eq(value), nil
	case eventquery.CmpNE:
		return column.Neq(value), nil
	case eventquery.CmpGT:
		return column.Gt(value), nil
	case eventquery.CmpGE:
		return column.Gte(value), nil
	case eventquery.CmpLT:
		return column.Lt(value), nil
	case eventquery.CmpLE:
		return column.Lte(value), nil
	case eventquery.CmpIn:
		return column.Like(fmt.Sprintf(likeContainsPattern, comparison.Value.Text)), nil
	default:
		return nil, errors.Join(ErrBuildingQueryFailed, fmt.Errorf("unsupported comparator %s", comparison.Cmp))
	}
}

// payloadExpression renders a comparison on a payload path. Relational
// comparators extract the value with "#>>" (cast to numeric for numeric
// literals); "in" uses jsonb containment, so it covers both array membership
// and object containment the way Postgres defines "@>".
//
// Payload keys are identifier-shaped by construction (the parser only
// accepts [A-Za-z_][A-Za-z_0-9]*), so they can be inlined into the path
// literal.
func (qb QueryBuilder) payloadExpression(comparison eventquery.Comparison) (goqu.Expression, error) {
	keyPath := strings.Join(comparison.Path.Keys, ",")

	if comparison.Cmp == eventquery.CmpIn {
		containedJSON, err := jsoniter.ConfigFastest.Marshal(literalValue(comparison.Value))
		if err != nil {
			return nil, errors.Join(ErrBuildingQueryFailed, err)
		}

		return goqu.L(fmt.Sprintf(jsonbContains, colPayload, keyPath, containedJSON)), nil
	}

	var extract exp.LiteralExpression
	if comparison.Value.Kind == eventquery.LiteralNumber {
		extract = goqu.L(fmt.Sprintf(jsonbExtractTextAsNumeric, colPayload, keyPath))
	} else {
		extract = goqu.L(fmt.Sprintf(jsonbExtractText, colPayload, keyPath))
	}

	value := literalValue(comparison.Value)

	switch comparison.Cmp {
	case eventquery.CmpEQ:
		return extract.Eq(value), nil
	case eventquery.CmpNE:
		return extract.Neq(value), nil
	case eventquery.CmpGT:
		return extract.Gt(value), nil
	case eventquery.CmpGE:
		return extract.Gte(value), nil
	case eventquery.CmpLT:
		return extract.Lt(value), nil
	case eventquery.CmpLE:
		return extract.Lte(value), nil
	default:
		return nil, errors.Join(ErrBuildingQueryFailed, fmt.Errorf("unsupported comparator %s", comparison.Cmp))
	}
}

// literalValue converts a parsed literal into the Go value goqu should
// inline. Bare identifiers are their literal text, same as quoted strings.
func literalValue(literal eventquery.Literal) any {
	if literal.Kind == eventquery.LiteralNumber {
		return literal.Num
	}

	return literal.Text
}

func (qb QueryBuilder) logError(msg string, err error, predicate eventquery.Predicate) {
	if qb.logger != nil {
		qb.logger.Error(msg, logAttrError, err.Error(), logAttrPredicate, predicate.String())
	}
}
