package postgresengine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gregoryhugaerts/mini-siem/eventquery"
	"github.com/gregoryhugaerts/mini-siem/eventquery/postgresengine"
)

type recordingLogger struct {
	debugMessages []string
	errorMessages []string
}

func (l *recordingLogger) Debug(msg string, _ ...any) { l.debugMessages = append(l.debugMessages, msg) }
func (l *recordingLogger) Info(msg string, _ ...any)  {}
func (l *recordingLogger) Warn(msg string, _ ...any)  {}
func (l *recordingLogger) Error(msg string, _ ...any) { l.errorMessages = append(l.errorMessages, msg) }

func buildSQL(t *testing.T, input string, options ...postgresengine.Option) string {
	t.Helper()

	builder, err := postgresengine.NewQueryBuilder(options...)
	require.NoError(t, err)

	predicate, err := eventquery.CompileString(input)
	require.NoError(t, err)

	sqlQuery, err := builder.BuildSelectSQL(predicate)
	require.NoError(t, err)

	return sqlQuery
}

func Test_BuildSelectSQL_SimpleAttributes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		fragment string
	}{
		{name: "id_equality", input: "id = 1", fragment: `("id" = 1)`},
		{name: "id_not_equal", input: "id != 1", fragment: `("id" != 1)`},
		{name: "timestamp_range", input: "timestamp >= 100", fragment: `("timestamp" >= 100)`},
		{name: "source_string", input: `source = "auth"`, fragment: `("source" = 'auth')`},
		{name: "bare_identifier_value", input: "source = auth", fragment: `("source" = 'auth')`},
		{name: "containment_on_column", input: `source in "auth"`, fragment: `("source" LIKE '%auth%')`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sqlQuery := buildSQL(t, tt.input)
			assert.Contains(t, sqlQuery, `FROM "events"`)
			assert.Contains(t, sqlQuery, tt.fragment)
			assert.Contains(t, sqlQuery, `ORDER BY "id" ASC`)
		})
	}
}

func Test_BuildSelectSQL_PayloadPaths(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		fragment string
	}{
		{name: "nested_text_extraction", input: `data.user.name = "bob"`, fragment: `data #>> '{user,name}' = 'bob'`},
		{name: "nested_numeric_extraction", input: "data.attempts > 3", fragment: `(data #>> '{attempts}')::numeric > 3`},
		{name: "containment_is_jsonb_containment", input: `data.tags in "login"`, fragment: `data #> '{tags}' @> '"login"'`},
		{name: "numeric_containment", input: "data.numbers in 2", fragment: `data #> '{numbers}' @> '2'`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sqlQuery := buildSQL(t, tt.input)
			assert.Contains(t, sqlQuery, tt.fragment)
		})
	}
}

func Test_BuildSelectSQL_PreservesTheLeftFoldGrouping(t *testing.T) {
	sqlQuery := buildSQL(t, "id = 1 or id = 2 and id = 3")

	assert.Contains(t, sqlQuery, `((("id" = 1) OR ("id" = 2)) AND ("id" = 3))`)
}

func Test_BuildSelectSQL_RefusesTheNoneSentinel(t *testing.T) {
	builder, err := postgresengine.NewQueryBuilder()
	require.NoError(t, err)

	predicate, err := eventquery.CompileString("")
	require.NoError(t, err)

	_, buildErr := builder.BuildSelectSQL(predicate)
	assert.ErrorIs(t, buildErr, eventquery.ErrNoPredicate)
}

func Test_NewQueryBuilder_WithTableName(t *testing.T) {
	sqlQuery := buildSQL(t, "id = 1", postgresengine.WithTableName("audit_events"))
	assert.Contains(t, sqlQuery, `FROM "audit_events"`)

	_, err := postgresengine.NewQueryBuilder(postgresengine.WithTableName(""))
	assert.ErrorIs(t, err, postgresengine.ErrEmptyEventsTableName)
}

func Test_BuildSelectSQL_LogsRenderedQueries(t *testing.T) {
	logger := &recordingLogger{}

	sqlQuery := buildSQL(t, "id = 1", postgresengine.WithLogger(logger))

	assert.NotEmpty(t, sqlQuery)
	assert.NotEmpty(t, logger.debugMessages)
	assert.Empty(t, logger.errorMessages)
}
