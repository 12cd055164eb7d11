package eventquery_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gregoryhugaerts/mini-siem/eventquery"
)

func Test_Compile_SingleFilterPreservesItsParts(t *testing.T) {
	tests := []struct {
		input    string
		expected eventquery.Comparison
	}{
		{
			input: "id = 1",
			expected: eventquery.Comparison{
				Path:  eventquery.AttributePath{Name: "id"},
				Cmp:   eventquery.CmpEQ,
				Value: eventquery.Literal{Kind: eventquery.LiteralNumber, Text: "1", Num: 1},
			},
		},
		{
			input: `data.user.name = "bob"`,
			expected: eventquery.Comparison{
				Path:  eventquery.AttributePath{Name: "data", Keys: []string{"user", "name"}},
				Cmp:   eventquery.CmpEQ,
				Value: eventquery.Literal{Kind: eventquery.LiteralText, Text: "bob"},
			},
		},
		{
			input: `source in "au"`,
			expected: eventquery.Comparison{
				Path:  eventquery.AttributePath{Name: "source"},
				Cmp:   eventquery.CmpIn,
				Value: eventquery.Literal{Kind: eventquery.LiteralText, Text: "au"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			predicate, err := eventquery.CompileString(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, predicate)
		})
	}
}

func Test_Compile_AndOfTwoComparisons(t *testing.T) {
	predicate, err := eventquery.CompileString("id = 1 and timestamp > 100")
	require.NoError(t, err)

	and, ok := predicate.(eventquery.And)
	require.True(t, ok, "expected And at the root, got %T", predicate)

	left, ok := and.Left.(eventquery.Comparison)
	require.True(t, ok)
	assert.Equal(t, "id", left.Path.Name)
	assert.Equal(t, eventquery.CmpEQ, left.Cmp)

	right, ok := and.Right.(eventquery.Comparison)
	require.True(t, ok)
	assert.Equal(t, "timestamp", right.Path.Name)
	assert.Equal(t, eventquery.CmpGT, right.Cmp)
}

// The fold is strictly left to right: "a or b and c" groups as
// "(a or b) and c", NOT as the conventional "a or (b and c)".
func Test_Compile_FoldsLeftToRightWithoutPrecedence(t *testing.T) {
	predicate, err := eventquery.CompileString("id = 1 or id = 2 and id = 3")
	require.NoError(t, err)

	and, ok := predicate.(eventquery.And)
	require.True(t, ok, "expected And at the root, got %T", predicate)

	or, ok := and.Left.(eventquery.Or)
	require.True(t, ok, "expected Or on the left, got %T", and.Left)

	first, ok := or.Left.(eventquery.Comparison)
	require.True(t, ok)
	assert.Equal(t, 1.0, first.Value.Num)

	second, ok := or.Right.(eventquery.Comparison)
	require.True(t, ok)
	assert.Equal(t, 2.0, second.Value.Num)

	third, ok := and.Right.(eventquery.Comparison)
	require.True(t, ok)
	assert.Equal(t, 3.0, third.Value.Num)
}

func Test_Compile_EmptyQueryYieldsNoneSentinel(t *testing.T) {
	predicate, err := eventquery.CompileString("")
	require.NoError(t, err)

	assert.True(t, eventquery.IsNone(predicate))

	// The sentinel is not a predicate that matches nothing: evaluating it is
	// an error the caller must handle as "no query supplied".
	_, matchErr := predicate.Match(eventquery.Event{})
	assert.ErrorIs(t, matchErr, eventquery.ErrNoPredicate)

	// A real predicate is never the sentinel.
	nonEmpty, err := eventquery.CompileString("id = 1")
	require.NoError(t, err)
	assert.False(t, eventquery.IsNone(nonEmpty))
}

func Test_Compile_IsIdempotent(t *testing.T) {
	const input = `id = 1 or data.user.name = "bob" and timestamp <= 200`

	first, err := eventquery.CompileString(input)
	require.NoError(t, err)

	second, err := eventquery.CompileString(input)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func Test_Compile_NoPredicateFromInvalidInput(t *testing.T) {
	predicate, err := eventquery.CompileString("id ~ 1")
	require.Error(t, err)
	assert.Nil(t, predicate)
}

func Test_Predicate_StringRendersCanonicalForm(t *testing.T) {
	predicate, err := eventquery.CompileString(`id = 1 or data.user.name = "bob" and timestamp > 100`)
	require.NoError(t, err)

	assert.Equal(t, `((id = 1 or data.user.name = "bob") and timestamp > 100)`, predicate.String())
}
