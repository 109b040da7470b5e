package condition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOperator(t *testing.T) {
	op, err := ParseOperator("startswith")
	require.NoError(t, err)
	assert.Equal(t, StartsWith, op)

	_, err = ParseOperator("Like")
	assert.ErrorIs(t, err, ErrUnknownOperator)
}

func TestRowState(t *testing.T) {
	assert.Equal(t, Empty, Condition{}.State())
	assert.Equal(t, Empty, Condition{Key: "  "}.State())
	assert.Equal(t, Partial, Condition{Key: "k"}.State())
	assert.Equal(t, Partial, Condition{Key: "k", Operator: Equals}.State())
	assert.Equal(t, Partial, Condition{Operator: Equals, Value: "v"}.State())
	assert.Equal(t, Complete, Condition{Key: "k", Operator: Equals, Value: "v"}.State())
	assert.Equal(t, "partial", Partial.String())
}

func TestValidateFilledCounts(t *testing.T) {
	rows := []Condition{
		{},
		{Key: "k"},
		{Operator: In},
		{Value: "v"},
		{Key: "k", Operator: In},
		{Key: "k", Value: "v"},
		{Operator: In, Value: "v"},
		{Key: "k", Operator: In, Value: "v"},
	}

	for _, row := range rows {
		err := List{row}.Validate()
		switch row.Filled() {
		case 0, 3:
			assert.NoError(t, err, "%+v", row)
		default:
			assert.ErrorIs(t, err, ErrIncompleteRow, "%+v", row)
		}
	}
}

func TestValidateOneBadRowFailsList(t *testing.T) {
	l := List{
		{Key: "a", Operator: Equals, Value: "1"},
		{Key: "b"},
		{},
	}
	assert.ErrorIs(t, l.Validate(), ErrIncompleteRow)
}

func TestRemoveMiddleRow(t *testing.T) {
	l := List{
		{Key: "first", Operator: Equals, Value: "1"},
		{Key: "second", Operator: Regex, Value: "2"},
		{Key: "third", Operator: Contains, Value: "3"},
	}

	out := l.RemoveRow(1)
	require.Len(t, out, 2)
	assert.Equal(t, Condition{Key: "first", Operator: Equals, Value: "1"}, out[0])
	assert.Equal(t, Condition{Key: "third", Operator: Contains, Value: "3"}, out[1])

	// the original list is untouched
	require.Len(t, l, 3)
	assert.Equal(t, "second", l[1].Key)
}

func TestRemoveRowOutOfRange(t *testing.T) {
	l := List{{Key: "a"}}
	assert.Equal(t, l, l.RemoveRow(3))
	assert.Equal(t, l, l.RemoveRow(-1))
}

func TestAddAndUpdateRow(t *testing.T) {
	var l List
	l = l.AddRow().AddRow()
	require.Len(t, l, 2)

	updated := l.UpdateRow(1, FieldKey, "x-github-event").
		UpdateRow(1, FieldOperator, string(Equals)).
		UpdateRow(1, FieldValue, "push")

	assert.Equal(t, Condition{}, l[1])
	assert.Equal(t, Condition{Key: "x-github-event", Operator: Equals, Value: "push"}, updated[1])
	assert.Equal(t, Condition{}, updated[0])
}

func TestAddRowDoesNotAlias(t *testing.T) {
	base := make(List, 1, 4)
	a := base.AddRow()
	b := base.AddRow()
	a[1].Key = "a"
	assert.Equal(t, "", b[1].Key)
}

func TestDuplicatesAllowed(t *testing.T) {
	row := Condition{Key: "k", Operator: Equals, Value: "v"}
	assert.NoError(t, List{row, row}.Validate())
}

func TestCompact(t *testing.T) {
	l := List{{}, {Key: "k", Operator: Equals, Value: "v"}, {}}
	assert.Equal(t, List{{Key: "k", Operator: Equals, Value: "v"}}, l.Compact())
}
