package condition

import (
	"errors"
	"fmt"
	"slices"
)

var ErrIncompleteRow = errors.New("condition rows must have a key, operator and value")

// Field names a column of a condition row.
type Field string

const (
	FieldKey      Field = "key"
	FieldOperator Field = "operator"
	FieldValue    Field = "value"
)

// List is an ordered set of condition rows. Duplicate rows are allowed.
// All editing methods return a new list and leave the receiver untouched.
type List []Condition

// AddRow appends an empty row.
func (l List) AddRow() List {
	return append(slices.Clip(l), Condition{})
}

// RemoveRow deletes the row at index; later rows shift down by one.
// An out of range index returns an unchanged copy.
func (l List) RemoveRow(index int) List {
	out := slices.Clone(l)
	if index < 0 || index >= len(out) {
		return out
	}
	return slices.Delete(out, index, index+1)
}

// UpdateRow sets one field of the row at index.
func (l List) UpdateRow(index int, field Field, value string) List {
	out := slices.Clone(l)
	if index < 0 || index >= len(out) {
		return out
	}

	switch field {
	case FieldKey:
		out[index].Key = value
	case FieldOperator:
		out[index].Operator = Operator(value)
	case FieldValue:
		out[index].Value = value
	}
	return out
}

// Validate fails when any row is partially filled. Empty rows are ignored.
func (l List) Validate() error {
	for i, c := range l {
		if c.State() == Partial {
			return fmt.Errorf("row %d: %w", i, ErrIncompleteRow)
		}
	}
	return nil
}

// Compact drops empty rows.
func (l List) Compact() List {
	out := make(List, 0, len(l))
	for _, c := range l {
		if c.State() != Empty {
			out = append(out, c)
		}
	}
	return out
}
