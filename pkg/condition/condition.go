// Package condition models the payload and header filters attached to
// webhook triggers, along with the row editor used to maintain them.
package condition

import (
	"errors"
	"fmt"
	"strings"
)

// Operator compares a payload or header value.
type Operator string

const (
	Equals     Operator = "Equals"
	NotEquals  Operator = "NotEquals"
	In         Operator = "In"
	NotIn      Operator = "NotIn"
	Regex      Operator = "Regex"
	StartsWith Operator = "StartsWith"
	EndsWith   Operator = "EndsWith"
	Contains   Operator = "Contains"
)

// Operators lists every supported operator.
var Operators = []Operator{Equals, NotEquals, In, NotIn, Regex, StartsWith, EndsWith, Contains}

var ErrUnknownOperator = errors.New("unknown operator")

// ParseOperator resolves an operator name, case-insensitively.
func ParseOperator(s string) (Operator, error) {
	for _, op := range Operators {
		if strings.EqualFold(string(op), strings.TrimSpace(s)) {
			return op, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownOperator, s)
}

// Condition is a single key/operator/value filter.
type Condition struct {
	Key      string   `yaml:"key" json:"key" mapstructure:"key"`
	Operator Operator `yaml:"operator" json:"operator" mapstructure:"operator"`
	Value    string   `yaml:"value" json:"value" mapstructure:"value"`
}

// RowState classifies how much of a row has been filled in.
type RowState int

const (
	Empty RowState = iota
	Partial
	Complete
)

func (s RowState) String() string {
	switch s {
	case Empty:
		return "empty"
	case Partial:
		return "partial"
	case Complete:
		return "complete"
	default:
		return fmt.Sprintf("RowState(%d)", int(s))
	}
}

// Filled returns how many of the three fields are set.
func (c Condition) Filled() int {
	n := 0
	for _, f := range []string{c.Key, string(c.Operator), c.Value} {
		if strings.TrimSpace(f) != "" {
			n++
		}
	}
	return n
}

// State reports whether the row is empty, partial or complete.
func (c Condition) State() RowState {
	switch c.Filled() {
	case 0:
		return Empty
	case 3:
		return Complete
	default:
		return Partial
	}
}
