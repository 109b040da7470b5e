package cron

import (
	"fmt"
	"strings"
)

// FieldBreakdown is a human readable explanation of a single field.
type FieldBreakdown struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Text  string `json:"text"`
}

var units = []string{"minute", "hour", "day of the month", "month", "day of the week"}

// Describe explains each field of a parsed expression. It is used for the
// live breakdown shown beside a raw expression while it is being typed.
func Describe(f Fields) []FieldBreakdown {
	values := f.slice()
	out := make([]FieldBreakdown, len(values))
	for i, v := range values {
		out[i] = FieldBreakdown{
			Name:  domains[i].name,
			Value: v,
			Text:  describeField(v, units[i]),
		}
	}
	return out
}

func describeField(field, unit string) string {
	if field == Wildcard {
		return "every " + unit
	}

	terms := strings.Split(field, ",")
	parts := make([]string, 0, len(terms))
	for _, term := range terms {
		parts = append(parts, describeTerm(term, unit))
	}
	return strings.Join(parts, "; ")
}

func describeTerm(term, unit string) string {
	if base, step, ok := Step(term); ok {
		if base == Wildcard {
			return fmt.Sprintf("every %d %s", step, plural(unit, step))
		}
		return fmt.Sprintf("every %d %s starting at %s", step, plural(unit, step), base)
	}
	if lo, hi, ok := strings.Cut(term, "-"); ok {
		return fmt.Sprintf("%s %s through %s", unit, lo, hi)
	}
	return fmt.Sprintf("%s %s", unit, term)
}

func plural(unit string, n int) string {
	if n == 1 {
		return unit
	}
	if head, tail, ok := strings.Cut(unit, " of "); ok {
		return head + "s of " + tail
	}
	return unit + "s"
}
