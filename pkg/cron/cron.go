// Package cron decodes and encodes the 5-field cron expressions edited by
// schedule triggers. Validation is deliberately lax: each field is checked
// on its own and no cross-field consistency (e.g. February 31st) is enforced.
package cron

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	robfig "github.com/robfig/cron"
)

// ErrInvalidCron is returned (wrapped) whenever an expression cannot be parsed.
var ErrInvalidCron = errors.New("invalid cron expression")

// Wildcard matches every value of a field.
const Wildcard = "*"

// Fields is the decomposed form of a cron expression.
type Fields struct {
	Minute     string `json:"minute" yaml:"minute"`
	Hour       string `json:"hour" yaml:"hour"`
	DayOfMonth string `json:"dayOfMonth" yaml:"dayOfMonth"`
	Month      string `json:"month" yaml:"month"`
	DayOfWeek  string `json:"dayOfWeek" yaml:"dayOfWeek"`
}

// Every returns the expression that fires every minute.
func Every() Fields {
	return Fields{
		Minute:     Wildcard,
		Hour:       Wildcard,
		DayOfMonth: Wildcard,
		Month:      Wildcard,
		DayOfWeek:  Wildcard,
	}
}

// String formats the fields as a cron expression.
func (f Fields) String() string {
	return strings.Join(f.slice(), " ")
}

func (f Fields) slice() []string {
	return []string{f.Minute, f.Hour, f.DayOfMonth, f.Month, f.DayOfWeek}
}

// Format is the inverse of Parse.
func Format(f Fields) string {
	return f.String()
}

// Parse splits an expression into its five fields, checking each field
// against its domain.
func Parse(expr string) (Fields, error) {
	parts := strings.Fields(expr)
	if len(parts) != len(domains) {
		return Fields{}, fmt.Errorf(
			"%w: expected %d fields, found %d",
			ErrInvalidCron,
			len(domains),
			len(parts),
		)
	}

	for i, part := range parts {
		if err := domains[i].check(part); err != nil {
			return Fields{}, fmt.Errorf("%w: %s: %v", ErrInvalidCron, domains[i].name, err)
		}
	}

	return Fields{
		Minute:     parts[0],
		Hour:       parts[1],
		DayOfMonth: parts[2],
		Month:      parts[3],
		DayOfWeek:  parts[4],
	}, nil
}

var parser = robfig.NewParser(
	robfig.Minute |
		robfig.Hour |
		robfig.Dom |
		robfig.Month |
		robfig.Dow,
)

// Validate parses the expression and additionally confirms that the
// scheduler accepts it.
func Validate(expr string) error {
	if _, err := schedule(expr); err != nil {
		return err
	}
	return nil
}

func schedule(expr string) (robfig.Schedule, error) {
	if _, err := Parse(expr); err != nil {
		return nil, err
	}

	sched, err := parser.Parse(strings.Join(strings.Fields(expr), " "))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCron, err)
	}
	return sched, nil
}

// Next returns the next n activation times strictly after from. A nil
// location keeps the location of from.
func Next(expr string, from time.Time, n int, loc *time.Location) ([]time.Time, error) {
	sched, err := schedule(expr)
	if err != nil {
		return nil, err
	}

	if loc != nil {
		from = from.In(loc)
	}

	times := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		from = sched.Next(from)
		if from.IsZero() {
			break
		}
		times = append(times, from)
	}
	return times, nil
}

type domain struct {
	name     string
	min, max int
	names    map[string]int
}

var domains = []domain{
	{name: "minute", min: 0, max: 59},
	{name: "hour", min: 0, max: 23},
	{name: "dayOfMonth", min: 1, max: 31},
	{name: "month", min: 1, max: 12, names: monthNames},
	{name: "dayOfWeek", min: 0, max: 6, names: weekdayNames},
}

var monthNames = map[string]int{
	"JAN": 1, "FEB": 2, "MAR": 3, "APR": 4, "MAY": 5, "JUN": 6,
	"JUL": 7, "AUG": 8, "SEP": 9, "OCT": 10, "NOV": 11, "DEC": 12,
}

var weekdayNames = map[string]int{
	"SUN": 0, "MON": 1, "TUE": 2, "WED": 3, "THU": 4, "FRI": 5, "SAT": 6,
}

func (d domain) check(field string) error {
	for _, term := range strings.Split(field, ",") {
		if err := d.checkTerm(term); err != nil {
			return err
		}
	}
	return nil
}

func (d domain) checkTerm(term string) error {
	base, step, stepped := strings.Cut(term, "/")
	if stepped {
		n, err := strconv.Atoi(step)
		if err != nil || n < 1 {
			return fmt.Errorf("invalid step %q", step)
		}
	}

	if base == Wildcard {
		return nil
	}

	lo, hi, ranged := strings.Cut(base, "-")
	if _, err := d.value(lo); err != nil {
		return err
	}
	if ranged {
		if _, err := d.value(hi); err != nil {
			return err
		}
	}
	return nil
}

func (d domain) value(s string) (int, error) {
	if v, ok := d.names[strings.ToUpper(s)]; ok {
		return v, nil
	}

	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid value %q", s)
	}
	if v < d.min || v > d.max {
		return 0, fmt.Errorf("value %d out of range [%d,%d]", v, d.min, d.max)
	}
	return v, nil
}

// Step splits a slash pattern into its base and step. ok is false when the
// field is not a single slash pattern.
func Step(field string) (base string, step int, ok bool) {
	if strings.Contains(field, ",") {
		return "", 0, false
	}
	base, raw, found := strings.Cut(field, "/")
	if !found {
		return "", 0, false
	}
	step, err := strconv.Atoi(raw)
	if err != nil {
		return "", 0, false
	}
	return base, step, true
}

// WithStep replaces the step of a slash pattern, keeping its base. Fields
// that are not slash patterns become */n.
func WithStep(field string, n int) string {
	base, _, ok := Step(field)
	if !ok {
		base = Wildcard
	}
	return base + "/" + strconv.Itoa(n)
}

// IsLiteral reports whether a field is a single bare value.
func IsLiteral(field string) bool {
	if field == "" || field == Wildcard {
		return false
	}
	return !strings.ContainsAny(field, ",/-")
}

// Month resolves a numeric or named (JAN..DEC) month literal.
func Month(s string) (time.Month, bool) {
	v, err := domains[3].value(s)
	if err != nil {
		return 0, false
	}
	return time.Month(v), true
}

// Weekday resolves a numeric (0-6) or named (SUN..SAT) weekday literal.
func Weekday(s string) (time.Weekday, bool) {
	v, err := domains[4].value(s)
	if err != nil {
		return 0, false
	}
	return time.Weekday(v), true
}
