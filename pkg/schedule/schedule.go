// Package schedule implements the tabbed schedule editor used by scheduled
// triggers. Each tab maps a handful of structured inputs onto the fields of
// a cron expression; the Custom tab edits the raw expression directly.
//
// State transitions are pure: Reduce never mutates the state it is given.
package schedule

import (
	"slices"
	"strconv"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/caesium-cloud/triggerkit/pkg/cron"
)

// Tab identifies one of the mutually exclusive editing modes.
type Tab string

const (
	TabMinutes Tab = "Minutes"
	TabHourly  Tab = "Hourly"
	TabDaily   Tab = "Daily"
	TabWeekly  Tab = "Weekly"
	TabMonthly Tab = "Monthly"
	TabYearly  Tab = "Yearly"
	TabCustom  Tab = "Custom"
)

// Tabs lists every tab in display order.
var Tabs = []Tab{TabMinutes, TabHourly, TabDaily, TabWeekly, TabMonthly, TabYearly, TabCustom}

// Valid reports whether t is a known tab.
func (t Tab) Valid() bool {
	return slices.Contains(Tabs, t)
}

type AmPm string

const (
	AM AmPm = "AM"
	PM AmPm = "PM"
)

// DailyMode selects between the two Daily sub-modes.
type DailyMode string

const (
	EveryNDays   DailyMode = "EveryNDays"
	EveryWeekday DailyMode = "EveryWeekday"
)

// Weekday is a day-of-week literal as written in expressions.
type Weekday string

const (
	MON Weekday = "MON"
	TUE Weekday = "TUE"
	WED Weekday = "WED"
	THU Weekday = "THU"
	FRI Weekday = "FRI"
	SAT Weekday = "SAT"
	SUN Weekday = "SUN"
)

// Weekdays lists the days in the order they are rendered.
var Weekdays = []Weekday{MON, TUE, WED, THU, FRI, SAT, SUN}

const weekdayRange = "MON-FRI"

// Values holds the scratch inputs of every structured tab. Only the inputs of
// the selected tab contribute to the expression.
type Values struct {
	MinuteStep int
	HourStep   int
	DayStep    int
	MonthStep  int
	Hour       int // 1-12
	Minute     int
	AmPm       AmPm
	DayOfMonth int
	Month      time.Month
	DailyMode  DailyMode
	Weekdays   []Weekday
}

func defaultValues() Values {
	return Values{
		MinuteStep: 1,
		HourStep:   1,
		DayStep:    1,
		MonthStep:  1,
		Hour:       12,
		AmPm:       AM,
		DayOfMonth: 1,
		Month:      time.January,
		DailyMode:  EveryNDays,
		Weekdays:   []Weekday{MON},
	}
}

// State is the editor state. For the structured tabs Fields is derived from
// Values; on the Custom tab Expression is authoritative and Fields holds the
// last expression that parsed.
type State struct {
	Tab        Tab
	Fields     cron.Fields
	Expression string
	Values     Values
	Err        error
}

// New returns the editor positioned on the Minutes tab.
func New() State {
	return Reduce(State{Fields: cron.Every()}, SelectTab{Tab: TabMinutes})
}

// Valid reports whether the current expression can be submitted.
func (s State) Valid() bool {
	return s.Err == nil && cron.Validate(s.Expression) == nil
}

func (v Values) clone() Values {
	v.Weekdays = slices.Clone(v.Weekdays)
	return v
}

// withDefaults fills unset inputs. A nil weekday set is unset; an empty
// non-nil set means every day and is kept as is.
func withDefaults(v Values) Values {
	v = v.clone()
	days := v.Weekdays
	if err := mergo.Merge(&v, defaultValues()); err != nil {
		return defaultValues()
	}
	if days != nil {
		v.Weekdays = days
	}
	return v
}

// generate derives the fields of a structured tab. Fields the tab does not
// own are reset to the wildcard; slash patterns keep the base of prev.
func generate(tab Tab, v Values, prev cron.Fields) cron.Fields {
	f := cron.Every()

	switch tab {
	case TabMinutes:
		f.Minute = cron.WithStep(prev.Minute, v.MinuteStep)
	case TabHourly:
		f.Minute = strconv.Itoa(v.Minute)
		f.Hour = cron.WithStep(prev.Hour, v.HourStep)
	case TabDaily:
		f.Minute, f.Hour = timeOfDay(v)
		if v.DailyMode == EveryWeekday {
			f.DayOfWeek = weekdayRange
		} else {
			f.DayOfMonth = cron.WithStep(prev.DayOfMonth, v.DayStep)
		}
	case TabWeekly:
		f.Minute, f.Hour = timeOfDay(v)
		if len(v.Weekdays) > 0 {
			f.DayOfWeek = joinWeekdays(v.Weekdays)
		}
	case TabMonthly:
		f.Minute, f.Hour = timeOfDay(v)
		f.DayOfMonth = strconv.Itoa(v.DayOfMonth)
		f.Month = cron.WithStep(prev.Month, v.MonthStep)
	case TabYearly:
		f.Minute, f.Hour = timeOfDay(v)
		f.DayOfMonth = strconv.Itoa(min(v.DayOfMonth, DaysInMonth(v.Month)))
		f.Month = strconv.Itoa(int(v.Month))
	}

	return f
}

func timeOfDay(v Values) (minute, hour string) {
	return strconv.Itoa(v.Minute), strconv.Itoa(To24(v.Hour, v.AmPm))
}

// To24 converts a 12-hour clock value to 0-23.
func To24(hour int, ampm AmPm) int {
	hour %= 12
	if ampm == PM {
		hour += 12
	}
	return hour
}

// From24 converts 0-23 to a 12-hour clock value.
func From24(hour int) (int, AmPm) {
	ampm := AM
	if hour >= 12 {
		ampm = PM
	}
	hour %= 12
	if hour == 0 {
		hour = 12
	}
	return hour, ampm
}

// DaysInMonth bounds the day options offered for a month. February allows
// the 29th so leap years stay selectable.
func DaysInMonth(m time.Month) int {
	if m == time.February {
		return 29
	}
	return time.Date(2001, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DayOptions returns the selectable days for a month.
func DayOptions(m time.Month) []int {
	days := make([]int, DaysInMonth(m))
	for i := range days {
		days[i] = i + 1
	}
	return days
}

func joinWeekdays(days []Weekday) string {
	parts := make([]string, 0, len(days))
	for _, d := range Weekdays {
		if slices.Contains(days, d) {
			parts = append(parts, string(d))
		}
	}
	return strings.Join(parts, ",")
}
