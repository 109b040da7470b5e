package schedule

import (
	"slices"
	"strings"
	"time"

	"github.com/caesium-cloud/triggerkit/pkg/cron"
)

// Action is a user edit applied by Reduce.
type Action interface {
	action()
}

type (
	// SelectTab switches the editing mode.
	SelectTab struct{ Tab Tab }
	// SetMinuteStep sets N in "every N minutes".
	SetMinuteStep struct{ Step int }
	// SetHourStep sets N in "every N hours".
	SetHourStep struct{ Step int }
	// SetMinuteOffset sets the minute past the hour used by the Hourly tab.
	SetMinuteOffset struct{ Minute int }
	// SetDayStep sets N in "every N days".
	SetDayStep struct{ Step int }
	// SetDailyMode picks the Daily sub-mode.
	SetDailyMode struct{ Mode DailyMode }
	// SetTime sets the time of day on a 12-hour clock.
	SetTime struct {
		Hour   int
		Minute int
		AmPm   AmPm
	}
	// ToggleWeekday adds or removes a day on the Weekly tab.
	ToggleWeekday struct{ Day Weekday }
	// SetDayOfMonth sets the day used by the Monthly and Yearly tabs.
	SetDayOfMonth struct{ Day int }
	// SetMonthStep sets N in "every N months".
	SetMonthStep struct{ Step int }
	// SetMonth sets the month used by the Yearly tab.
	SetMonth struct{ Month time.Month }
	// SetExpression replaces the raw expression on the Custom tab.
	SetExpression struct{ Expression string }
)

func (SelectTab) action()       {}
func (SetMinuteStep) action()   {}
func (SetHourStep) action()     {}
func (SetMinuteOffset) action() {}
func (SetDayStep) action()      {}
func (SetDailyMode) action()    {}
func (SetTime) action()         {}
func (ToggleWeekday) action()   {}
func (SetDayOfMonth) action()   {}
func (SetMonthStep) action()    {}
func (SetMonth) action()        {}
func (SetExpression) action()   {}

// Reduce applies an action and returns the resulting state. Out of range
// inputs leave the state unchanged.
func Reduce(s State, a Action) State {
	next := s
	next.Values = s.Values.clone()
	v := &next.Values

	switch a := a.(type) {
	case SelectTab:
		if !a.Tab.Valid() {
			return s
		}
		next.Tab = a.Tab
		next.Values = withDefaults(s.Values)
		next.Err = nil
		if a.Tab == TabCustom {
			next.Expression = s.Fields.String()
			return next
		}
	case SetMinuteStep:
		if !between(a.Step, 1, 59) {
			return s
		}
		v.MinuteStep = a.Step
	case SetHourStep:
		if !between(a.Step, 1, 23) {
			return s
		}
		v.HourStep = a.Step
	case SetMinuteOffset:
		if !between(a.Minute, 0, 59) {
			return s
		}
		v.Minute = a.Minute
	case SetDayStep:
		if !between(a.Step, 1, 31) {
			return s
		}
		v.DayStep = a.Step
	case SetDailyMode:
		if a.Mode != EveryNDays && a.Mode != EveryWeekday {
			return s
		}
		v.DailyMode = a.Mode
	case SetTime:
		if !between(a.Hour, 1, 12) || !between(a.Minute, 0, 59) || (a.AmPm != AM && a.AmPm != PM) {
			return s
		}
		v.Hour, v.Minute, v.AmPm = a.Hour, a.Minute, a.AmPm
	case ToggleWeekday:
		if !slices.Contains(Weekdays, a.Day) {
			return s
		}
		if i := slices.Index(v.Weekdays, a.Day); i >= 0 {
			// Removing the last day leaves an empty set, rendered as "*".
			v.Weekdays = slices.Delete(v.Weekdays, i, i+1)
		} else {
			v.Weekdays = append(v.Weekdays, a.Day)
		}
	case SetDayOfMonth:
		if !between(a.Day, 1, 31) {
			return s
		}
		v.DayOfMonth = a.Day
	case SetMonthStep:
		if !between(a.Step, 1, 12) {
			return s
		}
		v.MonthStep = a.Step
	case SetMonth:
		if !between(int(a.Month), 1, 12) {
			return s
		}
		v.Month = a.Month
		v.DayOfMonth = min(v.DayOfMonth, DaysInMonth(a.Month))
	case SetExpression:
		if s.Tab != TabCustom {
			return s
		}
		next.Expression = a.Expression
		fields, err := cron.Parse(a.Expression)
		if err != nil {
			next.Err = err
			return next
		}
		next.Fields, next.Err = fields, nil
		return next
	default:
		return s
	}

	if next.Tab == TabCustom {
		return next
	}

	next.Fields = generate(next.Tab, next.Values, s.Fields)
	next.Expression = next.Fields.String()
	return next
}

func between(n, lo, hi int) bool {
	return n >= lo && n <= hi
}

// Load opens the editor on an existing expression, selecting the structured
// tab whose shape matches it and falling back to Custom otherwise.
func Load(expr string) State {
	fields, err := cron.Parse(expr)
	if err != nil {
		return State{
			Tab:        TabCustom,
			Fields:     cron.Every(),
			Expression: expr,
			Values:     defaultValues(),
			Err:        err,
		}
	}

	tab, v := detect(fields)
	return State{
		Tab:        tab,
		Fields:     fields,
		Expression: fields.String(),
		Values:     withDefaults(v),
	}
}

func detect(f cron.Fields) (Tab, Values) {
	var v Values

	wild := func(fields ...string) bool {
		for _, field := range fields {
			if field != cron.Wildcard {
				return false
			}
		}
		return true
	}

	if _, step, ok := cron.Step(f.Minute); ok && wild(f.Hour, f.DayOfMonth, f.Month, f.DayOfWeek) {
		v.MinuteStep = step
		return TabMinutes, v
	}

	minute, okMinute := literal(f.Minute, 0, 59)
	if !okMinute {
		return TabCustom, v
	}

	if _, step, ok := cron.Step(f.Hour); ok && wild(f.DayOfMonth, f.Month, f.DayOfWeek) {
		v.Minute, v.HourStep = minute, step
		return TabHourly, v
	}

	hour, okHour := literal(f.Hour, 0, 23)
	if !okHour {
		return TabCustom, v
	}
	v.Minute = minute
	v.Hour, v.AmPm = From24(hour)

	if _, step, ok := cron.Step(f.DayOfMonth); ok && wild(f.Month, f.DayOfWeek) {
		v.DailyMode, v.DayStep = EveryNDays, step
		return TabDaily, v
	}

	if wild(f.DayOfMonth, f.Month, f.DayOfWeek) {
		v.DailyMode, v.DayStep = EveryNDays, 1
		return TabDaily, v
	}

	if f.DayOfWeek == weekdayRange && wild(f.DayOfMonth, f.Month) {
		v.DailyMode = EveryWeekday
		return TabDaily, v
	}

	if wild(f.DayOfMonth, f.Month) {
		if days, ok := weekdayList(f.DayOfWeek); ok {
			v.Weekdays = days
			return TabWeekly, v
		}
		return TabCustom, Values{}
	}

	day, okDay := literal(f.DayOfMonth, 1, 31)
	if !okDay || !wild(f.DayOfWeek) {
		return TabCustom, Values{}
	}
	v.DayOfMonth = day

	if _, step, ok := cron.Step(f.Month); ok {
		v.MonthStep = step
		return TabMonthly, v
	}

	if cron.IsLiteral(f.Month) {
		if m, ok := cron.Month(f.Month); ok && day <= DaysInMonth(m) {
			v.Month = m
			return TabYearly, v
		}
	}

	return TabCustom, Values{}
}

func literal(field string, lo, hi int) (int, bool) {
	if !cron.IsLiteral(field) {
		return 0, false
	}
	n := 0
	for _, r := range field {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, between(n, lo, hi)
}

func weekdayList(field string) ([]Weekday, bool) {
	if field == cron.Wildcard {
		return []Weekday{}, true
	}
	var days []Weekday
	for _, part := range strings.Split(field, ",") {
		day := Weekday(strings.ToUpper(part))
		if !slices.Contains(Weekdays, day) {
			return nil, false
		}
		days = append(days, day)
	}
	return days, true
}
