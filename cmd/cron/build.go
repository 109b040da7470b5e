package cron

import (
	"fmt"
	"slices"
	"strings"

	"github.com/caesium-cloud/triggerkit/pkg/cron"
	"github.com/caesium-cloud/triggerkit/pkg/schedule"
	"github.com/spf13/cobra"
)

var (
	buildTab          string
	buildStep         int
	buildMinute       int
	buildHour         int
	buildAmPm         string
	buildWeekdays     []string
	buildWeekdaysOnly bool
	buildDay          int
	buildMonth        string
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build an expression from schedule presets",
	Example: `  triggerkit cron build --tab Daily --hour 9 --minute 30 --ampm AM
  triggerkit cron build --tab Weekly --weekday MON,WED --hour 6 --ampm PM
  triggerkit cron build --tab Yearly --month FEB --day 29`,
	RunE: func(cmd *cobra.Command, args []string) error {
		actions, err := buildActions(cmd)
		if err != nil {
			return err
		}

		state := schedule.New()
		for _, a := range actions {
			state = schedule.Reduce(state, a)
		}
		if !state.Valid() {
			return fmt.Errorf("schedule produced an invalid expression %q", state.Expression)
		}
		return render(cmd, state)
	},
}

func init() {
	buildCmd.Flags().StringVar(&buildTab, "tab", string(schedule.TabMinutes), "Schedule preset: Minutes, Hourly, Daily, Weekly, Monthly or Yearly")
	buildCmd.Flags().IntVar(&buildStep, "step", 0, "Interval of the Minutes, Hourly, Daily and Monthly presets")
	buildCmd.Flags().IntVar(&buildMinute, "minute", 0, "Minute of the hour")
	buildCmd.Flags().IntVar(&buildHour, "hour", 12, "Hour on a 12-hour clock")
	buildCmd.Flags().StringVar(&buildAmPm, "ampm", string(schedule.AM), "AM or PM")
	buildCmd.Flags().StringSliceVar(&buildWeekdays, "weekday", nil, "Days of the Weekly preset (MON..SUN)")
	buildCmd.Flags().BoolVar(&buildWeekdaysOnly, "weekdays-only", false, "Run the Daily preset Monday through Friday")
	buildCmd.Flags().IntVar(&buildDay, "day", 1, "Day of the month for the Monthly and Yearly presets")
	buildCmd.Flags().StringVar(&buildMonth, "month", "JAN", "Month of the Yearly preset")
}

func buildActions(cmd *cobra.Command) ([]schedule.Action, error) {
	tab := schedule.Tab(buildTab)
	if !tab.Valid() || tab == schedule.TabCustom {
		return nil, fmt.Errorf("unknown preset %q", buildTab)
	}

	actions := []schedule.Action{schedule.SelectTab{Tab: tab}}
	changed := cmd.Flags().Changed

	if changed("step") {
		switch tab {
		case schedule.TabMinutes:
			actions = append(actions, schedule.SetMinuteStep{Step: buildStep})
		case schedule.TabHourly:
			actions = append(actions, schedule.SetHourStep{Step: buildStep})
		case schedule.TabDaily:
			actions = append(actions, schedule.SetDayStep{Step: buildStep})
		case schedule.TabMonthly:
			actions = append(actions, schedule.SetMonthStep{Step: buildStep})
		default:
			return nil, fmt.Errorf("--step is not used by the %s preset", tab)
		}
	}

	switch tab {
	case schedule.TabHourly:
		if changed("minute") {
			actions = append(actions, schedule.SetMinuteOffset{Minute: buildMinute})
		}
	case schedule.TabDaily, schedule.TabWeekly, schedule.TabMonthly, schedule.TabYearly:
		ampm := schedule.AmPm(strings.ToUpper(buildAmPm))
		if ampm != schedule.AM && ampm != schedule.PM {
			return nil, fmt.Errorf("--ampm must be AM or PM, got %q", buildAmPm)
		}
		actions = append(actions, schedule.SetTime{Hour: buildHour, Minute: buildMinute, AmPm: ampm})
	}

	if tab == schedule.TabDaily && buildWeekdaysOnly {
		actions = append(actions, schedule.SetDailyMode{Mode: schedule.EveryWeekday})
	}

	if tab == schedule.TabWeekly && changed("weekday") {
		toggles, err := weekdayToggles(buildWeekdays)
		if err != nil {
			return nil, err
		}
		actions = append(actions, toggles...)
	}

	if tab == schedule.TabYearly {
		m, ok := cron.Month(buildMonth)
		if !ok {
			return nil, fmt.Errorf("unknown month %q", buildMonth)
		}
		actions = append(actions, schedule.SetMonth{Month: m})
	}

	if tab == schedule.TabMonthly || tab == schedule.TabYearly {
		actions = append(actions, schedule.SetDayOfMonth{Day: buildDay})
	}

	return actions, nil
}

// weekdayToggles turns the default Weekly selection into the requested days.
func weekdayToggles(days []string) ([]schedule.Action, error) {
	want := make([]schedule.Weekday, 0, len(days))
	for _, d := range days {
		day := schedule.Weekday(strings.ToUpper(strings.TrimSpace(d)))
		if !slices.Contains(schedule.Weekdays, day) {
			return nil, fmt.Errorf("unknown weekday %q", d)
		}
		want = append(want, day)
	}

	current := schedule.Reduce(schedule.New(), schedule.SelectTab{Tab: schedule.TabWeekly}).Values.Weekdays

	var actions []schedule.Action
	for _, day := range schedule.Weekdays {
		if slices.Contains(current, day) != slices.Contains(want, day) {
			actions = append(actions, schedule.ToggleWeekday{Day: day})
		}
	}
	return actions, nil
}
