package availability

import (
	"time"

	"slotwise/pkg/model"
	"slotwise/pkg/timefmt"
)

// Rule is the parsed weekly availability for one weekday. Only a single window
// per weekday is honored.
type Rule struct {
	Available bool
	Window    timefmt.TimeWindow
}

// DayOverride is the parsed form of a date exception. AllDay blocks the date;
// otherwise Window, when set, replaces the weekly rule's window.
type DayOverride struct {
	AllDay    bool
	HasWindow bool
	Window    timefmt.TimeWindow
}

// Materialize merges weekly rules and date overrides into one EffectiveDay per
// calendar date in [rangeStart, rangeEnd], ascending. Pure: callers parse and
// validate inputs beforehand, so no error path exists here.
//
// An override replaces the weekly baseline entirely. Dates before today are
// never bookable, but keep their availability and window for display.
func Materialize(rangeStart, rangeEnd timefmt.Date, rules map[time.Weekday]Rule, overrides map[timefmt.Date]DayOverride, today timefmt.Date) []model.EffectiveDay {
	if rangeEnd.Before(rangeStart) {
		return nil
	}

	days := make([]model.EffectiveDay, 0, timefmt.DaysBetween(rangeStart, rangeEnd)+1)
	for d := rangeStart; !rangeEnd.Before(d); d = d.AddDays(1) {
		day := model.EffectiveDay{
			Date:   d,
			IsPast: d.Before(today),
		}

		rule, hasRule := rules[d.Weekday()]
		if hasRule && rule.Available {
			day.Available = true
			day.Window = rule.Window
		}

		if ov, ok := overrides[d]; ok {
			day.SourceIsException = true
			day.Available = !ov.AllDay
			if ov.HasWindow {
				day.Window = ov.Window
			}
			if ov.AllDay {
				day.Window = timefmt.TimeWindow{}
			}
			day.IsCustom = ov.AllDay || day.Window != rule.Window
		}

		days = append(days, day)
	}
	return days
}
