package availability

import (
	"fmt"
	"time"

	"slotwise/pkg/model"
	"slotwise/pkg/timefmt"
)

var weekdayByName = map[string]time.Weekday{
	"Sunday":    time.Sunday,
	"Monday":    time.Monday,
	"Tuesday":   time.Tuesday,
	"Wednesday": time.Wednesday,
	"Thursday":  time.Thursday,
	"Friday":    time.Friday,
	"Saturday":  time.Saturday,
}

// ParseWeekday maps a day name as stored in weekly rules (time.Weekday.String()
// form) to its time.Weekday.
func ParseWeekday(name string) (time.Weekday, error) {
	day, ok := weekdayByName[name]
	if !ok {
		return 0, fmt.Errorf("unknown weekday %q", name)
	}
	return day, nil
}

// ParseRules converts stored weekly rules into the map form Materialize
// consumes. Settings are validated on write, so a parse failure here means
// corrupted storage.
func ParseRules(settings *model.BookingSettings) (map[time.Weekday]Rule, error) {
	rules := make(map[time.Weekday]Rule, len(settings.WeeklyRules))
	for _, r := range settings.WeeklyRules {
		day, err := ParseWeekday(r.Day)
		if err != nil {
			return nil, err
		}
		rule := Rule{Available: r.Available}
		if r.Available {
			w, err := timefmt.NewWindow(r.StartTime, r.EndTime)
			if err != nil {
				return nil, fmt.Errorf("rule for %s: %w", r.Day, err)
			}
			rule.Window = w
		}
		rules[day] = rule
	}
	return rules, nil
}

// ParseOverrides converts stored date exceptions into the map form Materialize
// consumes, keyed by parsed date.
func ParseOverrides(exceptions []*model.DateException) (map[timefmt.Date]DayOverride, error) {
	overrides := make(map[timefmt.Date]DayOverride, len(exceptions))
	for _, e := range exceptions {
		date, err := timefmt.ParseDate(e.Date)
		if err != nil {
			return nil, fmt.Errorf("exception %s: %w", e.Date, err)
		}
		ov := DayOverride{AllDay: e.AllDay}
		if !e.AllDay && e.StartTime != "" && e.EndTime != "" {
			w, err := timefmt.NewWindow(e.StartTime, e.EndTime)
			if err != nil {
				return nil, fmt.Errorf("exception %s: %w", e.Date, err)
			}
			ov.HasWindow = true
			ov.Window = w
		}
		overrides[date] = ov
	}
	return overrides, nil
}
