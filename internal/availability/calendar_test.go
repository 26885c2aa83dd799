package availability

import (
	"testing"
	"time"

	"slotwise/pkg/timefmt"
)

func weekdayRules(t *testing.T) map[time.Weekday]Rule {
	t.Helper()
	rules := map[time.Weekday]Rule{
		time.Saturday: {Available: false},
		time.Sunday:   {Available: false},
	}
	for _, wd := range []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday} {
		rules[wd] = Rule{Available: true, Window: mustWindow(t, "09:00", "17:00")}
	}
	return rules
}

func TestMaterializeWeekOrdering(t *testing.T) {
	start := mustDate(t, "03-JUN-2024") // Monday
	end := mustDate(t, "09-JUN-2024")   // Sunday
	today := mustDate(t, "01-JAN-2024")

	days := Materialize(start, end, weekdayRules(t), nil, today)
	if len(days) != 7 {
		t.Fatalf("got %d days, want 7", len(days))
	}

	for i, day := range days {
		if want := start.AddDays(i); day.Date != want {
			t.Errorf("day %d is %v, want %v", i, day.Date, want)
		}
	}

	for i, day := range days[:5] {
		if !day.Available {
			t.Errorf("weekday %d should be available", i)
		}
		if day.Window != mustWindow(t, "09:00", "17:00") {
			t.Errorf("weekday %d window = %v", i, day.Window)
		}
	}
	for i, day := range days[5:] {
		if day.Available {
			t.Errorf("weekend day %d should be unavailable", i)
		}
	}
}

func TestMaterializeAllDayException(t *testing.T) {
	monday := mustDate(t, "03-JUN-2024")
	today := mustDate(t, "01-JAN-2024")
	overrides := map[timefmt.Date]DayOverride{
		monday: {AllDay: true},
	}

	days := Materialize(monday, monday, weekdayRules(t), overrides, today)
	day := days[0]

	if day.Available {
		t.Error("all-day exception should make the date unavailable")
	}
	if !day.Window.IsZero() {
		t.Errorf("all-day exception should zero the window, got %v", day.Window)
	}
	if !day.IsCustom {
		t.Error("all-day exception should mark the day custom")
	}
	if !day.SourceIsException {
		t.Error("day should record its exception source")
	}
}

func TestMaterializeWindowException(t *testing.T) {
	monday := mustDate(t, "03-JUN-2024")
	today := mustDate(t, "01-JAN-2024")
	overrides := map[timefmt.Date]DayOverride{
		monday: {HasWindow: true, Window: mustWindow(t, "10:00", "14:00")},
	}

	day := Materialize(monday, monday, weekdayRules(t), overrides, today)[0]

	if !day.Available {
		t.Error("window exception should keep the date available")
	}
	if day.Window != mustWindow(t, "10:00", "14:00") {
		t.Errorf("window = %v, want the exception's 10:00-14:00", day.Window)
	}
	if !day.IsCustom {
		t.Error("a window differing from the rule should mark the day custom")
	}
}

func TestMaterializeExceptionMatchingRuleWindow(t *testing.T) {
	monday := mustDate(t, "03-JUN-2024")
	today := mustDate(t, "01-JAN-2024")
	overrides := map[timefmt.Date]DayOverride{
		monday: {HasWindow: true, Window: mustWindow(t, "09:00", "17:00")},
	}

	day := Materialize(monday, monday, weekdayRules(t), overrides, today)[0]

	if day.IsCustom {
		t.Error("an exception restating the rule window is not custom")
	}
	if !day.SourceIsException {
		t.Error("day should still record its exception source")
	}
}

func TestMaterializeExceptionOpensClosedDay(t *testing.T) {
	sunday := mustDate(t, "09-JUN-2024")
	today := mustDate(t, "01-JAN-2024")
	overrides := map[timefmt.Date]DayOverride{
		sunday: {HasWindow: true, Window: mustWindow(t, "10:00", "12:00")},
	}

	day := Materialize(sunday, sunday, weekdayRules(t), overrides, today)[0]

	if !day.Available {
		t.Error("a window exception should open an otherwise closed day")
	}
	if day.Window != mustWindow(t, "10:00", "12:00") {
		t.Errorf("window = %v, want 10:00-12:00", day.Window)
	}
}

func TestMaterializePastDates(t *testing.T) {
	monday := mustDate(t, "03-JUN-2024")
	today := mustDate(t, "05-JUN-2024")

	day := Materialize(monday, monday, weekdayRules(t), nil, today)[0]

	if !day.IsPast {
		t.Error("a date before today should be past")
	}
	if day.Bookable() {
		t.Error("a past date must never be bookable")
	}
	// Display values survive.
	if !day.Available || day.Window.IsZero() {
		t.Error("past dates keep their availability and window for display")
	}
}

func TestMaterializeInvertedRange(t *testing.T) {
	start := mustDate(t, "05-JUN-2024")
	end := mustDate(t, "03-JUN-2024")
	today := mustDate(t, "01-JAN-2024")

	if days := Materialize(start, end, weekdayRules(t), nil, today); len(days) != 0 {
		t.Errorf("got %d days for an inverted range, want 0", len(days))
	}
}
