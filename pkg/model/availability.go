package model

import "slotwise/pkg/timefmt"

// EffectiveDay is the materialized availability of one calendar date after
// merging the weekly rule with any exception. Derived, never persisted.
type EffectiveDay struct {
	Date              timefmt.Date
	IsPast            bool
	Available         bool
	Window            timefmt.TimeWindow
	IsCustom          bool
	SourceIsException bool
}

// Bookable reports whether slots may be generated for the day. Past dates keep
// their original available/window values for display but are never bookable.
func (d EffectiveDay) Bookable() bool {
	return d.Available && !d.IsPast
}

// Slot is one fixed-duration bookable interval. Derived, never persisted.
type Slot struct {
	Date  timefmt.Date
	Start timefmt.TimeOfDay
	End   timefmt.TimeOfDay
}

// Window returns the slot's interval as a half-open window.
func (s Slot) Window() timefmt.TimeWindow {
	return timefmt.TimeWindow{Start: s.Start, End: s.End}
}
