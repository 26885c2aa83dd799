package availability

import (
	"slotwise/pkg/model"
	"slotwise/pkg/timefmt"
)

// GenerateSlots slices one day's open window into bookable slots of
// durationMin minutes, keeping bufferMin idle minutes between consecutive
// slots. A candidate starting inside the lunch window is skipped and the
// cursor jumps to the end of lunch; a candidate starting before lunch is kept
// even when it runs into it. A zero lunch window means no lunch break.
//
// The result is ordered by start time. A window shorter than the duration
// yields no slots.
func GenerateSlots(date timefmt.Date, window timefmt.TimeWindow, durationMin, bufferMin int, lunch timefmt.TimeWindow) []model.Slot {
	if durationMin <= 0 || bufferMin < 0 || window.IsZero() {
		return nil
	}

	var slots []model.Slot
	cursor := window.Start
	for {
		end := cursor.AddMinutes(durationMin)
		if end > window.End {
			break
		}

		if !lunch.IsZero() && lunch.Contains(cursor) {
			// Contains implies cursor < lunch.End, so the cursor always advances.
			cursor = lunch.End
			continue
		}

		slots = append(slots, model.Slot{Date: date, Start: cursor, End: end})
		cursor = end.AddMinutes(bufferMin)
	}
	return slots
}

// SlotsForDay generates the bookable slots of a materialized day. Past or
// unavailable days yield no slots regardless of their window. The recurring
// lunch break only applies to weekly-rule days; an exception window is an
// explicit plan for that date and is sliced as-is.
func SlotsForDay(day model.EffectiveDay, durationMin, bufferMin int, lunch timefmt.TimeWindow) []model.Slot {
	if !day.Bookable() {
		return nil
	}
	if day.SourceIsException {
		lunch = timefmt.TimeWindow{}
	}
	return GenerateSlots(day.Date, day.Window, durationMin, bufferMin, lunch)
}
