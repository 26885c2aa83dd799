package timefmt

import "fmt"

// TimeWindow is a half-open interval [Start, End) within one calendar day.
type TimeWindow struct {
	Start TimeOfDay
	End   TimeOfDay
}

var ErrInvalidWindow = fmt.Errorf("window end must be after start")

// NewWindow parses a window from its HH:MM start and end encodings.
func NewWindow(start, end string) (TimeWindow, error) {
	s, err := ParseTimeOfDay(start)
	if err != nil {
		return TimeWindow{}, err
	}
	e, err := ParseTimeOfDay(end)
	if err != nil {
		return TimeWindow{}, err
	}
	if e <= s {
		return TimeWindow{}, fmt.Errorf("%w: %s-%s", ErrInvalidWindow, start, end)
	}
	return TimeWindow{Start: s, End: e}, nil
}

func (w TimeWindow) IsZero() bool {
	return w == TimeWindow{}
}

// Minutes is the window length.
func (w TimeWindow) Minutes() int {
	return int(w.End - w.Start)
}

// Contains reports whether the time-of-day lies inside the half-open window.
func (w TimeWindow) Contains(t TimeOfDay) bool {
	return t >= w.Start && t < w.End
}

// Overlaps reports whether two half-open windows intersect.
func (w TimeWindow) Overlaps(other TimeWindow) bool {
	return w.Start < other.End && other.Start < w.End
}

func (w TimeWindow) String() string {
	return w.Start.String() + "-" + w.End.String()
}

// Display renders the human form, e.g. "9:00am - 5:00pm".
func (w TimeWindow) Display() string {
	return w.Start.Display() + " - " + w.End.Display()
}
