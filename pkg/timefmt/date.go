package timefmt

import (
	"fmt"
	"strings"
	"time"
)

// Date is a calendar date with no time-of-day component. Comparisons are
// date-only; the zone only matters when composing an instant with At.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// Wire format for dates, e.g. "05-JUN-2024".
const dateLayout = "02-Jan-2006"

var ErrInvalidDate = fmt.Errorf("date must be in DD-MON-YYYY format")

// ParseDate parses the DD-MON-YYYY wire encoding. Month names are matched
// case-insensitively.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, "-")
	if len(parts) != 3 || len(parts[1]) != 3 {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	month := strings.ToUpper(parts[1][:1]) + strings.ToLower(parts[1][1:])
	normalized := parts[0] + "-" + month + "-" + parts[2]
	t, err := time.Parse(dateLayout, normalized)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return DateOf(t), nil
}

// DateOf truncates an instant to its calendar date in the instant's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Today evaluates the current calendar date in the given location. "Past" is
// always decided against the business zone, never the viewer's.
func Today(loc *time.Location) Date {
	return DateOf(time.Now().In(loc))
}

func (d Date) String() string {
	return strings.ToUpper(d.time(time.UTC).Format(dateLayout))
}

func (d Date) IsZero() bool {
	return d == Date{}
}

func (d Date) Weekday() time.Weekday {
	return d.time(time.UTC).Weekday()
}

func (d Date) AddDays(n int) Date {
	return DateOf(d.time(time.UTC).AddDate(0, 0, n))
}

func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

func (d Date) After(other Date) bool {
	return other.Before(d)
}

// At composes an instant from the date and a time-of-day in the given location.
func (d Date) At(t TimeOfDay, loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, t.Hour(), t.Minute(), 0, 0, loc)
}

func (d Date) time(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// DaysBetween returns the number of calendar days from a to b, negative when
// b precedes a.
func DaysBetween(a, b Date) int {
	return int(b.time(time.UTC).Sub(a.time(time.UTC)).Hours() / 24)
}
