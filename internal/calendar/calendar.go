package calendar

import (
	"fmt"
	"time"
)

// DayKeyLayout is the text form of a DayKey
const DayKeyLayout = "2006-01-02"

// DayKey identifies a single calendar day, independent of time of day
type DayKey struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDayKey parses a "YYYY-MM-DD" string
func ParseDayKey(s string) (DayKey, error) {
	t, err := time.Parse(DayKeyLayout, s)
	if err != nil {
		return DayKey{}, fmt.Errorf("parsing day %q: %w", s, err)
	}
	return keyOf(t), nil
}

// NewDayKey builds a key, normalizing out-of-range values the way time.Date does
// (e.g. Feb 30 becomes Mar 1 or Mar 2).
func NewDayKey(year int, month time.Month, day int) DayKey {
	return keyOf(time.Date(year, month, day, 12, 0, 0, 0, time.UTC))
}

// String returns the key formatted as YYYY-MM-DD
func (k DayKey) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", k.Year, int(k.Month), k.Day)
}

// IsZero reports whether k is the zero key
func (k DayKey) IsZero() bool {
	return k == DayKey{}
}

// Compare returns -1, 0 or +1 depending on whether k is before, equal to or after other
func (k DayKey) Compare(other DayKey) int {
	switch {
	case k.Year != other.Year:
		return sign(k.Year - other.Year)
	case k.Month != other.Month:
		return sign(int(k.Month) - int(other.Month))
	default:
		return sign(k.Day - other.Day)
	}
}

// Before reports whether k is strictly earlier than other
func (k DayKey) Before(other DayKey) bool {
	return k.Compare(other) < 0
}

// After reports whether k is strictly later than other
func (k DayKey) After(other DayKey) bool {
	return k.Compare(other) > 0
}

// AddDays returns the key n days after k (n may be negative)
func (k DayKey) AddDays(n int) DayKey {
	return keyOf(k.noon().AddDate(0, 0, n))
}

// Prev returns the previous calendar day
func (k DayKey) Prev() DayKey {
	return k.AddDays(-1)
}

// Next returns the following calendar day
func (k DayKey) Next() DayKey {
	return k.AddDays(1)
}

// Weekday returns the day of the week for k
func (k DayKey) Weekday() time.Weekday {
	return k.noon().Weekday()
}

// DaysBetween returns the number of calendar days from a to b.
// It is negative when b is before a.
func DaysBetween(a, b DayKey) int {
	return int((b.noon().Unix() - a.noon().Unix()) / secondsPerDay)
}

const secondsPerDay = 24 * 60 * 60

// noon anchors the key at 12:00 UTC so arithmetic never crosses a DST shift
func (k DayKey) noon() time.Time {
	return time.Date(k.Year, k.Month, k.Day, 12, 0, 0, 0, time.UTC)
}

func keyOf(t time.Time) DayKey {
	y, m, d := t.Date()
	return DayKey{Year: y, Month: m, Day: d}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

// Calendar buckets instants into days using the Gregorian calendar in one
// fixed time zone.
type Calendar struct {
	loc *time.Location
}

// New creates a calendar for the given location. A nil location means time.Local.
func New(loc *time.Location) Calendar {
	if loc == nil {
		loc = time.Local
	}
	return Calendar{loc: loc}
}

// Load creates a calendar from an IANA zone name. "" and "Local" use the
// system zone.
func Load(name string) (Calendar, error) {
	if name == "" || name == "Local" {
		return New(time.Local), nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return Calendar{}, fmt.Errorf("loading time zone %q: %w", name, err)
	}
	return New(loc), nil
}

// Location returns the calendar's time zone
func (c Calendar) Location() *time.Location {
	if c.loc == nil {
		return time.Local
	}
	return c.loc
}

// Key returns the day an instant falls on in the calendar's zone
func (c Calendar) Key(t time.Time) DayKey {
	return keyOf(t.In(c.Location()))
}

// Today returns the key for now
func (c Calendar) Today(now time.Time) DayKey {
	return c.Key(now)
}

// YearOf returns the calendar year of t
func (c Calendar) YearOf(t time.Time) int {
	return t.In(c.Location()).Year()
}

// MonthOf returns the month of t
func (c Calendar) MonthOf(t time.Time) time.Month {
	return t.In(c.Location()).Month()
}

// WeekOfYearOf returns the ISO 8601 week number of t
func (c Calendar) WeekOfYearOf(t time.Time) int {
	_, week := t.In(c.Location()).ISOWeek()
	return week
}

// StartOfDay returns midnight of the given day in the calendar's zone
func (c Calendar) StartOfDay(k DayKey) time.Time {
	return time.Date(k.Year, k.Month, k.Day, 0, 0, 0, 0, c.Location())
}

// StartOfYear returns Jan 1 of year
func StartOfYear(year int) DayKey {
	return DayKey{Year: year, Month: time.January, Day: 1}
}

// EndOfYear returns Dec 31 of year
func EndOfYear(year int) DayKey {
	return DayKey{Year: year, Month: time.December, Day: 31}
}

// IsLeapYear reports whether year has a Feb 29
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInYear returns 366 for leap years and 365 otherwise
func DaysInYear(year int) int {
	if IsLeapYear(year) {
		return 366
	}
	return 365
}

// DaysInMonth returns the number of days in the given month
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 12, 0, 0, 0, time.UTC).Day()
}
