package utils

import "time"

// All persisted day-granularity dates use one canonical form: noon UTC of
// the user's local calendar date. Noon (rather than midnight) survives an
// accidental local-time round trip in either direction without crossing a
// date boundary, which is where timezone drift bugs come from.

// NormalizeToNoonUTC maps any instant to noon UTC of its UTC calendar date.
func NormalizeToNoonUTC(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

// LocalDateNoonUTC maps an instant to noon UTC of its calendar date as seen
// in loc. This is the write-path normalization: "today" means the user's
// today, not the server's.
func LocalDateNoonUTC(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

// DayRangeUTC returns the [start, end) UTC window around a normalized day
// value. Every read path queries with this window so reads and writes agree
// on day membership.
func DayRangeUTC(day time.Time) (start, end time.Time) {
	noon := NormalizeToNoonUTC(day)
	return noon.Add(-12 * time.Hour), noon.Add(12 * time.Hour)
}

// LoadLocation resolves an IANA timezone name, falling back to UTC for
// empty or invalid values.
func LoadLocation(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}
