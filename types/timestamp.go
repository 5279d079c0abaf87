package types

import (
	"fmt"
	"time"
)

// Timestamp is a calendar date and time without a time zone, laid out like SQL_TIMESTAMP_STRUCT.
// Which zone the fields are interpreted in is decided by whoever produces or consumes it.
type Timestamp struct {
	Year   int
	Month  int // 1-based
	Day    int
	Hour   int
	Minute int
	Second int

	// Fraction is the fractional second in nanoseconds.
	Fraction uint32
}

// TimestampFromTime reads the calendar fields of t in t's own location.
func TimestampFromTime(t time.Time) Timestamp {
	return Timestamp{
		Year:     t.Year(),
		Month:    int(t.Month()),
		Day:      t.Day(),
		Hour:     t.Hour(),
		Minute:   t.Minute(),
		Second:   t.Second(),
		Fraction: uint32(t.Nanosecond()),
	}
}

// Time interprets the calendar fields in loc.
func (ts Timestamp) Time(loc *time.Location) time.Time {
	return time.Date(ts.Year, time.Month(ts.Month), ts.Day, ts.Hour, ts.Minute, ts.Second, int(ts.Fraction), loc)
}

func (ts Timestamp) String() string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d.%09d", ts.Year, ts.Month, ts.Day, ts.Hour, ts.Minute, ts.Second, ts.Fraction)
}
