package tabconv

import (
	"math"
	"time"

	"github.com/kent-id/tabconv/types"
)

const secondsInDay = 24 * 60 * 60

// Codec converts between epoch-offset doubles and calendar timestamps in a fixed time zone.
//
// DateTime values are seconds since the Unix epoch and are decomposed in Location.
// Date values are days since the Unix epoch; a day count has no zone, so dates always
// use the UTC calendar.
type Codec struct {
	Location *time.Location
}

// NewCodec returns a Codec for loc, falling back to UTC when loc is nil.
func NewCodec(loc *time.Location) Codec {
	if loc == nil {
		loc = time.UTC
	}
	return Codec{Location: loc}
}

func (c Codec) location(t SemanticType) *time.Location {
	if t == Date || c.Location == nil {
		return time.UTC
	}
	return c.Location
}

// ToTimestamp decomposes value into calendar fields. t must be Date or DateTime.
func (c Codec) ToTimestamp(value float64, t SemanticType) types.Timestamp {
	if t == Date {
		value *= secondsInDay
	}
	whole := math.Floor(value)
	frac := uint32(math.Round((value - whole) * 1e9))
	if frac >= 1e9 {
		whole++
		frac = 0
	}
	ts := types.TimestampFromTime(time.Unix(int64(whole), 0).In(c.location(t)))
	ts.Fraction = frac
	return ts
}

// ToEpoch is the inverse of ToTimestamp. A wall time repeated by a daylight saving
// fall-back resolves to one of its two instants, so such DateTimes may come back an hour off.
func (c Codec) ToEpoch(ts types.Timestamp, t SemanticType) float64 {
	whole := time.Date(ts.Year, time.Month(ts.Month), ts.Day, ts.Hour, ts.Minute, ts.Second, 0, c.location(t)).Unix()
	value := float64(whole) + float64(ts.Fraction)/1e9
	if t == Date {
		return value / secondsInDay
	}
	return value
}
