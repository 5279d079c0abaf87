package types

// ParamBuffer is one column of parameter values bound to a Statement for a whole batch.
//
// Integer buffers signal null through an out-of-range sentinel value; every other
// buffer carries a parallel null mask of the same length.
type ParamBuffer interface {
	Len() int
	IsNull(i int) bool
}

// IntBuffer is a contiguous integer array. Values equal to Sentinel are null.
type IntBuffer struct {
	Values   []int64
	Sentinel int64
}

func (b IntBuffer) Len() int { return len(b.Values) }
func (b IntBuffer) IsNull(i int) bool { return b.Values[i] == b.Sentinel }

// DoubleBuffer is a contiguous float64 array with a null mask.
type DoubleBuffer struct {
	Values []float64
	Nulls  []bool
}

func (b DoubleBuffer) Len() int { return len(b.Values) }
func (b DoubleBuffer) IsNull(i int) bool { return b.Nulls[i] }

// StringBuffer holds UTF-8 text values with a null mask. Null rows still carry a string, which must be ignored.
type StringBuffer struct {
	Values []string
	Nulls  []bool
}

func (b StringBuffer) Len() int { return len(b.Values) }
func (b StringBuffer) IsNull(i int) bool { return b.Nulls[i] }

// TimestampBuffer holds calendar timestamps with a null mask.
// DateOnly marks buffers built from date columns, whose time fields are not meaningful to the target.
type TimestampBuffer struct {
	Values   []Timestamp
	Nulls    []bool
	DateOnly bool
}

func (b TimestampBuffer) Len() int { return len(b.Values) }
func (b TimestampBuffer) IsNull(i int) bool { return b.Nulls[i] }

// BytesBuffer holds binary values with a null mask.
type BytesBuffer struct {
	Values [][]byte
	Nulls  []bool
}

func (b BytesBuffer) Len() int { return len(b.Values) }
func (b BytesBuffer) IsNull(i int) bool { return b.Nulls[i] }

// BoolBuffer holds logical values with a null mask.
type BoolBuffer struct {
	Values []bool
	Nulls  []bool
}

func (b BoolBuffer) Len() int { return len(b.Values) }
func (b BoolBuffer) IsNull(i int) bool { return b.Nulls[i] }

// Value returns the i-th element of buf as a plain Go value, or nil when it is null.
// Timestamps are returned as Timestamp; callers place them in a location.
func Value(buf ParamBuffer, i int) interface{} {
	if buf.IsNull(i) {
		return nil
	}
	switch b := buf.(type) {
	case IntBuffer:
		return b.Values[i]
	case DoubleBuffer:
		return b.Values[i]
	case StringBuffer:
		return b.Values[i]
	case TimestampBuffer:
		return b.Values[i]
	case BytesBuffer:
		return b.Values[i]
	case BoolBuffer:
		return b.Values[i]
	default:
		return nil
	}
}
