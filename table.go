package tabconv

import (
	"fmt"
	"math"
)

// NullInt marks a missing value in an IntVector.
const NullInt int64 = math.MinInt64

const nullDoubleBits uint64 = 0x7FF00000000007A2

// NullDouble marks a missing value in a DoubleVector. It is a NaN with a reserved payload,
// so it must be tested with IsNullDouble and never with ==.
var NullDouble = math.Float64frombits(nullDoubleBits)

// IsNullDouble reports whether f carries the NullDouble bit pattern. Other NaNs are values.
func IsNullDouble(f float64) bool {
	return math.Float64bits(f) == nullDoubleBits
}

// Vector is the native storage of one column.
type Vector interface {
	Len() int

	// Resize returns a vector of length n holding the first min(n, Len()) values.
	// New slots hold the zero value.
	Resize(n int) Vector
}

// IntVector stores integers; NullInt is null.
type IntVector []int64

func (v IntVector) Len() int { return len(v) }

func (v IntVector) Resize(n int) Vector {
	out := make(IntVector, n)
	copy(out, v)
	return out
}

// DoubleVector stores doubles; NullDouble is null. Date and date-time columns are DoubleVectors
// holding days and seconds since the Unix epoch.
type DoubleVector []float64

func (v DoubleVector) Len() int { return len(v) }

func (v DoubleVector) Resize(n int) Vector {
	out := make(DoubleVector, n)
	copy(out, v)
	return out
}

// StringVector stores text with a null mask.
type StringVector struct {
	Values []string
	Null   []bool
}

func NewStringVector(n int) StringVector {
	return StringVector{Values: make([]string, n), Null: make([]bool, n)}
}

func (v StringVector) Len() int { return len(v.Values) }

func (v StringVector) Resize(n int) Vector {
	out := NewStringVector(n)
	copy(out.Values, v.Values)
	copy(out.Null, v.Null)
	return out
}

// LogicalVector stores booleans with a null mask.
type LogicalVector struct {
	Values []bool
	Null   []bool
}

func NewLogicalVector(n int) LogicalVector {
	return LogicalVector{Values: make([]bool, n), Null: make([]bool, n)}
}

func (v LogicalVector) Len() int { return len(v.Values) }

func (v LogicalVector) Resize(n int) Vector {
	out := NewLogicalVector(n)
	copy(out.Values, v.Values)
	copy(out.Null, v.Null)
	return out
}

// RawVector stores binary values; a nil element is null.
type RawVector [][]byte

func (v RawVector) Len() int { return len(v) }

func (v RawVector) Resize(n int) Vector {
	out := make(RawVector, n)
	copy(out, v)
	return out
}

// Column is a named vector plus its class tag.
type Column struct {
	Name  string
	Class Class
	Data  Vector
}

// Table is an ordered sequence of named columns of equal length.
type Table struct {
	Columns []Column

	// Warnings collects non-fatal conditions raised while the table was materialized.
	Warnings []Warning
}

// NewTable builds a table from columns without validating it.
func NewTable(columns ...Column) *Table {
	return &Table{Columns: columns}
}

func (t *Table) NumCols() int {
	return len(t.Columns)
}

// NumRows returns the length of the first column, or 0 for a table without columns.
func (t *Table) NumRows() int {
	if len(t.Columns) == 0 || t.Columns[0].Data == nil {
		return 0
	}
	return t.Columns[0].Data.Len()
}

func (t *Table) Names() []string {
	names := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		names[i] = col.Name
	}
	return names
}

// Column returns the first column called name.
func (t *Table) Column(name string) (Column, bool) {
	for _, col := range t.Columns {
		if col.Name == name {
			return col, true
		}
	}
	return Column{}, false
}

// Validate checks that every column has data, all columns have the same length
// and every null mask matches the length of its values.
func (t *Table) Validate() error {
	if t == nil {
		return fmt.Errorf("%w: table is nil", ErrInvalidTable)
	}
	rows := t.NumRows()
	for i, col := range t.Columns {
		if col.Data == nil {
			return fmt.Errorf("%w: column %d (%s) has no data", ErrInvalidTable, i, col.Name)
		}
		if col.Data.Len() != rows {
			return fmt.Errorf("%w: column %d (%s) has %d rows, expected %d", ErrInvalidTable, i, col.Name, col.Data.Len(), rows)
		}
		if n, ok := maskLen(col.Data); ok && n != rows {
			return fmt.Errorf("%w: column %d (%s) has a null mask of %d entries, expected %d", ErrInvalidTable, i, col.Name, n, rows)
		}
	}
	return nil
}

func maskLen(v Vector) (int, bool) {
	switch vec := v.(type) {
	case StringVector:
		return len(vec.Null), true
	case LogicalVector:
		return len(vec.Null), true
	}
	return 0, false
}

// resize returns a copy of t with every column resized to n rows.
func (t *Table) resize(n int) *Table {
	out := &Table{
		Columns:  make([]Column, len(t.Columns)),
		Warnings: t.Warnings,
	}
	for i, col := range t.Columns {
		out.Columns[i] = Column{Name: col.Name, Class: col.Class, Data: col.Data.Resize(n)}
	}
	return out
}
