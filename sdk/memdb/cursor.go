package memdb

import (
	"fmt"

	"github.com/kent-id/tabconv/types"
	"github.com/kent-id/tabconv/util"
)

// coerce converts a bound parameter value into the storage form of a column of type t.
// Date columns drop the time of day.
func coerce(v interface{}, t types.SQLType) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	switch t {
	case types.SQLBit:
		switch x := v.(type) {
		case bool:
			return x, nil
		case int64:
			return x != 0, nil
		}
	case types.SQLTinyInt, types.SQLSmallInt, types.SQLInteger, types.SQLBigInt:
		switch x := v.(type) {
		case int64:
			return x, nil
		case bool:
			if x {
				return int64(1), nil
			}
			return int64(0), nil
		}
	case types.SQLDouble, types.SQLFloat, types.SQLReal, types.SQLDecimal, types.SQLNumeric:
		switch x := v.(type) {
		case float64:
			return x, nil
		case int64:
			return float64(x), nil
		}
	case types.SQLDate, types.SQLTypeDate:
		if ts, ok := v.(types.Timestamp); ok {
			return types.Timestamp{Year: ts.Year, Month: ts.Month, Day: ts.Day}, nil
		}
	case types.SQLTime, types.SQLTimestamp, types.SQLTypeTime, types.SQLTypeTimestamp:
		if ts, ok := v.(types.Timestamp); ok {
			return ts, nil
		}
	case types.SQLBinary, types.SQLVarBinary, types.SQLLongVarBinary:
		if b, ok := v.([]byte); ok {
			return util.CopyBytes(b), nil
		}
	default:
		if s, ok := v.(string); ok {
			return s, nil
		}
		return fmt.Sprint(v), nil
	}
	return nil, fmt.Errorf("type mismatch: cannot store %T in %s column", v, t)
}

type cursor struct {
	cols   []ColumnDef
	rows   []row
	pos    int
	closed bool
}

func (c *cursor) NumColumns() int { return len(c.cols) }
func (c *cursor) ColumnName(col int) string { return c.cols[col].Name }
func (c *cursor) ColumnType(col int) types.SQLType { return c.cols[col].Type }

func (c *cursor) Next() bool {
	if c.closed || c.pos+1 >= len(c.rows) {
		c.pos = len(c.rows)
		return false
	}
	c.pos++
	return true
}

func (c *cursor) Err() error {
	return nil
}

func (c *cursor) Close() error {
	c.closed = true
	return nil
}

func (c *cursor) value(col int) interface{} {
	return c.rows[c.pos][col]
}

func (c *cursor) IsNull(col int) bool {
	return c.value(col) == nil
}

func (c *cursor) Int64(col int) (int64, error) {
	switch v := c.value(col).(type) {
	case int64:
		return v, nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	}
	return 0, c.mismatch(col, "int64")
}

func (c *cursor) Float64(col int) (float64, error) {
	switch v := c.value(col).(type) {
	case float64:
		return v, nil
	case int64:
		return float64(v), nil
	}
	return 0, c.mismatch(col, "float64")
}

func (c *cursor) String(col int) (string, error) {
	switch v := c.value(col).(type) {
	case string:
		return v, nil
	case nil:
		return "", nil
	case []byte:
		return string(v), nil
	default:
		return fmt.Sprint(v), nil
	}
}

func (c *cursor) Timestamp(col int) (types.Timestamp, error) {
	if v, ok := c.value(col).(types.Timestamp); ok {
		return v, nil
	}
	return types.Timestamp{}, c.mismatch(col, "timestamp")
}

func (c *cursor) Bytes(col int) ([]byte, error) {
	switch v := c.value(col).(type) {
	case []byte:
		return util.CopyBytes(v), nil
	case string:
		return []byte(v), nil
	}
	return nil, c.mismatch(col, "bytes")
}

func (c *cursor) Bool(col int) (bool, error) {
	switch v := c.value(col).(type) {
	case bool:
		return v, nil
	case int64:
		return v != 0, nil
	}
	return false, c.mismatch(col, "bool")
}

func (c *cursor) mismatch(col int, want string) error {
	return fmt.Errorf("column %s holds %T, cannot read as %s", c.cols[col].Name, c.value(col), want)
}
