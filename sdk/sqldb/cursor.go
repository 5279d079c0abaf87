package sqldb

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kent-id/tabconv/types"
	"github.com/shopspring/decimal"
)

var databaseTypes = map[string]types.SQLType{
	"BIT":              types.SQLBit,
	"BOOL":             types.SQLBit,
	"BOOLEAN":          types.SQLBit,
	"TINYINT":          types.SQLTinyInt,
	"INT1":             types.SQLTinyInt,
	"SMALLINT":         types.SQLSmallInt,
	"INT2":             types.SQLSmallInt,
	"MEDIUMINT":        types.SQLInteger,
	"INT":              types.SQLInteger,
	"INT4":             types.SQLInteger,
	"INTEGER":          types.SQLInteger,
	"BIGINT":           types.SQLBigInt,
	"INT8":             types.SQLBigInt,
	"DOUBLE":           types.SQLDouble,
	"DOUBLE PRECISION": types.SQLDouble,
	"FLOAT8":           types.SQLDouble,
	"FLOAT":            types.SQLFloat,
	"FLOAT4":           types.SQLReal,
	"REAL":             types.SQLReal,
	"DECIMAL":          types.SQLDecimal,
	"NUMERIC":          types.SQLNumeric,
	"DATE":             types.SQLTypeDate,
	"TIME":             types.SQLTypeTime,
	"TIMETZ":           types.SQLTypeTime,
	"TIMESTAMP":        types.SQLTypeTimestamp,
	"TIMESTAMPTZ":      types.SQLTypeTimestamp,
	"DATETIME":         types.SQLTypeTimestamp,
	"DATETIME2":        types.SQLTypeTimestamp,
	"CHAR":             types.SQLChar,
	"BPCHAR":           types.SQLChar,
	"NCHAR":            types.SQLWChar,
	"VARCHAR":          types.SQLVarChar,
	"NVARCHAR":         types.SQLWVarChar,
	"TEXT":             types.SQLLongVarChar,
	"CLOB":             types.SQLLongVarChar,
	"NTEXT":            types.SQLWLongVarChar,
	"BINARY":           types.SQLBinary,
	"VARBINARY":        types.SQLVarBinary,
	"BLOB":             types.SQLLongVarBinary,
	"BYTEA":            types.SQLLongVarBinary,
}

// TypeFromDatabaseName maps a driver's DatabaseTypeName to a native SQL type code.
// Length, precision and UNSIGNED qualifiers are ignored. Unknown names map to SQLUnknownType.
func TypeFromDatabaseName(name string) types.SQLType {
	name = strings.ToUpper(strings.TrimSpace(name))
	if i := strings.IndexByte(name, '('); i >= 0 {
		name = strings.TrimSpace(name[:i])
	}
	name = strings.TrimPrefix(name, "UNSIGNED ")
	if t, ok := databaseTypes[name]; ok {
		return t
	}
	return types.SQLUnknownType
}

type cursor struct {
	rows     *sql.Rows
	loc      *time.Location
	names    []string
	sqlTypes []types.SQLType
	values   []interface{}
	ptrs     []interface{}
	err      error
}

func newCursor(rows *sql.Rows, loc *time.Location) (*cursor, error) {
	colTypes, err := rows.ColumnTypes()
	if err != nil {
		rows.Close()
		return nil, err
	}
	c := &cursor{
		rows:     rows,
		loc:      loc,
		names:    make([]string, len(colTypes)),
		sqlTypes: make([]types.SQLType, len(colTypes)),
		values:   make([]interface{}, len(colTypes)),
		ptrs:     make([]interface{}, len(colTypes)),
	}
	for i, ct := range colTypes {
		c.names[i] = ct.Name()
		c.sqlTypes[i] = TypeFromDatabaseName(ct.DatabaseTypeName())
		c.ptrs[i] = &c.values[i]
	}
	return c, nil
}

func (c *cursor) NumColumns() int {
	return len(c.names)
}

func (c *cursor) ColumnName(col int) string {
	return c.names[col]
}

func (c *cursor) ColumnType(col int) types.SQLType {
	return c.sqlTypes[col]
}

func (c *cursor) Next() bool {
	if c.err != nil || !c.rows.Next() {
		return false
	}
	if err := c.rows.Scan(c.ptrs...); err != nil {
		c.err = err
		return false
	}
	return true
}

func (c *cursor) Err() error {
	if c.err != nil {
		return c.err
	}
	return c.rows.Err()
}

func (c *cursor) Close() error {
	return c.rows.Close()
}

func (c *cursor) IsNull(col int) bool {
	return c.values[col] == nil
}

func (c *cursor) Int64(col int) (int64, error) {
	return toInt64(c.values[col])
}

func (c *cursor) Float64(col int) (float64, error) {
	return toFloat64(c.values[col])
}

func (c *cursor) String(col int) (string, error) {
	return toString(c.values[col]), nil
}

func (c *cursor) Timestamp(col int) (types.Timestamp, error) {
	return toTimestamp(c.values[col], c.loc)
}

func (c *cursor) Bytes(col int) ([]byte, error) {
	switch v := c.values[col].(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("cannot read %T as bytes", v)
	}
}

func (c *cursor) Bool(col int) (bool, error) {
	switch v := c.values[col].(type) {
	case bool:
		return v, nil
	case int64:
		return v != 0, nil
	case []byte:
		return strconv.ParseBool(string(v))
	case string:
		return strconv.ParseBool(v)
	default:
		return false, fmt.Errorf("cannot read %T as bool", v)
	}
}

func toInt64(v interface{}) (int64, error) {
	switch x := v.(type) {
	case int64:
		return x, nil
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	case float64:
		return int64(x), nil
	case []byte:
		return parseInt(string(x))
	case string:
		return parseInt(x)
	default:
		return 0, fmt.Errorf("cannot read %T as int64", v)
	}
}

func parseInt(s string) (int64, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "true", "t":
		return 1, nil
	case "false", "f":
		return 0, nil
	}
	return strconv.ParseInt(s, 10, 64)
}

// toFloat64 reads DECIMAL and NUMERIC values, which drivers return as text, through decimal
// so that values beyond float64's exact range round instead of failing.
func toFloat64(v interface{}) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case int64:
		return float64(x), nil
	case []byte:
		return parseDecimal(string(x))
	case string:
		return parseDecimal(x)
	default:
		return 0, fmt.Errorf("cannot read %T as float64", v)
	}
}

func parseDecimal(s string) (float64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	return d.InexactFloat64(), nil
}

func toString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case time.Time:
		return x.Format(time.RFC3339Nano)
	default:
		return fmt.Sprint(x)
	}
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
	"15:04:05.999999999",
}

func toTimestamp(v interface{}, loc *time.Location) (types.Timestamp, error) {
	switch x := v.(type) {
	case time.Time:
		return types.TimestampFromTime(x.In(loc)), nil
	case []byte:
		return parseTimestamp(string(x), loc)
	case string:
		return parseTimestamp(x, loc)
	default:
		return types.Timestamp{}, fmt.Errorf("cannot read %T as timestamp", v)
	}
}

func parseTimestamp(s string, loc *time.Location) (types.Timestamp, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return types.TimestampFromTime(t.In(loc)), nil
		}
	}
	return types.Timestamp{}, fmt.Errorf("cannot parse %q as timestamp", s)
}
