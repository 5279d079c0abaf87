package types

import "fmt"

// SQLType is a native SQL data type code, using the ODBC numbering.
type SQLType int16

// SQL data types
const (
	SQLUnknownType   SQLType = 0
	SQLChar          SQLType = 1
	SQLNumeric       SQLType = 2
	SQLDecimal       SQLType = 3
	SQLInteger       SQLType = 4
	SQLSmallInt      SQLType = 5
	SQLFloat         SQLType = 6
	SQLReal          SQLType = 7
	SQLDouble        SQLType = 8
	SQLDate          SQLType = 9
	SQLTime          SQLType = 10
	SQLTimestamp     SQLType = 11
	SQLVarChar       SQLType = 12
	SQLTypeDate      SQLType = 91
	SQLTypeTime      SQLType = 92
	SQLTypeTimestamp SQLType = 93
	SQLLongVarChar   SQLType = -1
	SQLBinary        SQLType = -2
	SQLVarBinary     SQLType = -3
	SQLLongVarBinary SQLType = -4
	SQLBigInt        SQLType = -5
	SQLTinyInt       SQLType = -6
	SQLBit           SQLType = -7
	SQLWChar         SQLType = -8
	SQLWVarChar      SQLType = -9
	SQLWLongVarChar  SQLType = -10
	SQLGUID          SQLType = -11
)

var sqlTypeNames = map[SQLType]string{
	SQLUnknownType:   "UNKNOWN",
	SQLChar:          "CHAR",
	SQLNumeric:       "NUMERIC",
	SQLDecimal:       "DECIMAL",
	SQLInteger:       "INTEGER",
	SQLSmallInt:      "SMALLINT",
	SQLFloat:         "FLOAT",
	SQLReal:          "REAL",
	SQLDouble:        "DOUBLE",
	SQLDate:          "DATE",
	SQLTime:          "TIME",
	SQLTimestamp:     "TIMESTAMP",
	SQLVarChar:       "VARCHAR",
	SQLTypeDate:      "TYPE_DATE",
	SQLTypeTime:      "TYPE_TIME",
	SQLTypeTimestamp: "TYPE_TIMESTAMP",
	SQLLongVarChar:   "LONGVARCHAR",
	SQLBinary:        "BINARY",
	SQLVarBinary:     "VARBINARY",
	SQLLongVarBinary: "LONGVARBINARY",
	SQLBigInt:        "BIGINT",
	SQLTinyInt:       "TINYINT",
	SQLBit:           "BIT",
	SQLWChar:         "WCHAR",
	SQLWVarChar:      "WVARCHAR",
	SQLWLongVarChar:  "WLONGVARCHAR",
	SQLGUID:          "GUID",
}

func (t SQLType) String() string {
	if name, ok := sqlTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("SQLType(%d)", int16(t))
}
