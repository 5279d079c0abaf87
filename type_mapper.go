package tabconv

import (
	"fmt"

	"github.com/kent-id/tabconv/types"
)

// InferTableTypes returns the semantic type of every column of table from its native vector type.
// Double vectors are disambiguated by their class tag. Any other vector type aborts with ErrUnsupportedColumnType.
func InferTableTypes(table *Table) ([]SemanticType, error) {
	result := make([]SemanticType, 0, table.NumCols())
	for i, col := range table.Columns {
		switch col.Data.(type) {
		case LogicalVector:
			result = append(result, Logical)
		case IntVector:
			result = append(result, Integer)
		case DoubleVector:
			switch col.Class {
			case ClassDate:
				result = append(result, Date)
			case ClassDateTime:
				result = append(result, DateTime)
			default:
				result = append(result, Double)
			}
		case StringVector:
			result = append(result, String)
		case RawVector:
			result = append(result, Raw)
		default:
			return nil, fmt.Errorf("%w: %T in column %d (%s)", ErrUnsupportedColumnType, col.Data, i, col.Name)
		}
	}
	return result, nil
}

// SemanticTypeOf maps a native SQL type code to a semantic type.
// ok is false for codes without a mapping, which callers treat as String.
func SemanticTypeOf(t types.SQLType) (st SemanticType, ok bool) {
	switch t {
	case types.SQLBit, types.SQLTinyInt, types.SQLSmallInt, types.SQLInteger, types.SQLBigInt:
		return Integer, true
	case types.SQLDouble, types.SQLFloat, types.SQLDecimal, types.SQLReal, types.SQLNumeric:
		return Double, true
	case types.SQLDate, types.SQLTypeDate:
		return Date, true
	case types.SQLTime, types.SQLTimestamp, types.SQLTypeTimestamp, types.SQLTypeTime:
		return DateTime, true
	case types.SQLChar, types.SQLWChar, types.SQLVarChar, types.SQLWVarChar, types.SQLLongVarChar, types.SQLWLongVarChar:
		return String, true
	case types.SQLBinary, types.SQLVarBinary, types.SQLLongVarBinary:
		return Raw, true
	default:
		return String, false
	}
}

// InferResultTypes reads the column names and semantic types of cursor.
// Unknown native types fall back to String and produce a warning.
func InferResultTypes(cursor types.Cursor) ([]SemanticType, []string, []Warning) {
	n := cursor.NumColumns()
	semTypes := make([]SemanticType, n)
	names := make([]string, n)
	var warnings []Warning
	for i := 0; i < n; i++ {
		names[i] = cursor.ColumnName(i)
		nativeType := cursor.ColumnType(i)
		st, ok := SemanticTypeOf(nativeType)
		if !ok {
			w := Warning{
				Column: names[i],
				Index:  i,
				Msg:    fmt.Sprintf("unknown field type (%s), defaulting to String", nativeType),
			}
			LogWarnf("%s", w)
			warnings = append(warnings, w)
		}
		semTypes[i] = st
	}
	return semTypes, names, warnings
}

// NativeType returns the SQL type code a column of semantic type t is stored as.
func NativeType(t SemanticType) types.SQLType {
	switch t {
	case Integer:
		return types.SQLBigInt
	case Double:
		return types.SQLDouble
	case String:
		return types.SQLVarChar
	case Date:
		return types.SQLTypeDate
	case DateTime:
		return types.SQLTypeTimestamp
	case Raw:
		return types.SQLVarBinary
	case Logical:
		return types.SQLBit
	default:
		return types.SQLUnknownType
	}
}
