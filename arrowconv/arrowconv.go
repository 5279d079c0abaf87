// Package arrowconv converts tabconv tables to and from Apache Arrow records.
//
// Dates become date32 days, date-times become UTC microsecond timestamps; nulls map to
// Arrow validity bits in both directions.
package arrowconv

import (
	"fmt"
	"math"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/kent-id/tabconv"
	"github.com/kent-id/tabconv/util"
)

const (
	// MetadataSemanticType is the field metadata key holding the tabconv semantic type.
	MetadataSemanticType = "tabconv.semantic_type"
	// MetadataSQLType is the field metadata key holding the native SQL type name.
	MetadataSQLType = "tabconv.sql_type"
)

var timestampType = &arrow.TimestampType{Unit: arrow.Microsecond, TimeZone: "UTC"}

func arrowType(t tabconv.SemanticType) arrow.DataType {
	switch t {
	case tabconv.Integer:
		return arrow.PrimitiveTypes.Int64
	case tabconv.Double:
		return arrow.PrimitiveTypes.Float64
	case tabconv.String:
		return arrow.BinaryTypes.String
	case tabconv.Date:
		return arrow.FixedWidthTypes.Date32
	case tabconv.DateTime:
		return timestampType
	case tabconv.Raw:
		return arrow.BinaryTypes.Binary
	case tabconv.Logical:
		return arrow.FixedWidthTypes.Boolean
	default:
		return nil
	}
}

// Schema returns the Arrow schema of table.
func Schema(table *tabconv.Table) (*arrow.Schema, error) {
	semTypes, err := tabconv.InferTableTypes(table)
	if err != nil {
		return nil, err
	}
	fields := make([]arrow.Field, len(semTypes))
	for i, t := range semTypes {
		fields[i] = arrow.Field{
			Name:     table.Columns[i].Name,
			Type:     arrowType(t),
			Nullable: true,
			Metadata: arrow.NewMetadata(
				[]string{MetadataSemanticType, MetadataSQLType},
				[]string{t.String(), tabconv.NativeType(t).String()},
			),
		}
	}
	return arrow.NewSchema(fields, nil), nil
}

// ToRecord copies table into a new Arrow record allocated from mem.
// The caller must Release the record.
func ToRecord(mem memory.Allocator, table *tabconv.Table) (arrow.Record, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}
	schema, err := Schema(table)
	if err != nil {
		return nil, err
	}

	rb := array.NewRecordBuilder(mem, schema)
	defer rb.Release()

	for i, col := range table.Columns {
		switch b := rb.Field(i).(type) {
		case *array.Int64Builder:
			for _, v := range col.Data.(tabconv.IntVector) {
				if v == tabconv.NullInt {
					b.AppendNull()
				} else {
					b.Append(v)
				}
			}
		case *array.Float64Builder:
			for _, v := range col.Data.(tabconv.DoubleVector) {
				if tabconv.IsNullDouble(v) {
					b.AppendNull()
				} else {
					b.Append(v)
				}
			}
		case *array.Date32Builder:
			for _, v := range col.Data.(tabconv.DoubleVector) {
				if tabconv.IsNullDouble(v) {
					b.AppendNull()
				} else {
					b.Append(arrow.Date32(math.Floor(v)))
				}
			}
		case *array.TimestampBuilder:
			for _, v := range col.Data.(tabconv.DoubleVector) {
				if tabconv.IsNullDouble(v) {
					b.AppendNull()
				} else {
					b.Append(arrow.Timestamp(math.Round(v * 1e6)))
				}
			}
		case *array.StringBuilder:
			vec := col.Data.(tabconv.StringVector)
			for j, v := range vec.Values {
				if vec.Null[j] {
					b.AppendNull()
				} else {
					b.Append(v)
				}
			}
		case *array.BinaryBuilder:
			for _, v := range col.Data.(tabconv.RawVector) {
				if v == nil {
					b.AppendNull()
				} else {
					b.Append(v)
				}
			}
		case *array.BooleanBuilder:
			vec := col.Data.(tabconv.LogicalVector)
			for j, v := range vec.Values {
				if vec.Null[j] {
					b.AppendNull()
				} else {
					b.Append(v)
				}
			}
		default:
			return nil, fmt.Errorf("%w: no arrow builder for column %s", tabconv.ErrUnsupportedColumnType, col.Name)
		}
	}
	return rb.NewRecord(), nil
}

// FromRecord copies rec into a new tabconv table.
func FromRecord(rec arrow.Record) (*tabconv.Table, error) {
	n := int(rec.NumRows())
	table := &tabconv.Table{Columns: make([]tabconv.Column, rec.NumCols())}
	for i, arr := range rec.Columns() {
		col, err := fromArray(rec.ColumnName(i), arr, n)
		if err != nil {
			return nil, err
		}
		table.Columns[i] = col
	}
	return table, nil
}

func fromArray(name string, arr arrow.Array, n int) (tabconv.Column, error) {
	col := tabconv.Column{Name: name}
	switch a := arr.(type) {
	case *array.Int8, *array.Int16, *array.Int32, *array.Int64, *array.Uint8, *array.Uint16, *array.Uint32:
		vec := make(tabconv.IntVector, n)
		for j := 0; j < n; j++ {
			if arr.IsNull(j) {
				vec[j] = tabconv.NullInt
			} else {
				vec[j] = intValue(arr, j)
			}
		}
		col.Data = vec
	case *array.Float32, *array.Float64:
		vec := make(tabconv.DoubleVector, n)
		for j := 0; j < n; j++ {
			switch {
			case arr.IsNull(j):
				vec[j] = tabconv.NullDouble
			case isFloat32(arr):
				vec[j] = float64(arr.(*array.Float32).Value(j))
			default:
				vec[j] = arr.(*array.Float64).Value(j)
			}
		}
		col.Data = vec
	case *array.Date32:
		vec := make(tabconv.DoubleVector, n)
		for j := 0; j < n; j++ {
			if a.IsNull(j) {
				vec[j] = tabconv.NullDouble
			} else {
				vec[j] = float64(a.Value(j))
			}
		}
		col.Class, col.Data = tabconv.ClassDate, vec
	case *array.Date64:
		vec := make(tabconv.DoubleVector, n)
		for j := 0; j < n; j++ {
			if a.IsNull(j) {
				vec[j] = tabconv.NullDouble
			} else {
				vec[j] = math.Floor(float64(a.Value(j)) / 86400000)
			}
		}
		col.Class, col.Data = tabconv.ClassDate, vec
	case *array.Timestamp:
		unit := a.DataType().(*arrow.TimestampType).Unit
		mult := float64(unit.Multiplier())
		vec := make(tabconv.DoubleVector, n)
		for j := 0; j < n; j++ {
			if a.IsNull(j) {
				vec[j] = tabconv.NullDouble
			} else {
				vec[j] = float64(a.Value(j)) * mult / 1e9
			}
		}
		col.Class, col.Data = tabconv.ClassDateTime, vec
	case *array.String:
		vec := tabconv.NewStringVector(n)
		for j := 0; j < n; j++ {
			if a.IsNull(j) {
				vec.Null[j] = true
			} else {
				vec.Values[j] = a.Value(j)
			}
		}
		col.Data = vec
	case *array.Binary:
		vec := make(tabconv.RawVector, n)
		for j := 0; j < n; j++ {
			if a.IsNull(j) {
				continue
			}
			if vec[j] = util.CopyBytes(a.Value(j)); vec[j] == nil {
				vec[j] = []byte{}
			}
		}
		col.Data = vec
	case *array.Boolean:
		vec := tabconv.NewLogicalVector(n)
		for j := 0; j < n; j++ {
			if a.IsNull(j) {
				vec.Null[j] = true
			} else {
				vec.Values[j] = a.Value(j)
			}
		}
		col.Data = vec
	default:
		return col, fmt.Errorf("%w: arrow type %s in column %s", tabconv.ErrUnsupportedColumnType, arr.DataType(), name)
	}
	return col, nil
}

func isFloat32(arr arrow.Array) bool {
	_, ok := arr.(*array.Float32)
	return ok
}

func intValue(arr arrow.Array, j int) int64 {
	switch a := arr.(type) {
	case *array.Int8:
		return int64(a.Value(j))
	case *array.Int16:
		return int64(a.Value(j))
	case *array.Int32:
		return int64(a.Value(j))
	case *array.Int64:
		return a.Value(j)
	case *array.Uint8:
		return int64(a.Value(j))
	case *array.Uint16:
		return int64(a.Value(j))
	case *array.Uint32:
		return int64(a.Value(j))
	}
	return tabconv.NullInt
}
