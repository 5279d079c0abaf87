package tabconv

import (
	"context"
	"fmt"

	"github.com/kent-id/tabconv/types"
)

// newResultTable allocates n rows for every column according to its semantic type.
func newResultTable(semTypes []SemanticType, names []string, n int) *Table {
	table := &Table{Columns: make([]Column, len(semTypes))}
	for i, t := range semTypes {
		col := Column{Name: names[i]}
		switch t {
		case Integer:
			col.Data = make(IntVector, n)
		case Double, Date, DateTime:
			col.Data = make(DoubleVector, n)
		case String:
			col.Data = NewStringVector(n)
		case Raw:
			col.Data = make(RawVector, n)
		case Logical:
			col.Data = NewLogicalVector(n)
		default:
			col.Data = NewStringVector(n)
		}
		table.Columns[i] = col
	}
	return table
}

// tagClasses marks date and date-time columns on the final table.
func tagClasses(table *Table, semTypes []SemanticType) {
	for i, t := range semTypes {
		switch t {
		case Date:
			table.Columns[i].Class = ClassDate
		case DateTime:
			table.Columns[i].Class = ClassDateTime
		}
	}
}

// materialize drains cursor into a new Table.
//
// maxRows < 0 reads every remaining row, doubling the table whenever it fills up;
// maxRows >= 0 reads at most maxRows rows. The table is shrunk to the rows actually read.
func materialize(ctx context.Context, cursor types.Cursor, maxRows int, cfg Config) (*Table, error) {
	semTypes, names, warnings := InferResultTypes(cursor)
	codec := cfg.codec()

	n := maxRows
	if maxRows < 0 {
		n = cfg.InitialCapacity
	}
	out := newResultTable(semTypes, names, n)
	out.Warnings = warnings

	next := cursor.Next
	if cc, ok := cursor.(types.ContextCursor); ok {
		next = func() bool { return cc.NextContext(ctx) }
	}

	row := 0
	for {
		if row >= n {
			if maxRows >= 0 {
				break
			}
			n *= 2
			LogDebugf("growing result table to %d rows", n)
			out = out.resize(n)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !next() {
			break
		}
		for col, t := range semTypes {
			if err := fillCell(out, cursor, codec, t, col, row); err != nil {
				return nil, fmt.Errorf("row %d, column %d (%s): %w", row, col, names[col], err)
			}
		}
		row++
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("advance cursor: %w", err)
	}

	if row < n {
		out = out.resize(row)
	}
	tagClasses(out, semTypes)
	LogDebugf("materialized %d rows, %d columns", row, len(semTypes))
	return out, nil
}

// fillCell writes the value of column col on the cursor's current row into out.
func fillCell(out *Table, cursor types.Cursor, codec Codec, t SemanticType, col, row int) error {
	data := out.Columns[col].Data
	switch t {
	case Integer:
		v := NullInt
		if !cursor.IsNull(col) {
			var err error
			if v, err = cursor.Int64(col); err != nil {
				return err
			}
		}
		data.(IntVector)[row] = v
	case Double:
		v := NullDouble
		if !cursor.IsNull(col) {
			var err error
			if v, err = cursor.Float64(col); err != nil {
				return err
			}
		}
		data.(DoubleVector)[row] = v
	case Date, DateTime:
		v := NullDouble
		if !cursor.IsNull(col) {
			ts, err := cursor.Timestamp(col)
			if err != nil {
				return err
			}
			v = codec.ToEpoch(ts, t)
		}
		data.(DoubleVector)[row] = v
	case String:
		vec := data.(StringVector)
		if cursor.IsNull(col) {
			vec.Null[row] = true
			return nil
		}
		s, err := cursor.String(col)
		if err != nil {
			return err
		}
		// some drivers only report a null long text column after its value has been read
		if cursor.IsNull(col) {
			vec.Null[row] = true
			return nil
		}
		vec.Values[row] = s
	case Raw:
		if cursor.IsNull(col) {
			return nil
		}
		b, err := cursor.Bytes(col)
		if err != nil {
			return err
		}
		if b == nil {
			b = []byte{}
		}
		data.(RawVector)[row] = b
	case Logical:
		vec := data.(LogicalVector)
		if cursor.IsNull(col) {
			vec.Null[row] = true
			return nil
		}
		b, err := cursor.Bool(col)
		if err != nil {
			return err
		}
		vec.Values[row] = b
	default:
		w := Warning{Column: out.Columns[col].Name, Index: col, Msg: fmt.Sprintf("unknown field type (%s), cell left empty", t)}
		LogWarnf("%s", w)
		out.Warnings = append(out.Warnings, w)
	}
	return nil
}
