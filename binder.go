package tabconv

import (
	"context"
	"fmt"
	"strings"

	"github.com/kent-id/tabconv/types"
)

// Insert writes every row of table by executing sql in batches of Config.BatchSize rows.
// sql must take one positional parameter per table column, in column order.
//
// All batches run inside one transaction, which is committed only after the last batch succeeds.
// On any error the transaction is rolled back and nothing is committed.
//
// Example:
//
//	err := tabconv.Insert(ctx, conn, "INSERT INTO t (id, name) VALUES (?, ?)", table)
func Insert(ctx context.Context, conn types.Connection, sql string, table *Table, opts ...Option) (err error) {
	if err = table.Validate(); err != nil {
		return err
	}
	semTypes, err := InferTableTypes(table)
	if err != nil {
		return err
	}
	cfg := newConfig(opts)
	codec := cfg.codec()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				LogErrorf("rollback after failed insert: %v", rbErr)
			}
		}
	}()

	nrows := table.NumRows()
	batches := 0
	for start := 0; start < nrows; start += cfg.BatchSize {
		end := min(start+cfg.BatchSize, nrows)
		if err = insertBatch(ctx, conn, sql, table, semTypes, codec, start, end); err != nil {
			return fmt.Errorf("insert rows [%d, %d): %w", start, end, err)
		}
		batches++
		LogDebugf("inserted batch %d with rows [%d, %d)", batches, start, end)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	LogInfof("inserted %d rows in %d batches", nrows, batches)
	return nil
}

// insertBatch prepares a fresh statement for rows [start, end), since the bound buffer
// lengths differ between batches, then binds every column and executes once.
func insertBatch(ctx context.Context, conn types.Connection, sql string, table *Table, semTypes []SemanticType, codec Codec, start, end int) error {
	stmt, err := conn.Prepare(ctx, sql)
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for col, semType := range semTypes {
		buf, err := buildParamBuffer(table.Columns[col], semType, codec, start, end)
		if err != nil {
			return err
		}
		if err := stmt.Bind(col, buf); err != nil {
			return fmt.Errorf("bind column %d (%s): %w", col, table.Columns[col].Name, err)
		}
	}
	return stmt.ExecuteBatch(ctx, end-start)
}

func buildParamBuffer(col Column, semType SemanticType, codec Codec, start, end int) (types.ParamBuffer, error) {
	size := end - start
	strategy := NullStrategyFor(semType)

	switch semType {
	case Integer:
		return types.IntBuffer{
			Values:   col.Data.(IntVector)[start:end],
			Sentinel: strategy.Sentinel,
		}, nil
	case Double:
		values := col.Data.(DoubleVector)[start:end]
		return types.DoubleBuffer{Values: values, Nulls: doubleNullMask(values)}, nil
	case String:
		vec := col.Data.(StringVector)
		buf := types.StringBuffer{Values: make([]string, size), Nulls: make([]bool, size)}
		for i := 0; i < size; i++ {
			buf.Nulls[i] = vec.Null[start+i]
			buf.Values[i] = strings.ToValidUTF8(vec.Values[start+i], "\uFFFD")
		}
		return buf, nil
	case Date, DateTime:
		vec := col.Data.(DoubleVector)
		buf := types.TimestampBuffer{
			Values:   make([]types.Timestamp, size),
			Nulls:    make([]bool, size),
			DateOnly: semType == Date,
		}
		for i := 0; i < size; i++ {
			value := vec[start+i]
			if IsNullDouble(value) {
				buf.Nulls[i] = true
				continue
			}
			buf.Values[i] = codec.ToTimestamp(value, semType)
		}
		return buf, nil
	case Raw:
		vec := col.Data.(RawVector)
		buf := types.BytesBuffer{Values: vec[start:end], Nulls: make([]bool, size)}
		for i, v := range buf.Values {
			buf.Nulls[i] = v == nil
		}
		return buf, nil
	case Logical:
		vec := col.Data.(LogicalVector)
		return types.BoolBuffer{Values: vec.Values[start:end], Nulls: vec.Null[start:end]}, nil
	default:
		return nil, fmt.Errorf("%w: %s in column %s", ErrUnsupportedColumnType, semType, col.Name)
	}
}
