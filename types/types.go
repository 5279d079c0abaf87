package types

import "context"

// Connection is an open database session able to prepare statements and open transactions.
// A Connection is owned by one caller at a time; concurrent use must be serialized by the caller.
type Connection interface {
	// Prepare binds sql to the connection. If a transaction is open, the
	// statement runs inside it.
	Prepare(ctx context.Context, sql string) (Statement, error)

	// Begin opens a transaction on the connection. Nested transactions are not supported.
	Begin(ctx context.Context) (Transaction, error)
}

// Transaction is a unit of work opened by Connection.Begin.
type Transaction interface {
	Commit() error
	Rollback() error
}

// Statement is a prepared SQL statement.
//
// Parameters are bound positionally with whole column buffers, then the statement
// is executed for an explicit number of rows via ExecuteBatch. Queries are run via Execute.
type Statement interface {
	// Bind attaches buf to the zero-based positional parameter param.
	Bind(param int, buf ParamBuffer) error

	// ExecuteBatch executes the statement once per row for the first rows entries of every bound buffer.
	ExecuteBatch(ctx context.Context, rows int) error

	// Execute runs the statement and returns a forward-only cursor over its result.
	Execute(ctx context.Context) (Cursor, error)

	Close() error
}

// Cursor is a forward-only, single-pass iterator over the rows of an executed statement.
// Column accessors are only valid after Next returned true.
type Cursor interface {
	NumColumns() int
	ColumnName(col int) string
	ColumnType(col int) SQLType

	// Next advances to the next row. It returns false when the rows are exhausted or on error;
	// check Err to tell them apart.
	Next() bool
	Err() error

	IsNull(col int) bool
	Int64(col int) (int64, error)
	Float64(col int) (float64, error)
	String(col int) (string, error)
	Timestamp(col int) (Timestamp, error)
	Bytes(col int) ([]byte, error)
	Bool(col int) (bool, error)

	Close() error
}

// ContextCursor is a Cursor that may do I/O while advancing and accepts a context
// for it. Callers prefer NextContext over Next when a cursor implements it.
type ContextCursor interface {
	Cursor
	NextContext(ctx context.Context) bool
}
