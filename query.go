package tabconv

import (
	"context"
	"errors"
	"fmt"

	"github.com/kent-id/tabconv/types"
)

// Query owns one prepared statement and, once executed, its result cursor.
// A Query is not safe for concurrent use.
type Query struct {
	conn   types.Connection
	sql    string
	cfg    Config
	stmt   types.Statement
	cursor types.Cursor
	closed bool
}

// NewQuery creates a Query for sql on conn. Nothing is sent to the database until Execute or Fetch.
func NewQuery(conn types.Connection, sql string, opts ...Option) *Query {
	return &Query{
		conn: conn,
		sql:  sql,
		cfg:  newConfig(opts),
	}
}

// SQL returns the statement text of q.
func (q *Query) SQL() string {
	return q.sql
}

// Executed reports whether the statement has run and a cursor is open.
func (q *Query) Executed() bool {
	return q.cursor != nil
}

// Execute runs the statement once. Later calls are no-ops.
func (q *Query) Execute(ctx context.Context) error {
	if q.closed {
		return ErrQueryClosed
	}
	if q.cursor != nil {
		return nil
	}
	if q.stmt == nil {
		stmt, err := q.conn.Prepare(ctx, q.sql)
		if err != nil {
			return fmt.Errorf("prepare statement: %w", err)
		}
		q.stmt = stmt
	}
	cursor, err := q.stmt.Execute(ctx)
	if err != nil {
		return fmt.Errorf("execute statement: %w", err)
	}
	q.cursor = cursor
	LogDebugf("executed query: %s", q.sql)
	return nil
}

// Fetch executes the statement if needed and materializes up to maxRows rows from its cursor.
// maxRows < 0 fetches every remaining row. Repeated calls continue from where the previous one stopped.
//
// Example:
//
//	q := tabconv.NewQuery(conn, "select id, created_at from events")
//	table, err := q.Fetch(ctx, -1)
func (q *Query) Fetch(ctx context.Context, maxRows int) (*Table, error) {
	if err := q.Execute(ctx); err != nil {
		return nil, err
	}
	return materialize(ctx, q.cursor, maxRows, q.cfg)
}

// Close releases the cursor and the statement.
func (q *Query) Close() error {
	if q.closed {
		return nil
	}
	q.closed = true
	var errs []error
	if q.cursor != nil {
		errs = append(errs, q.cursor.Close())
		q.cursor = nil
	}
	if q.stmt != nil {
		errs = append(errs, q.stmt.Close())
		q.stmt = nil
	}
	return errors.Join(errs...)
}

// FetchAll is a one-shot helper running sql on conn and returning every row.
// For repeated or paged fetching, consider creating a Query.
func FetchAll(ctx context.Context, conn types.Connection, sql string, opts ...Option) (table *Table, err error) {
	q := NewQuery(conn, sql, opts...)
	defer func() {
		if closeErr := q.Close(); err == nil && closeErr != nil {
			err = closeErr
		}
	}()
	return q.Fetch(ctx, -1)
}
