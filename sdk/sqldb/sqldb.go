// Package sqldb adapts a database/sql handle to types.Connection so that tabconv
// can work with any registered driver.
//
// Batches are executed as one ExecContext call per row on a prepared statement;
// database/sql has no portable array-binding API.
package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/kent-id/tabconv/types"
)

// Conn wraps a *sql.DB. Statements prepared while a transaction is open run inside it.
type Conn struct {
	db  *sql.DB
	tx  *sql.Tx
	loc *time.Location
}

// New wraps db. Timestamps are exchanged with the driver as time.Time values in loc;
// nil means UTC.
func New(db *sql.DB, loc *time.Location) *Conn {
	if loc == nil {
		loc = time.UTC
	}
	return &Conn{db: db, loc: loc}
}

type transaction struct {
	conn *Conn
	tx   *sql.Tx
}

func (c *Conn) Begin(ctx context.Context) (types.Transaction, error) {
	if c.tx != nil {
		return nil, fmt.Errorf("transaction already in progress")
	}
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	c.tx = tx
	return &transaction{conn: c, tx: tx}, nil
}

func (t *transaction) Commit() error {
	t.conn.tx = nil
	return t.tx.Commit()
}

func (t *transaction) Rollback() error {
	t.conn.tx = nil
	return t.tx.Rollback()
}

func (c *Conn) Prepare(ctx context.Context, query string) (types.Statement, error) {
	var stmt *sql.Stmt
	var err error
	if c.tx != nil {
		stmt, err = c.tx.PrepareContext(ctx, query)
	} else {
		stmt, err = c.db.PrepareContext(ctx, query)
	}
	if err != nil {
		return nil, err
	}
	return &statement{stmt: stmt, loc: c.loc}, nil
}

type statement struct {
	stmt   *sql.Stmt
	loc    *time.Location
	params []types.ParamBuffer
}

func (s *statement) Bind(param int, buf types.ParamBuffer) error {
	if param < 0 {
		return fmt.Errorf("invalid parameter index %d", param)
	}
	for len(s.params) <= param {
		s.params = append(s.params, nil)
	}
	s.params[param] = buf
	return nil
}

func (s *statement) ExecuteBatch(ctx context.Context, rows int) error {
	for i, buf := range s.params {
		if buf == nil {
			return fmt.Errorf("parameter %d is not bound", i)
		}
		if buf.Len() < rows {
			return fmt.Errorf("parameter %d has %d values, batch needs %d", i, buf.Len(), rows)
		}
	}
	args := make([]interface{}, len(s.params))
	for r := 0; r < rows; r++ {
		for i, buf := range s.params {
			args[i] = driverValue(buf, r, s.loc)
		}
		if _, err := s.stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("row %d: %w", r, err)
		}
	}
	return nil
}

// driverValue converts row r of buf to an argument database/sql accepts.
func driverValue(buf types.ParamBuffer, r int, loc *time.Location) interface{} {
	v := types.Value(buf, r)
	if ts, ok := v.(types.Timestamp); ok {
		return ts.Time(loc)
	}
	return v
}

func (s *statement) Execute(ctx context.Context) (types.Cursor, error) {
	rows, err := s.stmt.QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	return newCursor(rows, s.loc)
}

func (s *statement) Close() error {
	return s.stmt.Close()
}
