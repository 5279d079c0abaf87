package memdb

import (
	"context"
	"fmt"

	"github.com/kent-id/tabconv/types"
)

// Conn is a session on a DB. It implements types.Connection.
type Conn struct {
	db *DB
	tx *memTx
}

// Connect opens a new session on db.
func (db *DB) Connect() *Conn {
	return &Conn{db: db}
}

// memTx buffers inserted rows until Commit.
type memTx struct {
	conn    *Conn
	pending map[string][]row
	done    bool
}

func (c *Conn) Begin(ctx context.Context) (types.Transaction, error) {
	if c.tx != nil {
		return nil, fmt.Errorf("transaction already in progress")
	}
	c.tx = &memTx{
		conn:    c,
		pending: make(map[string][]row),
	}
	return c.tx, nil
}

func (tx *memTx) Commit() error {
	if tx.done {
		return fmt.Errorf("transaction already finished")
	}
	db := tx.conn.db
	db.mu.Lock()
	defer db.mu.Unlock()

	for name, rows := range tx.pending {
		t, err := db.lookup(name)
		if err != nil {
			return err
		}
		t.rows = append(t.rows, rows...)
	}
	tx.finish()
	return nil
}

func (tx *memTx) Rollback() error {
	if tx.done {
		return fmt.Errorf("transaction already finished")
	}
	tx.finish()
	return nil
}

func (tx *memTx) finish() {
	tx.done = true
	tx.pending = nil
	tx.conn.tx = nil
}

func (c *Conn) Prepare(ctx context.Context, sql string) (types.Statement, error) {
	kind, name, err := parseStatement(sql)
	if err != nil {
		return nil, err
	}

	c.db.mu.RLock()
	defer c.db.mu.RUnlock()
	t, err := c.db.lookup(name)
	if err != nil {
		return nil, err
	}
	return &statement{
		conn:   c,
		kind:   kind,
		table:  name,
		cols:   t.cols,
		params: make([]types.ParamBuffer, len(t.cols)),
	}, nil
}

type statement struct {
	conn   *Conn
	kind   statementKind
	table  string
	cols   []ColumnDef
	params []types.ParamBuffer
	closed bool
}

func (s *statement) Bind(param int, buf types.ParamBuffer) error {
	if s.kind != insertStatement {
		return fmt.Errorf("cannot bind parameters of a query")
	}
	if param < 0 || param >= len(s.params) {
		return fmt.Errorf("parameter %d out of range, table %s has %d columns", param, s.table, len(s.cols))
	}
	s.params[param] = buf
	return nil
}

func (s *statement) ExecuteBatch(ctx context.Context, rows int) error {
	if s.closed {
		return fmt.Errorf("statement is closed")
	}
	if s.kind != insertStatement {
		return fmt.Errorf("%w: batch execution of a query", ErrUnsupportedStatement)
	}
	for i, buf := range s.params {
		if buf == nil {
			return fmt.Errorf("parameter %d (%s) is not bound", i, s.cols[i].Name)
		}
		if buf.Len() < rows {
			return fmt.Errorf("parameter %d (%s) has %d values, batch needs %d", i, s.cols[i].Name, buf.Len(), rows)
		}
	}

	out := make([]row, rows)
	for r := 0; r < rows; r++ {
		values := make(row, len(s.cols))
		for i, col := range s.cols {
			v, err := coerce(types.Value(s.params[i], r), col.Type)
			if err != nil {
				return fmt.Errorf("row %d, column %s: %w", r, col.Name, err)
			}
			values[i] = v
		}
		out[r] = values
	}

	db := s.conn.db
	db.mu.Lock()
	defer db.mu.Unlock()

	db.batches++
	if db.failAt > 0 && db.batches == db.failAt {
		db.failAt = 0
		return ErrInjectedFailure
	}
	if tx := s.conn.tx; tx != nil {
		tx.pending[s.table] = append(tx.pending[s.table], out...)
		return nil
	}
	t, err := db.lookup(s.table)
	if err != nil {
		return err
	}
	t.rows = append(t.rows, out...)
	return nil
}

func (s *statement) Execute(ctx context.Context) (types.Cursor, error) {
	if s.closed {
		return nil, fmt.Errorf("statement is closed")
	}
	if s.kind != selectStatement {
		return nil, fmt.Errorf("%w: insert has no result set", ErrUnsupportedStatement)
	}

	db := s.conn.db
	db.mu.RLock()
	defer db.mu.RUnlock()
	t, err := db.lookup(s.table)
	if err != nil {
		return nil, err
	}

	// snapshot so later inserts don't show up in an open cursor
	rows := make([]row, len(t.rows))
	copy(rows, t.rows)
	return &cursor{cols: t.cols, rows: rows, pos: -1}, nil
}

func (s *statement) Close() error {
	s.closed = true
	s.params = nil
	return nil
}
