package sqldb

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"io"
	"sync"
)

// fakeDriver records executed arguments and serves canned query results.
type fakeDriver struct {
	mu        sync.Mutex
	execs     [][]driver.Value
	commits   int
	rollbacks int
	failExec  int

	columns   []string
	typeNames []string
	rows      [][]driver.Value
}

var fake = &fakeDriver{}

func init() {
	sql.Register("tabconv-fake", fake)
}

func (d *fakeDriver) reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.execs = nil
	d.commits = 0
	d.rollbacks = 0
	d.failExec = 0
	d.columns = nil
	d.typeNames = nil
	d.rows = nil
}

func (d *fakeDriver) Open(name string) (driver.Conn, error) {
	return &fakeConn{d: d}, nil
}

type fakeConn struct {
	d *fakeDriver
}

func (c *fakeConn) Prepare(query string) (driver.Stmt, error) {
	return &fakeStmt{d: c.d}, nil
}

func (c *fakeConn) Close() error {
	return nil
}

func (c *fakeConn) Begin() (driver.Tx, error) {
	return &fakeTx{d: c.d}, nil
}

type fakeTx struct {
	d *fakeDriver
}

func (t *fakeTx) Commit() error {
	t.d.mu.Lock()
	defer t.d.mu.Unlock()
	t.d.commits++
	return nil
}

func (t *fakeTx) Rollback() error {
	t.d.mu.Lock()
	defer t.d.mu.Unlock()
	t.d.rollbacks++
	return nil
}

type fakeStmt struct {
	d *fakeDriver
}

func (s *fakeStmt) Close() error {
	return nil
}

func (s *fakeStmt) NumInput() int {
	return -1
}

func (s *fakeStmt) Exec(args []driver.Value) (driver.Result, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	if s.d.failExec > 0 && len(s.d.execs)+1 == s.d.failExec {
		return nil, fmt.Errorf("constraint violation")
	}
	s.d.execs = append(s.d.execs, args)
	return driver.RowsAffected(1), nil
}

func (s *fakeStmt) Query(args []driver.Value) (driver.Rows, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	return &fakeRows{columns: s.d.columns, typeNames: s.d.typeNames, rows: s.d.rows}, nil
}

type fakeRows struct {
	columns   []string
	typeNames []string
	rows      [][]driver.Value
	pos       int
}

func (r *fakeRows) Columns() []string {
	return r.columns
}

func (r *fakeRows) ColumnTypeDatabaseTypeName(index int) string {
	return r.typeNames[index]
}

func (r *fakeRows) Close() error {
	return nil
}

func (r *fakeRows) Next(dest []driver.Value) error {
	if r.pos >= len(r.rows) {
		return io.EOF
	}
	copy(dest, r.rows[r.pos])
	r.pos++
	return nil
}
