// Package memdb is an in-memory, transactional implementation of types.Connection.
//
// It understands two statement shapes only:
//
//	INSERT INTO <table> ...   (one positional parameter per column, in column order)
//	SELECT ... FROM <table>   (returns every column of the table)
//
// Everything else about the SQL text is ignored.
package memdb

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/kent-id/tabconv/types"
)

var (
	ErrUnsupportedStatement = errors.New("unsupported statement")
	ErrNoSuchTable          = errors.New("table does not exist")
	ErrInjectedFailure      = errors.New("injected batch failure")
)

// ColumnDef declares a column of a memdb table.
type ColumnDef struct {
	Name string
	Type types.SQLType
}

type row []interface{}

type table struct {
	name string
	cols []ColumnDef
	rows []row
}

// DB holds the tables. Connections opened with Connect share them.
type DB struct {
	mu      sync.RWMutex
	tables  map[string]*table
	batches int
	failAt  int
}

// New creates an empty in-memory database.
func New() *DB {
	return &DB{
		tables: make(map[string]*table),
	}
}

// CreateTable creates a new empty table with the given columns.
func (db *DB) CreateTable(name string, cols ...ColumnDef) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, exists := db.tables[name]; exists {
		return fmt.Errorf("table %s already exists", name)
	}
	if len(cols) == 0 {
		return fmt.Errorf("table %s needs at least one column", name)
	}
	db.tables[name] = &table{
		name: name,
		cols: cols,
		rows: make([]row, 0),
	}
	return nil
}

// RowCount returns the number of committed rows in the table.
func (db *DB) RowCount(name string) (int, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	t, ok := db.tables[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrNoSuchTable, name)
	}
	return len(t.rows), nil
}

// BatchCount returns how many batches have been executed against the database, committed or not.
func (db *DB) BatchCount() int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.batches
}

// FailBatch makes the n-th batch executed from now on (1-based) fail with ErrInjectedFailure.
// n <= 0 disables the injection.
func (db *DB) FailBatch(n int) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if n <= 0 {
		db.failAt = 0
		return
	}
	db.failAt = db.batches + n
}

func (db *DB) lookup(name string) (*table, error) {
	t, ok := db.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchTable, name)
	}
	return t, nil
}

type statementKind int

const (
	insertStatement statementKind = iota
	selectStatement
)

// parseStatement extracts the statement kind and target table name from sql.
func parseStatement(sql string) (statementKind, string, error) {
	fields := strings.Fields(sql)
	if len(fields) == 0 {
		return 0, "", fmt.Errorf("%w: empty statement", ErrUnsupportedStatement)
	}
	switch strings.ToUpper(fields[0]) {
	case "INSERT":
		if len(fields) < 3 || strings.ToUpper(fields[1]) != "INTO" {
			return 0, "", fmt.Errorf("%w: %q", ErrUnsupportedStatement, sql)
		}
		return insertStatement, tableName(fields[2]), nil
	case "SELECT":
		for i := 1; i < len(fields)-1; i++ {
			if strings.ToUpper(fields[i]) == "FROM" {
				return selectStatement, tableName(fields[i+1]), nil
			}
		}
	}
	return 0, "", fmt.Errorf("%w: %q", ErrUnsupportedStatement, sql)
}

func tableName(token string) string {
	if i := strings.IndexAny(token, "(;"); i >= 0 {
		token = token[:i]
	}
	return strings.Trim(token, "\"`[]")
}
