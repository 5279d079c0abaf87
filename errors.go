package tabconv

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedColumnType is returned when a table column has no semantic type mapping.
	ErrUnsupportedColumnType = errors.New("unsupported column type")

	// ErrInvalidTable is returned when a table's columns disagree on row count or are nil.
	ErrInvalidTable = errors.New("invalid table")

	// ErrQueryClosed is returned when a closed Query is executed or fetched.
	ErrQueryClosed = errors.New("query is closed")
)

// Warning is a non-fatal condition raised while materializing a result.
// Warnings are attached to the returned Table and do not stop the fetch.
type Warning struct {
	Column string
	Index  int
	Msg    string
}

func (w Warning) String() string {
	return fmt.Sprintf("column %d (%s): %s", w.Index, w.Column, w.Msg)
}
