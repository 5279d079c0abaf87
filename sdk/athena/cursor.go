package athena

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/athena"
	athenatypes "github.com/aws/aws-sdk-go-v2/service/athena/types"
	"github.com/kent-id/tabconv"
	"github.com/kent-id/tabconv/types"
	"github.com/kent-id/tabconv/util"
)

// cursor pages through GetQueryResults. Later pages are fetched with the context
// passed to NextContext, or with the context of the Execute call when Next is used.
type cursor struct {
	ctx      context.Context
	api      QueryAPI
	input    athena.GetQueryResultsInput
	names    []string
	sqlTypes []types.SQLType
	rows     []athenatypes.Row
	pos      int
	page     uint
	done     bool
	err      error
}

func newCursor(ctx context.Context, api QueryAPI, input athena.GetQueryResultsInput) (*cursor, error) {
	c := &cursor{ctx: ctx, api: api, input: input, pos: -1}
	if err := c.fetchPage(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *cursor) fetchPage(ctx context.Context) error {
	c.page++
	queryResultOutput, err := c.api.GetQueryResults(ctx, &c.input)
	if err != nil {
		return err
	}
	resultSet := queryResultOutput.ResultSet
	if resultSet == nil {
		return fmt.Errorf("athena returned no result set on page %d", c.page)
	}

	rows := resultSet.Rows
	if c.page == 1 {
		if resultSet.ResultSetMetadata == nil {
			return fmt.Errorf("athena returned no result set metadata")
		}
		for index, columnInfo := range resultSet.ResultSetMetadata.ColumnInfo {
			columnName := util.SafeString(columnInfo.Name)
			if columnName == "" {
				return fmt.Errorf("column name from result set is empty, index: %d", index)
			}
			c.names = append(c.names, columnName)
			c.sqlTypes = append(c.sqlTypes, athenaSQLType(util.SafeString(columnInfo.Type)))
		}

		// skip header row if first page results
		if len(rows) > 0 {
			rows = rows[1:]
		}
	}

	c.rows = rows
	c.pos = -1
	c.input.NextToken = queryResultOutput.NextToken
	if c.input.NextToken == nil {
		c.done = true
		tabconv.LogInfof("finished fetching results from athena")
	} else {
		tabconv.LogInfof("fetched page %d results from athena, nextToken: %s", c.page, util.SafeString(c.input.NextToken))
	}
	return nil
}

func (c *cursor) NumColumns() int {
	return len(c.names)
}

func (c *cursor) ColumnName(col int) string {
	return c.names[col]
}

func (c *cursor) ColumnType(col int) types.SQLType {
	return c.sqlTypes[col]
}

func (c *cursor) Next() bool {
	return c.NextContext(c.ctx)
}

func (c *cursor) NextContext(ctx context.Context) bool {
	if c.err != nil {
		return false
	}
	for c.pos+1 >= len(c.rows) {
		if c.done {
			return false
		}
		if err := c.fetchPage(ctx); err != nil {
			c.err = err
			return false
		}
	}
	c.pos++
	return true
}

func (c *cursor) Err() error {
	return c.err
}

func (c *cursor) Close() error {
	c.done = true
	c.rows = nil
	return nil
}

func (c *cursor) datum(col int) athenatypes.Datum {
	data := c.rows[c.pos].Data
	if col >= len(data) {
		return athenatypes.Datum{}
	}
	return data[col]
}

func (c *cursor) IsNull(col int) bool {
	return c.datum(col).VarCharValue == nil
}

func (c *cursor) Int64(col int) (int64, error) {
	return parseInt64(c.datum(col))
}

func (c *cursor) Float64(col int) (float64, error) {
	return parseFloat64(c.datum(col), c.sqlTypes[col])
}

func (c *cursor) String(col int) (string, error) {
	return util.SafeString(c.datum(col).VarCharValue), nil
}

func (c *cursor) Timestamp(col int) (types.Timestamp, error) {
	return parseTimestamp(c.datum(col), c.sqlTypes[col])
}

func (c *cursor) Bytes(col int) ([]byte, error) {
	return parseBytes(c.datum(col))
}

func (c *cursor) Bool(col int) (bool, error) {
	return parseBool(c.datum(col))
}
