package athena

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/athena"
	athenatypes "github.com/aws/aws-sdk-go-v2/service/athena/types"
	"github.com/kent-id/tabconv"
	"github.com/kent-id/tabconv/types"
	"github.com/kent-id/tabconv/util"
)

const (
	maxAllowedPageSize = 1000 // max allowed by athena
)

var (
	// ErrReadOnly is returned when parameters are bound or batches executed on an Athena statement.
	ErrReadOnly = errors.New("athena connection is read-only")

	// ErrTransactionsUnsupported is returned by Begin.
	ErrTransactionsUnsupported = errors.New("athena does not support transactions")
)

// QueryAPI is the subset of *athena.Client used to run queries and page through their results.
type QueryAPI interface {
	StartQueryExecution(ctx context.Context, params *athena.StartQueryExecutionInput, optFns ...func(*athena.Options)) (*athena.StartQueryExecutionOutput, error)
	GetQueryExecution(ctx context.Context, params *athena.GetQueryExecutionInput, optFns ...func(*athena.Options)) (*athena.GetQueryExecutionOutput, error)
	GetQueryResults(ctx context.Context, params *athena.GetQueryResultsInput, optFns ...func(*athena.Options)) (*athena.GetQueryResultsOutput, error)
}

// Conn is a read-only types.Connection to AWS Athena. Queries run through the
// Athena query execution API and results are streamed page by page.
type Conn struct {
	api          QueryAPI
	workgroup    string
	catalog      string
	database     string
	waitInterval time.Duration
	maxPageSize  int32
}

// ConnOption customizes a Conn.
type ConnOption func(*Conn)

// WithWaitInterval sets the polling interval while a query is queued or running.
func WithWaitInterval(d time.Duration) ConnOption {
	return func(c *Conn) {
		c.waitInterval = d
	}
}

// WithPageSize sets the number of rows requested per GetQueryResults call, capped at 1000.
func WithPageSize(n int32) ConnOption {
	return func(c *Conn) {
		if n > 0 && n <= maxAllowedPageSize {
			c.maxPageSize = n
		}
	}
}

// NewConnV2 constructs a Conn using specified aws-sdk-go-v2/aws/config, workgroup, database name, and catalog name in Athena
func NewConnV2(ctx context.Context, awsConfig aws.Config, workgroup, database, catalog string, opts ...ConnOption) *Conn {
	return NewConnWithAPI(athena.NewFromConfig(awsConfig), workgroup, database, catalog, opts...)
}

// NewConnWithAPI constructs a Conn on top of an existing Athena client.
func NewConnWithAPI(api QueryAPI, workgroup, database, catalog string, opts ...ConnOption) *Conn {
	c := &Conn{
		api:          api,
		workgroup:    workgroup,
		catalog:      catalog,
		database:     database,
		waitInterval: 1 * time.Second,
		maxPageSize:  maxAllowedPageSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	tabconv.LogInfof("creating athena connection with workgroup: %s, database: %s, catalog: %s, pageSize: %d", workgroup, database, catalog, c.maxPageSize)
	return c
}

func (c *Conn) Begin(ctx context.Context) (types.Transaction, error) {
	return nil, ErrTransactionsUnsupported
}

func (c *Conn) Prepare(ctx context.Context, sql string) (types.Statement, error) {
	return &statement{conn: c, sql: sql}, nil
}

type statement struct {
	conn *Conn
	sql  string
}

func (s *statement) Bind(param int, buf types.ParamBuffer) error {
	return ErrReadOnly
}

func (s *statement) ExecuteBatch(ctx context.Context, rows int) error {
	return ErrReadOnly
}

func (s *statement) Close() error {
	return nil
}

// Execute starts the query, waits until it finishes and returns a cursor over its first results page.
func (s *statement) Execute(ctx context.Context) (types.Cursor, error) {
	c := s.conn

	// 1. start query
	queryExecutionID, err := c.startQueryAndGetExecutionID(ctx, s.sql)
	if err != nil {
		return nil, err
	}

	// 2. get query execution info and wait until query finishes
	status, err := c.waitQueryAndGetStatus(ctx, queryExecutionID)
	if err != nil {
		return nil, err
	}

	// 3. finally if query is successful, open a cursor on the results
	if status.State != athenatypes.QueryExecutionStateSucceeded {
		reason := util.SafeString(status.StateChangeReason)
		return nil, fmt.Errorf("query execution failed with status: %s, reason: %s", status.State, reason)
	}
	return newCursor(ctx, c.api, athena.GetQueryResultsInput{
		QueryExecutionId: queryExecutionID,
		MaxResults:       util.RefInt32(c.maxPageSize),
	})
}

// startQueryAndGetExecutionID starts query execution and get the execution id to identify the running query in Athena.
func (c *Conn) startQueryAndGetExecutionID(ctx context.Context, sqlQuery string) (*string, error) {
	startQueryExecContext := athenatypes.QueryExecutionContext{
		Database: util.RefString(c.database),
		Catalog:  util.RefString(c.catalog),
	}

	startQueryExecInput := athena.StartQueryExecutionInput{
		QueryExecutionContext: &startQueryExecContext,
		WorkGroup:             util.RefString(c.workgroup),
		QueryString:           util.RefString(sqlQuery),
	}

	startQueryExecOutput, err := c.api.StartQueryExecution(ctx, &startQueryExecInput)
	if err != nil {
		return nil, err
	}
	tabconv.LogInfof("started query with ExecutionID: %s", util.SafeString(startQueryExecOutput.QueryExecutionId))
	return startQueryExecOutput.QueryExecutionId, nil
}

// waitQueryAndGetStatus waits until query execution finishes and return QueryExecutionStatus.
func (c *Conn) waitQueryAndGetStatus(ctx context.Context, queryExecutionID *string) (*athenatypes.QueryExecutionStatus, error) {
	queryExecInput := athena.GetQueryExecutionInput{
		QueryExecutionId: queryExecutionID,
	}

	var status *athenatypes.QueryExecutionStatus
	for {
		queryExecOutput, err := c.api.GetQueryExecution(ctx, &queryExecInput)
		if err != nil {
			return nil, err
		}
		if queryExecOutput.QueryExecution == nil || queryExecOutput.QueryExecution.Status == nil {
			return nil, fmt.Errorf("query execution %s has no status", util.SafeString(queryExecutionID))
		}
		status = queryExecOutput.QueryExecution.Status
		if status.State != athenatypes.QueryExecutionStateRunning && status.State != athenatypes.QueryExecutionStateQueued {
			tabconv.LogInfof("stopped query execution with state: %s", status.State)
			break
		}
		tabconv.LogDebugf("still awaiting query results with state: %s, waitInterval: %s", status.State, c.waitInterval)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.waitInterval):
		}
	}
	return status, nil
}
