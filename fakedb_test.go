package simpleado

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/uptrace/bun/dialect/pgdialect"

	"github.com/binhle004/simpleado/connstr"
)

// fakeResult is what the fake driver answers for one statement.
type fakeResult struct {
	cols     []string
	rows     [][]driver.Value
	affected int64
	err      error
}

type fakeHandler func(ctx context.Context, query string, args []driver.NamedValue) fakeResult

type fakeCall struct {
	query string
	args  []driver.NamedValue
}

type fakeConnector struct {
	h fakeHandler

	connects   atomic.Int32
	rowsRead   atomic.Int32
	rowsClosed atomic.Int32

	mu    sync.Mutex
	calls []fakeCall
}

func (c *fakeConnector) Connect(context.Context) (driver.Conn, error) {
	c.connects.Add(1)
	return &fakeConn{c: c}, nil
}

func (c *fakeConnector) Driver() driver.Driver { return fakeDriver{} }

func (c *fakeConnector) record(query string, args []driver.NamedValue) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, fakeCall{query: query, args: append([]driver.NamedValue(nil), args...)})
}

func (c *fakeConnector) lastCall(t *testing.T) fakeCall {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.calls) == 0 {
		t.Fatal("no statement reached the driver")
	}
	return c.calls[len(c.calls)-1]
}

func (c *fakeConnector) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

type fakeDriver struct{}

func (fakeDriver) Open(string) (driver.Conn, error) {
	return nil, errors.New("fakeDriver.Open should not be called; use sql.OpenDB with connector")
}

type fakeConn struct {
	c *fakeConnector
}

func (c *fakeConn) Prepare(string) (driver.Stmt, error) { return nil, driver.ErrSkip }
func (c *fakeConn) Close() error                        { return nil }
func (c *fakeConn) Begin() (driver.Tx, error)           { return nil, driver.ErrSkip }

func (c *fakeConn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	c.c.record(query, args)
	res := c.c.h(ctx, query, args)
	if res.err != nil {
		return nil, res.err
	}
	return &fakeRows{c: c.c, cols: res.cols, data: res.rows}, nil
}

func (c *fakeConn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	c.c.record(query, args)
	res := c.c.h(ctx, query, args)
	if res.err != nil {
		return nil, res.err
	}
	return driver.RowsAffected(res.affected), nil
}

type fakeRows struct {
	c    *fakeConnector
	cols []string
	data [][]driver.Value
	i    int
}

func (r *fakeRows) Columns() []string { return append([]string(nil), r.cols...) }

func (r *fakeRows) Close() error {
	r.c.rowsClosed.Add(1)
	return nil
}

func (r *fakeRows) Next(dest []driver.Value) error {
	if r.i >= len(r.data) {
		return io.EOF
	}
	row := r.data[r.i]
	for i := range dest {
		if i < len(row) {
			dest[i] = row[i]
		} else {
			dest[i] = nil
		}
	}
	r.i++
	r.c.rowsRead.Add(1)
	return nil
}

// rowsOf answers every statement with the same result set.
func rowsOf(cols []string, rows ...[]driver.Value) fakeHandler {
	return func(context.Context, string, []driver.NamedValue) fakeResult {
		return fakeResult{cols: cols, rows: rows}
	}
}

// affects answers every statement with n rows affected.
func affects(n int64) fakeHandler {
	return func(context.Context, string, []driver.NamedValue) fakeResult {
		return fakeResult{affected: n}
	}
}

const (
	testConnString      = "fake://default"
	reportingConnString = "fake://reporting"
)

func testProvider() *connstr.Provider {
	return connstr.NewProvider(connstr.Map{
		connstr.DefaultName: testConnString,
		"Reporting":         reportingConnString,
	})
}

// newTestEngine returns an engine whose every connection string opens a pool
// on the fake connector.
func newTestEngine(t *testing.T, h fakeHandler, opts ...func(*Config)) (*Engine, *fakeConnector) {
	t.Helper()

	fc := &fakeConnector{h: h}
	cfg := Config{
		Open: func(string, Config) (*sql.DB, error) {
			return sql.OpenDB(fc), nil
		},
		Dialect:  pgdialect.New(),
		Provider: testProvider(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	e, err := NewEngine(cfg)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	t.Cleanup(func() { _ = e.Close() })
	return e, fc
}

// assertReleased fails when a connection of the pool for cs is still in use.
func assertReleased(t *testing.T, e *Engine, cs string) {
	t.Helper()
	stats, ok := e.Stats(cs)
	if !ok {
		return
	}
	if stats.InUse != 0 {
		t.Errorf("expected every connection released, %d still in use", stats.InUse)
	}
}
