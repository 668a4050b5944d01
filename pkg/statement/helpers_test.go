package statement

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"testing"

	"github.com/ignaciocaff/procstmt/pkg/logging"
	"github.com/stretchr/testify/require"
)

type fakeStmt struct {
	calls  [][]interface{}
	err    error
	closed bool
	onExec func(args []interface{})
}

func (f *fakeStmt) ExecContext(_ context.Context, args ...interface{}) (sql.Result, error) {
	f.calls = append(f.calls, args)
	if f.onExec != nil {
		f.onExec(args)
	}
	if f.err != nil {
		return nil, f.err
	}
	return driver.RowsAffected(1), nil
}

func (f *fakeStmt) Close() error {
	f.closed = true
	return nil
}

func (f *fakeStmt) lastArgs(t *testing.T) []interface{} {
	t.Helper()
	require.NotEmpty(t, f.calls, "statement was never executed")
	return f.calls[len(f.calls)-1]
}

type selectCall struct {
	query string
	args  []interface{}
}

type fakeConn struct {
	driver     string
	rows       []catalogRow
	selectErr  error
	prepareErr error
	stmt       *fakeStmt
	prepared   []string
	selects    []selectCall
}

func newFakeConn(driverName string) *fakeConn {
	return &fakeConn{driver: driverName, stmt: &fakeStmt{}}
}

func (c *fakeConn) SelectContext(_ context.Context, dest interface{}, query string, args ...interface{}) error {
	c.selects = append(c.selects, selectCall{query: query, args: args})
	if c.selectErr != nil {
		return c.selectErr
	}
	*(dest.(*[]catalogRow)) = append([]catalogRow(nil), c.rows...)
	return nil
}

func (c *fakeConn) Rebind(query string) string {
	return query
}

func (c *fakeConn) Prepare(_ context.Context, query string) (NativeStmt, error) {
	c.prepared = append(c.prepared, query)
	if c.prepareErr != nil {
		return nil, c.prepareErr
	}
	return c.stmt, nil
}

func (c *fakeConn) DriverName() string {
	return c.driver
}

func newTestDriver(t *testing.T, conn Conn, options Options) (*Driver, *logging.Logger) {
	t.Helper()
	d, err := NewDriver(conn, options)
	require.NoError(t, err)
	l := logging.NewTestLogger()
	d.SetLogger(l)
	return d, l
}

func nullInt(n int64) sql.NullInt64 {
	return sql.NullInt64{Int64: n, Valid: true}
}

// getcustRows is a two-parameter procedure: CHARACTER(10) then DECIMAL(5,2).
func getcustRows() []catalogRow {
	return []catalogRow{
		{Position: 2, DataType: "DECIMAL", Precision: nullInt(5), Scale: nullInt(2)},
		{Position: 1, DataType: "CHARACTER", CharLen: nullInt(10)},
	}
}

type countingProfiler struct {
	starts   int
	finishes int
	started  *Statement
}

func (p *countingProfiler) ProfilerStart(st *Statement) {
	p.starts++
	p.started = st
}

func (p *countingProfiler) ProfilerFinish() {
	p.finishes++
}
