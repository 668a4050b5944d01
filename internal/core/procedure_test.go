package core

import (
	"context"
	"database/sql"
	sqldriver "database/sql/driver"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/ignaciocaff/procstmt/pkg/logging"
	"github.com/ignaciocaff/procstmt/pkg/statement"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRows struct {
	cols   []string
	data   [][]sqldriver.Value
	next   int
	closed bool
}

func (r *fakeRows) Columns() []string { return r.cols }

func (r *fakeRows) Close() error {
	r.closed = true
	return nil
}

func (r *fakeRows) Next(dest []sqldriver.Value) error {
	if r.next >= len(r.data) {
		return io.EOF
	}
	copy(dest, r.data[r.next])
	r.next++
	return nil
}

type fakeStmt struct {
	args   []interface{}
	cursor sqldriver.Rows
	err    error
}

func (s *fakeStmt) ExecContext(_ context.Context, args ...interface{}) (sql.Result, error) {
	s.args = args
	if s.err != nil {
		return nil, s.err
	}
	if out, ok := args[0].(sql.Out); ok {
		if dest, ok := out.Dest.(*interface{}); ok {
			*dest = s.cursor
		}
	}
	return sqldriver.RowsAffected(0), nil
}

func (s *fakeStmt) Close() error { return nil }

type fakeConn struct {
	stmt     *fakeStmt
	prepared []string
}

func (c *fakeConn) SelectContext(context.Context, interface{}, string, ...interface{}) error {
	return nil
}

func (c *fakeConn) Rebind(query string) string { return query }

func (c *fakeConn) Prepare(_ context.Context, query string) (statement.NativeStmt, error) {
	c.prepared = append(c.prepared, query)
	return c.stmt, nil
}

func (c *fakeConn) DriverName() string { return "fake" }

type customer struct {
	ID      int64     `db:"CUST_ID"`
	Name    string    `db:"CUST_NAME"`
	Active  bool      `db:"ACTIVE"`
	Balance float64   `db:"BALANCE"`
	Since   time.Time `db:"SINCE"`
	Region  string
	Ignored string `db:"-"`
}

func customerRows() *fakeRows {
	since := time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)
	return &fakeRows{
		cols: []string{"CUST_ID", "CUST_NAME", "ACTIVE", "BALANCE", "SINCE", "REGION"},
		data: [][]sqldriver.Value{
			{int64(1), "ACME      ", "S", float64(10.5), since, "NORTH"},
			{"2", "GLOBEX", "N", int64(3), since, nil},
		},
	}
}

func newTestDriver(t *testing.T, stmt *fakeStmt) (*statement.Driver, *fakeConn) {
	t.Helper()
	conn := &fakeConn{stmt: stmt}
	d, err := statement.NewDriver(conn, statement.Options{Schema: "APP"})
	require.NoError(t, err)
	d.SetLogger(logging.NewTestLogger())
	return d, conn
}

func TestBuildCallText(t *testing.T) {
	assert.Equal(t, "CALL PKG.GET_CUSTOMERS(:1)", BuildCallText("PKG.GET_CUSTOMERS", 0))
	assert.Equal(t, "CALL GETCUST(:1, :2, :3)", BuildCallText("GETCUST", 2))
}

func TestExecuteStoreProcedureIntoSlice(t *testing.T) {
	rows := customerRows()
	stmt := &fakeStmt{cursor: rows}
	d, conn := newTestDriver(t, stmt)

	var got []customer
	err := ExecuteStoreProcedure(d, context.Background(), "GETCUST", &got, "NORTH", 10)
	require.NoError(t, err)

	require.Equal(t, []string{"CALL GETCUST(:1, :2, :3)"}, conn.prepared)
	require.Len(t, stmt.args, 3)
	assert.IsType(t, sql.Out{}, stmt.args[0])
	assert.Equal(t, "NORTH", stmt.args[1])
	assert.Equal(t, int64(10), stmt.args[2])

	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, "ACME", got[0].Name)
	assert.True(t, got[0].Active)
	assert.Equal(t, 10.5, got[0].Balance)
	assert.Equal(t, "NORTH", got[0].Region)
	assert.Equal(t, int64(2), got[1].ID)
	assert.False(t, got[1].Active)
	assert.Equal(t, float64(3), got[1].Balance)
	assert.Empty(t, got[1].Region)
	assert.True(t, rows.closed)
}

func TestExecuteStoreProcedureIntoStruct(t *testing.T) {
	d, _ := newTestDriver(t, &fakeStmt{cursor: customerRows()})

	var got customer
	require.NoError(t, ExecuteStoreProcedure(d, context.Background(), "GETCUST", &got))
	assert.Equal(t, "ACME", got.Name)
}

func TestExecuteStoreProcedureEmptyCursor(t *testing.T) {
	d, _ := newTestDriver(t, &fakeStmt{cursor: &fakeRows{cols: []string{"CUST_ID"}}})

	got := customer{Name: "stale"}
	require.NoError(t, ExecuteStoreProcedure(d, context.Background(), "GETCUST", &got))
	assert.Equal(t, "stale", got.Name)
	assert.Zero(t, got.ID)
}

func TestExecuteStoreProcedureErrors(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		err := ExecuteStoreProcedure(nil, context.Background(), "GETCUST", &[]customer{})
		assert.ErrorIs(t, err, ErrNotConfigured)
	})

	t.Run("execution failure", func(t *testing.T) {
		d, _ := newTestDriver(t, &fakeStmt{err: errors.New("boom")})
		err := ExecuteStoreProcedure(d, context.Background(), "GETCUST", &[]customer{})
		var qe *statement.InvalidQueryError
		assert.ErrorAs(t, err, &qe)
	})

	t.Run("no cursor", func(t *testing.T) {
		d, _ := newTestDriver(t, &fakeStmt{})
		err := ExecuteStoreProcedure(d, context.Background(), "GETCUST", &[]customer{})
		assert.Error(t, err)
	})

	t.Run("not a pointer", func(t *testing.T) {
		d, _ := newTestDriver(t, &fakeStmt{cursor: customerRows()})
		err := ExecuteStoreProcedure(d, context.Background(), "GETCUST", customer{})
		assert.Error(t, err)
	})
}

func TestConfigure(t *testing.T) {
	assert.ErrorIs(t, Configure(nil, context.Background()), ErrNotConfigured)

	d, _ := newTestDriver(t, &fakeStmt{})
	ctx := context.Background()
	require.NoError(t, Configure(d, ctx))
	assert.Same(t, d, GetDriver())
	assert.Equal(t, ctx, GetContext())
}
