package statement

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/cespare/xxhash"
	"github.com/ignaciocaff/procstmt/pkg/logging"
	"github.com/ignaciocaff/procstmt/pkg/params"
	"github.com/sijms/go-ora/v2/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecutionFailureFinishesProfilerOnce(t *testing.T) {
	conn := newFakeConn("sqlite3")
	conn.stmt.err = errors.New("SQL0438 custom failure")
	d, _ := newTestDriver(t, conn, Options{})
	profiler := &countingProfiler{}
	d.SetProfiler(profiler)
	st := d.CreateStatement("UPDATE t SET x = ?")

	_, err := st.Execute(context.Background(), []interface{}{1})
	require.Error(t, err)

	var qerr *InvalidQueryError
	require.ErrorAs(t, err, &qerr)
	assert.Contains(t, err.Error(), "SQL0438 custom failure")
	assert.Contains(t, err.Error(), "statement could not be executed")
	assert.ErrorIs(t, err, conn.stmt.err)
	assert.Equal(t, "UPDATE t SET x = ?", qerr.SQL)

	assert.Equal(t, 1, profiler.starts)
	assert.Equal(t, 1, profiler.finishes)
	assert.Same(t, st, profiler.started)
}

func TestExecutionSuccessProfiles(t *testing.T) {
	conn := newFakeConn("oracle")
	d, _ := newTestDriver(t, conn, Options{})
	profiler := &countingProfiler{}
	st := d.CreateStatement("UPDATE t SET x = 1")
	st.SetProfiler(profiler)
	assert.Same(t, profiler, st.Profiler())

	_, err := st.Execute(context.Background(), nil)
	require.NoError(t, err)
	_, err = st.Execute(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, 2, profiler.starts)
	assert.Equal(t, 2, profiler.finishes)
}

func TestExecuteWithoutProfiler(t *testing.T) {
	conn := newFakeConn("oracle")
	conn.stmt.err = errors.New("boom")
	d, _ := newTestDriver(t, conn, Options{})
	st := d.CreateStatement("UPDATE t SET x = 1")

	_, err := st.Execute(context.Background(), nil)
	var qerr *InvalidQueryError
	assert.ErrorAs(t, err, &qerr)
}

func TestOracleErrorInfo(t *testing.T) {
	conn := newFakeConn("oracle")
	conn.stmt.err = &network.OracleError{ErrCode: 6550, ErrMsg: "PLS-00306: wrong number or types of arguments"}
	d, _ := newTestDriver(t, conn, Options{})
	st := d.CreateStatement("UPDATE t SET x = 1")

	_, err := st.Execute(context.Background(), nil)
	var qerr *InvalidQueryError
	require.ErrorAs(t, err, &qerr)
	assert.Equal(t, []string{"0 parameters", "ORA-06550", "PLS-00306: wrong number or types of arguments"}, qerr.Info)
	assert.Equal(t,
		"statement could not be executed (0 parameters - ORA-06550 - PLS-00306: wrong number or types of arguments)",
		err.Error())
}

func TestProcedureErrorInfo(t *testing.T) {
	conn := newFakeConn("oracle")
	conn.rows = getcustRows()
	conn.stmt.err = &network.OracleError{ErrCode: 20001, ErrMsg: "customer locked"}
	d, _ := newTestDriver(t, conn, Options{Schema: "APPLIB"})
	st := d.CreateStatement("CALL GETCUST(?, ?)")

	_, err := st.Execute(context.Background(), getcustParams(), In, Out)
	var qerr *InvalidQueryError
	require.ErrorAs(t, err, &qerr)
	assert.Equal(t, []string{"GETCUST", "2 parameters", "ORA-20001", "customer locked"}, qerr.Info)
}

func TestRecorderKeepsProfiles(t *testing.T) {
	conn := newFakeConn("oracle")
	d, _ := newTestDriver(t, conn, Options{})
	logs := logging.NewTestLogger()
	rec := NewRecorder(logs)
	clock := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	rec.now = func() time.Time {
		clock = clock.Add(250 * time.Millisecond)
		return clock
	}
	d.SetProfiler(rec)
	st := d.CreateStatement("SELECT * FROM t WHERE id = ?")

	_, ok := rec.LastProfile()
	assert.False(t, ok)

	_, err := st.Execute(context.Background(), map[string]interface{}{"id": 7})
	require.NoError(t, err)

	p, ok := rec.LastProfile()
	require.True(t, ok)
	assert.Equal(t, st.ID(), p.Statement)
	assert.Equal(t, xxhash.Sum64String("SELECT * FROM t WHERE id = ?"), p.Fingerprint)
	assert.Equal(t, map[string]interface{}{"id": 7}, p.Parameters)
	assert.Equal(t, 250*time.Millisecond, p.Elapsed)
	assert.Len(t, rec.Profiles(), 1)
	assert.Contains(t, logs.GetOutput(), "statement profiled")

	rec.ProfilerFinish()
	assert.Len(t, rec.Profiles(), 1)
}

func TestCloneResetsState(t *testing.T) {
	conn := newFakeConn("oracle")
	conn.rows = getcustRows()
	d, _ := newTestDriver(t, conn, Options{Schema: "APPLIB"})
	st := d.CreateStatement("CALL GETCUST(?,?)")

	_, err := st.Execute(context.Background(), getcustParams(), In, Out)
	require.NoError(t, err)
	require.True(t, st.IsPrepared())
	require.True(t, st.IsBound())

	cp := st.Clone()
	assert.False(t, cp.IsPrepared())
	assert.False(t, cp.IsBound())
	assert.NotEqual(t, st.ID(), cp.ID())
	assert.Equal(t, st.SQL(), cp.SQL())
	_, err = cp.Resource()
	assert.ErrorIs(t, err, ErrNotPrepared)

	assert.Equal(t, st.ParameterContainer().Entries(), cp.ParameterContainer().Entries())
	assert.NotSame(t, st.ParameterContainer(), cp.ParameterContainer())
	cp.ParameterContainer().Set("code", "XYZ")
	v, _ := st.ParameterContainer().Get("code")
	assert.Equal(t, "ABC", v)

	_, err = cp.Execute(context.Background(), nil, In, Out)
	require.NoError(t, err)
	assert.Len(t, conn.prepared, 2)
	assert.Equal(t, "XYZ", conn.stmt.lastArgs(t)[0])
}

func TestUnsupportedParameters(t *testing.T) {
	conn := newFakeConn("oracle")
	d, _ := newTestDriver(t, conn, Options{})
	st := d.CreateStatement("SELECT ?")

	_, err := st.Execute(context.Background(), "not a parameter set")
	assert.ErrorIs(t, err, ErrUnsupportedParameters)
}

func TestAttachedContainerIsMergedInto(t *testing.T) {
	conn := newFakeConn("oracle")
	d, _ := newTestDriver(t, conn, Options{})
	st := d.CreateStatement("SELECT * FROM t WHERE a = ? AND b = ?")

	base := params.New()
	base.Set("a", "x")
	st.SetParameterContainer(base)

	extra := params.New()
	extra.Set("b", true)
	_, err := st.Execute(context.Background(), extra)
	require.NoError(t, err)

	assert.Same(t, base, st.ParameterContainer())
	assert.Equal(t, []interface{}{"x", true}, conn.stmt.lastArgs(t))
}

type recordingFactory struct {
	native sql.Result
	st     *Statement
}

func (f *recordingFactory) CreateResult(native sql.Result, st *Statement) (sql.Result, error) {
	f.native = native
	f.st = st
	return native, nil
}

func TestResultFactoryReceivesHandle(t *testing.T) {
	conn := newFakeConn("oracle")
	d, _ := newTestDriver(t, conn, Options{})
	factory := &recordingFactory{}
	d.SetResultFactory(factory)
	st := d.CreateStatement("DELETE FROM t")

	res, err := st.Execute(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, driver.RowsAffected(1), res)
	assert.Same(t, st, factory.st)
}

type cursorRows struct {
	rows [][]driver.Value
}

func (r *cursorRows) Columns() []string { return []string{"NAME"} }
func (r *cursorRows) Close() error { return nil }

func (r *cursorRows) Next(dest []driver.Value) error {
	if len(r.rows) == 0 {
		return io.EOF
	}
	copy(dest, r.rows[0])
	r.rows = r.rows[1:]
	return nil
}

func TestResultScanCursor(t *testing.T) {
	conn := newFakeConn("sqlite3")
	conn.stmt.onExec = func(args []interface{}) {
		out := args[0].(sql.Out)
		*(out.Dest.(*interface{})) = &cursorRows{rows: [][]driver.Value{{"ANA"}, {"LUIS"}}}
	}
	d, _ := newTestDriver(t, conn, Options{Schema: "APP"})
	st := d.CreateStatement("CALL LISTCUST(?)")

	c := params.New()
	c.SetWithErratum("rows", nil, params.ErratumCursor)
	res, err := st.Execute(context.Background(), c, Out)
	require.NoError(t, err)

	r, ok := res.(*Result)
	require.True(t, ok)
	assert.Same(t, st, r.Statement())
	var got []struct {
		Name string `db:"NAME"`
	}
	require.NoError(t, r.ScanCursor("rows", &got))
	require.Len(t, got, 2)
	assert.Equal(t, "LUIS", got[1].Name)

	assert.Error(t, r.ScanCursor("missing", &got))
}
