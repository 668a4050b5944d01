package godrorflavor

import (
	"database/sql"
	"errors"
	"io"
	"testing"

	"github.com/godror/godror"
	"github.com/ignaciocaff/procstmt/pkg/statement"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisteredForGodror(t *testing.T) {
	f, err := statement.LookupFlavor("", "godror")
	require.NoError(t, err)
	assert.Equal(t, "godror", f.Name())

	c, ok := statement.CatalogForDriver("", "godror")
	require.True(t, ok)
	assert.Equal(t, "all_arguments", c.Name)
}

func TestClobInput(t *testing.T) {
	arg, err := Flavor{}.Input(statement.LargeObject, "document body")
	require.NoError(t, err)

	lob, ok := arg.(godror.Lob)
	require.True(t, ok)
	assert.True(t, lob.IsClob)
	body, err := io.ReadAll(lob)
	require.NoError(t, err)
	assert.Equal(t, "document body", string(body))
}

func TestPlainInputDelegates(t *testing.T) {
	arg, err := Flavor{}.Input(statement.Integer, "12")
	require.NoError(t, err)
	assert.Equal(t, int64(12), arg)
}

func TestOutputIsInOut(t *testing.T) {
	arg, read, err := Flavor{}.Output(statement.Text, "seed", 11)
	require.NoError(t, err)

	out, ok := arg.(sql.Out)
	require.True(t, ok)
	assert.True(t, out.In)
	*out.Dest.(*sql.NullString) = sql.NullString{String: "filled", Valid: true}
	assert.Equal(t, "filled", read())
}

func TestCursorOutput(t *testing.T) {
	arg, read, err := Flavor{}.Output(statement.Cursor, nil, 0)
	require.NoError(t, err)
	out := arg.(sql.Out)
	assert.False(t, out.In)
	assert.Nil(t, read())
}

func TestErrorInfoFallsBack(t *testing.T) {
	assert.Equal(t, []string{"no oracle here"}, Flavor{}.ErrorInfo(errors.New("no oracle here")))
}
