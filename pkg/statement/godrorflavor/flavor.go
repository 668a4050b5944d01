// Package godrorflavor binds statement parameters for github.com/godror/godror. Importing it registers the
// flavor and the all_arguments catalog as the defaults for the "godror" driver.
package godrorflavor

import (
	"bytes"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/godror/godror"
	"github.com/ignaciocaff/procstmt/pkg/statement"
	"github.com/spf13/cast"
)

func init() {
	statement.RegisterFlavor(Flavor{}, "godror")
	statement.RegisterDriverCatalog("godror", "all_arguments")
}

// Flavor sizes nothing itself: godror allocates output buffers from the destination type.
type Flavor struct{}

func (Flavor) Name() string { return "godror" }

func (Flavor) Input(kind statement.Kind, value interface{}) (interface{}, error) {
	if kind != statement.LargeObject {
		return statement.InputValue(kind, value)
	}
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []byte:
		return godror.Lob{Reader: bytes.NewReader(v)}, nil
	default:
		s, err := cast.ToStringE(v)
		if err != nil {
			return nil, err
		}
		return godror.Lob{Reader: strings.NewReader(s), IsClob: true}, nil
	}
}

func (Flavor) Output(kind statement.Kind, value interface{}, _ int) (interface{}, func() interface{}, error) {
	switch kind {
	case statement.Cursor:
		var rows driver.Rows
		return sql.Out{Dest: &rows}, func() interface{} { return rows }, nil
	case statement.LargeObject:
		if b, ok := value.([]byte); ok {
			buf := append([]byte(nil), b...)
			return sql.Out{Dest: &buf, In: true}, func() interface{} { return buf }, nil
		}
		kind = statement.Text
	}
	dest, read, err := statement.OutputDest(kind, value)
	if err != nil {
		return nil, nil, err
	}
	return sql.Out{Dest: dest, In: true}, read, nil
}

func (Flavor) ErrorInfo(err error) []string {
	if oerr, ok := godror.AsOraErr(err); ok {
		return []string{fmt.Sprintf("ORA-%05d", oerr.Code()), oerr.Message()}
	}
	return []string{err.Error()}
}
