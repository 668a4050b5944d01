package statement

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	ora "github.com/sijms/go-ora/v2"
	"github.com/sijms/go-ora/v2/network"
	"github.com/spf13/cast"
)

// Flavor renders bound values into driver arguments.
type Flavor interface {
	Name() string
	// Input returns the argument for an input-only parameter.
	Input(kind Kind, value interface{}) (interface{}, error)
	// Output returns the argument for an input-output parameter and a reader for the value written back.
	// size 0 leaves buffer sizing to the driver.
	Output(kind Kind, value interface{}, size int) (interface{}, func() interface{}, error)
	// ErrorInfo splits a native error into the fields reported by InvalidQueryError.
	ErrorInfo(err error) []string
}

var (
	flavorsMu     sync.RWMutex
	flavors       = map[string]Flavor{}
	driverFlavors = map[string]string{}
)

func init() {
	RegisterFlavor(GoOra{}, "oracle")
	RegisterFlavor(Generic{})
}

// RegisterFlavor makes f available by name and as the default for the given database/sql driver names.
func RegisterFlavor(f Flavor, driverNames ...string) {
	flavorsMu.Lock()
	defer flavorsMu.Unlock()
	flavors[f.Name()] = f
	for _, d := range driverNames {
		driverFlavors[d] = f.Name()
	}
}

// LookupFlavor resolves a flavor by name, falling back to the driver's default and then to generic.
func LookupFlavor(name, driverName string) (Flavor, error) {
	flavorsMu.RLock()
	defer flavorsMu.RUnlock()
	if name == "" {
		name = driverFlavors[driverName]
	}
	if name == "" {
		name = "generic"
	}
	f, ok := flavors[name]
	if !ok {
		return nil, fmt.Errorf("unknown binding flavor %q", name)
	}
	return f, nil
}

// GoOra binds through github.com/sijms/go-ora, which takes explicit output buffer sizes.
type GoOra struct{}

func (GoOra) Name() string { return "goora" }

func (GoOra) Input(kind Kind, value interface{}) (interface{}, error) {
	switch kind {
	case LargeObject:
		return goOraLob(value)
	default:
		return InputValue(kind, value)
	}
}

func (GoOra) Output(kind Kind, value interface{}, size int) (interface{}, func() interface{}, error) {
	switch kind {
	case Cursor:
		var cursor ora.RefCursor
		return sql.Out{Dest: &cursor}, func() interface{} { return &cursor }, nil
	case LargeObject:
		if b, ok := value.([]byte); ok {
			blob := ora.Blob{Data: b}
			return ora.Out{Dest: &blob, Size: size, In: true}, func() interface{} { return blob.Data }, nil
		}
		s, err := nullableString(value)
		if err != nil {
			return nil, nil, err
		}
		clob := ora.Clob{String: s.String, Valid: s.Valid}
		return ora.Out{Dest: &clob, Size: size, In: true}, func() interface{} {
			if !clob.Valid {
				return nil
			}
			return clob.String
		}, nil
	}
	dest, read, err := OutputDest(kind, value)
	if err != nil {
		return nil, nil, err
	}
	return ora.Out{Dest: dest, Size: size, In: true}, read, nil
}

func (GoOra) ErrorInfo(err error) []string {
	var oerr *network.OracleError
	if errors.As(err, &oerr) {
		return []string{fmt.Sprintf("ORA-%05d", oerr.ErrCode), oerr.ErrMsg}
	}
	return []string{err.Error()}
}

func goOraLob(value interface{}) (interface{}, error) {
	if b, ok := value.([]byte); ok {
		return ora.Blob{Data: b}, nil
	}
	s, err := nullableString(value)
	if err != nil {
		return nil, err
	}
	return ora.Clob{String: s.String, Valid: s.Valid}, nil
}

// Generic binds through plain database/sql values and sql.Out. Drivers size output buffers themselves.
type Generic struct{}

func (Generic) Name() string { return "generic" }

func (Generic) Input(kind Kind, value interface{}) (interface{}, error) {
	if kind == LargeObject {
		if b, ok := value.([]byte); ok {
			return b, nil
		}
		return InputValue(Text, value)
	}
	return InputValue(kind, value)
}

func (Generic) Output(kind Kind, value interface{}, _ int) (interface{}, func() interface{}, error) {
	if kind == LargeObject {
		kind = Text
	}
	dest, read, err := OutputDest(kind, value)
	if err != nil {
		return nil, nil, err
	}
	return sql.Out{Dest: dest, In: kind != Cursor}, read, nil
}

func (Generic) ErrorInfo(err error) []string {
	return []string{err.Error()}
}

// InputValue coerces value for an input binding of the given kind.
func InputValue(kind Kind, value interface{}) (interface{}, error) {
	switch kind {
	case Null:
		return nil, nil
	case Cursor:
		return nil, ErrCursorInput
	case Integer:
		if value == nil {
			return nil, nil
		}
		return cast.ToInt64E(value)
	case Boolean:
		return value, nil
	}
	switch v := value.(type) {
	case nil, string, []byte, time.Time:
		return v, nil
	default:
		return cast.ToStringE(v)
	}
}

// OutputDest allocates a typed destination for an input-output binding, seeded with value.
func OutputDest(kind Kind, value interface{}) (interface{}, func() interface{}, error) {
	switch kind {
	case Integer:
		var n sql.NullInt64
		if value != nil {
			i, err := cast.ToInt64E(value)
			if err != nil {
				return nil, nil, err
			}
			n = sql.NullInt64{Int64: i, Valid: true}
		}
		return &n, func() interface{} {
			if !n.Valid {
				return nil
			}
			return n.Int64
		}, nil
	case Boolean:
		b, err := cast.ToBoolE(value)
		if err != nil {
			return nil, nil, err
		}
		return &b, func() interface{} { return b }, nil
	case Null:
		var s sql.NullString
		return &s, func() interface{} { return readString(s) }, nil
	case Cursor:
		var rows interface{}
		return &rows, func() interface{} { return rows }, nil
	}
	s, err := nullableString(value)
	if err != nil {
		return nil, nil, err
	}
	return &s, func() interface{} { return readString(s) }, nil
}

func nullableString(value interface{}) (sql.NullString, error) {
	if value == nil {
		return sql.NullString{}, nil
	}
	s, err := cast.ToStringE(value)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: s, Valid: true}, nil
}

func readString(s sql.NullString) interface{} {
	if !s.Valid {
		return nil
	}
	return s.String
}
