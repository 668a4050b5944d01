package statement

import (
	"database/sql"
	"fmt"

	"github.com/ignaciocaff/procstmt/internal/cursor"
)

// Result is the default execution result. It exposes the native result and the values the backend wrote into
// output parameters.
type Result struct {
	sql.Result
	statement *Statement
	outputs   map[string]interface{}
	names     []string
}

func newResult(native sql.Result, st *Statement) *Result {
	r := &Result{
		Result:    native,
		statement: st,
		outputs:   make(map[string]interface{}, len(st.outputs)),
	}
	for _, o := range st.outputs {
		r.outputs[o.name] = o.read()
		r.names = append(r.names, o.name)
	}
	return r
}

func (r *Result) Statement() *Statement {
	return r.statement
}

// Output returns the value written back into the named output parameter.
func (r *Result) Output(name string) (interface{}, bool) {
	v, ok := r.outputs[name]
	return v, ok
}

// OutputNames lists output parameters in binding order.
func (r *Result) OutputNames() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

func (r *Result) Outputs() map[string]interface{} {
	out := make(map[string]interface{}, len(r.outputs))
	for k, v := range r.outputs {
		out[k] = v
	}
	return out
}

// ScanCursor maps the rows of the named cursor output into dest, a pointer to a struct or to a slice of structs.
// Fields match columns by their `db` tag.
func (r *Result) ScanCursor(name string, dest interface{}) error {
	v, ok := r.outputs[name]
	if !ok {
		return fmt.Errorf("no output parameter %q", name)
	}
	return cursor.Scan(v, dest)
}
