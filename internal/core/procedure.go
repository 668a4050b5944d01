package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/ignaciocaff/procstmt/pkg/params"
	"github.com/ignaciocaff/procstmt/pkg/statement"
)

const cursorParam = "cursor"

// ExecuteStoreProcedure calls spName with a ref cursor as its first argument followed by args, and maps the
// cursor rows into results (a pointer to a struct or to a slice of structs).
func ExecuteStoreProcedure(d *statement.Driver, ctx context.Context, spName string, results interface{}, args ...interface{}) error {
	if d == nil {
		return ErrNotConfigured
	}
	st := d.CreateStatement(BuildCallText(spName, len(args)))
	defer st.Close()

	container := params.New()
	container.SetWithErratum(cursorParam, nil, params.ErratumCursor)
	directions := make([]statement.Direction, len(args)+1)
	directions[0] = statement.Out
	for i, arg := range args {
		container.Set(fmt.Sprintf("arg%d", i+1), arg)
		directions[i+1] = statement.In
	}

	res, err := st.Execute(ctx, container, directions...)
	if err != nil {
		return fmt.Errorf("error executing %s: %w", spName, err)
	}
	r, ok := res.(*statement.Result)
	if !ok {
		return fmt.Errorf("unexpected result type %T", res)
	}
	return r.ScanCursor(cursorParam, results)
}

// BuildCallText renders `CALL NAME(:1, ..., :n)` for a cursor plus argCount arguments.
func BuildCallText(spName string, argCount int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CALL %s(:1", spName)
	for i := 0; i < argCount; i++ {
		fmt.Fprintf(&b, ", :%d", i+2)
	}
	b.WriteString(")")
	return b.String()
}

