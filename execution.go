package procstmt

import (
	"context"

	"github.com/ignaciocaff/procstmt/internal/core"
	"github.com/ignaciocaff/procstmt/pkg/statement"
)

// Execute calls procedureName with a ref cursor first and args after it, and maps the cursor rows into result,
// a pointer to a struct or to a slice of structs.
func Execute(ctx context.Context, d *statement.Driver, procedureName string, result interface{}, args ...interface{}) error {
	return core.ExecuteStoreProcedure(d, ctx, procedureName, result, args...)
}
