package pkg

import (
	"github.com/ignaciocaff/procstmt/internal/core"
)

// Execute runs procedureName through the driver and context registered with procstmt.Configure.
func Execute(procedureName string, result interface{}, args ...interface{}) error {
	return core.ExecuteStoreProcedure(core.GetDriver(), core.GetContext(), procedureName, result, args...)
}
