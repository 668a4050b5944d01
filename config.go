package procstmt

import (
	"context"

	"github.com/ignaciocaff/procstmt/internal/core"
	"github.com/ignaciocaff/procstmt/pkg/statement"
	"github.com/jmoiron/sqlx"
)

// NewDriver builds a statement driver over db. The binding flavor defaults to the one registered for
// db.DriverName() when options.Flavor is empty.
func NewDriver(db *sqlx.DB, options statement.Options) (*statement.Driver, error) {
	return statement.NewDriver(statement.NewDBConn(db), options)
}

// Configure sets up the package-level driver and context used by pkg.Execute.
func Configure(dbConn *sqlx.DB, ctx context.Context, options statement.Options) error {
	if dbConn == nil {
		return core.ErrNotConfigured
	}
	d, err := NewDriver(dbConn, options)
	if err != nil {
		return err
	}
	return core.Configure(d, ctx)
}
