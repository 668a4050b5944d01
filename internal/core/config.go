package core

import (
	"context"
	"errors"

	"github.com/ignaciocaff/procstmt/pkg/statement"
)

var (
	driver     *statement.Driver
	appContext context.Context
)

// ErrNotConfigured is returned by the package-level API before Configure runs.
var ErrNotConfigured = errors.New("procstmt: driver and/or context not configured")

func Configure(d *statement.Driver, ctx context.Context) error {
	if d == nil || ctx == nil {
		return ErrNotConfigured
	}
	driver = d
	appContext = ctx
	return nil
}

func GetDriver() *statement.Driver {
	return driver
}

func GetContext() context.Context {
	return appContext
}
