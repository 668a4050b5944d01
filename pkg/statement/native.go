package statement

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

func init() {
	// go-ora registers itself as "oracle", which sqlx does not know.
	sqlx.BindDriver("oracle", sqlx.NAMED)
}

// Querier runs the catalog query.
type Querier interface {
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	Rebind(query string) string
}

// NativeStmt is a prepared handle owned by one Statement.
type NativeStmt interface {
	ExecContext(ctx context.Context, args ...interface{}) (sql.Result, error)
	Close() error
}

// Conn is the connection a Statement prepares against.
type Conn interface {
	Querier
	Prepare(ctx context.Context, query string) (NativeStmt, error)
	DriverName() string
}

// Preparer is satisfied by *sqlx.DB and *sqlx.Tx.
type Preparer interface {
	Querier
	PreparexContext(ctx context.Context, query string) (*sqlx.Stmt, error)
}

type sqlxConn struct {
	db         Preparer
	driverName string
}

// NewConn adapts a sqlx handle. driverName picks the default flavor and is usually db.DriverName().
func NewConn(db Preparer, driverName string) Conn {
	return &sqlxConn{db: db, driverName: driverName}
}

// NewDBConn adapts a *sqlx.DB.
func NewDBConn(db *sqlx.DB) Conn {
	return NewConn(db, db.DriverName())
}

func (c *sqlxConn) Prepare(ctx context.Context, query string) (NativeStmt, error) {
	stmt, err := c.db.PreparexContext(ctx, query)
	if err != nil {
		return nil, err
	}
	return stmt, nil
}

func (c *sqlxConn) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return c.db.SelectContext(ctx, dest, query, args...)
}

func (c *sqlxConn) Rebind(query string) string {
	return c.db.Rebind(query)
}

func (c *sqlxConn) DriverName() string {
	return c.driverName
}
