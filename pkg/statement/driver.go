package statement

import (
	"database/sql"
	"fmt"

	"github.com/ignaciocaff/procstmt/pkg/logging"
)

// Options configures how statements resolve procedure metadata and bind parameters.
type Options struct {
	// Schema is the catalog schema procedure metadata is looked up in.
	Schema    string
	// Catalog names a catalog preset; empty picks the default for the connection's driver.
	Catalog   string
	Overrides Overrides
	// Flavor names the binding flavor; empty picks the default for the connection's driver.
	Flavor    string
}

// Driver creates statements sharing one connection and configuration. It is also the default ResultFactory.
type Driver struct {
	conn     Conn
	catalog  Catalog
	flavor   Flavor
	options  Options
	profiler Profiler
	results  ResultFactory
	logger   *logging.Logger
}

func NewDriver(conn Conn, options Options) (*Driver, error) {
	catalog, ok := CatalogForDriver(options.Catalog, conn.DriverName())
	if !ok {
		return nil, fmt.Errorf("unknown catalog %q", options.Catalog)
	}
	flavor, err := LookupFlavor(options.Flavor, conn.DriverName())
	if err != nil {
		return nil, err
	}
	d := &Driver{
		conn:    conn,
		catalog: catalog,
		flavor:  flavor,
		options: options,
		logger:  logging.GetLogger(),
	}
	d.results = d
	return d, nil
}

func (d *Driver) SetProfiler(p Profiler) *Driver {
	d.profiler = p
	return d
}

func (d *Driver) Profiler() Profiler {
	return d.profiler
}

func (d *Driver) SetResultFactory(f ResultFactory) *Driver {
	d.results = f
	return d
}

func (d *Driver) SetLogger(l *logging.Logger) *Driver {
	d.logger = l
	return d
}

func (d *Driver) Flavor() Flavor {
	return d.flavor
}

func (d *Driver) Catalog() Catalog {
	return d.catalog
}

func (d *Driver) Options() Options {
	return d.options
}

// CreateStatement returns an unprepared statement for query.
func (d *Driver) CreateStatement(query string) *Statement {
	st := newStatement(d)
	st.sql = query
	return st
}

// CreateResult wraps an executed handle into a *Result carrying the statement's output values.
func (d *Driver) CreateResult(native sql.Result, st *Statement) (sql.Result, error) {
	return newResult(native, st), nil
}
