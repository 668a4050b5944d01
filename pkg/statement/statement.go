package statement

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/ignaciocaff/procstmt/pkg/logging"
	"github.com/ignaciocaff/procstmt/pkg/params"
)

// Profiler receives timing hooks around each native execution.
type Profiler interface {
	ProfilerStart(st *Statement)
	ProfilerFinish()
}

// ResultFactory turns an executed handle into the value Execute returns.
type ResultFactory interface {
	CreateResult(native sql.Result, st *Statement) (sql.Result, error)
}

type output struct {
	position int
	name     string
	read     func() interface{}
}

// Statement is a single prepared statement with its parameter bookkeeping.
// It is owned by one caller and is not safe for concurrent use.
type Statement struct {
	id        uuid.UUID
	conn      Conn
	resolver  *Resolver
	catalog   Catalog
	flavor    Flavor
	overrides Overrides
	profiler  Profiler
	results   ResultFactory
	logger    *logging.Logger

	sql       string
	container *params.Container
	resource  NativeStmt
	prepared  bool
	bound     bool

	procedure  string
	colLengths map[int]sql.NullInt64
	colTypes   map[int]string

	args    []interface{}
	outputs []output
}

func newStatement(d *Driver) *Statement {
	return &Statement{
		id:         uuid.New(),
		conn:       d.conn,
		resolver:   NewResolver(d.options.Schema, d.catalog),
		catalog:    d.catalog,
		flavor:     d.flavor,
		overrides:  d.options.Overrides,
		profiler:   d.profiler,
		results:    d.results,
		logger:     d.logger,
		colLengths: make(map[int]sql.NullInt64),
		colTypes:   make(map[int]string),
	}
}

func (s *Statement) ID() uuid.UUID {
	return s.id
}

// SetSQL replaces the statement text. It fails once the statement is prepared.
func (s *Statement) SetSQL(query string) error {
	if s.prepared {
		return ErrAlreadyPrepared
	}
	s.sql = query
	return nil
}

func (s *Statement) SQL() string {
	return s.sql
}

func (s *Statement) SetParameterContainer(c *params.Container) *Statement {
	s.container = c
	s.bound = false
	return s
}

func (s *Statement) ParameterContainer() *params.Container {
	return s.container
}

func (s *Statement) SetProfiler(p Profiler) *Statement {
	s.profiler = p
	return s
}

func (s *Statement) Profiler() Profiler {
	return s.profiler
}

func (s *Statement) SetResultFactory(f ResultFactory) *Statement {
	s.results = f
	return s
}

func (s *Statement) IsPrepared() bool {
	return s.prepared
}

func (s *Statement) IsBound() bool {
	return s.bound
}

// Procedure is the uppercased procedure name, or "" when the SQL is not a procedure call.
func (s *Statement) Procedure() string {
	return s.procedure
}

// ColumnLengths returns the effective length per 1-based parameter position.
func (s *Statement) ColumnLengths() map[int]sql.NullInt64 {
	out := make(map[int]sql.NullInt64, len(s.colLengths))
	for k, v := range s.colLengths {
		out[k] = v
	}
	return out
}

// ColumnTypes returns the declared SQL type per 1-based parameter position.
func (s *Statement) ColumnTypes() map[int]string {
	out := make(map[int]string, len(s.colTypes))
	for k, v := range s.colTypes {
		out[k] = v
	}
	return out
}

// Resource returns the native prepared handle.
func (s *Statement) Resource() (NativeStmt, error) {
	if s.resource == nil {
		return nil, ErrNotPrepared
	}
	return s.resource, nil
}

// Close releases the native handle. A closed statement stays prepared and cannot be prepared again.
func (s *Statement) Close() error {
	if s.resource == nil {
		return nil
	}
	err := s.resource.Close()
	s.resource = nil
	return err
}

// Clone returns an unprepared, unbound copy with its own parameter container. The native handle is not shared.
func (s *Statement) Clone() *Statement {
	cp := *s
	cp.id = uuid.New()
	cp.prepared = false
	cp.bound = false
	cp.resource = nil
	cp.args = nil
	cp.outputs = nil
	cp.procedure = ""
	cp.colLengths = make(map[int]sql.NullInt64)
	cp.colTypes = make(map[int]string)
	if s.container != nil {
		cp.container = s.container.Clone()
	}
	return &cp
}
