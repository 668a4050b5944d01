package statement

import (
	"context"
	"database/sql"
	"fmt"
)

// Execute prepares the statement if needed, merges parameters, binds them and runs the statement.
//
// parameters may be nil, a *params.Container, a map[string]interface{} merged by name or a []interface{}
// merged by position. directions marks output positions of a procedure call; with none, every parameter is
// input only. Output values are read back into the container and into map or slice arguments.
func (s *Statement) Execute(ctx context.Context, parameters interface{}, directions ...Direction) (sql.Result, error) {
	if !s.prepared {
		if err := s.Prepare(ctx); err != nil {
			return nil, err
		}
	}
	if s.resource == nil {
		return nil, ErrNotPrepared
	}

	if err := s.mergeParameters(parameters); err != nil {
		return nil, err
	}
	if err := s.bindParameters(directions); err != nil {
		return nil, err
	}

	native, err := s.run(ctx)
	if err != nil {
		return nil, err
	}
	s.readOutputs(parameters)

	return s.results.CreateResult(native, s)
}

func (s *Statement) run(ctx context.Context) (sql.Result, error) {
	if s.profiler != nil {
		s.profiler.ProfilerStart(s)
		defer s.profiler.ProfilerFinish()
	}

	res, err := s.resource.ExecContext(ctx, s.args...)
	if err != nil {
		s.logger.Debug("statement execution failed", "statement", s.id, "procedure", s.procedure, "err", err)
		return nil, &InvalidQueryError{SQL: s.sql, Info: s.errorInfo(err), Cause: err}
	}
	return res, nil
}

// errorInfo lists the procedure, the number of bound positions and the driver's own error fields.
func (s *Statement) errorInfo(err error) []string {
	var info []string
	if s.procedure != "" {
		info = append(info, s.procedure)
	}
	info = append(info, fmt.Sprintf("%d parameters", len(s.args)))
	return append(info, s.flavor.ErrorInfo(err)...)
}
