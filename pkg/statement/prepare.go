package statement

import (
	"context"
	"database/sql"
)

// Prepare prepares the statement's own SQL.
func (s *Statement) Prepare(ctx context.Context) error {
	return s.PrepareSQL(ctx, s.sql)
}

// PrepareSQL prepares query, which replaces the stored SQL. Procedure calls have their parameter metadata
// resolved first; a failed lookup fails the preparation.
func (s *Statement) PrepareSQL(ctx context.Context, query string) error {
	if s.prepared {
		return ErrAlreadyPrepared
	}

	if name, ok := ProcedureName(query); ok {
		md, err := s.resolver.Resolve(ctx, s.conn, name)
		if err != nil {
			return &PrepareError{SQL: query, Procedure: name, Cause: err}
		}
		s.applyMetadata(md)
		s.logger.Debug("procedure metadata resolved",
			"statement", s.id, "procedure", name, "schema", s.resolver.Schema(), "positions", len(md.Columns))
	}

	stmt, err := s.conn.Prepare(ctx, query)
	if err != nil {
		return &PrepareError{SQL: query, Procedure: s.procedure, Cause: err}
	}
	s.sql = query
	s.resource = stmt
	s.prepared = true
	return nil
}

func (s *Statement) applyMetadata(md *Metadata) {
	s.procedure = md.Procedure
	s.colLengths = make(map[int]sql.NullInt64, len(md.Columns))
	s.colTypes = make(map[int]string, len(md.Columns))
	for pos, col := range md.Columns {
		s.colLengths[pos] = col.Length
		s.colTypes[pos] = col.DataType
	}
}
