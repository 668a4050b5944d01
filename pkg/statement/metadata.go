package statement

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
)

var callPattern = regexp.MustCompile(`CALL ([^(]+)\(`)

// ProcedureName detects a `CALL name(` invocation and returns the uppercased name.
func ProcedureName(query string) (string, bool) {
	m := callPattern.FindStringSubmatch(query)
	if m == nil {
		return "", false
	}
	name := strings.TrimSpace(m[1])
	if name == "" {
		return "", false
	}
	return strings.ToUpper(name), true
}

// Column is the catalog view of one procedure parameter.
type Column struct {
	Position int
	// Length is the effective buffer length; invalid when the catalog has no bound for the type.
	Length   sql.NullInt64
	DataType string
}

// Metadata is what Resolve learned about a procedure.
type Metadata struct {
	Procedure string
	Columns   map[int]Column
}

type catalogRow struct {
	Position  int64         `db:"ORDINAL_POSITION"`
	CharLen   sql.NullInt64 `db:"CHARACTER_MAXIMUM_LENGTH"`
	DataType  string        `db:"DATA_TYPE"`
	Precision sql.NullInt64 `db:"NUMERIC_PRECISION"`
	Scale     sql.NullInt64 `db:"NUMERIC_SCALE"`
}

// Resolver reads procedure parameter metadata from a catalog.
type Resolver struct {
	schema  string
	catalog Catalog
}

func NewResolver(schema string, catalog Catalog) *Resolver {
	return &Resolver{schema: schema, catalog: catalog}
}

func (r *Resolver) Schema() string {
	return r.schema
}

// Resolve queries the catalog for procedure. Rows are keyed by their ordinal position, not by row order.
func (r *Resolver) Resolve(ctx context.Context, q Querier, procedure string) (*Metadata, error) {
	if r.schema == "" {
		return nil, ErrSchemaUnresolved
	}
	var rows []catalogRow
	if err := q.SelectContext(ctx, &rows, q.Rebind(r.catalog.Query), r.catalog.lookupArgs(procedure, r.schema)...); err != nil {
		return nil, fmt.Errorf("query %s catalog: %w", r.catalog.Name, err)
	}
	md := &Metadata{Procedure: procedure, Columns: make(map[int]Column, len(rows))}
	for _, row := range rows {
		pos := int(row.Position)
		md.Columns[pos] = Column{
			Position: pos,
			Length:   EffectiveLength(row.DataType, row.CharLen, row.Precision, row.Scale, r.catalog.NumericTypes),
			DataType: strings.TrimSpace(row.DataType),
		}
	}
	return md, nil
}

// EffectiveLength sizes a parameter buffer. Numeric types use their precision plus one when they carry a scale;
// everything else uses the character maximum length.
func EffectiveLength(dataType string, charLen, precision, scale sql.NullInt64, numericTypes []string) sql.NullInt64 {
	if !hasType(numericTypes, dataType) {
		return charLen
	}
	if !precision.Valid {
		return sql.NullInt64{}
	}
	n := precision.Int64
	if scale.Valid && scale.Int64 > 0 {
		n++
	}
	return sql.NullInt64{Int64: n, Valid: true}
}

func hasType(types []string, dataType string) bool {
	dataType = strings.ToUpper(strings.TrimSpace(dataType))
	for _, t := range types {
		if t == dataType {
			return true
		}
	}
	return false
}
