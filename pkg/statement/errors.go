package statement

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrAlreadyPrepared is returned when Prepare runs twice on one statement.
	ErrAlreadyPrepared = errors.New("statement has been prepared already")

	// ErrSchemaUnresolved is returned when a procedure call is prepared without a catalog schema.
	ErrSchemaUnresolved = errors.New("no catalog schema configured for procedure lookup")

	// ErrNoMetadata is returned when an output position has no catalog entry.
	ErrNoMetadata = errors.New("no procedure metadata for position")

	// ErrCursorInput is returned when a cursor parameter is bound as input.
	ErrCursorInput = errors.New("cursor parameters can only be bound as output")

	// ErrUnsupportedParameters is returned for parameter arguments Execute cannot merge.
	ErrUnsupportedParameters = errors.New("unsupported parameters argument")

	// ErrNotPrepared is returned by operations that need the native handle.
	ErrNotPrepared = errors.New("statement is not prepared")
)

// PrepareError is a rejected prepare or a failed procedure metadata lookup.
type PrepareError struct {
	SQL       string
	Procedure string
	Cause     error
}

func (e *PrepareError) Error() string {
	if e.Procedure != "" {
		return fmt.Sprintf("prepare %s: %v", e.Procedure, e.Cause)
	}
	return fmt.Sprintf("prepare: %v", e.Cause)
}

func (e *PrepareError) Unwrap() error {
	return e.Cause
}

// InvalidQueryError is a failed native execution.
type InvalidQueryError struct {
	SQL   string
	Info  []string
	Cause error
}

func (e *InvalidQueryError) Error() string {
	return fmt.Sprintf("statement could not be executed (%s)", strings.Join(e.Info, " - "))
}

func (e *InvalidQueryError) Unwrap() error {
	return e.Cause
}

// BindError is a parameter that could not be bound.
type BindError struct {
	Procedure string
	Position  int
	Name      string
	Cause     error
}

func (e *BindError) Error() string {
	if e.Procedure != "" {
		return fmt.Sprintf("bind %s position %d (%s): %v", e.Procedure, e.Position, e.Name, e.Cause)
	}
	return fmt.Sprintf("bind position %d (%s): %v", e.Position, e.Name, e.Cause)
}

func (e *BindError) Unwrap() error {
	return e.Cause
}
