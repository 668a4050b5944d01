package statement

import (
	"fmt"
	"strconv"

	"github.com/ignaciocaff/procstmt/pkg/params"
)

// mergeParameters attaches and fills the parameter container. Any non-nil parameters argument clears the
// bound flag so the new values are bound on this execution.
func (s *Statement) mergeParameters(parameters interface{}) error {
	if s.container == nil {
		if c, ok := parameters.(*params.Container); ok && c != nil {
			s.container = c
			s.bound = false
			return nil
		}
		s.container = params.New()
	}

	switch p := parameters.(type) {
	case nil:
		return nil
	case *params.Container:
		if p == nil {
			return nil
		}
		if p != s.container {
			s.container.Merge(p)
		}
	case map[string]interface{}:
		s.container.SetFromMap(p)
	case []interface{}:
		s.container.SetFromSlice(p)
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedParameters, parameters)
	}
	s.bound = false
	return nil
}

// bindParameters turns the container into driver arguments. Directions are only honoured for procedure calls.
func (s *Statement) bindParameters(directions []Direction) error {
	if s.container == nil || s.container.Count() == 0 || s.bound {
		return nil
	}

	useDirections := len(directions) > 0
	if useDirections && s.procedure == "" {
		s.logger.Debug("directions ignored for non-procedure statement", "statement", s.id)
		useDirections = false
	}

	entries := s.container.Entries()
	args := make([]interface{}, len(entries))
	var outputs []output

	for i, e := range entries {
		position := i + 1
		kind := InferKind(e.Value, e.Erratum)

		if useDirections && directionAt(directions, i).IsOutput() {
			size, err := s.outputSize(position, kind)
			if err != nil {
				return s.bindError(position, e.Name, err)
			}
			arg, read, err := s.flavor.Output(kind, e.Value, size)
			if err != nil {
				return s.bindError(position, e.Name, err)
			}
			s.logger.Debug("bound input-output parameter",
				"statement", s.id, "position", position, "kind", kind, "size", size)
			args[i] = arg
			outputs = append(outputs, output{position: position, name: e.Name, read: read})
			continue
		}

		arg, err := s.flavor.Input(kind, e.Value)
		if err != nil {
			return s.bindError(position, e.Name, err)
		}
		args[i] = arg
	}

	s.args = args
	s.outputs = outputs
	s.bound = true
	return nil
}

// outputSize is the buffer length for an output position; 0 leaves sizing to the driver.
// Character columns get their effective length plus one, other types only through the override table.
// A zero or unknown character length is left to the driver.
func (s *Statement) outputSize(position int, kind Kind) (int, error) {
	if kind == Cursor {
		return 0, nil
	}
	colType, ok := s.colTypes[position]
	if !ok {
		return 0, ErrNoMetadata
	}
	if hasType(s.catalog.CharacterTypes, colType) {
		length := s.colLengths[position]
		if !length.Valid || length.Int64 <= 0 {
			return 0, nil
		}
		return int(length.Int64) + 1, nil
	}
	if n, ok := s.overrides.Lookup(s.procedure, position); ok {
		return n, nil
	}
	return 0, nil
}

func (s *Statement) bindError(position int, name string, err error) error {
	return &BindError{Procedure: s.procedure, Position: position, Name: name, Cause: err}
}

// readOutputs copies values written back by the backend into the container and, for map and slice
// arguments, into the caller's argument.
func (s *Statement) readOutputs(parameters interface{}) {
	for _, o := range s.outputs {
		v := o.read()
		s.container.Set(o.name, v)
		switch p := parameters.(type) {
		case map[string]interface{}:
			p[o.name] = v
		case []interface{}:
			if idx, err := strconv.Atoi(o.name); err == nil && idx >= 1 && idx <= len(p) {
				p[idx-1] = v
			}
		}
	}
}
