package statement

import (
	"fmt"
	"strings"
)

// Direction marks a parameter position as input only or output capable.
type Direction int

const (
	In Direction = iota
	Out
	InOut
)

func (d Direction) String() string {
	switch d {
	case Out:
		return "out"
	case InOut:
		return "inout"
	default:
		return "in"
	}
}

// IsOutput reports whether the backend may write into the parameter.
func (d Direction) IsOutput() bool {
	return d == Out || d == InOut
}

// ParseDirection accepts "in", "out" and "inout" in any case.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "in", "input":
		return In, nil
	case "out", "output":
		return Out, nil
	case "inout", "in_out", "input_output":
		return InOut, nil
	}
	return In, fmt.Errorf("unknown parameter direction %q", s)
}

// directionAt returns the direction for a 0-based index; anything past the end is input.
func directionAt(directions []Direction, idx int) Direction {
	if idx < len(directions) {
		return directions[idx]
	}
	return In
}
