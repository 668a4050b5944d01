// Package params holds the ordered parameter container consumed by statements.
package params

import (
	"sort"
	"strconv"
)

// Erratum is an explicit type override recorded for one parameter.
type Erratum int

const (
	// ErratumNone means the wire type is inferred from the value.
	ErratumNone Erratum = iota
	ErratumInteger
	ErratumNull
	ErratumLOB
	// ErratumCursor marks a ref-cursor output parameter.
	ErratumCursor
)

func (e Erratum) String() string {
	switch e {
	case ErratumInteger:
		return "integer"
	case ErratumNull:
		return "null"
	case ErratumLOB:
		return "lob"
	case ErratumCursor:
		return "cursor"
	default:
		return "none"
	}
}

// ParseErratum maps the names used in configuration and on the command line.
func ParseErratum(s string) (Erratum, bool) {
	switch s {
	case "int", "integer":
		return ErratumInteger, true
	case "null":
		return ErratumNull, true
	case "lob", "blob", "clob":
		return ErratumLOB, true
	case "cursor", "refcursor":
		return ErratumCursor, true
	}
	return ErratumNone, false
}

// Entry is one named parameter.
type Entry struct {
	Name    string
	Value   interface{}
	Erratum Erratum
}

// Container is an insertion-ordered name→value map. The Nth entry binds to the Nth placeholder.
type Container struct {
	names  []string
	values map[string]interface{}
	errata map[string]Erratum
}

// New returns an empty container.
func New() *Container {
	return &Container{
		values: make(map[string]interface{}),
		errata: make(map[string]Erratum),
	}
}

// Set stores value under name, keeping the original position of an existing name.
func (c *Container) Set(name string, value interface{}) {
	if _, ok := c.values[name]; !ok {
		c.names = append(c.names, name)
	}
	c.values[name] = value
}

// SetWithErratum stores value and records its type override.
func (c *Container) SetWithErratum(name string, value interface{}, e Erratum) {
	c.Set(name, value)
	c.SetErratum(name, e)
}

// SetErratum records a type override for name.
func (c *Container) SetErratum(name string, e Erratum) {
	if e == ErratumNone {
		delete(c.errata, name)
		return
	}
	c.errata[name] = e
}

// SetFromMap merges m by name. Names not yet present are appended in sorted order.
func (c *Container) SetFromMap(m map[string]interface{}) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		c.Set(k, m[k])
	}
}

// SetFromSlice merges values positionally under the names "1".."n".
func (c *Container) SetFromSlice(values []interface{}) {
	for i, v := range values {
		c.Set(PositionName(i+1), v)
	}
}

// Merge copies every entry of other, errata included.
func (c *Container) Merge(other *Container) {
	if other == nil {
		return
	}
	for _, e := range other.Entries() {
		c.SetWithErratum(e.Name, e.Value, e.Erratum)
	}
}

func (c *Container) Get(name string) (interface{}, bool) {
	v, ok := c.values[name]
	return v, ok
}

func (c *Container) Has(name string) bool {
	_, ok := c.values[name]
	return ok
}

// Erratum returns the type override for name, if any.
func (c *Container) Erratum(name string) (Erratum, bool) {
	e, ok := c.errata[name]
	return e, ok
}

func (c *Container) Count() int {
	return len(c.names)
}

// Names returns the parameter names in binding order.
func (c *Container) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Entries returns a snapshot of the parameters in binding order.
func (c *Container) Entries() []Entry {
	out := make([]Entry, len(c.names))
	for i, n := range c.names {
		out[i] = Entry{Name: n, Value: c.values[n], Erratum: c.errata[n]}
	}
	return out
}

// NamedMap returns the values keyed by name.
func (c *Container) NamedMap() map[string]interface{} {
	out := make(map[string]interface{}, len(c.values))
	for k, v := range c.values {
		out[k] = v
	}
	return out
}

// Clone returns an independent copy. Values themselves are copied shallowly.
func (c *Container) Clone() *Container {
	cp := New()
	cp.names = append(cp.names, c.names...)
	for k, v := range c.values {
		cp.values[k] = v
	}
	for k, e := range c.errata {
		cp.errata[k] = e
	}
	return cp
}

// PositionName is the name given to the parameter at a 1-based position by SetFromSlice.
func PositionName(position int) string {
	return strconv.Itoa(position)
}
