package statement

import "github.com/ignaciocaff/procstmt/pkg/params"

// Kind is the wire type a parameter is bound with.
type Kind int

const (
	Text Kind = iota
	Boolean
	Integer
	Null
	LargeObject
	Cursor
)

func (k Kind) String() string {
	switch k {
	case Boolean:
		return "boolean"
	case Integer:
		return "integer"
	case Null:
		return "null"
	case LargeObject:
		return "lob"
	case Cursor:
		return "cursor"
	default:
		return "text"
	}
}

// InferKind resolves the wire type of value. A recorded erratum always wins over the value.
func InferKind(value interface{}, erratum params.Erratum) Kind {
	switch erratum {
	case params.ErratumInteger:
		return Integer
	case params.ErratumNull:
		return Null
	case params.ErratumLOB:
		return LargeObject
	case params.ErratumCursor:
		return Cursor
	}
	switch value.(type) {
	case bool:
		return Boolean
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return Integer
	default:
		return Text
	}
}
