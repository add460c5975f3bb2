package param

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxConfigurationLength bounds a rendered configuration string, counting
// the terminator slot of the fixed-size buffer it is printed into.
// Rendered strings are therefore at most MaxConfigurationLength-1 bytes.
const MaxConfigurationLength = 256

// Names of the implicit row parameters that IntRow, UintRow and StringRow
// declarations accumulate into.
const (
	IntRowName    = "int_row"
	UintRowName   = "uint_row"
	StringRowName = "string_row"
)

// Kind identifies the variant of a Parameter.
type Kind int

const (
	KindRow Kind = iota
	KindRange
	KindEnum
)

func (k Kind) String() string {
	switch k {
	case KindRow:
		return "row"
	case KindRange:
		return "range"
	case KindEnum:
		return "enum"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Elem is the set of value types a parameter can hold.
type Elem interface {
	int64 | uint64 | string
}

// Parameter is a named value source with a current position.
//
// Parameter is sealed: only RowParam, RangeParam and EnumParam implement it.
type Parameter interface {
	Decl

	// Name returns the parameter name, unique within a test.
	Name() string

	// Kind reports the variant.
	Kind() Kind

	// Count returns the number of values. Zero marks an unused parameter.
	Count() uint64

	// Value returns the current value: int64, uint64, string, or a fresh
	// copy of the current row ([]int64, []uint64, []string). An unused
	// row returns a nil slice of its element type.
	Value() any

	// String renders the current value losslessly.
	String() string

	// Advance moves to the next value. It returns false, without moving,
	// when the parameter is already at its last value.
	Advance() bool

	// Reset returns to the first value.
	Reset()

	// Validate reports declaration errors such as an empty enum.
	Validate() error

	sealed()
}

// formatElem renders a single value. Strings are quoted so that empty
// strings and separators stay visible in configuration strings.
func formatElem[E Elem](v E) string {
	switch x := any(v).(type) {
	case int64:
		return strconv.FormatInt(x, 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case string:
		return strconv.Quote(x)
	default:
		return "?"
	}
}

// formatTuple renders a row as {a, b, c}.
func formatTuple[E Elem](vals []E) string {
	var b strings.Builder
	b.WriteByte('{')
	for i, v := range vals {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(formatElem(v))
	}
	b.WriteByte('}')
	return b.String()
}

func typeName[E Elem]() string {
	var zero E
	switch any(zero).(type) {
	case int64:
		return "int64"
	case uint64:
		return "uint64"
	default:
		return "string"
	}
}
