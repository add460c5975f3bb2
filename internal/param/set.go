package param

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
	"strings"
	"unicode/utf8"
)

// Decl is anything that can appear in a test's parameter list: a named
// Parameter or a row literal for one of the implicit row parameters.
type Decl interface {
	declare(b *builder)
}

type builder struct {
	params     []Parameter
	intRows    *RowParam[int64]
	uintRows   *RowParam[uint64]
	stringRows *RowParam[string]
}

func (b *builder) add(p Parameter) {
	b.params = append(b.params, p)
}

// Set is an ordered collection of parameters. Order is significant: the
// first parameter varies fastest during enumeration.
type Set struct {
	params []Parameter
	index  map[string]int
}

// Build assembles a Set from declarations. Named parameters keep their
// declaration order; the implicit int_row, uint_row and string_row
// parameters are appended after them, populated or not.
func Build(decls ...Decl) (*Set, error) {
	b := &builder{
		intRows:    NewRow[int64](IntRowName),
		uintRows:   NewRow[uint64](UintRowName),
		stringRows: NewRow[string](StringRowName),
	}
	for _, d := range decls {
		if d == nil {
			return nil, fmt.Errorf("nil parameter declaration")
		}
		d.declare(b)
	}
	b.params = append(b.params, b.intRows, b.uintRows, b.stringRows)
	return NewSet(b.params...)
}

// NewSet creates a Set from already-constructed parameters and validates
// them: names must be unique, each parameter must be valid, and the total
// configuration count must fit in an int64.
func NewSet(params ...Parameter) (*Set, error) {
	s := &Set{
		params: make([]Parameter, 0, len(params)),
		index:  make(map[string]int, len(params)),
	}
	var errs []error
	for _, p := range params {
		if p == nil {
			errs = append(errs, fmt.Errorf("nil parameter"))
			continue
		}
		if err := p.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		if _, dup := s.index[p.Name()]; dup {
			errs = append(errs, &DuplicateNameError{Name: p.Name()})
			continue
		}
		s.index[p.Name()] = len(s.params)
		s.params = append(s.params, p)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if _, ok := s.count(); !ok {
		return nil, ErrTooManyConfigurations
	}
	s.Reset()
	return s, nil
}

// ErrTooManyConfigurations is returned when the product of parameter
// counts does not fit in an int64.
var ErrTooManyConfigurations = errors.New("configuration count overflows int64")

// DuplicateNameError is returned when two parameters share a name.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("duplicate parameter name %q", e.Name)
}

// Len returns the number of parameters, including unused ones.
func (s *Set) Len() int { return len(s.params) }

// Params returns the parameters in declaration order.
func (s *Set) Params() []Parameter {
	out := make([]Parameter, len(s.params))
	copy(out, s.params)
	return out
}

// Lookup finds a parameter by name.
func (s *Set) Lookup(name string) (Parameter, bool) {
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.params[i], true
}

// Count returns the total number of configurations: the product of
// max(Count(), 1) over every parameter.
func (s *Set) Count() int64 {
	n, _ := s.count()
	return n
}

func (s *Set) count() (int64, bool) {
	var total uint64 = 1
	for _, p := range s.params {
		c := p.Count()
		if c == 0 {
			continue
		}
		hi, lo := bits.Mul64(total, c)
		if hi != 0 || lo > math.MaxInt64 {
			return 0, false
		}
		total = lo
	}
	return int64(total), true
}

// Reset moves every parameter back to its first value.
func (s *Set) Reset() {
	for _, p := range s.params {
		p.Reset()
	}
}

// Advance moves the set to its next configuration. The first parameter
// that can advance does so and every parameter before it is reset.
// Advance returns false once every configuration has been visited.
func (s *Set) Advance() bool {
	for i, p := range s.params {
		if p.Advance() {
			for _, earlier := range s.params[:i] {
				earlier.Reset()
			}
			return true
		}
	}
	return false
}

// Values snapshots the current value of every used parameter.
func (s *Set) Values() map[string]any {
	out := make(map[string]any, len(s.params))
	for _, p := range s.params {
		if p.Count() == 0 {
			continue
		}
		out[p.Name()] = p.Value()
	}
	return out
}

// String renders the current configuration as "name=value, ..." over the
// used parameters, truncated to MaxConfigurationLength-1 bytes.
func (s *Set) String() string {
	var b strings.Builder
	first := true
	for _, p := range s.params {
		if p.Count() == 0 {
			continue
		}
		if !first {
			b.WriteString(", ")
		}
		first = false
		b.WriteString(p.Name())
		b.WriteByte('=')
		b.WriteString(p.String())
		if b.Len() >= MaxConfigurationLength {
			break
		}
	}
	return Truncate(b.String(), MaxConfigurationLength-1)
}

// Truncate shortens s to at most n bytes without splitting a UTF-8
// sequence.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 0 {
		return ""
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
