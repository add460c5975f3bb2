package param

import (
	"fmt"
	"slices"
)

// EnumParam is a parameter over an explicit, ordered list of values.
type EnumParam[E Elem] struct {
	name   string
	values []E
	index  int
}

// Enum declares a signed integer enum parameter.
func Enum(name string, values ...int64) *EnumParam[int64] {
	return newEnum(name, values)
}

// UnsignedEnum declares an unsigned integer enum parameter.
func UnsignedEnum(name string, values ...uint64) *EnumParam[uint64] {
	return newEnum(name, values)
}

// StringEnum declares a string enum parameter.
func StringEnum(name string, values ...string) *EnumParam[string] {
	return newEnum(name, values)
}

func newEnum[E Elem](name string, values []E) *EnumParam[E] {
	return &EnumParam[E]{
		name:   name,
		values: slices.Clone(values),
	}
}

func (p *EnumParam[E]) Name() string  { return p.name }
func (p *EnumParam[E]) Kind() Kind    { return KindEnum }
func (p *EnumParam[E]) Count() uint64 { return uint64(len(p.values)) }

func (p *EnumParam[E]) Value() any {
	if len(p.values) == 0 {
		return nil
	}
	return p.values[p.index]
}

func (p *EnumParam[E]) String() string {
	if len(p.values) == 0 {
		return ""
	}
	return formatElem(p.values[p.index])
}

func (p *EnumParam[E]) Advance() bool {
	if p.index+1 < len(p.values) {
		p.index++
		return true
	}
	return false
}

func (p *EnumParam[E]) Reset() { p.index = 0 }

func (p *EnumParam[E]) Validate() error {
	if p.name == "" {
		return fmt.Errorf("enum parameter: name is required")
	}
	if len(p.values) == 0 {
		return fmt.Errorf("enum parameter %q: at least one %s value is required", p.name, typeName[E]())
	}
	return nil
}

func (p *EnumParam[E]) declare(b *builder) { b.add(p) }

func (*EnumParam[E]) sealed() {}
