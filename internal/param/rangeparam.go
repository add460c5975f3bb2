package param

import "fmt"

// Integer is the set of range element types.
type Integer interface {
	int64 | uint64
}

// RangeParam is a parameter over the closed interval [min, max].
type RangeParam[E Integer] struct {
	name     string
	min, max E
	current  E
}

// Range declares a signed range parameter over [lo, hi].
func Range(name string, lo, hi int64) *RangeParam[int64] {
	return &RangeParam[int64]{name: name, min: lo, max: hi, current: lo}
}

// UnsignedRange declares an unsigned range parameter over [lo, hi].
func UnsignedRange(name string, lo, hi uint64) *RangeParam[uint64] {
	return &RangeParam[uint64]{name: name, min: lo, max: hi, current: lo}
}

func (p *RangeParam[E]) Name() string { return p.name }
func (p *RangeParam[E]) Kind() Kind   { return KindRange }

// Count returns max-min+1. The subtraction is done on the two's complement
// bit patterns so a signed span wider than MaxInt64 still counts correctly.
// A span covering every 64-bit value wraps to 0 and fails Validate.
func (p *RangeParam[E]) Count() uint64 {
	if p.max < p.min {
		return 0
	}
	return uint64(p.max) - uint64(p.min) + 1
}

func (p *RangeParam[E]) Value() any { return p.current }

func (p *RangeParam[E]) String() string { return formatElem(p.current) }

func (p *RangeParam[E]) Advance() bool {
	if p.current < p.max {
		p.current++
		return true
	}
	return false
}

func (p *RangeParam[E]) Reset() { p.current = p.min }

func (p *RangeParam[E]) Validate() error {
	if p.name == "" {
		return fmt.Errorf("range parameter: name is required")
	}
	if p.max < p.min {
		return fmt.Errorf("range parameter %q: max %d is less than min %d", p.name, p.max, p.min)
	}
	if p.Count() == 0 {
		return fmt.Errorf("range parameter %q: interval [%d, %d] spans every 64-bit value", p.name, p.min, p.max)
	}
	return nil
}

func (p *RangeParam[E]) declare(b *builder) { b.add(p) }

func (*RangeParam[E]) sealed() {}
