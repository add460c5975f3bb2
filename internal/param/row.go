package param

import (
	"fmt"
	"slices"
)

// RowParam is a parameter whose values are pre-enumerated tuples.
// Tests normally reach rows through the implicit int_row, uint_row and
// string_row parameters that IntRow, UintRow and StringRow feed.
type RowParam[E Elem] struct {
	name    string
	rows    [][]E
	current int
}

// NewRow creates an empty row parameter. Rows are appended with AddRow.
func NewRow[E Elem](name string) *RowParam[E] {
	return &RowParam[E]{name: name}
}

// AddRow appends a copy of cols as the next row.
func (p *RowParam[E]) AddRow(cols ...E) {
	p.rows = append(p.rows, slices.Clone(cols))
}

func (p *RowParam[E]) Name() string  { return p.name }
func (p *RowParam[E]) Kind() Kind    { return KindRow }
func (p *RowParam[E]) Count() uint64 { return uint64(len(p.rows)) }

// Value returns a copy of the current row, or nil for an unused row
// parameter. Rows may have different lengths.
func (p *RowParam[E]) Value() any {
	if len(p.rows) == 0 {
		return []E(nil)
	}
	return slices.Clone(p.rows[p.current])
}

func (p *RowParam[E]) String() string {
	if len(p.rows) == 0 {
		return "{}"
	}
	return formatTuple(p.rows[p.current])
}

func (p *RowParam[E]) Advance() bool {
	if p.current+1 < len(p.rows) {
		p.current++
		return true
	}
	return false
}

func (p *RowParam[E]) Reset() { p.current = 0 }

func (p *RowParam[E]) Validate() error {
	if p.name == "" {
		return fmt.Errorf("row parameter: name is required")
	}
	return nil
}

func (p *RowParam[E]) declare(b *builder) { b.add(p) }

func (*RowParam[E]) sealed() {}

// RowValues is one row literal destined for an implicit row parameter.
type RowValues[E Elem] struct {
	cols []E
}

// IntRow declares one row of the implicit int_row parameter.
func IntRow(cols ...int64) RowValues[int64] {
	return RowValues[int64]{cols: slices.Clone(cols)}
}

// UintRow declares one row of the implicit uint_row parameter.
func UintRow(cols ...uint64) RowValues[uint64] {
	return RowValues[uint64]{cols: slices.Clone(cols)}
}

// StringRow declares one row of the implicit string_row parameter.
func StringRow(cols ...string) RowValues[string] {
	return RowValues[string]{cols: slices.Clone(cols)}
}

func (r RowValues[E]) declare(b *builder) {
	switch cols := any(r.cols).(type) {
	case []int64:
		b.intRows.AddRow(cols...)
	case []uint64:
		b.uintRows.AddRow(cols...)
	case []string:
		b.stringRows.AddRow(cols...)
	}
}
