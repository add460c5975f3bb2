package demo

import (
	"github.com/roach88/paramunit/internal/engine"
	"github.com/roach88/paramunit/internal/param"
)

// AllParameters declares every kind of parameter. All of its
// configurations pass.
func AllParameters() *engine.Suite {
	return engine.NewSuite("AllParameters").
		Test("AllParamsCombo", func(t *engine.T) {
			ints, uints, strs := t.IntRow(), t.UintRow(), t.StringRow()
			t.Assert(ints[0] < 100)
			t.Assert(uints[0] < 100)
			t.Assert(strs[1][2] == strs[2][2])
			t.Assert(t.Int("i") < 0)
			t.Assert(t.Uint("j") > 0)
			t.Assert(len(t.Str("animal")) == 3)
		},
			param.IntRow(1, 1, 2, 3),
			param.IntRow(4, 4, 5, 6),
			param.IntRow(-1, -1, -1, -1),
			param.UintRow(1, 2, 3, 4, 3, 2, 1),
			param.UintRow(5, 6, 7, 8, 7, 6, 5),
			param.UintRow(9, 10, 11, 12, 11, 10, 9),
			param.StringRow("Alpha", "Bravo", "Charlie"),
			param.StringRow("alpha", "bravo", "charlie"),
			param.StringRow("ALPHA", "BRAVO", "CHARLIE"),
			param.Enum("i", -1, -2, -3),
			param.UnsignedEnum("j", 1, 2, 3),
			param.StringEnum("animal", "Cat", "Dog"),
		).
		Test("VariableColsPerRow", func(t *engine.T) {
			row := t.IntRow()
			switch row[0] {
			case 1:
				t.IntEq(0, column(row, 1))
			case 2:
				t.IntEq(3, column(row, 1))
			case 3:
				t.IntEq(5, column(row, 2))
			case 4:
				t.IntEq(7, column(row, 3))
			default:
				t.Fail("Unexpected value in row[0].")
			}
		},
			param.IntRow(1),
			param.IntRow(2, 3),
			param.IntRow(3, 4, 5),
			param.IntRow(4, 5, 6, 7),
		).
		Test("UnsignedWindow", func(t *engine.T) {
			lo, hi := t.Uint("lo"), t.Uint("hi")
			t.Assert(lo < hi)
		}, param.UnsignedRange("lo", 0, 3), param.UnsignedRange("hi", 4, 6))
}

// column reads row[i], treating columns past the end of a short row as 0.
func column(row []int64, i int) int64 {
	if i < len(row) {
		return row[i]
	}
	return 0
}
