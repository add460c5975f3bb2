// Package param implements the parameter model that drives every test
// through all of its input combinations.
//
// # Parameter Kinds
//
// A Parameter is a named source of values with a current position:
//
//   - RowParam: pre-enumerated tuples of same-typed columns (int64, uint64, string)
//   - RangeParam: a contiguous integer interval, signed or unsigned
//   - EnumParam: an explicit list of int64, uint64 or string values
//
// Parameter is a sealed interface; only the types in this package implement
// it. Construction always copies the caller's values so later mutation of a
// literal slice cannot change a registered test.
//
// # Enumeration
//
// A Set keeps parameters in declaration order and enumerates them like an
// odometer. The first-declared parameter is the least significant digit:
// it changes on every Advance, and the next parameter moves only after every
// earlier one has wrapped back to its first value.
//
//	set, _ := param.Build(
//	    param.Enum("i", -1, 2),
//	    param.Enum("j", 1, 2),
//	)
//	for ok := true; ok; ok = set.Advance() {
//	    fmt.Println(set) // i=-1, j=1 / i=2, j=1 / i=-1, j=2 / i=2, j=2
//	}
//
// A parameter with no values (an unused row) counts as a factor of 1 and is
// left out of the rendered configuration string.
package param
