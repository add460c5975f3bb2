package engine

import (
	"bytes"
	"reflect"
)

// Every assertion records exactly one Failure and abandons the current
// phase when its check does not hold.

// Assert fails when cond is false.
func (t *T) Assert(cond bool) {
	if !cond {
		t.Fail("The expression evaluated to false.")
	}
}

// Assertf fails with a formatted message when cond is false.
func (t *T) Assertf(cond bool, format string, args ...any) {
	if !cond {
		t.Failf(format, args...)
	}
}

// IntEq fails unless actual == expected.
func (t *T) IntEq(expected, actual int64) {
	if expected != actual {
		t.Failf("Expected value to evaluate to %d, but instead it evaluated to %d.", expected, actual)
	}
}

// IntNotEq fails when actual == unexpected.
func (t *T) IntNotEq(unexpected, actual int64) {
	if unexpected == actual {
		t.Failf("Value evaluated to the unexpected value %d.", unexpected)
	}
}

// UintEq fails unless actual == expected.
func (t *T) UintEq(expected, actual uint64) {
	if expected != actual {
		t.Failf("Expected value to evaluate to %d, but instead it evaluated to %d.", expected, actual)
	}
}

// UintNotEq fails when actual == unexpected.
func (t *T) UintNotEq(unexpected, actual uint64) {
	if unexpected == actual {
		t.Failf("Value evaluated to the unexpected value %d.", unexpected)
	}
}

// PointerEq fails unless expected and actual hold the same address.
// Both must be pointers, unsafe pointers, maps, channels, functions,
// slices, or nil.
func (t *T) PointerEq(expected, actual any) {
	exp, ok1 := address(expected)
	act, ok2 := address(actual)
	if !ok1 || !ok2 {
		t.Failf("PointerEq needs pointer values, got %T and %T.", expected, actual)
	}
	if exp != act {
		t.Failf("Expected value to evaluate to %#x, but instead it evaluated to %#x.", exp, act)
	}
}

// PointerNotEq fails when expected and actual hold the same address.
func (t *T) PointerNotEq(unexpected, actual any) {
	unexp, ok1 := address(unexpected)
	act, ok2 := address(actual)
	if !ok1 || !ok2 {
		t.Failf("PointerNotEq needs pointer values, got %T and %T.", unexpected, actual)
	}
	if unexp == act {
		t.Failf("Value evaluated to the unexpected value %#x.", unexp)
	}
}

// Nil fails unless v is nil or a nil pointer, map, channel, function,
// interface or slice.
func (t *T) Nil(v any) {
	if !isNil(v) {
		if addr, ok := address(v); ok {
			t.Failf("Value was %#x, not nil.", addr)
		}
		t.Failf("Value was %v, not nil.", v)
	}
}

// NotNil fails when v is nil.
func (t *T) NotNil(v any) {
	if isNil(v) {
		t.Fail("Value was nil.")
	}
}

// StringEq fails unless actual == expected.
func (t *T) StringEq(expected, actual string) {
	if expected != actual {
		t.Failf("Expected value to be equal to %q, but instead it was %q.", expected, actual)
	}
}

// StringNotEq fails when actual == unexpected.
func (t *T) StringNotEq(unexpected, actual string) {
	if unexpected == actual {
		t.Failf("Value was equal to the unexpected value %q.", actual)
	}
}

// FloatEq fails unless actual == expected exactly.
func (t *T) FloatEq(expected, actual float64) {
	if expected != actual {
		t.Failf("Expected value to evaluate to %f, but instead it evaluated to %f.", expected, actual)
	}
}

// FloatNotEq fails when actual == unexpected exactly.
func (t *T) FloatNotEq(unexpected, actual float64) {
	if unexpected == actual {
		t.Failf("Value evaluated to the unexpected value %f.", actual)
	}
}

// MemoryEq fails unless the first size bytes of expected and actual are
// identical. The message names the first differing offset and both bytes.
func (t *T) MemoryEq(expected, actual []byte, size int) {
	t.checkMemorySize("MemoryEq", expected, actual, size)
	diff := firstDifference(expected[:size], actual[:size])
	if diff < size {
		t.Failf("Expected actual to have the same %d bytes as expected, but actual[%d]=%#x and expected[%d]=%#x.",
			size, diff, actual[diff], diff, expected[diff])
	}
}

// MemoryNotEq fails when the first size bytes of unexpected and actual are
// identical.
func (t *T) MemoryNotEq(unexpected, actual []byte, size int) {
	t.checkMemorySize("MemoryNotEq", unexpected, actual, size)
	if bytes.Equal(unexpected[:size], actual[:size]) {
		t.Fail("Actual has the same exact memory as unexpected.")
	}
}

func (t *T) checkMemorySize(name string, a, b []byte, size int) {
	if size < 0 || size > len(a) || size > len(b) {
		t.Failf("%s: size %d exceeds the compared buffers (%d and %d bytes).", name, size, len(a), len(b))
	}
}

func firstDifference(a, b []byte) int {
	for i := range a {
		if a[i] != b[i] {
			return i
		}
	}
	return len(a)
}

// address returns the address held by a pointer-like value. nil maps to 0.
func address(v any) (uintptr, bool) {
	if v == nil {
		return 0, true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.UnsafePointer, reflect.Map, reflect.Chan, reflect.Func, reflect.Slice:
		return rv.Pointer(), true
	default:
		return 0, false
	}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.UnsafePointer, reflect.Map, reflect.Chan, reflect.Func, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}

