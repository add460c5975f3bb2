package demo

import (
	"strings"

	"github.com/roach88/paramunit/internal/engine"
	"github.com/roach88/paramunit/internal/param"
)

// AllAsserts uses every assertion once. Each test fails in at least one
// configuration.
func AllAsserts() *engine.Suite {
	return engine.NewSuite("AllAsserts").
		Test("AssertFailWithFormat", func(t *engine.T) {
			t.Failf("Forced failure with str=%s, i=%d, j=%d.", t.Str("str"), t.Int("i"), t.Uint("j"))
		},
			param.StringEnum("str", "Hello", "World", "!"),
			param.Enum("i", 0, -1, 2),
			param.UnsignedEnum("j", 0, 1, 2),
		).
		Test("AssertFailPlainMessage", func(t *engine.T) {
			t.Fail("I was forced to fail.")
		}).
		Test("AssertMessageWithFormat", func(t *engine.T) {
			c := strings.ToUpper(t.Str("str"))[3]
			t.Assertf(c == 'A', "Expected the 4th character to be an A, but it was %c.", c)
		}, param.StringEnum("str", "Hello", "World")).
		Test("AssertPlainMessage", func(t *engine.T) {
			zero, one := 0, 1
			t.Assertf(zero == one, "Expected nonsense.")
		}).
		Test("AssertCondition", func(t *engine.T) {
			t.Assert(strings.ToUpper(t.StringRow()[0])[0] == 'Z')
		},
			param.StringRow("Alpha", "Bravo", "Charlie"),
			param.StringRow("alpha", "bravo", "charlie"),
			param.StringRow("ALPHA", "BRAVO", "CHARLIE"),
		).
		Test("AssertIntEquals", func(t *engine.T) {
			t.IntEq(-1, t.Int("i"))
		}, param.Enum("i", -1, 2, -3, 4)).
		Test("AssertIntNotEquals", func(t *engine.T) {
			t.IntNotEq(-1, t.Int("i"))
		}, param.Enum("i", -1, 2, -3, 4)).
		Test("AssertUIntEquals", func(t *engine.T) {
			t.UintEq(0, t.Uint("i"))
		}, param.UnsignedEnum("i", 0, 1, 2)).
		Test("AssertUIntNotEquals", func(t *engine.T) {
			t.UintNotEq(0, t.Uint("i"))
		}, param.UnsignedEnum("i", 0, 1, 2)).
		Test("AssertPointerEquals", func(t *engine.T) {
			i := t.Int("i")
			wrong := i
			t.PointerEq(&wrong, &i)
		}, param.Enum("i", 0, 1, 2)).
		Test("AssertPointerNotEquals", func(t *engine.T) {
			i := t.Int("i")
			p, clone := &i, &i
			t.PointerNotEq(p, clone)
		}, param.Enum("i", 0, 1, 2)).
		Test("AssertNull", func(t *engine.T) {
			i := 0
			t.Nil(&i)
		}).
		Test("AssertNotNull", func(t *engine.T) {
			var p *int
			t.NotNil(p)
		}).
		Test("AssertStringEquals", func(t *engine.T) {
			t.StringEq("Bravo", t.Str("word"))
		}, param.StringEnum("word", "Alpha", "Bravo")).
		Test("AssertStringNotEquals", func(t *engine.T) {
			t.StringNotEq("Alpha", t.Str("word"))
		}, param.StringEnum("word", "Alpha", "Bravo")).
		Test("AssertDoubleEquals", func(t *engine.T) {
			t.FloatEq(0.1, 0.2)
		}).
		Test("AssertDoubleNotEquals", func(t *engine.T) {
			t.FloatNotEq(0.1, 0.1)
		}).
		Test("AssertMemoryEquals", func(t *engine.T) {
			a, b := ascending(128), ascending(128)
			b[64]++
			t.MemoryEq(a, b, 128)
		}).
		Test("AssertMemoryNotEquals", func(t *engine.T) {
			t.MemoryNotEq(ascending(128), ascending(128), 128)
		})
}

func ascending(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i)
	}
	return b
}
