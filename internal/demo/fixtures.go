package demo

import (
	"github.com/roach88/paramunit/internal/engine"
	"github.com/roach88/paramunit/internal/guardmem"
	"github.com/roach88/paramunit/internal/param"
)

// FixtureSuite shares a guarded one-byte block between SetUp, the test
// bodies and TearDown.
func FixtureSuite() *engine.Suite {
	return engine.NewSuite("MyFirstTestSuite").
		SetUp(func(t *engine.T) {
			b := t.Alloc(1)
			t.NotNil(b)
			b.Bytes()[0] = 1
			t.SetFixture(b)
			t.Logger().Debug("fixture allocated", "configuration", t.Configuration())
		}).
		TearDown(func(t *engine.T) {
			if b, ok := t.Fixture().(*guardmem.Block); ok {
				t.Free(b)
			}
		}).
		Test("MyFirstTest", func(t *engine.T) {
			t.NotNil(t.Fixture())
			t.IntEq(1, fixtureValue(t))
		}).
		Test("MyParameterizedTest", func(t *engine.T) {
			t.IntEq(1, fixtureValue(t))
			t.IntNotEq(0, t.IntRow()[0])
			t.StringNotEq("Alpha", t.Str("word"))
			t.IntNotEq(12, t.Int("i"))
		},
			param.IntRow(1, 2, 4, 8, 16),
			param.IntRow(0, 0, 0, 0, 0),
			param.IntRow(1, 1, 1, 1, 2),
			param.Enum("i", 3, 6, 9, 12),
			param.StringEnum("word", "Alpha", "Bravo", "Charlie", "Delta", "Echo"),
		)
}

func fixtureValue(t *engine.T) int64 {
	t.Helper()
	b, ok := t.Fixture().(*guardmem.Block)
	if !ok {
		t.Fail("Fixture is not a block.")
	}
	return int64(b.Bytes()[0])
}

// RowSuite has no SetUp, so its fixture is always empty.
func RowSuite() *engine.Suite {
	return engine.NewSuite("MySecondTestSuite").
		Test("MyOtherTest", func(t *engine.T) {
			t.Nil(t.Fixture())
			t.IntEq(1, 1)
			t.StringNotEq("alpha", t.StringRow()[0])
		},
			param.StringRow("Alpha", "Bravo", "Charlie"),
			param.StringRow("alpha", "bravo", "charlie"),
			param.StringRow("ALPHA", "BRAVO", "CHARLIE"),
		)
}
