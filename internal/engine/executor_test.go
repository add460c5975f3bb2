package engine_test

import (
	"bytes"
	"log/slog"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/paramunit/internal/engine"
	"github.com/roach88/paramunit/internal/param"
	"github.com/roach88/paramunit/internal/testutil"
)

// runSuite registers s alone and runs it with a deterministic clock.
func runSuite(t *testing.T, s *engine.Suite, opts ...engine.Option) *engine.Summary {
	t.Helper()
	reg := engine.NewRegistry()
	require.NoError(t, reg.Add(s))

	opts = append([]engine.Option{
		engine.WithClock(testutil.NewStepClock(time.Millisecond)),
		engine.WithRunIDGenerator(testutil.NewFixedRunID("run-test")),
	}, opts...)
	sum, err := reg.Run(opts...)
	require.NoError(t, err)
	return sum
}

func onlyTest(t *testing.T, sum *engine.Summary) *engine.Test {
	t.Helper()
	require.Len(t, sum.Suites, 1)
	tests := sum.Suites[0].Tests()
	require.Len(t, tests, 1)
	return tests[0]
}

// here returns the file and the line after the call site.
func here() (string, int) {
	_, file, line, _ := runtime.Caller(1)
	return file, line + 1
}

func TestRun_ConfigurationsInEnumerationOrder(t *testing.T) {
	var seen []string
	s := engine.NewSuite("Order").
		Test("IJ", func(tt *engine.T) {
			seen = append(seen, tt.Configuration())
		}, param.Enum("i", -1, 2), param.Enum("j", 1, 2))

	sum := runSuite(t, s)

	assert.Equal(t, []string{
		"i=-1, j=1",
		"i=2, j=1",
		"i=-1, j=2",
		"i=2, j=2",
	}, seen)
	assert.Equal(t, "run-test", sum.RunID)
	assert.False(t, sum.Failed())
}

func TestRun_IntEqFailureAbortsPhase(t *testing.T) {
	reached := false
	var file string
	var line int
	s := engine.NewSuite("Asserts").
		Test("IntEq", func(tt *engine.T) {
			file, line = here()
			tt.IntEq(5, 6)
			reached = true
		})

	sum := runSuite(t, s)
	test := onlyTest(t, sum)

	assert.False(t, reached, "statements after a failed assertion must not run")
	failures := test.Failures()
	require.Len(t, failures, 1)
	f := failures[0]
	assert.Equal(t, "Expected value to evaluate to 5, but instead it evaluated to 6.", f.Message)
	assert.Equal(t, file, f.File)
	assert.Equal(t, line, f.Line)
	assert.Equal(t, engine.PhaseRun, f.Phase)
	assert.Equal(t, "Asserts", f.Suite)
	assert.Equal(t, "IntEq", f.Test)
	assert.Equal(t, "", f.Configuration)

	assert.Equal(t, engine.StatusFailed, test.Status())
	assert.Equal(t, engine.TestStats{Total: 1, Run: 1, Runtime: time.Millisecond}, test.Stats())
	assert.True(t, sum.Failed())
}

func TestRun_FailureIsSticky(t *testing.T) {
	var phases []engine.Phase
	s := engine.NewSuite("Sticky").
		SetUp(func(tt *engine.T) {
			phases = append(phases, tt.Phase())
			tt.Fail("setup broke")
		}).
		TearDown(func(tt *engine.T) {
			phases = append(phases, tt.Phase())
			assert.True(t, tt.Failed())
		}).
		Test("Body", func(tt *engine.T) {
			phases = append(phases, tt.Phase())
			tt.Skip()
		})

	test := onlyTest(t, runSuite(t, s))

	// Run and Teardown still execute after a Setup failure.
	assert.Equal(t, []engine.Phase{engine.PhaseSetup, engine.PhaseRun, engine.PhaseTeardown}, phases)

	stats := test.Stats()
	assert.Equal(t, int64(1), stats.Run)
	assert.Equal(t, int64(0), stats.Skipped, "skip after failure must not count as skipped")
	assert.Equal(t, int64(0), stats.Passed)
	assert.Equal(t, int64(1), stats.Failed())

	failures := test.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, engine.PhaseSetup, failures[0].Phase)
	assert.Equal(t, "setup broke", failures[0].Message)
}

func TestRun_SkipWithoutFailure(t *testing.T) {
	afterSkip := false
	tornDown := 0
	s := engine.NewSuite("Skip").
		TearDown(func(tt *engine.T) { tornDown++ }).
		Test("Odd", func(tt *engine.T) {
			if tt.Int("n")%2 == 1 {
				tt.Skip()
				afterSkip = true
			}
		}, param.Range("n", 0, 3))

	test := onlyTest(t, runSuite(t, s))

	assert.False(t, afterSkip)
	assert.Equal(t, 4, tornDown)
	assert.Equal(t, engine.StatusPassed, test.Status())
	assert.Equal(t, int64(2), test.Stats().Passed)
	assert.Equal(t, int64(2), test.Stats().Skipped)
	assert.Empty(t, test.Failures())
}

func TestRun_SkipInSetupStillRunsBody(t *testing.T) {
	ran := false
	s := engine.NewSuite("SetupSkip").
		SetUp(func(tt *engine.T) { tt.Skip() }).
		Test("Body", func(tt *engine.T) { ran = true })

	test := onlyTest(t, runSuite(t, s))

	assert.True(t, ran)
	assert.Equal(t, int64(1), test.Stats().Skipped)
	assert.Equal(t, engine.StatusPassed, test.Status())
}

func TestRun_StatusFailedWhenAnyConfigurationFails(t *testing.T) {
	s := engine.NewSuite("Mixed").
		Test("NotTwelve", func(tt *engine.T) {
			tt.IntNotEq(12, tt.Int("i"))
		}, param.Enum("i", 3, 6, 9, 12))

	test := onlyTest(t, runSuite(t, s))

	assert.Equal(t, engine.StatusFailed, test.Status())
	assert.Equal(t, int64(4), test.Stats().Total)
	assert.Equal(t, int64(3), test.Stats().Passed)
	assert.Equal(t, int64(1), test.Stats().Failed())

	failures := test.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, "i=12", failures[0].Configuration)
	assert.Equal(t, "Value evaluated to the unexpected value 12.", failures[0].Message)
}

func TestRun_EveryPhaseMayRecordFailures(t *testing.T) {
	s := engine.NewSuite("Phases").
		SetUp(func(tt *engine.T) { tt.Fail("in setup") }).
		TearDown(func(tt *engine.T) { tt.Fail("in teardown") }).
		Test("Body", func(tt *engine.T) { tt.Fail("in run") })

	failures := onlyTest(t, runSuite(t, s)).Failures()

	require.Len(t, failures, 3)
	assert.Equal(t, engine.PhaseSetup, failures[0].Phase)
	assert.Equal(t, engine.PhaseRun, failures[1].Phase)
	assert.Equal(t, engine.PhaseTeardown, failures[2].Phase)
}

func TestRun_FixtureIsFreshPerConfiguration(t *testing.T) {
	var atSetup []any
	s := engine.NewSuite("Fixture").
		SetUp(func(tt *engine.T) {
			atSetup = append(atSetup, tt.Fixture())
			tt.SetFixture(tt.Int("n") * 10)
		}).
		Test("Reads", func(tt *engine.T) {
			tt.IntEq(tt.Int("n")*10, tt.Fixture().(int64))
		}, param.Range("n", 1, 3))

	test := onlyTest(t, runSuite(t, s))

	assert.Equal(t, []any{nil, nil, nil}, atSetup)
	assert.Equal(t, engine.StatusPassed, test.Status())
}

func TestRun_PanicIsRecordedAtPanicSite(t *testing.T) {
	var file string
	var line int
	tornDown := false
	s := engine.NewSuite("Panics").
		TearDown(func(tt *engine.T) { tornDown = true }).
		Test("Boom", func(tt *engine.T) {
			file, line = here()
			panic("boom")
		})

	test := onlyTest(t, runSuite(t, s))

	assert.True(t, tornDown)
	failures := test.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, "panic: boom", failures[0].Message)
	assert.Equal(t, file, failures[0].File)
	assert.Equal(t, line, failures[0].Line)
}

func TestRun_RuntimePanicIsRecorded(t *testing.T) {
	s := engine.NewSuite("Panics").
		Test("Index", func(tt *engine.T) {
			row := tt.IntRow()
			_ = row[3]
		}, param.IntRow(1))

	failures := onlyTest(t, runSuite(t, s)).Failures()

	require.Len(t, failures, 1)
	assert.True(t, strings.HasPrefix(failures[0].Message, "panic: runtime error: index out of range"))
	assert.True(t, strings.HasSuffix(failures[0].File, "executor_test.go"))
}

func TestRun_HelperFramesAreSkipped(t *testing.T) {
	var file string
	var line int
	checkPositive := func(tt *engine.T, v int64) {
		tt.Helper()
		tt.Assertf(v > 0, "%d is not positive", v)
	}
	s := engine.NewSuite("Helpers").
		Test("Positive", func(tt *engine.T) {
			file, line = here()
			checkPositive(tt, -4)
		})

	failures := onlyTest(t, runSuite(t, s)).Failures()

	require.Len(t, failures, 1)
	assert.Equal(t, "-4 is not positive", failures[0].Message)
	assert.Equal(t, file, failures[0].File)
	assert.Equal(t, line, failures[0].Line)
}

func TestRun_TestifyAssertRecordsWithoutAborting(t *testing.T) {
	reached := false
	var line int
	s := engine.NewSuite("Testify").
		Test("Assert", func(tt *engine.T) {
			_, line = here()
			assert.Equal(tt, 1, 2)
			reached = true
		})

	failures := onlyTest(t, runSuite(t, s)).Failures()

	assert.True(t, reached)
	require.Len(t, failures, 1)
	assert.Contains(t, failures[0].Message, "Error Trace")
	assert.Equal(t, line, failures[0].Line)
}

func TestRun_TestifyRequireAborts(t *testing.T) {
	reached := false
	s := engine.NewSuite("Testify").
		Test("Require", func(tt *engine.T) {
			require.Equal(tt, "a", "b")
			reached = true
		})

	test := onlyTest(t, runSuite(t, s))

	assert.False(t, reached)
	require.Len(t, test.Failures(), 1)
	assert.Equal(t, engine.StatusFailed, test.Status())
}

func TestRun_FailNowWithoutMessage(t *testing.T) {
	s := engine.NewSuite("FailNow").
		Test("Bare", func(tt *engine.T) { tt.FailNow() })

	failures := onlyTest(t, runSuite(t, s)).Failures()

	require.Len(t, failures, 1)
	assert.Equal(t, "FailNow called", failures[0].Message)
}

func TestRun_LongMessagesAreTruncated(t *testing.T) {
	s := engine.NewSuite("Long").
		Test("Message", func(tt *engine.T) { tt.Fail(strings.Repeat("m", 1000)) })

	failures := onlyTest(t, runSuite(t, s)).Failures()

	require.Len(t, failures, 1)
	assert.Len(t, failures[0].Message, engine.MaxMessageLength-1)
}

func TestRun_RuntimeAccumulates(t *testing.T) {
	s := engine.NewSuite("Timing").
		Test("Three", func(tt *engine.T) {}, param.Range("n", 1, 3))

	sum := runSuite(t, s, engine.WithClock(testutil.NewStepClock(4*time.Millisecond)))
	test := onlyTest(t, sum)

	assert.Equal(t, 12*time.Millisecond, test.Stats().Runtime)
	assert.Equal(t, 4*time.Millisecond, test.AverageRuntime())
	assert.Equal(t, 12*time.Millisecond, sum.Stats.Runtime)
}

func TestRun_SummaryRollsUpSuites(t *testing.T) {
	pass := engine.NewSuite("Pass").
		Test("A", func(tt *engine.T) {}, param.Range("x", 1, 2)).
		Test("B", func(tt *engine.T) { tt.Skip() })
	fail := engine.NewSuite("Fail").
		Test("C", func(tt *engine.T) {
			if tt.Int("y") == 2 {
				tt.Fail("two")
			}
		}, param.Enum("y", 1, 2, 3)).
		Test("D", func(tt *engine.T) {})

	reg := engine.NewRegistry().MustAdd(pass, fail)
	sum, err := reg.Run(engine.WithClock(testutil.NewStepClock(time.Millisecond)))
	require.NoError(t, err)

	assert.Equal(t, engine.SuiteStats{
		Tests: 2, PassedTests: 2,
		Configurations: 3, PassedConfigurations: 2, SkippedConfigurations: 1,
		Runtime: 3 * time.Millisecond,
	}, pass.Stats())
	assert.False(t, pass.Failed())
	assert.True(t, fail.Failed())
	assert.Equal(t, int64(1), fail.Stats().FailedConfigurations())

	stats := sum.Stats
	assert.Equal(t, 2, stats.Suites)
	assert.Equal(t, 1, stats.PassedSuites)
	assert.Equal(t, 1, stats.FailedSuites)
	assert.Equal(t, 4, stats.Tests)
	assert.Equal(t, 3, stats.PassedTests)
	assert.Equal(t, 1, stats.FailedTests)
	assert.Equal(t, int64(7), stats.Configurations)
	assert.Equal(t, int64(5), stats.PassedConfigurations)
	assert.Equal(t, int64(1), stats.SkippedConfigurations)
	assert.Equal(t, int64(1), stats.FailedConfigurations())

	require.Len(t, sum.Failures(), 1)
	assert.Equal(t, "y=2", sum.Failures()[0].Configuration)
}

func TestRun_ObserverSeesEventsInOrder(t *testing.T) {
	rec := testutil.NewRecordingObserver()
	s := engine.NewSuite("Obs").
		Test("T", func(tt *engine.T) {
			if tt.Str("w") == "b" {
				tt.Skip()
			}
		}, param.StringEnum("w", "a", "b"))

	runSuite(t, s, engine.WithObserver(rec))

	assert.Equal(t, []string{
		"suite:start Obs",
		"test:start Obs/T",
		`config:start Obs/T#0 w="a"`,
		"config:passed Obs/T#0",
		`config:start Obs/T#1 w="b"`,
		"config:skipped Obs/T#1",
		"test:passed Obs/T",
		"suite:end Obs",
	}, rec.Events())

	results := rec.Results()
	require.Len(t, results, 2)
	assert.Equal(t, int64(1), results[0].Seq)
	assert.Equal(t, int64(2), results[1].Seq)
	assert.Equal(t, time.Millisecond, results[1].Runtime)
}

func TestRun_AllocatorCorruptionFailsTest(t *testing.T) {
	var line int
	s := engine.NewSuite("Alloc").
		Test("RightBounds", func(tt *engine.T) {
			size := tt.Int("size")
			mem := tt.Alloc(size)
			*mem.At(size + tt.Int("offset")) ^= 0xFF
			_, line = here()
			tt.Free(mem)
		}, param.Enum("size", 0, 1, 10, 128), param.Enum("offset", 0, 5, 31))

	test := onlyTest(t, runSuite(t, s))

	assert.Equal(t, int64(12), test.Stats().Failed())
	for _, f := range test.Failures() {
		assert.Contains(t, f.Message, "Free detected memory corruption")
		assert.Contains(t, f.Message, "right padding")
		assert.Equal(t, line, f.Line)
	}
}

func TestRun_AllocatorRoundTripPasses(t *testing.T) {
	s := engine.NewSuite("Alloc").
		Test("Write", func(tt *engine.T) {
			mem := tt.Alloc(tt.Int("size"))
			buf := mem.Bytes()
			for i := range buf {
				buf[i]++
			}
			tt.Free(mem)
		}, param.Range("size", 0, 128))

	test := onlyTest(t, runSuite(t, s))

	assert.Equal(t, engine.StatusPassed, test.Status())
	assert.Equal(t, int64(129), test.Stats().Passed)
}

func TestRun_FreeNilFails(t *testing.T) {
	s := engine.NewSuite("Alloc").
		Test("Nil", func(tt *engine.T) { tt.Free(nil) })

	failures := onlyTest(t, runSuite(t, s)).Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, "Value was nil.", failures[0].Message)
}

func TestRun_DoubleFreeFails(t *testing.T) {
	s := engine.NewSuite("Alloc").
		Test("Twice", func(tt *engine.T) {
			b := tt.Alloc(4)
			tt.Free(b)
			tt.Free(b)
		})

	failures := onlyTest(t, runSuite(t, s)).Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, "Block of 4 bytes was already freed.", failures[0].Message)
}

func TestRun_LoggerCarriesTestAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s := engine.NewSuite("Logs").
		Test("Body", func(tt *engine.T) {
			tt.StringEq("Logs", tt.SuiteName())
			tt.Logger().Info("inside body")
		})

	reg := engine.NewRegistry().MustAdd(s)
	sum, err := reg.Run(engine.WithLogger(logger), engine.WithClock(testutil.NewStepClock(time.Millisecond)))
	require.NoError(t, err)
	assert.False(t, sum.Failed())

	out := buf.String()
	assert.Contains(t, out, `msg="inside body" suite=Logs test=Body phase=Run`)
	assert.Contains(t, out, "configurations=1")
}

func TestRun_ParameterAccessors(t *testing.T) {
	s := engine.NewSuite("Access").
		Test("All", func(tt *engine.T) {
			tt.IntEq(-7, tt.Int("i"))
			tt.UintEq(7, tt.Uint("u"))
			tt.StringEq("word", tt.Str("s"))
			tt.IntEq(3, tt.Int("r"))
			assert.Equal(tt, []int64{1, 2}, tt.IntRow())
			assert.Equal(tt, []uint64{3}, tt.UintRow())
			assert.Nil(tt, tt.StringRow())
			assert.Equal(tt, int64(-7), tt.Value("i"))
		},
			param.Enum("i", -7),
			param.UnsignedEnum("u", 7),
			param.StringEnum("s", "word"),
			param.Range("r", 3, 3),
			param.IntRow(1, 2),
			param.UintRow(3),
		)

	test := onlyTest(t, runSuite(t, s))
	assert.Empty(t, test.Failures())
	assert.Equal(t, engine.StatusPassed, test.Status())
}

func TestRun_WrongParameterTypeFails(t *testing.T) {
	s := engine.NewSuite("Access").
		Test("Wrong", func(tt *engine.T) { tt.Str("i") }, param.Enum("i", 1)).
		Test("Missing", func(tt *engine.T) { tt.Int("nope") })

	sum := runSuite(t, s)
	tests := sum.Suites[0].Tests()

	require.Len(t, tests[0].Failures(), 1)
	assert.Equal(t, `Parameter "i" holds int64, not string.`, tests[0].Failures()[0].Message)
	require.Len(t, tests[1].Failures(), 1)
	assert.Equal(t, `Unknown parameter "nope".`, tests[1].Failures()[0].Message)
}
