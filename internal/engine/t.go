package engine

import (
	"fmt"
	"log/slog"

	"github.com/stretchr/testify/require"

	"github.com/roach88/paramunit/internal/guardmem"
	"github.com/roach88/paramunit/internal/param"
)

// T is handed to SetUp, test bodies and TearDown. A fresh T is created for
// every configuration.
//
// A failed assertion records a Failure and abandons the rest of the
// current phase; the remaining phases still run. T must only be used from
// the goroutine that runs the phase.
type T struct {
	test          *Test
	configuration string
	phase         Phase
	outcome       Outcome
	skipped       bool
	failures      []Failure
	fixture       any
	alloc         *guardmem.Allocator
	logger        *slog.Logger
	helpers       map[string]struct{}
}

var _ require.TestingT = (*T)(nil)

// phaseAbort is the panic value used to unwind the current phase.
type phaseAbort struct{}

func newT(test *Test, configuration string, alloc *guardmem.Allocator, logger *slog.Logger) *T {
	return &T{
		test:          test,
		configuration: configuration,
		outcome:       OutcomePending,
		alloc:         alloc,
		logger:        logger,
	}
}

// Name returns the test name.
func (t *T) Name() string { return t.test.name }

// SuiteName returns the name of the owning suite.
func (t *T) SuiteName() string { return t.test.suite.name }

// Configuration returns the rendered parameter values of this run.
func (t *T) Configuration() string { return t.configuration }

// Phase returns the phase currently executing.
func (t *T) Phase() Phase { return t.phase }

// Failed reports whether anything failed in this configuration so far.
func (t *T) Failed() bool { return t.outcome == OutcomeFailed }

// Logger returns the run logger with test attributes attached.
func (t *T) Logger() *slog.Logger {
	return t.logger.With("suite", t.SuiteName(), "test", t.Name(), "phase", t.phase.String())
}

// Fixture returns the value stored by SetFixture in this configuration,
// or nil.
func (t *T) Fixture() any { return t.fixture }

// SetFixture stores a value for later phases of the same configuration.
func (t *T) SetFixture(v any) { t.fixture = v }

// Skip abandons the current phase. The configuration is reported as
// skipped unless something failed.
func (t *T) Skip() {
	t.skipped = true
	panic(phaseAbort{})
}

// Fail records a failure with msg and abandons the current phase.
func (t *T) Fail(msg string) {
	t.record(msg)
	panic(phaseAbort{})
}

// Failf records a formatted failure and abandons the current phase.
func (t *T) Failf(format string, args ...any) {
	t.record(fmt.Sprintf(format, args...))
	panic(phaseAbort{})
}

// Errorf records a failure without abandoning the phase. Together with
// FailNow it lets testify's assert and require packages report through T.
func (t *T) Errorf(format string, args ...any) {
	t.record(fmt.Sprintf(format, args...))
}

// FailNow abandons the current phase. If nothing has been recorded for
// this configuration yet, a generic failure is recorded first.
func (t *T) FailNow() {
	if t.outcome != OutcomeFailed {
		t.record("FailNow called")
	}
	panic(phaseAbort{})
}

// Helper marks the calling function as a helper. Failure locations skip
// helper frames and point at their caller instead.
func (t *T) Helper() {
	if name := callerFunction(1); name != "" {
		if t.helpers == nil {
			t.helpers = make(map[string]struct{})
		}
		t.helpers[name] = struct{}{}
	}
}

// Value returns the current value of the named parameter, failing the
// phase if there is no such parameter.
func (t *T) Value(name string) any {
	p, ok := t.test.params.Lookup(name)
	if !ok {
		t.Failf("Unknown parameter %q.", name)
		return nil
	}
	return p.Value()
}

// Int returns the current value of a signed enum or range parameter.
func (t *T) Int(name string) int64 {
	return valueAs[int64](t, name)
}

// Uint returns the current value of an unsigned enum or range parameter.
func (t *T) Uint(name string) uint64 {
	return valueAs[uint64](t, name)
}

// Str returns the current value of a string enum parameter.
func (t *T) Str(name string) string {
	return valueAs[string](t, name)
}

// IntRow returns the current int_row, or nil when the test declares none.
func (t *T) IntRow() []int64 {
	return valueAs[[]int64](t, param.IntRowName)
}

// UintRow returns the current uint_row, or nil when the test declares none.
func (t *T) UintRow() []uint64 {
	return valueAs[[]uint64](t, param.UintRowName)
}

// StringRow returns the current string_row, or nil when the test declares
// none.
func (t *T) StringRow() []string {
	return valueAs[[]string](t, param.StringRowName)
}

func valueAs[V any](t *T, name string) V {
	var zero V
	v := t.Value(name)
	out, ok := v.(V)
	if !ok {
		t.Failf("Parameter %q holds %T, not %T.", name, v, zero)
		return zero
	}
	return out
}

// Alloc returns a guarded block of size bytes, failing the phase if the
// allocation is refused.
func (t *T) Alloc(size int64) *guardmem.Block {
	b, err := t.alloc.Allocate(size)
	if err != nil {
		t.Failf("Alloc(%d) failed: %v", size, err)
		return nil
	}
	return b
}

// Free releases a block from Alloc and fails the phase if it was nil,
// already freed, or written outside its bounds.
func (t *T) Free(b *guardmem.Block) {
	if b == nil {
		t.Fail("Value was nil.")
		return
	}
	if b.Freed() {
		t.Failf("Block of %d bytes was already freed.", b.Size())
		return
	}
	if err := t.alloc.Free(b); err != nil {
		t.Failf("Free detected memory corruption. Either you modified memory outside "+
			"of the requested region, or you are freeing the wrong block. (%v)", err)
	}
}

// record appends a failure located at the first frame outside T, testify
// and registered helpers.
func (t *T) record(msg string) {
	file, line := t.callerLocation()
	t.appendFailure(msg, file, line)
}

func (t *T) appendFailure(msg, file string, line int) {
	t.outcome = OutcomeFailed
	t.failures = append(t.failures, Failure{
		Suite:         t.test.suite.name,
		Test:          t.test.name,
		Configuration: t.configuration,
		Message:       param.Truncate(msg, MaxMessageLength-1),
		File:          file,
		Line:          line,
		Phase:         t.phase,
	})
}

// runPhase executes fn, recovering a phase abort or any other panic.
func (t *T) runPhase(phase Phase, fn Body) {
	if fn == nil {
		return
	}
	t.phase = phase
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if _, ok := r.(phaseAbort); ok {
			return
		}
		file, line := panicLocation()
		t.appendFailure(fmt.Sprintf("panic: %v", r), file, line)
	}()
	fn(t)
}

// finish classifies the configuration after Teardown.
func (t *T) finish() Outcome {
	if t.outcome == OutcomePending {
		if t.skipped {
			t.outcome = OutcomeSkipped
		} else {
			t.outcome = OutcomePassed
		}
	}
	return t.outcome
}
