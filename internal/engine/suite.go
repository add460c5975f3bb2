package engine

import (
	"errors"
	"strings"
	"time"

	"github.com/roach88/paramunit/internal/param"
)

// Body is a SetUp, TearDown or test function.
type Body func(t *T)

// Suite is an ordered collection of tests that share optional SetUp and
// TearDown callbacks. SetUp runs before, and TearDown after, the body of
// every configuration of every test in the suite.
//
// Suites are built with chained calls and validated when added to a
// Registry:
//
//	s := engine.NewSuite("Math").
//	    SetUp(func(t *engine.T) { t.SetFixture(newCalculator()) }).
//	    Test("Add", testAdd, param.Range("a", 0, 3), param.Range("b", 0, 3))
type Suite struct {
	name     string
	setUp    Body
	tearDown Body
	tests    []*Test
	index    map[string]*Test
	errs     []error

	stats SuiteStats
	ran   bool
}

// NewSuite creates an empty suite.
func NewSuite(name string) *Suite {
	s := &Suite{
		name:  name,
		index: make(map[string]*Test),
	}
	switch {
	case name == "":
		s.errs = append(s.errs, newRegistrationError(ErrCodeEmptyName, "", "", "suite name is required"))
	case strings.Contains(name, "/"):
		s.errs = append(s.errs, newRegistrationError(ErrCodeInvalidName, name, "", `suite name must not contain "/"`))
	}
	return s
}

// SetUp declares the per-configuration setup callback. At most one SetUp
// is allowed per suite.
func (s *Suite) SetUp(fn Body) *Suite {
	switch {
	case fn == nil:
		s.errs = append(s.errs, newRegistrationError(ErrCodeNilBody, s.name, "", "SetUp function is nil"))
	case s.setUp != nil:
		s.errs = append(s.errs, newRegistrationError(ErrCodeDuplicateSetUp, s.name, "", "suite already has a SetUp"))
	default:
		s.setUp = fn
	}
	return s
}

// TearDown declares the per-configuration teardown callback. At most one
// TearDown is allowed per suite.
func (s *Suite) TearDown(fn Body) *Suite {
	switch {
	case fn == nil:
		s.errs = append(s.errs, newRegistrationError(ErrCodeNilBody, s.name, "", "TearDown function is nil"))
	case s.tearDown != nil:
		s.errs = append(s.errs, newRegistrationError(ErrCodeDuplicateTearDown, s.name, "", "suite already has a TearDown"))
	default:
		s.tearDown = fn
	}
	return s
}

// Test declares a test. The body runs once per configuration of params.
// Declaration problems are collected and reported by Err and Registry.Add.
func (s *Suite) Test(name string, body Body, params ...param.Decl) *Suite {
	switch {
	case name == "":
		s.errs = append(s.errs, newRegistrationError(ErrCodeEmptyName, s.name, "", "test name is required"))
		return s
	case strings.Contains(name, "/"):
		s.errs = append(s.errs, newRegistrationError(ErrCodeInvalidName, s.name, name, `test name must not contain "/"`))
		return s
	case s.index[name] != nil:
		s.errs = append(s.errs, newRegistrationError(ErrCodeDuplicateTest, s.name, name, "duplicate test name"))
		return s
	case body == nil:
		s.errs = append(s.errs, newRegistrationError(ErrCodeNilBody, s.name, name, "test body is nil"))
		return s
	}

	set, err := param.Build(params...)
	if err != nil {
		re := newRegistrationError(ErrCodeInvalidParameters, s.name, name, "invalid parameters")
		re.Err = err
		s.errs = append(s.errs, re)
		return s
	}

	t := &Test{
		name:   name,
		suite:  s,
		body:   body,
		params: set,
	}
	s.tests = append(s.tests, t)
	s.index[name] = t
	return s
}

// Name returns the suite name.
func (s *Suite) Name() string { return s.name }

// Tests returns the tests in declaration order.
func (s *Suite) Tests() []*Test {
	out := make([]*Test, len(s.tests))
	copy(out, s.tests)
	return out
}

// Lookup finds a test by name.
func (s *Suite) Lookup(name string) (*Test, bool) {
	t, ok := s.index[name]
	return t, ok
}

// Err returns every declaration error collected so far, joined.
func (s *Suite) Err() error {
	return errors.Join(s.errs...)
}

// Stats returns the rolled-up counters of the tests that have finished.
func (s *Suite) Stats() SuiteStats { return s.stats }

// Failed reports whether any finished test failed.
func (s *Suite) Failed() bool { return s.stats.FailedTests > 0 }

// subset returns a copy of the suite limited to tests that keep accepts.
// The copy shares Test values with s.
func (s *Suite) subset(keep func(*Test) bool) *Suite {
	out := &Suite{
		name:     s.name,
		setUp:    s.setUp,
		tearDown: s.tearDown,
		index:    make(map[string]*Test),
	}
	for _, t := range s.tests {
		if keep(t) {
			out.tests = append(out.tests, t)
			out.index[t.name] = t
		}
	}
	return out
}

// Test is one named, parameterized test of a Suite.
type Test struct {
	name   string
	suite  *Suite
	body   Body
	params *param.Set

	status   Status
	stats    TestStats
	failures []Failure
}

// Name returns the test name.
func (t *Test) Name() string { return t.name }

// Suite returns the name of the owning suite.
func (t *Test) Suite() string { return t.suite.name }

// Params returns the test's parameter set.
func (t *Test) Params() *param.Set { return t.params }

// Status returns the lifecycle state.
func (t *Test) Status() Status { return t.status }

// Stats returns the configuration counters.
func (t *Test) Stats() TestStats { return t.stats }

// Failures returns the recorded failures in the order they occurred.
func (t *Test) Failures() []Failure {
	out := make([]Failure, len(t.failures))
	copy(out, t.failures)
	return out
}

// AverageRuntime returns the mean runtime of configurations whose Run
// phase was entered.
func (t *Test) AverageRuntime() time.Duration {
	if t.stats.Run == 0 {
		return 0
	}
	return t.stats.Runtime / time.Duration(t.stats.Run)
}

// reset clears results so the test can be executed.
func (t *Test) reset() {
	t.status = StatusPending
	t.stats = TestStats{Total: t.params.Count()}
	t.failures = nil
}
