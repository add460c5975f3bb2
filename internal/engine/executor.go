package engine

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/paramunit/internal/guardmem"
)

// Runner executes the suites of a Registry.
//
// Execution is strictly sequential: suites in registration order, tests in
// declaration order, configurations in enumeration order. A failing test
// never stops the tests after it.
type Runner struct {
	logger    *slog.Logger
	clock     Clock
	alloc     *guardmem.Allocator
	observers Observers
	runIDs    RunIDGenerator
	seq       *Sequence
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithClock sets the clock used to time configurations.
func WithClock(c Clock) Option {
	return func(r *Runner) {
		if c != nil {
			r.clock = c
		}
	}
}

// WithAllocator sets the allocator behind T.Alloc and T.Free.
func WithAllocator(a *guardmem.Allocator) Option {
	return func(r *Runner) {
		if a != nil {
			r.alloc = a
		}
	}
}

// WithObserver adds an observer. Observers are notified in the order they
// were added.
func WithObserver(o Observer) Option {
	return func(r *Runner) {
		if o != nil {
			r.observers = append(r.observers, o)
		}
	}
}

// WithRunIDGenerator sets the source of the summary's run ID.
func WithRunIDGenerator(g RunIDGenerator) Option {
	return func(r *Runner) {
		if g != nil {
			r.runIDs = g
		}
	}
}

// NewRunner creates a Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		clock:  SystemClock{},
		alloc:  guardmem.New(),
		runIDs: UUIDv7Generator{},
		seq:    NewSequence(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Summary is the outcome of a whole run.
type Summary struct {
	RunID  string
	Suites []*Suite
	Stats  RunStats
}

// Failed reports whether any suite had a failed test.
func (s *Summary) Failed() bool {
	return s.Stats.FailedSuites > 0
}

// Failures returns every failure of the run in execution order.
func (s *Summary) Failures() []Failure {
	var out []Failure
	for _, suite := range s.Suites {
		for _, t := range suite.tests {
			out = append(out, t.failures...)
		}
	}
	return out
}

// Run executes every suite of reg once.
func (r *Runner) Run(reg *Registry) (*Summary, error) {
	if reg.closed {
		return nil, ErrClosed
	}
	if reg.ran {
		return nil, ErrAlreadyRun
	}
	reg.ran = true

	sum := &Summary{
		RunID:  r.runIDs.Generate(),
		Suites: reg.Suites(),
	}
	r.logger.Info("run starting", "run_id", sum.RunID, "suites", len(sum.Suites))

	for _, s := range sum.Suites {
		if err := r.runSuite(s); err != nil {
			return nil, fmt.Errorf("suite %s: %w", s.name, err)
		}
		sum.Stats.add(s.stats)
	}

	r.logger.Info("run finished",
		"run_id", sum.RunID,
		"failed_suites", sum.Stats.FailedSuites,
		"failed_tests", sum.Stats.FailedTests,
		"configurations", r.seq.Current(),
	)
	return sum, nil
}

func (r *Runner) runSuite(s *Suite) error {
	if s.ran {
		return ErrAlreadyRun
	}
	s.ran = true
	s.stats = SuiteStats{}

	r.observers.SuiteStarted(s)
	for _, t := range s.tests {
		r.runTest(s, t)
		s.stats.add(t.stats, t.status)
	}
	r.observers.SuiteFinished(s)
	return nil
}

// runTest drives every configuration of t and finalizes its status.
func (r *Runner) runTest(s *Suite, t *Test) {
	t.reset()
	t.status = StatusRunning
	r.observers.TestStarted(t)

	t.params.Reset()
	for index := int64(0); ; index++ {
		res := r.runConfiguration(s, t, index)

		switch res.Outcome {
		case OutcomePassed:
			t.stats.Passed++
		case OutcomeSkipped:
			t.stats.Skipped++
		case OutcomeFailed:
			t.status = StatusFailed
		}
		t.stats.Runtime += res.Runtime
		t.failures = append(t.failures, res.Failures...)
		r.observers.ConfigurationFinished(t, res)

		if !t.params.Advance() {
			break
		}
	}

	if t.stats.Passed+t.stats.Skipped == t.stats.Total {
		t.status = StatusPassed
	} else {
		t.status = StatusFailed
	}

	r.logger.Info("test finished",
		"suite", s.name,
		"test", t.name,
		"status", t.status.String(),
		"passed", t.stats.Passed,
		"skipped", t.stats.Skipped,
		"total", t.stats.Total,
	)
	r.observers.TestFinished(t)
}

// runConfiguration runs Setup, Run and Teardown for the current position
// of the parameter set. Every phase runs even when an earlier one failed.
func (r *Runner) runConfiguration(s *Suite, t *Test, index int64) ConfigurationResult {
	configuration := t.params.String()
	r.observers.ConfigurationStarted(t, index, configuration)
	r.logger.Debug("configuration starting",
		"suite", s.name,
		"test", t.name,
		"index", index,
		"configuration", configuration,
	)

	tt := newT(t, configuration, r.alloc, r.logger)
	start := r.clock.Now()

	tt.runPhase(PhaseSetup, s.setUp)
	t.stats.Run++
	tt.runPhase(PhaseRun, t.body)
	tt.runPhase(PhaseTeardown, s.tearDown)

	elapsed := r.clock.Now().Sub(start)
	outcome := tt.finish()

	r.logger.Debug("configuration finished",
		"suite", s.name,
		"test", t.name,
		"index", index,
		"outcome", outcome.String(),
		"failures", len(tt.failures),
	)

	return ConfigurationResult{
		Seq:           r.seq.Next(),
		Index:         index,
		Configuration: configuration,
		Outcome:       outcome,
		Failures:      tt.failures,
		Runtime:       elapsed,
	}
}
