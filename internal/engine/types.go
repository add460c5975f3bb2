package engine

import (
	"fmt"
	"time"
)

// MaxMessageLength bounds a failure message, counting the terminator slot
// of the fixed-size buffer it was historically formatted into.
const MaxMessageLength = 256

// Phase is one step of a configuration run.
type Phase int

const (
	PhaseSetup Phase = iota
	PhaseRun
	PhaseTeardown
)

func (p Phase) String() string {
	switch p {
	case PhaseSetup:
		return "Setup"
	case PhaseRun:
		return "Run"
	case PhaseTeardown:
		return "Teardown"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Status is the lifecycle state of a Test.
type Status int

const (
	StatusPending Status = iota
	StatusRunning
	StatusPassed
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusRunning:
		return "running"
	case StatusPassed:
		return "passed"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Outcome classifies one configuration run.
//
// Pending moves to exactly one of Failed, Skipped or Passed. Failed is
// sticky: once set, nothing later in the same configuration changes it.
type Outcome int

const (
	OutcomePending Outcome = iota
	OutcomeFailed
	OutcomeSkipped
	OutcomePassed
)

func (o Outcome) String() string {
	switch o {
	case OutcomePending:
		return "pending"
	case OutcomeFailed:
		return "failed"
	case OutcomeSkipped:
		return "skipped"
	case OutcomePassed:
		return "passed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Failure is one recorded assertion failure. Failures are immutable once
// appended to a Test.
type Failure struct {
	Suite         string
	Test          string
	Configuration string
	Message       string
	File          string
	Line          int
	Phase         Phase
}

// TestStats are the per-test configuration counters.
type TestStats struct {
	// Total is the number of configurations the parameter set enumerates.
	Total int64

	// Run counts configurations whose Run phase was entered.
	Run int64

	Passed  int64
	Skipped int64

	// Runtime accumulates the measured time of every configuration.
	Runtime time.Duration
}

// Failed returns the number of configurations that neither passed nor
// were skipped.
func (s TestStats) Failed() int64 {
	return s.Total - s.Passed - s.Skipped
}

// SuiteStats roll up the tests of one suite.
type SuiteStats struct {
	Tests       int
	PassedTests int
	FailedTests int

	Configurations        int64
	PassedConfigurations  int64
	SkippedConfigurations int64

	Runtime time.Duration
}

// FailedConfigurations returns the configurations that neither passed nor
// were skipped.
func (s SuiteStats) FailedConfigurations() int64 {
	return s.Configurations - s.PassedConfigurations - s.SkippedConfigurations
}

func (s *SuiteStats) add(t TestStats, status Status) {
	s.Tests++
	if status == StatusPassed {
		s.PassedTests++
	} else {
		s.FailedTests++
	}
	s.Configurations += t.Total
	s.PassedConfigurations += t.Passed
	s.SkippedConfigurations += t.Skipped
	s.Runtime += t.Runtime
}

// RunStats roll up every suite of a run.
type RunStats struct {
	Suites       int
	PassedSuites int
	FailedSuites int

	SuiteStats
}

func (s *RunStats) add(suite SuiteStats) {
	s.Suites++
	if suite.FailedTests > 0 {
		s.FailedSuites++
	} else {
		s.PassedSuites++
	}
	s.Tests += suite.Tests
	s.PassedTests += suite.PassedTests
	s.FailedTests += suite.FailedTests
	s.Configurations += suite.Configurations
	s.PassedConfigurations += suite.PassedConfigurations
	s.SkippedConfigurations += suite.SkippedConfigurations
	s.Runtime += suite.Runtime
}
