// Package report turns an engine.Summary into the end-of-run report.
//
// Build produces a plain data snapshot that the text, JSON and YAML
// writers render. Strings in the snapshot are NFC-normalized and free of
// terminal escape sequences, so the machine-readable formats are stable
// across terminals.
package report

import (
	"github.com/acarl005/stripansi"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/paramunit/internal/engine"
)

// Status values used in reports.
const (
	StatusPassed = "passed"
	StatusFailed = "failed"
)

// Report is the complete result of one run.
type Report struct {
	RunID    string          `json:"run_id" yaml:"run_id"`
	Status   string          `json:"status" yaml:"status"`
	Totals   Totals          `json:"totals" yaml:"totals"`
	Suites   []SuiteReport   `json:"suites" yaml:"suites"`
	Failures []FailureReport `json:"failures" yaml:"failures"`
}

// Totals holds the run-wide counters.
type Totals struct {
	Suites       int    `json:"suites" yaml:"suites"`
	PassedSuites int    `json:"passed_suites" yaml:"passed_suites"`
	FailedSuites int    `json:"failed_suites" yaml:"failed_suites"`
	Counts       Counts `json:"counts" yaml:"counts"`
}

// Counts holds the test and configuration counters of a suite or run.
type Counts struct {
	Tests                 int   `json:"tests" yaml:"tests"`
	PassedTests           int   `json:"passed_tests" yaml:"passed_tests"`
	FailedTests           int   `json:"failed_tests" yaml:"failed_tests"`
	Configurations        int64 `json:"configurations" yaml:"configurations"`
	PassedConfigurations  int64 `json:"passed_configurations" yaml:"passed_configurations"`
	FailedConfigurations  int64 `json:"failed_configurations" yaml:"failed_configurations"`
	SkippedConfigurations int64 `json:"skipped_configurations" yaml:"skipped_configurations"`
	RuntimeMS             int64 `json:"runtime_ms" yaml:"runtime_ms"`
}

// SuiteReport describes one suite and its tests.
type SuiteReport struct {
	Name   string       `json:"name" yaml:"name"`
	Status string       `json:"status" yaml:"status"`
	Counts Counts       `json:"counts" yaml:"counts"`
	Tests  []TestReport `json:"tests" yaml:"tests"`
}

// TestReport describes one test.
type TestReport struct {
	Name       string   `json:"name" yaml:"name"`
	Status     string   `json:"status" yaml:"status"`
	Parameters []string `json:"parameters" yaml:"parameters"`
	Total      int64    `json:"total" yaml:"total"`
	Run        int64    `json:"run" yaml:"run"`
	Passed     int64    `json:"passed" yaml:"passed"`
	Failed     int64    `json:"failed" yaml:"failed"`
	Skipped    int64    `json:"skipped" yaml:"skipped"`
	RuntimeMS  int64    `json:"runtime_ms" yaml:"runtime_ms"`
	AverageMS  int64    `json:"average_ms" yaml:"average_ms"`
}

// FailureReport is one recorded failure.
type FailureReport struct {
	Suite         string `json:"suite" yaml:"suite"`
	Test          string `json:"test" yaml:"test"`
	Configuration string `json:"configuration" yaml:"configuration"`
	Message       string `json:"message" yaml:"message"`
	File          string `json:"file" yaml:"file"`
	Line          int    `json:"line" yaml:"line"`
	Phase         string `json:"phase" yaml:"phase"`
}

// Build snapshots a finished run.
func Build(sum *engine.Summary) *Report {
	r := &Report{
		RunID:    sum.RunID,
		Status:   StatusPassed,
		Suites:   make([]SuiteReport, 0, len(sum.Suites)),
		Failures: []FailureReport{},
		Totals: Totals{
			Suites:       sum.Stats.Suites,
			PassedSuites: sum.Stats.PassedSuites,
			FailedSuites: sum.Stats.FailedSuites,
			Counts:       countsOf(sum.Stats.SuiteStats),
		},
	}
	if sum.Failed() {
		r.Status = StatusFailed
	}

	for _, s := range sum.Suites {
		sr := SuiteReport{
			Name:   s.Name(),
			Status: StatusPassed,
			Counts: countsOf(s.Stats()),
			Tests:  make([]TestReport, 0, len(s.Tests())),
		}
		if s.Failed() {
			sr.Status = StatusFailed
		}
		for _, t := range s.Tests() {
			sr.Tests = append(sr.Tests, testReport(t))
		}
		r.Suites = append(r.Suites, sr)
	}

	for _, f := range sum.Failures() {
		r.Failures = append(r.Failures, FailureReport{
			Suite:         f.Suite,
			Test:          f.Test,
			Configuration: clean(f.Configuration),
			Message:       clean(f.Message),
			File:          f.File,
			Line:          f.Line,
			Phase:         f.Phase.String(),
		})
	}
	return r
}

// Failed reports whether the run had a failing suite.
func (r *Report) Failed() bool { return r.Status == StatusFailed }

func testReport(t *engine.Test) TestReport {
	st := t.Stats()
	tr := TestReport{
		Name:       t.Name(),
		Status:     t.Status().String(),
		Parameters: ParameterNames(t),
		Total:      st.Total,
		Run:        st.Run,
		Passed:     st.Passed,
		Failed:     st.Failed(),
		Skipped:    st.Skipped,
		RuntimeMS:  st.Runtime.Milliseconds(),
		AverageMS:  t.AverageRuntime().Milliseconds(),
	}
	return tr
}

// ParameterNames lists the parameters of t that contribute values, in
// declaration order. Unused implicit rows are left out.
func ParameterNames(t *engine.Test) []string {
	names := []string{}
	for _, p := range t.Params().Params() {
		if p.Count() > 0 {
			names = append(names, p.Name())
		}
	}
	return names
}

func countsOf(s engine.SuiteStats) Counts {
	return Counts{
		Tests:                 s.Tests,
		PassedTests:           s.PassedTests,
		FailedTests:           s.FailedTests,
		Configurations:        s.Configurations,
		PassedConfigurations:  s.PassedConfigurations,
		FailedConfigurations:  s.FailedConfigurations(),
		SkippedConfigurations: s.SkippedConfigurations,
		RuntimeMS:             s.Runtime.Milliseconds(),
	}
}

func clean(s string) string {
	return norm.NFC.String(stripansi.Strip(s))
}
