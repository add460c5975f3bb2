// Package engine runs parameterized tests.
//
// A Registry holds Suites; a Suite holds Tests and optional SetUp and
// TearDown callbacks; a Test owns a param.Set. Running a Registry drives
// every Test through every configuration of its parameters.
//
// EXECUTION MODEL:
//
// For each configuration the Runner renders the configuration string,
// starts a timer and runs three phases in order:
//
//  1. Setup    (the suite's SetUp, if any)
//  2. Run      (the test body)
//  3. Teardown (the suite's TearDown, if any)
//
// A failed assertion, a Skip or a panic abandons the rest of the phase it
// happened in. The following phases still run, so a TearDown always gets
// the chance to release what SetUp acquired.
//
// Each configuration ends in exactly one Outcome:
//   - Failed if anything was recorded in any phase (sticky)
//   - Skipped if Skip was called and nothing failed
//   - Passed otherwise
//
// A Test passes when Passed + Skipped == Total after every configuration
// ran. A Suite fails when any of its tests fails.
//
// INVARIANTS:
//   - Configurations of a test run in enumeration order, each exactly once
//   - Run counts configurations whose Run phase was entered
//   - Failures are appended in the order they were recorded
//   - A Registry runs at most once
package engine
