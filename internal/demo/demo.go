// Package demo holds example suites that exercise every assertion, every
// parameter kind and the guarded allocator. Many of their tests fail on
// purpose; they show what failure reports look like.
package demo

import "github.com/roach88/paramunit/internal/engine"

// Suites returns fresh copies of the example suites in run order.
func Suites() []*engine.Suite {
	return []*engine.Suite{
		FixtureSuite(),
		RowSuite(),
		AllAsserts(),
		AllParameters(),
		MallocSuite(),
	}
}

// Registry returns a registry holding every example suite.
func Registry() (*engine.Registry, error) {
	reg := engine.NewRegistry()
	for _, s := range Suites() {
		if err := reg.Add(s); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
