package engine

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// Registry holds the suites of one process run, in registration order.
//
// A Registry is run at most once. Close releases every suite and test it
// owns; nothing may be added or run afterwards.
type Registry struct {
	suites []*Suite
	names  map[string]struct{}
	ran    bool
	closed bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{names: make(map[string]struct{})}
}

// Add validates a suite and registers it. The suite is rejected as a whole
// if it has any declaration error; every error found is returned, joined.
func (r *Registry) Add(s *Suite) error {
	if r.closed {
		return ErrClosed
	}
	if s == nil {
		return newRegistrationError(ErrCodeNilSuite, "", "", "suite is nil")
	}

	errs := append([]error(nil), s.errs...)
	if _, dup := r.names[s.name]; dup && s.name != "" {
		errs = append(errs, newRegistrationError(ErrCodeDuplicateSuite, s.name, "", "duplicate suite name"))
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	r.names[s.name] = struct{}{}
	r.suites = append(r.suites, s)
	return nil
}

// MustAdd adds every suite and panics on the first registration error.
// It is meant for package-level registries built from literals.
func (r *Registry) MustAdd(suites ...*Suite) *Registry {
	for _, s := range suites {
		if err := r.Add(s); err != nil {
			panic(fmt.Sprintf("paramunit: %v", err))
		}
	}
	return r
}

// Suites returns the registered suites in order.
func (r *Registry) Suites() []*Suite {
	out := make([]*Suite, len(r.suites))
	copy(out, r.suites)
	return out
}

// Filter returns a new registry holding only the tests whose
// "Suite/Test" path matches pattern (path.Match syntax). A pattern
// without a slash selects whole suites. Suites left without tests are
// dropped. An empty pattern keeps every suite and test.
func (r *Registry) Filter(pattern string) (*Registry, error) {
	if r.closed {
		return nil, ErrClosed
	}
	keep := func(*Suite, *Test) bool { return true }
	if pattern != "" {
		if !strings.Contains(pattern, "/") {
			pattern += "/*"
		}
		if _, err := path.Match(pattern, ""); err != nil {
			return nil, fmt.Errorf("invalid filter %q: %w", pattern, err)
		}
		keep = func(s *Suite, t *Test) bool {
			ok, _ := path.Match(pattern, s.name+"/"+t.name)
			return ok
		}
	}

	out := NewRegistry()
	for _, s := range r.suites {
		sub := s.subset(func(t *Test) bool { return keep(s, t) })
		if len(sub.tests) == 0 {
			continue
		}
		out.names[sub.name] = struct{}{}
		out.suites = append(out.suites, sub)
	}
	return out, nil
}

// Run executes every suite once with a Runner built from opts.
func (r *Registry) Run(opts ...Option) (*Summary, error) {
	return NewRunner(opts...).Run(r)
}

// Close releases every suite. It is safe to call more than once.
func (r *Registry) Close() error {
	if r.closed {
		return nil
	}
	for _, s := range r.suites {
		for _, t := range s.tests {
			t.failures = nil
			t.params = nil
			t.body = nil
		}
		s.tests = nil
		s.index = nil
	}
	r.suites = nil
	r.names = nil
	r.closed = true
	return nil
}
