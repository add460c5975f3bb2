package testutil

import (
	"fmt"
	"sync"

	"github.com/roach88/paramunit/internal/engine"
)

// RecordingObserver records engine events as short strings so tests can
// assert on execution order.
//
//	"suite:start Math"
//	"test:start Math/Add"
//	"config:start Math/Add#0 a=0, b=0"
//	"config:passed Math/Add#0"
//	"test:passed Math/Add"
//	"suite:end Math"
type RecordingObserver struct {
	engine.BaseObserver

	mu      sync.Mutex
	events  []string
	results []engine.ConfigurationResult
}

// NewRecordingObserver creates an empty recorder.
func NewRecordingObserver() *RecordingObserver {
	return &RecordingObserver{}
}

func (o *RecordingObserver) add(format string, args ...any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, fmt.Sprintf(format, args...))
}

func (o *RecordingObserver) SuiteStarted(s *engine.Suite) {
	o.add("suite:start %s", s.Name())
}

func (o *RecordingObserver) TestStarted(t *engine.Test) {
	o.add("test:start %s/%s", t.Suite(), t.Name())
}

func (o *RecordingObserver) ConfigurationStarted(t *engine.Test, index int64, configuration string) {
	o.add("config:start %s/%s#%d %s", t.Suite(), t.Name(), index, configuration)
}

func (o *RecordingObserver) ConfigurationFinished(t *engine.Test, res engine.ConfigurationResult) {
	o.mu.Lock()
	o.results = append(o.results, res)
	o.mu.Unlock()
	o.add("config:%s %s/%s#%d", res.Outcome, t.Suite(), t.Name(), res.Index)
}

func (o *RecordingObserver) TestFinished(t *engine.Test) {
	o.add("test:%s %s/%s", t.Status(), t.Suite(), t.Name())
}

func (o *RecordingObserver) SuiteFinished(s *engine.Suite) {
	o.add("suite:end %s", s.Name())
}

// Events returns a copy of the recorded events.
func (o *RecordingObserver) Events() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]string, len(o.events))
	copy(out, o.events)
	return out
}

// Results returns every ConfigurationResult in the order received.
func (o *RecordingObserver) Results() []engine.ConfigurationResult {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]engine.ConfigurationResult, len(o.results))
	copy(out, o.results)
	return out
}
