package engine

import "time"

// ConfigurationResult describes one finished configuration.
type ConfigurationResult struct {
	// Seq is the position of this configuration in the whole run,
	// starting at 1.
	Seq int64

	// Index is the position within the test, starting at 0.
	Index int64

	Configuration string
	Outcome       Outcome
	Failures      []Failure
	Runtime       time.Duration
}

// Observer receives execution events in order. Observers run on the
// executing goroutine and must not block.
type Observer interface {
	SuiteStarted(s *Suite)
	TestStarted(t *Test)
	ConfigurationStarted(t *Test, index int64, configuration string)
	ConfigurationFinished(t *Test, result ConfigurationResult)
	TestFinished(t *Test)
	SuiteFinished(s *Suite)
}

// BaseObserver implements Observer with no-ops. Embed it to handle only
// some events.
type BaseObserver struct{}

func (BaseObserver) SuiteStarted(*Suite)                               {}
func (BaseObserver) TestStarted(*Test)                                 {}
func (BaseObserver) ConfigurationStarted(*Test, int64, string)         {}
func (BaseObserver) ConfigurationFinished(*Test, ConfigurationResult) {}
func (BaseObserver) TestFinished(*Test)                                {}
func (BaseObserver) SuiteFinished(*Suite)                              {}

// Observers fans every event out to each observer in order.
type Observers []Observer

func (o Observers) SuiteStarted(s *Suite) {
	for _, ob := range o {
		ob.SuiteStarted(s)
	}
}

func (o Observers) TestStarted(t *Test) {
	for _, ob := range o {
		ob.TestStarted(t)
	}
}

func (o Observers) ConfigurationStarted(t *Test, index int64, configuration string) {
	for _, ob := range o {
		ob.ConfigurationStarted(t, index, configuration)
	}
}

func (o Observers) ConfigurationFinished(t *Test, result ConfigurationResult) {
	for _, ob := range o {
		ob.ConfigurationFinished(t, result)
	}
}

func (o Observers) TestFinished(t *Test) {
	for _, ob := range o {
		ob.TestFinished(t)
	}
}

func (o Observers) SuiteFinished(s *Suite) {
	for _, ob := range o {
		ob.SuiteFinished(s)
	}
}
