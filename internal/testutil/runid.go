package testutil

// FixedRunID generates the same run ID every time.
//
// This enables golden snapshot comparison of reports and metrics, which
// both carry the run ID. Unlike engine.FixedGenerator, which returns IDs
// in sequence and panics when exhausted, this generator can serve any
// number of runs.
//
// Thread-safety: FixedRunID is stateless and safe for concurrent use.
type FixedRunID struct {
	id string
}

// NewFixedRunID creates a generator for id. If id is empty, Generate
// returns "test-run-default".
func NewFixedRunID(id string) *FixedRunID {
	if id == "" {
		id = "test-run-default"
	}
	return &FixedRunID{id: id}
}

// Generate returns the fixed run ID.
//
// Implements engine.RunIDGenerator.
func (g *FixedRunID) Generate() string {
	return g.id
}
