package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixedRunID_ReturnsSameID(t *testing.T) {
	gen := NewFixedRunID("run-123")

	// Multiple calls return same ID
	assert.Equal(t, "run-123", gen.Generate())
	assert.Equal(t, "run-123", gen.Generate())
}

func TestFixedRunID_EmptyIDDefault(t *testing.T) {
	gen := NewFixedRunID("")
	assert.Equal(t, "test-run-default", gen.Generate())
}
