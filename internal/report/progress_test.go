package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/paramunit/internal/engine"
	"github.com/roach88/paramunit/internal/param"
	"github.com/roach88/paramunit/internal/testutil"
)

func runWithProgress(t *testing.T, p *Progress, suites ...*engine.Suite) {
	t.Helper()
	reg := engine.NewRegistry().MustAdd(suites...)
	_, err := reg.Run(
		engine.WithClock(testutil.NewStepClock(2*time.Millisecond)),
		engine.WithObserver(p),
	)
	require.NoError(t, err)
}

func TestProgress_FinalLinesWhenNotLive(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf)

	runWithProgress(t, p, engine.NewSuite("Demo").
		Test("Many", func(tt *engine.T) {
			switch tt.Int("n") {
			case 2:
				tt.Skip()
			case 3:
				tt.Fail("three")
			}
		}, param.Range("n", 1, 4)).
		Test("One", func(tt *engine.T) {}))

	assert.Equal(t, strings.Join([]string{
		"Demo",
		" FAIL \tMany\t2/4 configurations passed\t(1 skipped)\t[8ms total, avg 2ms per configuration]",
		" PASS \tOne\t1/1 configurations passed\t[2ms]",
		"",
	}, "\n"), buf.String())
}

func TestProgress_LiveRedraws(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf, WithLive(true))

	runWithProgress(t, p, engine.NewSuite("Demo").
		Test("Two", func(tt *engine.T) {}, param.Enum("x", 1, 2)))

	out := buf.String()
	assert.Contains(t, out, clearLine+" RUN \tTwo\t0/2 configurations passed")
	assert.Contains(t, out, clearLine+" RUN \tTwo\t1/2 configurations passed")
	assert.True(t, strings.HasSuffix(out,
		clearLine+" PASS \tTwo\t2/2 configurations passed\t[4ms total, avg 2ms per configuration]\n"))
}

func TestProgress_ColorBadges(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf, WithLive(true), WithColor(true))

	runWithProgress(t, p, engine.NewSuite("Demo").Test("One", func(tt *engine.T) {}))

	assert.Contains(t, buf.String(), "\x1b[")
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, IsTerminal(&bytes.Buffer{}))
}
