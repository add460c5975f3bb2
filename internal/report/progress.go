package report

import (
	"fmt"
	"io"
	"os"

	"github.com/acarl005/stripansi"
	"github.com/mattn/go-isatty"

	"github.com/roach88/paramunit/internal/engine"
)

const clearLine = "\x1b[2K\r"

// Progress prints one status line per test while a run executes.
//
// On a terminal the line of the running test is redrawn after every
// configuration. Elsewhere only the final line of each test is written,
// without escape sequences.
type Progress struct {
	engine.BaseObserver

	w    io.Writer
	live bool
	pal  palette
}

// ProgressOption configures a Progress.
type ProgressOption func(*Progress)

// WithLive forces redrawing on or off regardless of the writer.
func WithLive(live bool) ProgressOption {
	return func(p *Progress) { p.live = live }
}

// WithColor enables styled status badges.
func WithColor(color bool) ProgressOption {
	return func(p *Progress) { p.pal = newPalette(p.w, color) }
}

// NewProgress creates a progress printer writing to w.
func NewProgress(w io.Writer, opts ...ProgressOption) *Progress {
	p := &Progress{w: w, live: IsTerminal(w)}
	p.pal = newPalette(w, false)
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (p *Progress) SuiteStarted(s *engine.Suite) {
	fmt.Fprintln(p.w, p.pal.paint(p.pal.header, s.Name()))
}

func (p *Progress) TestStarted(t *engine.Test) {
	if p.live {
		fmt.Fprint(p.w, clearLine+statusLine(t, false, p.pal))
	}
}

func (p *Progress) ConfigurationFinished(t *engine.Test, _ engine.ConfigurationResult) {
	if p.live {
		fmt.Fprint(p.w, clearLine+statusLine(t, false, p.pal))
	}
}

func (p *Progress) TestFinished(t *engine.Test) {
	line := statusLine(t, true, p.pal)
	if p.live {
		fmt.Fprintln(p.w, clearLine+line)
		return
	}
	fmt.Fprintln(p.w, stripansi.Strip(line))
}

// statusLine renders the status of a test:
//
//	 PASS 	name	p/t configurations passed	(s skipped)	[Xms total, avg Yms per configuration]
//
// The skip count appears only when nonzero and the timing only once the
// test is complete.
func statusLine(t *engine.Test, complete bool, pal palette) string {
	st := t.Stats()
	line := fmt.Sprintf("%s\t%s\t%d/%d configurations passed",
		pal.badge(t.Status().String()), t.Name(), st.Passed, st.Total)
	if st.Skipped > 0 {
		line += fmt.Sprintf("\t(%d skipped)", st.Skipped)
	}
	if complete {
		if st.Total > 1 {
			line += fmt.Sprintf("\t[%dms total, avg %dms per configuration]",
				st.Runtime.Milliseconds(), t.AverageRuntime().Milliseconds())
		} else {
			line += fmt.Sprintf("\t[%dms]", st.Runtime.Milliseconds())
		}
	}
	return line
}
