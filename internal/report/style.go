package report

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// palette holds the styles of one output stream. With color disabled
// every style renders its input unchanged.
type palette struct {
	color bool

	pass    lipgloss.Style
	fail    lipgloss.Style
	run     lipgloss.Style
	idle    lipgloss.Style
	message lipgloss.Style
	header  lipgloss.Style
}

func newPalette(w io.Writer, color bool) palette {
	r := lipgloss.NewRenderer(w)
	if color {
		r.SetColorProfile(termenv.ANSI)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}
	black := lipgloss.Color("0")
	return palette{
		color:   color,
		pass:    r.NewStyle().Foreground(black).Background(lipgloss.Color("2")),
		fail:    r.NewStyle().Foreground(black).Background(lipgloss.Color("1")),
		run:     r.NewStyle().Foreground(black).Background(lipgloss.Color("3")),
		idle:    r.NewStyle().Foreground(lipgloss.Color("7")).Background(black),
		message: r.NewStyle().Foreground(lipgloss.Color("1")),
		header:  r.NewStyle().Bold(true),
	}
}

func (p palette) paint(s lipgloss.Style, text string) string {
	if !p.color {
		return text
	}
	return s.Render(text)
}

// badge renders the status marker of a test.
func (p palette) badge(status string) string {
	switch status {
	case "passed":
		return p.paint(p.pass, " PASS ")
	case "failed":
		return p.paint(p.fail, " FAIL ")
	case "running":
		return p.paint(p.run, " RUN ")
	default:
		return p.paint(p.idle, " IDLE ")
	}
}
