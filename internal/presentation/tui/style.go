package tui

import (
	"io"

	"github.com/muesli/termenv"
)

// Styler colors walk output. Writers that are not terminals get plain text.
type Styler struct {
	out *termenv.Output
}

// NewStyler detects the color profile of w.
func NewStyler(w io.Writer) *Styler {
	return &Styler{out: termenv.NewOutput(w)}
}

// State highlights a state name.
func (s *Styler) State(name string) string {
	return s.out.String(name).Foreground(s.out.Color("#818cf8")).Bold().String()
}

// Transition highlights a transition name; contingent ones stand out.
func (s *Styler) Transition(name string, contingent bool) string {
	color := "#a78bfa"
	if contingent {
		color = "#fb7185"
	}
	return s.out.String(name).Foreground(s.out.Color(color)).String()
}

// Faint dims secondary text.
func (s *Styler) Faint(text string) string {
	return s.out.String(text).Faint().String()
}
