package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintHeading writes a colored section heading, used for the level
// groups of the lesson listing.
func PrintHeading(w io.Writer, text string) {
	p := termenv.ColorProfile()
	s := termenv.String(text).Foreground(p.Color("#a78bfa")).Bold()
	fmt.Fprintf(w, "%s\n", s)
}

// PrintWarning writes a service warning in a muted alarm color.
func PrintWarning(w io.Writer, text string) {
	p := termenv.ColorProfile()
	s := termenv.String("warning: " + text).Foreground(p.Color("#fb7185"))
	fmt.Fprintf(w, "%s\n", s)
}
