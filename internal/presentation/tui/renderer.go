package tui

import (
	"github.com/charmbracelet/glamour"
)

// NewMarkdown returns a function that renders markdown for the terminal,
// used for lesson descriptions in the listing. It falls back to the raw
// text when the renderer cannot be built or a document will not render.
func NewMarkdown() func(string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
	)
	return func(markdown string) string {
		if err != nil {
			return markdown
		}
		out, rerr := r.Render(markdown)
		if rerr != nil {
			return markdown
		}
		return out
	}
}
