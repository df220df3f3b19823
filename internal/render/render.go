// Package render presents typed response payloads on a terminal. It is
// the only place that knows how each rendering kind looks; callers hand
// it lesson.Response values and never format text themselves.
package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aretw0/sensei/pkg/lesson"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/termenv"
)

// wrapWidth is the column the original terminal flow wraps at.
const wrapWidth = 68

const (
	charDelay  = 20 * time.Millisecond
	pauseDelay = 500 * time.Millisecond
	// pauseChars get a longer beat when followed by a space.
	pauseChars = ".?!:"
)

// Renderer writes response payloads to a terminal. The paced countdown is
// renderer-scoped state, so one instance must live for the whole practice
// session and must not be shared across sessions.
type Renderer struct {
	out     io.Writer
	profile termenv.Profile
	pacing  bool
	width   int

	// wait is the paced-response countdown in seconds. It decreases on
	// every paced render, floored at 1.
	wait int
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithPacing toggles slow character output and countdown sleeps. Pacing
// is off by default; the CLI enables it on interactive terminals.
func WithPacing(enabled bool) Option {
	return func(r *Renderer) {
		r.pacing = enabled
	}
}

// WithProfile overrides the detected color profile.
func WithProfile(p termenv.Profile) Option {
	return func(r *Renderer) {
		r.profile = p
	}
}

// WithWidth overrides the wrap column.
func WithWidth(w int) Option {
	return func(r *Renderer) {
		r.width = w
	}
}

// New creates a renderer writing to out.
func New(out io.Writer, opts ...Option) *Renderer {
	r := &Renderer{
		out:     out,
		profile: termenv.Ascii,
		width:   wrapWidth,
		wait:    3,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render presents one response payload. It only fails on an unrecognized
// rendering kind, which is a content error, never a transient condition.
// The payload is fully written before Render returns.
func (r *Renderer) Render(resp lesson.Response) error {
	switch resp.Kind {
	case lesson.ResponseRaw:
		fmt.Fprintln(r.out, resp.Value)
	case lesson.ResponseWrapped:
		r.renderWrapped(resp.Value)
	case lesson.ResponseScrolled:
		r.renderScrolled(resp.Value)
	case lesson.ResponsePaced:
		r.renderPaced(resp.Value)
	default:
		return &lesson.ContentError{Msg: fmt.Sprintf("unknown response kind %q", resp.Kind)}
	}
	return nil
}

// Scrolled presents plain text the way instructional text and replies are
// shown: wrapped, tinted, character by character.
func (r *Renderer) Scrolled(text string) {
	r.renderScrolled(text)
}

func (r *Renderer) renderWrapped(value string) {
	paragraphs := strings.Split(value, "\n\n")
	for i, p := range paragraphs {
		if i > 0 {
			fmt.Fprintln(r.out)
		}
		fmt.Fprintln(r.out, wordwrap.String(p, r.width))
	}
}

func (r *Renderer) renderScrolled(value string) {
	// Wrap each source line on its own so authored newlines survive
	// without picking up stray indentation.
	lines := make([]string, 0, 8)
	for _, line := range strings.Split(value, "\n") {
		lines = append(lines, wordwrap.String(line, r.width))
	}
	r.printSlowly(r.tint(strings.Join(lines, "\n")), true)
}

func (r *Renderer) renderPaced(value string) {
	r.wait = max(r.wait-1, 1)
	r.printSlowly(r.tint(wordwrap.String(value, r.width)), false)
	for i := 0; i < r.wait; i++ {
		fmt.Fprint(r.out, ".")
		r.sleep(time.Second)
	}
	fmt.Fprintln(r.out)
}

// printSlowly emits text one character at a time with a longer beat after
// sentence punctuation. With pacing disabled it degrades to a plain write.
func (r *Renderer) printSlowly(text string, newline bool) {
	if !r.pacing {
		fmt.Fprint(r.out, text)
		if newline {
			fmt.Fprintln(r.out)
		}
		return
	}

	runes := []rune(text + " ")
	for i := 0; i < len(runes)-1; i++ {
		fmt.Fprint(r.out, string(runes[i]))
		if strings.ContainsRune(pauseChars, runes[i]) && runes[i+1] == ' ' {
			r.sleep(pauseDelay)
		} else {
			r.sleep(charDelay)
		}
	}
	if newline {
		fmt.Fprintln(r.out)
	}
}

func (r *Renderer) tint(s string) string {
	return termenv.String(s).Foreground(r.profile.Color("#af87ff")).String()
}

func (r *Renderer) sleep(d time.Duration) {
	if r.pacing {
		time.Sleep(d)
	}
}
