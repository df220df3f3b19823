// Package cli wires the tutor's commands: resolving lessons, running
// practice sessions and mapping their outcomes to process exit codes.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/aretw0/sensei/internal/engine"
	"github.com/aretw0/sensei/internal/render"
	"github.com/aretw0/sensei/pkg/lesson"
	"github.com/aretw0/sensei/pkg/ports"
)

// PracticeOptions collects the collaborators of one practice run. Service
// and Lesson are required; everything else degrades gracefully when
// absent.
type PracticeOptions struct {
	Service ports.LessonService
	Lesson  *lesson.Lesson
	Watcher ports.ContentWatcher
	Source  ports.EventSource
	Sink    ports.EventSink
	Logger  *slog.Logger
	In      io.Reader
	Out     io.Writer
	Pacing  bool
}

// Practice runs one lesson to completion, quit or abort.
func Practice(ctx context.Context, opts PracticeOptions) error {
	in := opts.In
	if in == nil {
		in = os.Stdin
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	engineOpts := []engine.Option{
		engine.WithInput(in),
		engine.WithOutput(out),
		engine.WithRenderer(render.New(out, render.WithPacing(opts.Pacing))),
	}
	if opts.Logger != nil {
		engineOpts = append(engineOpts, engine.WithLogger(opts.Logger))
	}
	if opts.Watcher != nil {
		engineOpts = append(engineOpts, engine.WithWatcher(opts.Watcher))
	}
	if opts.Source != nil {
		engineOpts = append(engineOpts, engine.WithEventSource(opts.Source))
	}
	if opts.Sink != nil {
		engineOpts = append(engineOpts, engine.WithEventSink(opts.Sink))
	}

	e, err := engine.New(opts.Service, opts.Lesson, engineOpts...)
	if err != nil {
		return err
	}
	return e.Run(ctx)
}

// ExitCode maps a practice outcome to the process exit code. Completing,
// quitting and content-changed aborts are all ordinary endings.
func ExitCode(err error) int {
	if err == nil || errors.Is(err, engine.ErrReloaded) {
		return 0
	}
	return 1
}

// ResolveLesson finds a lesson in the catalog. An unknown name is
// reported together with the available lessons, so a typo costs one
// glance instead of a listing round trip.
func ResolveLesson(catalog *lesson.Catalog, name string, out io.Writer) (*lesson.Lesson, error) {
	l, ok := catalog.Lesson(name)
	if ok {
		return l, nil
	}

	fmt.Fprintf(out, "Unknown lesson %q. Available lessons:\n", name)
	for i := range catalog.Lessons {
		fmt.Fprintf(out, "  %s - %s\n", catalog.Lessons[i].ID, catalog.Lessons[i].Description)
	}
	return nil, fmt.Errorf("unknown lesson %q", name)
}

// StdoutIsTerminal reports whether stdout is an interactive terminal.
// Paced output is only worth the wait for a human watching it.
func StdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
