package sensei

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/aretw0/sensei/internal/adapters/memory"
	"github.com/aretw0/sensei/internal/cli"
	"github.com/aretw0/sensei/internal/logging"
	"github.com/aretw0/sensei/pkg/lesson"
	"github.com/aretw0/sensei/pkg/ports"
)

// Version is stamped by the release build; the default marks dev builds.
var Version = "0.0.0-dev"

// Tutor is the high-level entry point for embedding the tutor in another
// program. It wraps a lesson service and the practice machinery behind a
// small API; the CLI is one consumer of it.
type Tutor struct {
	catalog *lesson.Catalog
	svc     ports.LessonService
	watcher ports.ContentWatcher
	source  ports.EventSource
	sink    ports.EventSink
	logger  *slog.Logger
	pacing  bool
}

// Option configures a Tutor.
type Option func(*Tutor)

// WithService injects a custom lesson service, bypassing the default
// in-memory one built from the catalog.
func WithService(svc ports.LessonService) Option {
	return func(t *Tutor) {
		t.svc = svc
	}
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tutor) {
		t.logger = logger
	}
}

// WithWatcher connects a content-changed notification channel.
func WithWatcher(w ports.ContentWatcher) Option {
	return func(t *Tutor) {
		t.watcher = w
	}
}

// WithEventSource connects a lesson-event stream for external-event tasks.
func WithEventSource(s ports.EventSource) Option {
	return func(t *Tutor) {
		t.source = s
	}
}

// WithEventSink connects the secondary service receiving side-effect
// events.
func WithEventSink(s ports.EventSink) Option {
	return func(t *Tutor) {
		t.sink = s
	}
}

// WithPacing enables character-by-character output pacing.
func WithPacing(pacing bool) Option {
	return func(t *Tutor) {
		t.pacing = pacing
	}
}

// New initializes a Tutor from a catalog file. With WithService the path
// may be empty and no catalog is loaded; Practice then resolves lessons
// through the injected service's catalog instead.
func New(catalogPath string, opts ...Option) (*Tutor, error) {
	t := &Tutor{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(t)
	}

	if catalogPath != "" {
		catalog, err := lesson.LoadCatalog(catalogPath)
		if err != nil {
			return nil, err
		}
		t.catalog = catalog
	}

	if t.svc == nil {
		if t.catalog == nil {
			return nil, errors.New("sensei: a catalog path or a custom service is required")
		}
		t.svc = memory.NewService(t.catalog, memory.WithLogger(t.logger))
	}
	return t, nil
}

// Catalog returns the loaded catalog, or nil when a custom service owns
// the content.
func (t *Tutor) Catalog() *lesson.Catalog {
	return t.catalog
}

// Service returns the lesson service the tutor talks to.
func (t *Tutor) Service() ports.LessonService {
	return t.svc
}

// Lessons lists the currently unlocked lessons.
func (t *Tutor) Lessons(ctx context.Context, modality string) ([]ports.LessonSummary, error) {
	return t.svc.UnlockedLessons(ctx, modality)
}

// Practice runs one lesson interactively over the given streams until it
// completes, the user quits, or the session aborts.
func (t *Tutor) Practice(ctx context.Context, l *lesson.Lesson, in io.Reader, out io.Writer) error {
	return cli.Practice(ctx, cli.PracticeOptions{
		Service: t.svc,
		Lesson:  l,
		Watcher: t.watcher,
		Source:  t.source,
		Sink:    t.sink,
		Logger:  t.logger,
		In:      in,
		Out:     out,
		Pacing:  t.pacing,
	})
}
