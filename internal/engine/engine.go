// Package engine drives one practice session: a finite-state machine that
// fetches task descriptions, prompts for input, submits it for grading and
// applies the resulting effects until the lesson completes or aborts.
//
// The machine is single-threaded and cooperative. It performs one blocking
// read (keyboard or lesson event) per waiting state and one blocking
// remote call per submission. The only concurrency is the reload monitor,
// which crosses the thread boundary through a single sticky flag.
package engine

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/aretw0/sensei/internal/logging"
	"github.com/aretw0/sensei/internal/modality"
	"github.com/aretw0/sensei/internal/reload"
	"github.com/aretw0/sensei/internal/render"
	"github.com/aretw0/sensei/pkg/lesson"
	"github.com/aretw0/sensei/pkg/ports"
)

// State identifies a node of the practice state machine.
type State int

const (
	StateFetching State = iota
	StateWaiting
	StateWaitingEvent
	StateSubmit
	StateApplyingEffects
	StateDone
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateFetching:
		return "fetching"
	case StateWaiting:
		return "waiting"
	case StateWaitingEvent:
		return "waiting-event"
	case StateSubmit:
		return "submit"
	case StateApplyingEffects:
		return "applying-effects"
	case StateDone:
		return "done"
	case StateAborted:
		return "aborted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// LessonCompletedEvent is the synthetic event dispatched once when any
// lesson completes, so the secondary service learns that *a* lesson
// finished regardless of which one.
const LessonCompletedEvent = "sensei-lesson-completed"

// ErrReloaded is returned when the session aborts because lesson content
// changed on the service side. It is a graceful abort, not a failure.
var ErrReloaded = errors.New("lesson content changed")

// errQuit terminates the run from a user quit command. Never escapes Run.
var errQuit = errors.New("user quit")

// AbortError is a fatal session failure: a service error or a content
// defect, tagged with the task that was active.
type AbortError struct {
	Task string
	Err  error
}

func (e *AbortError) Error() string {
	return fmt.Sprintf("aborted at task %q: %v", e.Task, e.Err)
}

func (e *AbortError) Unwrap() error {
	return e.Err
}

// Engine owns the lesson+task pointer for one practice session. It
// references the lesson, never mutates it, and holds at most one open
// service session at a time.
type Engine struct {
	svc     ports.LessonService
	sink    ports.EventSink
	source  ports.EventSource
	watcher ports.ContentWatcher
	monitor *reload.Monitor

	resolver *modality.Resolver
	renderer *render.Renderer
	in       *bufio.Reader
	out      io.Writer
	logger   *slog.Logger

	lesson     *lesson.Lesson
	task       *lesson.Task
	descriptor lesson.InputDescriptor
	session    ports.Session
	submission string
	result     string
	responses  []lesson.Response

	live   <-chan struct{}
	events <-chan ports.TaskRef
}

// Option configures an Engine.
type Option func(*Engine)

// WithInput sets the keyboard input stream (default os.Stdin).
func WithInput(r io.Reader) Option {
	return func(e *Engine) {
		e.in = bufio.NewReader(r)
	}
}

// WithOutput sets the terminal output stream (default os.Stdout).
func WithOutput(w io.Writer) Option {
	return func(e *Engine) {
		e.out = w
	}
}

// WithLogger sets a structured logger for engine internals.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithEventSink connects the secondary notification service that receives
// side-effect events.
func WithEventSink(sink ports.EventSink) Option {
	return func(e *Engine) {
		e.sink = sink
	}
}

// WithEventSource connects the notification stream that unblocks
// external-event tasks.
func WithEventSource(source ports.EventSource) Option {
	return func(e *Engine) {
		e.source = source
	}
}

// WithWatcher connects the content-changed notification channel. It feeds
// both the reload monitor and the engine's own live signal.
func WithWatcher(watcher ports.ContentWatcher) Option {
	return func(e *Engine) {
		e.watcher = watcher
	}
}

// WithMonitor injects a pre-built reload monitor, replacing the one the
// engine would derive from its watcher.
func WithMonitor(m *reload.Monitor) Option {
	return func(e *Engine) {
		e.monitor = m
	}
}

// WithRenderer injects a configured response renderer.
func WithRenderer(r *render.Renderer) Option {
	return func(e *Engine) {
		e.renderer = r
	}
}

// New creates an engine for one visit of one lesson. The lesson is owned
// by the caller and must already be validated.
func New(svc ports.LessonService, l *lesson.Lesson, opts ...Option) (*Engine, error) {
	if svc == nil {
		return nil, errors.New("engine: lesson service is required")
	}
	if l == nil {
		return nil, errors.New("engine: lesson is required")
	}

	e := &Engine{
		svc:    svc,
		lesson: l,
		in:     bufio.NewReader(os.Stdin),
		out:    os.Stdout,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.renderer == nil {
		e.renderer = render.New(e.out)
	}
	if e.resolver == nil {
		e.resolver = modality.New(e.out)
	}
	if e.monitor == nil {
		e.monitor = reload.New(e.watcher, reload.WithLogger(e.logger))
	}
	return e, nil
}

// Run executes the state machine until the lesson completes, the user
// quits, or the session aborts. It returns nil on completion and quit,
// ErrReloaded on a content-changed abort, and an *AbortError on fatal
// service or content failures. Any open session is released on every
// exit path.
func (e *Engine) Run(ctx context.Context) error {
	entry, ok := e.lesson.Task(e.lesson.Entry)
	if !ok {
		return e.contentAbort(e.lesson.Entry, fmt.Errorf("entry task %q not found", e.lesson.Entry))
	}
	e.task = entry

	if e.lesson.RequiresSession {
		session, err := e.svc.OpenSession(ctx, e.lesson.ID)
		if err != nil {
			return e.fatalAbort(err)
		}
		e.session = session
		defer func() {
			// Release even when ctx was cancelled mid-flight.
			if cerr := e.svc.CloseSession(context.WithoutCancel(ctx), e.session); cerr != nil {
				e.logger.Warn("close session", "err", cerr)
			}
			e.session = ""
		}()
	}

	e.monitor.Start()
	defer e.monitor.Stop()

	if e.watcher != nil {
		if ch, err := e.watcher.Watch(ctx); err == nil {
			e.live = ch
		} else {
			e.logger.Warn("live content signal unavailable", "err", err)
		}
	}
	if e.source != nil {
		if ch, err := e.source.SatisfiedEvents(ctx); err == nil {
			e.events = ch
		} else {
			e.logger.Warn("lesson event stream unavailable", "err", err)
		}
	}

	state := StateFetching
	for {
		// The primary connection's own lessons-changed signal aborts
		// between any two states.
		if e.liveChanged() {
			fmt.Fprintln(e.out, "Lessons changed - aborting")
			return ErrReloaded
		}

		next, err := e.step(ctx, state)
		if err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			return err
		}

		e.logger.Debug("transition", "from", state, "to", next, "task", e.task.ID)
		switch next {
		case StateDone:
			return nil
		case StateAborted:
			// Abort paths carry their error; this is a safety net.
			return nil
		}
		state = next
	}
}

func (e *Engine) step(ctx context.Context, state State) (State, error) {
	switch state {
	case StateFetching:
		return e.fetch(ctx)
	case StateWaiting:
		return e.waitInput()
	case StateWaitingEvent:
		return e.waitEvent(ctx)
	case StateSubmit:
		return e.submit(ctx)
	case StateApplyingEffects:
		return e.applyEffects(ctx)
	default:
		return StateAborted, fmt.Errorf("engine: step on terminal state %s", state)
	}
}

// fetch retrieves the current task's description, renders it and decides
// which waiting state follows from the descriptor's modality.
func (e *Engine) fetch(ctx context.Context) (State, error) {
	text, raw, err := e.svc.GetTaskDescription(ctx, e.lesson.ID, e.task.ID)
	if err != nil {
		return StateAborted, e.fatalAbort(err)
	}
	d, err := lesson.ParseDescriptor(raw)
	if err != nil {
		return StateAborted, e.contentAbort(e.task.ID, err)
	}
	e.descriptor = d
	e.renderer.Scrolled(text)
	return e.promptState(), nil
}

// promptState maps the cached descriptor to WAITING or WAITING_EVENT.
func (e *Engine) promptState() State {
	if e.descriptor.Modality == lesson.ModalityExternalEvent {
		return StateWaitingEvent
	}
	return StateWaiting
}

// waitInput prompts, blocks for one line of input and converts it.
// Rejected input stays in WAITING with the same descriptor.
func (e *Engine) waitInput() (State, error) {
	if err := e.resolver.Prompt(e.descriptor); err != nil {
		return StateAborted, e.contentAbort(e.task.ID, err)
	}

	line, err := e.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		if err == io.EOF {
			// Input stream ended: leave as gracefully as a quit.
			return StateAborted, e.quit()
		}
		return StateAborted, e.fatalAbort(fmt.Errorf("read input: %w", err))
	}

	if isQuitCommand(line) {
		return StateAborted, e.quit()
	}

	value, accepted, cerr := e.resolver.Convert(e.descriptor, line)
	if cerr != nil {
		return StateAborted, e.contentAbort(e.task.ID, cerr)
	}
	if !accepted {
		return StateWaiting, nil
	}
	e.submission = value
	return StateSubmit, nil
}

// waitEvent blocks until a lesson event matching the current lesson/task
// arrives, the content changes, or the context is cancelled.
func (e *Engine) waitEvent(ctx context.Context) (State, error) {
	if e.events == nil {
		return StateAborted, e.contentAbort(e.task.ID,
			&lesson.ContentError{Msg: "task waits for external events but no event stream is connected"})
	}

	for {
		select {
		case <-ctx.Done():
			return StateAborted, e.fatalAbort(ctx.Err())
		case <-e.liveSignal():
			fmt.Fprintln(e.out, "Lessons changed - aborting")
			return StateAborted, ErrReloaded
		case ref, ok := <-e.events:
			if !ok {
				return StateAborted, e.fatalAbort(errors.New("lesson event stream closed"))
			}
			if ref.Lesson == e.lesson.ID && ref.Task == e.task.ID {
				e.submission = ""
				return StateSubmit, nil
			}
			// Event for another task; keep waiting.
		}
	}
}

// submit checks the reload flag one last time and dispatches the pending
// submission. A reload observed here overrides the submission.
func (e *Engine) submit(ctx context.Context) (State, error) {
	if e.monitor.Reloaded() {
		fmt.Fprintln(e.out, "Lesson content changed - aborting")
		return StateAborted, ErrReloaded
	}

	result, responses, err := e.svc.AttemptLesson(ctx, e.session, e.lesson.ID, e.task.ID, e.submission)
	if err != nil {
		return StateAborted, e.fatalAbort(err)
	}
	e.result = result
	e.responses = responses
	return StateApplyingEffects, nil
}

// applyEffects renders the grading responses and the effect's reply, runs
// side effects in order, and decides where the machine goes next.
func (e *Engine) applyEffects(ctx context.Context) (State, error) {
	effect, ok := e.task.Effects[e.result]
	if !ok {
		return StateAborted, e.contentAbort(e.task.ID,
			&lesson.ContentError{Msg: fmt.Sprintf("no effect for grading result %q", e.result)})
	}

	for _, resp := range e.responses {
		if err := e.renderer.Render(resp); err != nil {
			return StateAborted, e.contentAbort(e.task.ID, err)
		}
	}
	e.renderer.Scrolled(effect.Reply)

	for _, se := range effect.SideEffects {
		if err := e.dispatchSideEffect(ctx, se); err != nil {
			return StateAborted, e.fatalAbort(err)
		}
	}

	if effect.CompletesLesson {
		completed := lesson.SideEffect{Kind: lesson.SideEffectEvent, Value: LessonCompletedEvent}
		if err := e.dispatchSideEffect(ctx, completed); err != nil {
			return StateAborted, e.fatalAbort(err)
		}
		return StateDone, nil
	}

	if effect.MoveTo == "" || effect.MoveTo == e.task.ID {
		// Retry: same task, same descriptor, no re-fetch.
		return e.promptState(), nil
	}

	next, ok := e.lesson.Task(effect.MoveTo)
	if !ok {
		return StateAborted, e.contentAbort(e.task.ID,
			&lesson.ContentError{Msg: fmt.Sprintf("next task %q not found", effect.MoveTo)})
	}
	e.task = next
	return StateFetching, nil
}

// dispatchSideEffect forwards one side effect. A sink that is not
// interested right now is an expected non-error; anything else
// propagates.
func (e *Engine) dispatchSideEffect(ctx context.Context, se lesson.SideEffect) error {
	switch se.Kind {
	case lesson.SideEffectEvent:
		if e.sink == nil {
			e.logger.Debug("no event sink, dropping event", "event", se.Value)
			return nil
		}
		err := e.sink.NotifyEvent(ctx, se.Value)
		if errors.Is(err, ports.ErrNotInterested) {
			return nil
		}
		return err
	default:
		return &lesson.ContentError{Msg: fmt.Sprintf("unknown side effect kind %q", se.Kind)}
	}
}

func (e *Engine) quit() error {
	fmt.Fprintln(e.out, "See you later!")
	return errQuit
}

// fatalAbort reports a fatal failure with the failing task's name and
// wraps it for the process boundary.
func (e *Engine) fatalAbort(err error) error {
	task := e.lesson.Entry
	if e.task != nil {
		task = e.task.ID
	}
	fmt.Fprintf(e.out, "Internal error in attempting %s\n", task)
	return &AbortError{Task: task, Err: err}
}

// contentAbort reports a lesson-authoring defect.
func (e *Engine) contentAbort(task string, err error) error {
	fmt.Fprintf(e.out, "This lesson looks broken (task %s)\n", task)
	return &AbortError{Task: task, Err: err}
}

// liveChanged polls the primary connection's content signal without
// blocking.
func (e *Engine) liveChanged() bool {
	if e.live == nil {
		return false
	}
	select {
	case _, ok := <-e.live:
		if !ok {
			e.live = nil
			return false
		}
		return true
	default:
		return false
	}
}

// liveSignal returns the live channel, or a nil channel (blocking
// forever) when no live signal is connected.
func (e *Engine) liveSignal() <-chan struct{} {
	return e.live
}

func isQuitCommand(line string) bool {
	switch strings.TrimSpace(line) {
	case "quit", "exit":
		return true
	}
	return false
}
