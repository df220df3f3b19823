package ports

import (
	"context"

	"github.com/aretw0/sensei/pkg/lesson"
)

// Session is an opaque grading-context handle issued by the service for
// lessons that require one. The zero value means "no session". A session
// is exclusively owned by one engine run and released when it exits.
type Session string

// TaskRef identifies one task within one lesson.
type TaskRef struct {
	Lesson string `json:"lesson"`
	Task   string `json:"task"`
}

// LessonSummary is one row of the unlocked-lessons listing.
type LessonSummary struct {
	ID          string `json:"name"`
	Description string `json:"desc"`
	Entry       string `json:"entry"`
	Level       string `json:"level,omitempty"`
}

// LessonService is the stateful grading backend. It owns lesson content,
// unlock state and grading; the engine drives it one blocking call at a
// time. Every method may fail with a *ServiceError on transport or
// internal failure, which is fatal to the running session.
type LessonService interface {
	// GetTaskDescription returns the instructional text and the raw JSON
	// input descriptor for a task.
	GetTaskDescription(ctx context.Context, lessonID, taskID string) (text string, descriptor []byte, err error)

	// AttemptLesson submits input for grading and returns the result key
	// plus any response payloads to render before the effect's reply.
	AttemptLesson(ctx context.Context, session Session, lessonID, taskID, input string) (result string, responses []lesson.Response, err error)

	// OpenSession acquires a grading context for a session-requiring lesson.
	OpenSession(ctx context.Context, lessonID string) (Session, error)

	// CloseSession releases a grading context.
	CloseSession(ctx context.Context, session Session) error

	// UnlockedLessons lists the lessons currently available for a modality.
	UnlockedLessons(ctx context.Context, modality string) ([]LessonSummary, error)
}

// ContentWatcher is an optional capability of a service connection: it
// signals that the lesson catalog changed on the service side. Each call
// returns an independent subscription; the channel closes when the context
// is done.
type ContentWatcher interface {
	Watch(ctx context.Context) (<-chan struct{}, error)
}

// EventSource is an optional capability delivering "lesson events
// satisfied" notifications, which unblock tasks of the external-event
// modality.
type EventSource interface {
	SatisfiedEvents(ctx context.Context) (<-chan TaskRef, error)
}

// EventSink is the secondary notification service that receives named
// side-effect events. A sink returning ErrNotInterested is an expected
// non-error; anything else propagates and aborts the session.
type EventSink interface {
	NotifyEvent(ctx context.Context, name string) error
}
