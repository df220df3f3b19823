// Package memory provides an in-process lesson service and event bus. It
// backs the offline `sensei run` mode, the reference HTTP server and the
// test suites, so the grading semantics live here and nowhere else.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"sync"

	"github.com/google/uuid"

	"github.com/aretw0/sensei/internal/logging"
	"github.com/aretw0/sensei/pkg/lesson"
	"github.com/aretw0/sensei/pkg/ports"
)

// resultFailure is the grading fallback when no rule matches.
const resultFailure = "failure"

// Service implements ports.LessonService over a catalog held in memory.
// Grading walks the task's rules in order; sessions are opaque UUIDs
// tied to the lesson they were opened for.
type Service struct {
	mu       sync.Mutex
	catalog  *lesson.Catalog
	sessions map[ports.Session]string
	logger   *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates a service over a validated catalog.
func NewService(catalog *lesson.Catalog, opts ...Option) *Service {
	s := &Service{
		catalog:  catalog,
		sessions: make(map[ports.Session]string),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Replace swaps the catalog, as a content reload would on a real service.
// Open sessions survive; the engine aborts them through the reload signal.
func (s *Service) Replace(catalog *lesson.Catalog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog = catalog
}

func (s *Service) GetTaskDescription(ctx context.Context, lessonID, taskID string) (string, []byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.task(lessonID, taskID)
	if err != nil {
		return "", nil, ports.NewServiceError("get task description", err)
	}
	raw, err := json.Marshal(task.Input)
	if err != nil {
		return "", nil, ports.NewServiceError("get task description", err)
	}
	return task.Text, raw, nil
}

func (s *Service) AttemptLesson(ctx context.Context, session ports.Session, lessonID, taskID, input string) (string, []lesson.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.catalog.Lesson(lessonID)
	if !ok {
		return "", nil, ports.NewServiceError("attempt lesson", fmt.Errorf("unknown lesson %q", lessonID))
	}
	task, err := s.task(lessonID, taskID)
	if err != nil {
		return "", nil, ports.NewServiceError("attempt lesson", err)
	}
	if l.RequiresSession {
		if owner, ok := s.sessions[session]; !ok || owner != lessonID {
			return "", nil, ports.NewServiceError("attempt lesson", ports.ErrSessionNotFound)
		}
	}

	result, err := grade(task, input)
	if err != nil {
		return "", nil, ports.NewServiceError("attempt lesson", err)
	}
	s.logger.Debug("graded attempt", "lesson", lessonID, "task", taskID, "result", result)
	return result, task.Effects[result].Responses, nil
}

func (s *Service) OpenSession(ctx context.Context, lessonID string) (ports.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.catalog.Lesson(lessonID); !ok {
		return "", ports.NewServiceError("open session", fmt.Errorf("unknown lesson %q", lessonID))
	}
	session := ports.Session(uuid.NewString())
	s.sessions[session] = lessonID
	return session, nil
}

func (s *Service) CloseSession(ctx context.Context, session ports.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[session]; !ok {
		return ports.NewServiceError("close session", ports.ErrSessionNotFound)
	}
	delete(s.sessions, session)
	return nil
}

func (s *Service) UnlockedLessons(ctx context.Context, modality string) ([]ports.LessonSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []ports.LessonSummary
	for i := range s.catalog.Lessons {
		l := &s.catalog.Lessons[i]
		if modality != "" {
			entry, ok := l.Task(l.Entry)
			if !ok || string(entry.Input.Modality) != modality {
				continue
			}
		}
		out = append(out, ports.LessonSummary{
			ID:          l.ID,
			Description: l.Description,
			Entry:       l.Entry,
			Level:       l.Level,
		})
	}
	return out, nil
}

// OpenSessions reports how many sessions are currently held. Used by the
// reference server's metrics.
func (s *Service) OpenSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Service) task(lessonID, taskID string) (*lesson.Task, error) {
	l, ok := s.catalog.Lesson(lessonID)
	if !ok {
		return nil, fmt.Errorf("unknown lesson %q", lessonID)
	}
	task, ok := l.Task(taskID)
	if !ok {
		return nil, fmt.Errorf("unknown task %q in lesson %q", taskID, lessonID)
	}
	return task, nil
}

// grade walks the task's rules in order. An empty pattern matches any
// input; no match falls back to "failure".
func grade(task *lesson.Task, input string) (string, error) {
	for _, rule := range task.Grading {
		if rule.Pattern == "" {
			return rule.Result, nil
		}
		matched, err := regexp.MatchString(rule.Pattern, input)
		if err != nil {
			return "", &lesson.ContentError{Msg: fmt.Sprintf("bad grading pattern %q: %v", rule.Pattern, err)}
		}
		if matched {
			return rule.Result, nil
		}
	}
	return resultFailure, nil
}
