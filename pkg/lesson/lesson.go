package lesson

// Modality declares how input is solicited and validated for a task.
type Modality string

const (
	// ModalityText reads a free-form line from the keyboard.
	ModalityText Modality = "text"
	// ModalityConsole reads a console command; conversion rules match text.
	ModalityConsole Modality = "console"
	// ModalityChoice presents a numbered list and accepts an index in [1, N].
	ModalityChoice Modality = "choice"
	// ModalityExternalEvent blocks until a matching lesson event arrives
	// from the service instead of reading the keyboard.
	ModalityExternalEvent Modality = "external-event"
)

// ResponseKind selects how a response payload is presented.
type ResponseKind string

const (
	// ResponseRaw prints the value verbatim.
	ResponseRaw ResponseKind = "raw"
	// ResponseWrapped word-wraps each paragraph, preserving paragraph breaks.
	ResponseWrapped ResponseKind = "wrapped"
	// ResponseScrolled word-wraps and emits character by character.
	ResponseScrolled ResponseKind = "scrolled"
	// ResponsePaced is scrolled output followed by a decreasing countdown.
	ResponsePaced ResponseKind = "paced"
)

// SideEffectKind selects how a side effect is dispatched.
type SideEffectKind string

// SideEffectEvent forwards the value to the secondary notification service.
const SideEffectEvent SideEffectKind = "event"

// Response is a typed feedback payload rendered to the terminal.
type Response struct {
	Kind  ResponseKind `json:"kind" yaml:"kind"`
	Value string       `json:"value" yaml:"value"`
}

// SideEffect is an out-of-band consequence of a graded submission.
type SideEffect struct {
	Kind  SideEffectKind `json:"kind" yaml:"kind"`
	Value string         `json:"value" yaml:"value"`
}

// Effect is the consequence of one grading result: responses and a reply to
// render, optional side effects, and where the engine goes next. An empty
// MoveTo means "retry the current task".
type Effect struct {
	Reply           string       `json:"reply" yaml:"reply"`
	Responses       []Response   `json:"responses,omitempty" yaml:"responses,omitempty"`
	MoveTo          string       `json:"move_to,omitempty" yaml:"move_to,omitempty"`
	CompletesLesson bool         `json:"completes_lesson,omitempty" yaml:"completes_lesson,omitempty"`
	SideEffects     []SideEffect `json:"side_effects,omitempty" yaml:"side_effects,omitempty"`
}

// GradingRule maps submissions to a result key. Rules are evaluated in
// order; an empty pattern matches any input. Grading rules are consumed by
// the reference service only — the engine never grades locally.
type GradingRule struct {
	Result  string `json:"result" yaml:"result"`
	Pattern string `json:"pattern,omitempty" yaml:"pattern,omitempty"`
}

// Task is one step within a lesson.
type Task struct {
	ID      string            `json:"id" yaml:"id"`
	Text    string            `json:"text" yaml:"text"`
	Input   InputDescriptor   `json:"input" yaml:"input"`
	Effects map[string]Effect `json:"effects" yaml:"effects"`
	Grading []GradingRule     `json:"grading,omitempty" yaml:"grading,omitempty"`
}

// Lesson is a named unit of instructional content. It is immutable once
// loaded; the engine references it but never mutates it.
type Lesson struct {
	ID              string `json:"name" yaml:"name"`
	Description     string `json:"desc" yaml:"desc"`
	Entry           string `json:"entry" yaml:"entry"`
	Level           string `json:"level,omitempty" yaml:"level,omitempty"`
	RequiresSession bool   `json:"requires_session,omitempty" yaml:"requires_session,omitempty"`
	Tasks           []Task `json:"tasks" yaml:"tasks"`
}

// Task returns the task with the given ID, or false if it is not part of
// this lesson.
func (l *Lesson) Task(id string) (*Task, bool) {
	for i := range l.Tasks {
		if l.Tasks[i].ID == id {
			return &l.Tasks[i], true
		}
	}
	return nil, false
}
