package lesson

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Catalog is an ordered collection of lessons as authored on disk. The
// file format (YAML, JSON is a YAML subset) is an implementation detail of
// the reference service, not a wire contract.
type Catalog struct {
	Lessons []Lesson `json:"lessons" yaml:"lessons"`
}

// ParseCatalog decodes and validates a catalog document.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, contentErrorf("malformed catalog: %v", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadCatalog reads and parses a catalog file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseCatalog(data)
}

// Lesson returns the lesson with the given ID, or false if absent.
func (c *Catalog) Lesson(id string) (*Lesson, bool) {
	for i := range c.Lessons {
		if c.Lessons[i].ID == id {
			return &c.Lessons[i], true
		}
	}
	return nil, false
}

// Validate enforces the structural invariants of the catalog: task IDs are
// unique within a lesson, entry and move_to references resolve, and every
// tag belongs to the closed vocabulary.
func (c *Catalog) Validate() error {
	for i := range c.Lessons {
		if err := c.Lessons[i].validate(); err != nil {
			return err
		}
	}
	return nil
}

func (l *Lesson) validate() error {
	if l.ID == "" {
		return contentErrorf("lesson without a name")
	}
	seen := make(map[string]bool, len(l.Tasks))
	for i := range l.Tasks {
		t := &l.Tasks[i]
		if t.ID == "" {
			return contentErrorf("lesson %q: task without an id", l.ID)
		}
		if seen[t.ID] {
			return contentErrorf("lesson %q: duplicate task %q", l.ID, t.ID)
		}
		seen[t.ID] = true
	}
	if _, ok := l.Task(l.Entry); !ok {
		return contentErrorf("lesson %q: entry task %q not found", l.ID, l.Entry)
	}
	for i := range l.Tasks {
		if err := l.validateTask(&l.Tasks[i]); err != nil {
			return err
		}
	}
	return nil
}

func (l *Lesson) validateTask(t *Task) error {
	if err := t.Input.validate(); err != nil {
		return contentErrorf("lesson %q task %q: %v", l.ID, t.ID, err)
	}
	if t.Input.Modality == ModalityChoice {
		if _, err := t.Input.ChoiceSettings(); err != nil {
			return contentErrorf("lesson %q task %q: %v", l.ID, t.ID, err)
		}
	}
	for key, eff := range t.Effects {
		if eff.MoveTo != "" {
			if _, ok := l.Task(eff.MoveTo); !ok {
				return contentErrorf("lesson %q task %q effect %q: move_to %q not found",
					l.ID, t.ID, key, eff.MoveTo)
			}
		}
		for _, r := range eff.Responses {
			switch r.Kind {
			case ResponseRaw, ResponseWrapped, ResponseScrolled, ResponsePaced:
			default:
				return contentErrorf("lesson %q task %q effect %q: unknown response kind %q",
					l.ID, t.ID, key, r.Kind)
			}
		}
		for _, se := range eff.SideEffects {
			if se.Kind != SideEffectEvent {
				return contentErrorf("lesson %q task %q effect %q: unknown side effect kind %q",
					l.ID, t.ID, key, se.Kind)
			}
		}
	}
	return nil
}
