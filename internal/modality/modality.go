// Package modality turns input descriptors into prompts and raw keyboard
// input into submission values. Rejected input never reaches the service;
// the engine re-prompts with the same descriptor.
package modality

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aretw0/sensei/pkg/lesson"
)

// promptMarker mimics a shell prompt for keyboard modalities.
const promptMarker = "$ "

// Resolver renders prompts and converts raw input for every modality.
type Resolver struct {
	out io.Writer
}

// New creates a resolver writing prompts to out.
func New(out io.Writer) *Resolver {
	return &Resolver{out: out}
}

// Prompt writes the prompt for a descriptor. Choice descriptors get a
// numbered list first; external-event descriptors prompt nothing because
// the engine waits on the service instead of the keyboard.
func (r *Resolver) Prompt(d lesson.InputDescriptor) error {
	switch d.Modality {
	case lesson.ModalityText, lesson.ModalityConsole:
		fmt.Fprint(r.out, promptMarker)
		return nil
	case lesson.ModalityChoice:
		cs, err := d.ChoiceSettings()
		if err != nil {
			return err
		}
		for i, c := range cs.Choices {
			fmt.Fprintf(r.out, "  %d. %s\n", i+1, c.Label)
		}
		fmt.Fprint(r.out, promptMarker)
		return nil
	case lesson.ModalityExternalEvent:
		return nil
	default:
		return &lesson.ContentError{Msg: fmt.Sprintf("unknown input modality %q", d.Modality)}
	}
}

// Convert validates raw input against a descriptor. It returns the
// submission value and whether the input was accepted; rejected input
// means "re-prompt with the same descriptor". The error path is reserved
// for content defects, never for user typos.
func (r *Resolver) Convert(d lesson.InputDescriptor, raw string) (string, bool, error) {
	switch d.Modality {
	case lesson.ModalityText, lesson.ModalityConsole:
		trimmed := strings.TrimSpace(raw)
		return trimmed, trimmed != "", nil
	case lesson.ModalityChoice:
		cs, err := d.ChoiceSettings()
		if err != nil {
			return "", false, err
		}
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || n < 1 || n > len(cs.Choices) {
			return "", false, nil
		}
		return cs.Choices[n-1].Key, true, nil
	case lesson.ModalityExternalEvent:
		// Unblocked by a service notification; the submission is empty.
		return "", true, nil
	default:
		return "", false, &lesson.ContentError{Msg: fmt.Sprintf("unknown input modality %q", d.Modality)}
	}
}
