package lesson

import (
	"encoding/json"

	"github.com/mitchellh/mapstructure"
)

// InputDescriptor declares the modality of a task plus modality-specific
// settings. Settings stay raw until a typed view is requested, mirroring
// how the descriptor travels over the wire as a JSON document.
type InputDescriptor struct {
	Modality Modality       `json:"modality" yaml:"modality"`
	Settings map[string]any `json:"settings,omitempty" yaml:"settings,omitempty"`
}

// Choice is one selectable option of a choice descriptor. Choices are an
// ordered list, never a map, so the numbered prompt is deterministic.
type Choice struct {
	Key   string `json:"key" yaml:"key" mapstructure:"key"`
	Label string `json:"label" yaml:"label" mapstructure:"label"`
}

// ChoiceSettings is the typed view of a choice descriptor's settings.
type ChoiceSettings struct {
	Choices []Choice `json:"choices" yaml:"choices" mapstructure:"choices"`
}

// ParseDescriptor decodes the wire form of an input descriptor and
// validates its modality tag.
func ParseDescriptor(raw []byte) (InputDescriptor, error) {
	var d InputDescriptor
	if err := json.Unmarshal(raw, &d); err != nil {
		return InputDescriptor{}, contentErrorf("malformed input descriptor: %v", err)
	}
	if err := d.validate(); err != nil {
		return InputDescriptor{}, err
	}
	return d, nil
}

// ChoiceSettings decodes the settings of a choice descriptor. It fails
// with a ContentError when the descriptor is not a choice or offers no
// choices.
func (d InputDescriptor) ChoiceSettings() (ChoiceSettings, error) {
	if d.Modality != ModalityChoice {
		return ChoiceSettings{}, contentErrorf("descriptor modality %q has no choices", d.Modality)
	}
	var cs ChoiceSettings
	if err := mapstructure.Decode(d.Settings, &cs); err != nil {
		return ChoiceSettings{}, contentErrorf("malformed choice settings: %v", err)
	}
	if len(cs.Choices) == 0 {
		return ChoiceSettings{}, contentErrorf("choice descriptor offers no choices")
	}
	return cs, nil
}

func (d InputDescriptor) validate() error {
	switch d.Modality {
	case ModalityText, ModalityConsole, ModalityChoice, ModalityExternalEvent:
		return nil
	default:
		return contentErrorf("unknown input modality %q", d.Modality)
	}
}
