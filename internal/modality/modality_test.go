package modality_test

import (
	"bytes"
	"testing"

	"github.com/aretw0/sensei/internal/modality"
	"github.com/aretw0/sensei/pkg/lesson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textDescriptor() lesson.InputDescriptor {
	return lesson.InputDescriptor{Modality: lesson.ModalityText}
}

func choiceDescriptor(labels ...string) lesson.InputDescriptor {
	choices := make([]any, 0, len(labels))
	for _, l := range labels {
		choices = append(choices, map[string]any{"key": "key-" + l, "label": l})
	}
	return lesson.InputDescriptor{
		Modality: lesson.ModalityChoice,
		Settings: map[string]any{"choices": choices},
	}
}

func TestConvert_Text(t *testing.T) {
	r := modality.New(&bytes.Buffer{})

	value, ok, err := r.Convert(textDescriptor(), "  ls -la  ")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "ls -la", value)

	_, ok, err = r.Convert(textDescriptor(), "   ")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConvert_Choice(t *testing.T) {
	r := modality.New(&bytes.Buffer{})
	d := choiceDescriptor("first", "second")

	cases := []struct {
		raw   string
		ok    bool
		value string
	}{
		{"1", true, "key-first"},
		{"2", true, "key-second"},
		{" 2 ", true, "key-second"},
		{"3", false, ""},
		{"0", false, ""},
		{"-1", false, ""},
		{"two", false, ""},
		{"", false, ""},
	}
	for _, tc := range cases {
		value, ok, err := r.Convert(d, tc.raw)
		require.NoError(t, err)
		assert.Equal(t, tc.ok, ok, "raw %q", tc.raw)
		assert.Equal(t, tc.value, value, "raw %q", tc.raw)
	}
}

func TestConvert_ExternalEvent(t *testing.T) {
	r := modality.New(&bytes.Buffer{})

	value, ok, err := r.Convert(lesson.InputDescriptor{Modality: lesson.ModalityExternalEvent}, "ignored")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, value)
}

func TestConvert_UnknownModalityIsContentError(t *testing.T) {
	r := modality.New(&bytes.Buffer{})

	_, _, err := r.Convert(lesson.InputDescriptor{Modality: "morse"}, "x")
	var cerr *lesson.ContentError
	require.ErrorAs(t, err, &cerr)
}

func TestPrompt_ChoiceListsOptionsInOrder(t *testing.T) {
	var buf bytes.Buffer
	r := modality.New(&buf)

	require.NoError(t, r.Prompt(choiceDescriptor("alpha", "beta")))
	assert.Equal(t, "  1. alpha\n  2. beta\n$ ", buf.String())
}

func TestPrompt_ExternalEventWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	r := modality.New(&buf)

	require.NoError(t, r.Prompt(lesson.InputDescriptor{Modality: lesson.ModalityExternalEvent}))
	assert.Empty(t, buf.String())
}
