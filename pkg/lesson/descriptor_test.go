package lesson_test

import (
	"testing"

	"github.com/aretw0/sensei/pkg/lesson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDescriptor(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		d, err := lesson.ParseDescriptor([]byte(`{"modality":"text"}`))
		require.NoError(t, err)
		assert.Equal(t, lesson.ModalityText, d.Modality)
	})

	t.Run("choice keeps order", func(t *testing.T) {
		raw := `{"modality":"choice","settings":{"choices":[
			{"key":"b","label":"second letter"},
			{"key":"a","label":"first letter"}
		]}}`
		d, err := lesson.ParseDescriptor([]byte(raw))
		require.NoError(t, err)

		cs, err := d.ChoiceSettings()
		require.NoError(t, err)
		require.Len(t, cs.Choices, 2)
		assert.Equal(t, "b", cs.Choices[0].Key)
		assert.Equal(t, "a", cs.Choices[1].Key)
	})

	t.Run("unknown modality", func(t *testing.T) {
		_, err := lesson.ParseDescriptor([]byte(`{"modality":"morse"}`))
		var cerr *lesson.ContentError
		require.ErrorAs(t, err, &cerr)
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := lesson.ParseDescriptor([]byte(`{`))
		var cerr *lesson.ContentError
		require.ErrorAs(t, err, &cerr)
	})

	t.Run("choices on non-choice descriptor", func(t *testing.T) {
		d, err := lesson.ParseDescriptor([]byte(`{"modality":"text"}`))
		require.NoError(t, err)
		_, err = d.ChoiceSettings()
		require.Error(t, err)
	})
}
