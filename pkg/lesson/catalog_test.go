package lesson_test

import (
	"testing"

	"github.com/aretw0/sensei/pkg/lesson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validCatalog = `
lessons:
  - name: terminal-intro
    desc: Learn your way around the terminal
    entry: try-ls
    level: beginner
    requires_session: true
    tasks:
      - id: try-ls
        text: Try listing the files in this directory.
        input:
          modality: console
        effects:
          success:
            reply: Nice, that's the one.
            move_to: pick-flag
          failure:
            reply: Not quite, try again.
        grading:
          - result: success
            pattern: "^ls$"
          - result: failure
      - id: pick-flag
        text: Which flag shows hidden files?
        input:
          modality: choice
          settings:
            choices:
              - key: "-a"
                label: Show all entries
              - key: "-l"
                label: Long listing
        effects:
          success:
            reply: Exactly.
            completes_lesson: true
            side_effects:
              - kind: event
                value: terminal-intro-done
`

func TestParseCatalog_Valid(t *testing.T) {
	c, err := lesson.ParseCatalog([]byte(validCatalog))
	require.NoError(t, err)
	require.Len(t, c.Lessons, 1)

	l, ok := c.Lesson("terminal-intro")
	require.True(t, ok)
	assert.Equal(t, "try-ls", l.Entry)
	assert.True(t, l.RequiresSession)

	task, ok := l.Task("pick-flag")
	require.True(t, ok)
	assert.Equal(t, lesson.ModalityChoice, task.Input.Modality)

	cs, err := task.Input.ChoiceSettings()
	require.NoError(t, err)
	require.Len(t, cs.Choices, 2)
	assert.Equal(t, "-a", cs.Choices[0].Key)
	assert.Equal(t, "Long listing", cs.Choices[1].Label)
}

func TestParseCatalog_ContentErrors(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "dangling entry",
			doc: `
lessons:
  - name: l
    entry: missing
    tasks:
      - id: t
        input: {modality: text}
`,
			want: "entry task",
		},
		{
			name: "duplicate task id",
			doc: `
lessons:
  - name: l
    entry: t
    tasks:
      - id: t
        input: {modality: text}
      - id: t
        input: {modality: text}
`,
			want: "duplicate task",
		},
		{
			name: "unknown modality",
			doc: `
lessons:
  - name: l
    entry: t
    tasks:
      - id: t
        input: {modality: telepathy}
`,
			want: "unknown input modality",
		},
		{
			name: "dangling move_to",
			doc: `
lessons:
  - name: l
    entry: t
    tasks:
      - id: t
        input: {modality: text}
        effects:
          ok: {reply: hi, move_to: nowhere}
`,
			want: "move_to",
		},
		{
			name: "unknown response kind",
			doc: `
lessons:
  - name: l
    entry: t
    tasks:
      - id: t
        input: {modality: text}
        effects:
          ok:
            reply: hi
            responses:
              - {kind: blinking, value: hey}
`,
			want: "unknown response kind",
		},
		{
			name: "unknown side effect kind",
			doc: `
lessons:
  - name: l
    entry: t
    tasks:
      - id: t
        input: {modality: text}
        effects:
          ok:
            reply: hi
            side_effects:
              - {kind: sms, value: hey}
`,
			want: "unknown side effect kind",
		},
		{
			name: "choice without choices",
			doc: `
lessons:
  - name: l
    entry: t
    tasks:
      - id: t
        input: {modality: choice}
`,
			want: "no choices",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := lesson.ParseCatalog([]byte(tc.doc))
			require.Error(t, err)
			var cerr *lesson.ContentError
			require.ErrorAs(t, err, &cerr)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}
