package render_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aretw0/sensei/internal/render"
	"github.com/aretw0/sensei/pkg/lesson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_Raw(t *testing.T) {
	var buf bytes.Buffer
	r := render.New(&buf)

	err := r.Render(lesson.Response{Kind: lesson.ResponseRaw, Value: "  keep   spacing  "})
	require.NoError(t, err)
	assert.Equal(t, "  keep   spacing  \n", buf.String())
}

func TestRender_WrappedPreservesParagraphs(t *testing.T) {
	var buf bytes.Buffer
	r := render.New(&buf, render.WithWidth(20))

	long := strings.Repeat("word ", 10)
	err := r.Render(lesson.Response{
		Kind:  lesson.ResponseWrapped,
		Value: long + "\n\nsecond paragraph",
	})
	require.NoError(t, err)

	out := buf.String()
	// Paragraph break survives.
	assert.Contains(t, out, "\n\nsecond paragraph")
	// Every emitted line respects the wrap column.
	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		assert.LessOrEqual(t, len(line), 20, "line %q too long", line)
	}
}

func TestRender_ScrolledEmitsFullText(t *testing.T) {
	var buf bytes.Buffer
	r := render.New(&buf)

	err := r.Render(lesson.Response{Kind: lesson.ResponseScrolled, Value: "hello\nworld"})
	require.NoError(t, err)
	assert.Equal(t, "hello\nworld\n", buf.String())
}

func TestRender_PacedCountdownDecreases(t *testing.T) {
	var buf bytes.Buffer
	r := render.New(&buf)

	dots := func(value string) int {
		buf.Reset()
		require.NoError(t, r.Render(lesson.Response{Kind: lesson.ResponsePaced, Value: value}))
		return strings.Count(buf.String(), ".")
	}

	// Countdown starts at three, decreases per call, floors at one.
	assert.Equal(t, 2, dots("first"))
	assert.Equal(t, 1, dots("second"))
	assert.Equal(t, 1, dots("third"))
}

func TestRender_UnknownKindIsContentError(t *testing.T) {
	r := render.New(&bytes.Buffer{})

	err := r.Render(lesson.Response{Kind: "blinking", Value: "x"})
	var cerr *lesson.ContentError
	require.ErrorAs(t, err, &cerr)
}
