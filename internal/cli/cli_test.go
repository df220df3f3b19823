package cli_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/sensei/internal/adapters/memory"
	"github.com/aretw0/sensei/internal/cli"
	"github.com/aretw0/sensei/internal/engine"
	"github.com/aretw0/sensei/pkg/lesson"
)

const catalogDoc = `
lessons:
  - name: shell-basics
    desc: Learn to list files
    entry: intro
    level: beginner
    tasks:
      - id: intro
        text: Type ls to list files.
        input:
          modality: text
        grading:
          - result: success
            pattern: "^ls"
        effects:
          success:
            reply: Nice!
            completes_lesson: true
          failure:
            reply: Try again.
  - name: pipes
    desc: Chain commands together
    entry: intro
    level: intermediate
    tasks:
      - id: intro
        text: Pipe ls into wc.
        input:
          modality: text
        effects:
          success:
            reply: Done.
            completes_lesson: true
          failure:
            reply: Nope.
`

func loadCatalog(t *testing.T) *lesson.Catalog {
	t.Helper()
	c, err := lesson.ParseCatalog([]byte(catalogDoc))
	require.NoError(t, err)
	return c
}

func TestPractice_RunsLessonEndToEnd(t *testing.T) {
	catalog := loadCatalog(t)
	svc := memory.NewService(catalog)
	l, _ := catalog.Lesson("shell-basics")

	var out bytes.Buffer
	err := cli.Practice(context.Background(), cli.PracticeOptions{
		Service: svc,
		Lesson:  l,
		In:      strings.NewReader("ls\n"),
		Out:     &out,
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Nice!")
}

func TestExitCode(t *testing.T) {
	assert.Zero(t, cli.ExitCode(nil))
	assert.Zero(t, cli.ExitCode(engine.ErrReloaded))
	assert.Equal(t, 1, cli.ExitCode(errors.New("boom")))
}

func TestResolveLesson_UnknownListsAvailable(t *testing.T) {
	catalog := loadCatalog(t)
	var out bytes.Buffer

	l, err := cli.ResolveLesson(catalog, "shell-basics", &out)
	require.NoError(t, err)
	assert.Equal(t, "shell-basics", l.ID)
	assert.Empty(t, out.String())

	_, err = cli.ResolveLesson(catalog, "shel", &out)
	require.Error(t, err)
	assert.Contains(t, out.String(), "shell-basics")
	assert.Contains(t, out.String(), "pipes")
}

func TestList_GroupsByLevel(t *testing.T) {
	svc := memory.NewService(loadCatalog(t))
	var out bytes.Buffer

	require.NoError(t, cli.List(context.Background(), svc, "", &out))

	listing := out.String()
	assert.Contains(t, listing, "beginner")
	assert.Contains(t, listing, "intermediate")
	assert.Contains(t, listing, "shell-basics")
	assert.Contains(t, listing, "pipes")
	// Levels sort lexically, so beginner precedes intermediate.
	assert.Less(t, strings.Index(listing, "beginner"), strings.Index(listing, "intermediate"))
}
