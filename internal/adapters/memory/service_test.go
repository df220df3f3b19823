package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/sensei/internal/adapters/memory"
	"github.com/aretw0/sensei/pkg/lesson"
	"github.com/aretw0/sensei/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogDoc = `
lessons:
  - name: shell-basics
    desc: Learn to list files
    entry: intro
    level: beginner
    requires_session: true
    tasks:
      - id: intro
        text: Type ls to list files.
        input:
          modality: text
        grading:
          - result: success
            pattern: "^ls"
          - result: failure
        effects:
          success:
            reply: Nice!
            completes_lesson: true
            responses:
              - kind: wrapped
                value: The listing shows everything here.
          failure:
            reply: Try again.
`

func newService(t *testing.T) *memory.Service {
	t.Helper()
	c, err := lesson.ParseCatalog([]byte(catalogDoc))
	require.NoError(t, err)
	return memory.NewService(c)
}

func TestService_GetTaskDescription(t *testing.T) {
	svc := newService(t)

	text, raw, err := svc.GetTaskDescription(context.Background(), "shell-basics", "intro")
	require.NoError(t, err)
	assert.Equal(t, "Type ls to list files.", text)

	d, err := lesson.ParseDescriptor(raw)
	require.NoError(t, err)
	assert.Equal(t, lesson.ModalityText, d.Modality)

	_, _, err = svc.GetTaskDescription(context.Background(), "shell-basics", "nope")
	var serr *ports.ServiceError
	require.ErrorAs(t, err, &serr)
}

func TestService_GradingWalksRulesInOrder(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	session, err := svc.OpenSession(ctx, "shell-basics")
	require.NoError(t, err)

	result, responses, err := svc.AttemptLesson(ctx, session, "shell-basics", "intro", "ls -la")
	require.NoError(t, err)
	assert.Equal(t, "success", result)
	require.Len(t, responses, 1)
	assert.Equal(t, lesson.ResponseWrapped, responses[0].Kind)

	result, _, err = svc.AttemptLesson(ctx, session, "shell-basics", "intro", "pwd")
	require.NoError(t, err)
	assert.Equal(t, "failure", result)
}

func TestService_SessionLifecycle(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	// A session-requiring lesson rejects attempts without one.
	_, _, err := svc.AttemptLesson(ctx, "", "shell-basics", "intro", "ls")
	require.ErrorIs(t, err, ports.ErrSessionNotFound)

	session, err := svc.OpenSession(ctx, "shell-basics")
	require.NoError(t, err)
	assert.Equal(t, 1, svc.OpenSessions())

	require.NoError(t, svc.CloseSession(ctx, session))
	assert.Zero(t, svc.OpenSessions())
	require.ErrorIs(t, svc.CloseSession(ctx, session), ports.ErrSessionNotFound)
}

func TestService_UnlockedLessonsFiltersByEntryModality(t *testing.T) {
	svc := newService(t)

	all, err := svc.UnlockedLessons(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "shell-basics", all[0].ID)
	assert.Equal(t, "beginner", all[0].Level)

	none, err := svc.UnlockedLessons(context.Background(), "choice")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestBus_NotifyRespectsInterests(t *testing.T) {
	b := memory.NewBus()

	err := b.NotifyEvent(context.Background(), "some-event")
	require.ErrorIs(t, err, ports.ErrNotInterested)

	b.Interest("some-event")
	require.NoError(t, b.NotifyEvent(context.Background(), "some-event"))
	assert.Equal(t, []string{"some-event"}, b.Received())
}

func TestBus_ContentChangedReachesAllWatchers(t *testing.T) {
	b := memory.NewBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first, err := b.Watch(ctx)
	require.NoError(t, err)
	second, err := b.Watch(ctx)
	require.NoError(t, err)

	b.PublishContentChanged()

	for _, ch := range []<-chan struct{}{first, second} {
		select {
		case <-ch:
		case <-time.After(time.Second):
			t.Fatal("watcher missed the content signal")
		}
	}
}

func TestBus_SatisfiedEventsCarryTaskRefs(t *testing.T) {
	b := memory.NewBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := b.SatisfiedEvents(ctx)
	require.NoError(t, err)

	ref := ports.TaskRef{Lesson: "watching", Task: "wait-for-it"}
	b.PublishSatisfied(ref)

	select {
	case got := <-events:
		assert.Equal(t, ref, got)
	case <-time.After(time.Second):
		t.Fatal("event never arrived")
	}
}

func TestBus_WatchChannelClosesOnCancel(t *testing.T) {
	b := memory.NewBus()
	ctx, cancel := context.WithCancel(context.Background())

	ch, err := b.Watch(ctx)
	require.NoError(t, err)
	cancel()

	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("channel did not close")
	}
}
