package httpapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/sensei/internal/adapters/httpapi"
	"github.com/aretw0/sensei/internal/adapters/memory"
	"github.com/aretw0/sensei/pkg/lesson"
)

const catalogDoc = `
lessons:
  - name: shell-basics
    desc: Learn to list files
    entry: intro
    requires_session: true
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
`

func newClient(t *testing.T, opts ...httpapi.ServerOption) (*httpapi.Client, string) {
	t.Helper()
	c, err := lesson.ParseCatalog([]byte(catalogDoc))
	require.NoError(t, err)
	svc := memory.NewService(c)

	ts := httptest.NewServer(httpapi.NewServer(svc, opts...).Handler())
	t.Cleanup(ts.Close)
	return httpapi.NewClient(ts.URL), ts.URL
}

func TestClient_ListAndFetch(t *testing.T) {
	client, _ := newClient(t)
	ctx := context.Background()

	lessons, err := client.UnlockedLessons(ctx, "")
	require.NoError(t, err)
	require.Len(t, lessons, 1)
	assert.Equal(t, "shell-basics", lessons[0].ID)

	text, raw, err := client.GetTaskDescription(ctx, "shell-basics", "intro")
	require.NoError(t, err)
	assert.Equal(t, "Type ls to list files.", text)

	d, err := lesson.ParseDescriptor(raw)
	require.NoError(t, err)
	assert.Equal(t, lesson.ModalityText, d.Modality)

	_, _, err = client.GetTaskDescription(ctx, "shell-basics", "missing")
	require.Error(t, err)
}

func TestClient_SessionAndAttemptRoundTrip(t *testing.T) {
	client, _ := newClient(t)
	ctx := context.Background()

	// Attempting without a session is rejected by the service.
	_, _, err := client.AttemptLesson(ctx, "", "shell-basics", "intro", "ls")
	require.Error(t, err)

	session, err := client.OpenSession(ctx, "shell-basics")
	require.NoError(t, err)
	require.NotEmpty(t, session)

	result, _, err := client.AttemptLesson(ctx, session, "shell-basics", "intro", "ls -la")
	require.NoError(t, err)
	assert.Equal(t, "success", result)

	require.NoError(t, client.CloseSession(ctx, session))
	require.Error(t, client.CloseSession(ctx, session))
}

type recordingPublisher struct {
	published int
}

func (p *recordingPublisher) PublishContentChanged(ctx context.Context) error {
	p.published++
	return nil
}

func TestServer_ReloadSwapsCatalogAndPublishes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(catalogDoc), 0o644))

	pub := &recordingPublisher{}
	client, base := newClient(t, httpapi.WithCatalogPath(path), httpapi.WithBus(pub))

	// A broken catalog is rejected and recorded as a warning.
	require.NoError(t, os.WriteFile(path, []byte("lessons:\n  - name: broken\n    entry: nowhere\n"), 0o644))
	resp, err := http.Post(base+"/admin/reload", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	warnings, err := client.Warnings(context.Background())
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Zero(t, pub.published)

	// A valid catalog is swapped in and announced.
	require.NoError(t, os.WriteFile(path, []byte(catalogDoc), 0o644))
	resp, err = http.Post(base+"/admin/reload", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, 1, pub.published)
}

func TestServer_MetricsEndpoint(t *testing.T) {
	_, base := newClient(t)

	resp, err := http.Get(base + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
