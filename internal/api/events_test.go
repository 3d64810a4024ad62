package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/claves/redmine-messenger/internal/config"
	"github.com/claves/redmine-messenger/internal/types"
)

type recordingDispatcher struct {
	mu      sync.Mutex
	created []types.Event
	updated []types.Event
	err     error
}

func (d *recordingDispatcher) OnCreated(_ context.Context, ev types.Event, _ types.ProjectConfig) (types.Outcome, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.created = append(d.created, ev)
	return types.Outcome{Delivered: d.err == nil}, d.err
}

func (d *recordingDispatcher) OnUpdated(_ context.Context, ev types.Event, _ types.ProjectConfig) (types.Outcome, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.updated = append(d.updated, ev)
	return types.Outcome{Delivered: d.err == nil}, d.err
}

func testProjects(t *testing.T) *config.Projects {
	t.Helper()
	p, err := config.ParseProjects([]byte(`
projects:
  website:
    channels: ["#bugs"]
    webhookUrl: https://hooks.example.com/T000/B000
`))
	require.NoError(t, err)
	return p
}

func newTestServer(t *testing.T, d Dispatcher) *httptest.Server {
	t.Helper()
	h := NewEventsHandler(zap.NewNop(), d, testProjects(t), EventsHandlerOptions{SyncDispatch: true})
	mux := http.NewServeMux()
	h.Register(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

const createdBody = `{
	"project": {"identifier": "website", "name": "Website", "url": "https://tracker.example.com/projects/website"},
	"id": 42,
	"subject": "Login page broken",
	"url": "https://tracker.example.com/issues/42",
	"status": "New",
	"priority": "High",
	"author": {"login": "jdoe", "displayName": "John Doe"}
}`

func TestEventsCreated(t *testing.T) {
	d := &recordingDispatcher{}
	srv := newTestServer(t, d)

	resp, err := http.Post(srv.URL+"/api/v1/events/created", "application/json", strings.NewReader(createdBody))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	require.Len(t, d.created, 1)
	assert.Equal(t, types.EventCreated, d.created[0].Kind)
	assert.Equal(t, int64(42), d.created[0].ID)
}

func TestEventsUpdated(t *testing.T) {
	d := &recordingDispatcher{}
	srv := newTestServer(t, d)

	body := strings.Replace(createdBody, `"author"`, `"change": {"id": 7, "user": {"login": "asmith"}}, "author"`, 1)
	resp, err := http.Post(srv.URL+"/api/v1/events/updated", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	require.Len(t, d.updated, 1)
	assert.Equal(t, types.EventUpdated, d.updated[0].Kind)
	require.NotNil(t, d.updated[0].Change)
	assert.Equal(t, int64(7), d.updated[0].Change.ID)
}

func TestEventsUnknownProject(t *testing.T) {
	d := &recordingDispatcher{}
	srv := newTestServer(t, d)

	body := strings.Replace(createdBody, "website", "nonexistent", 2)
	resp, err := http.Post(srv.URL+"/api/v1/events/created", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Empty(t, d.created)
}

func TestEventsBadBody(t *testing.T) {
	d := &recordingDispatcher{}
	srv := newTestServer(t, d)

	resp, err := http.Post(srv.URL+"/api/v1/events/created", "application/json", strings.NewReader("{not json"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, d.created)
}

func TestEventsDeliveryFailureStillAccepted(t *testing.T) {
	d := &recordingDispatcher{err: assert.AnError}
	srv := newTestServer(t, d)

	resp, err := http.Post(srv.URL+"/api/v1/events/created", "application/json", strings.NewReader(createdBody))
	require.NoError(t, err)
	defer resp.Body.Close()

	// The tracker's transaction must never fail because delivery did.
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
}
