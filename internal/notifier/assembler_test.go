package notifier

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/claves/redmine-messenger/internal/locale"
	"github.com/claves/redmine-messenger/internal/types"
)

// fakeSender records every payload and optionally fails.
type fakeSender struct {
	payloads []types.Payload
	err      error
}

func (s *fakeSender) Name() string { return "fake" }

func (s *fakeSender) Send(_ context.Context, p types.Payload) error {
	s.payloads = append(s.payloads, p)
	return s.err
}

func newTestAssembler(t *testing.T, sender Sender) *Assembler {
	t.Helper()
	return NewAssembler(zap.NewNop(), sender, testResolver(), DefaultAssemblerOptions())
}

func TestOnCreatedDelivers(t *testing.T) {
	sink := &fakeSender{}
	a := newTestAssembler(t, sink)

	outcome, err := a.OnCreated(context.Background(), createdEvent(), baseConfig())
	require.NoError(t, err)
	assert.True(t, outcome.Delivered)

	require.Len(t, sink.payloads, 1)
	p := sink.payloads[0]
	assert.Equal(t, []string{"#bugs"}, p.Channels)
	assert.Equal(t, "https://hooks.example.com/T000/B000", p.Endpoint)
	assert.Equal(t, "website", p.Project)
	assert.Contains(t, p.Text, "<https://tracker.example.com/projects/website|Website>")
	assert.Contains(t, p.Text, "<https://tracker.example.com/issues/42|#42: Login page broken>")
	assert.Contains(t, p.Text, "created by John Doe")
	require.Len(t, p.Attachment.Fields, 2)
}

func TestOnCreatedSuppressedSkipsSink(t *testing.T) {
	sink := &fakeSender{}
	a := newTestAssembler(t, sink)

	cfg := baseConfig()
	cfg.Channels = nil

	outcome, err := a.OnCreated(context.Background(), createdEvent(), cfg)
	require.NoError(t, err)
	assert.False(t, outcome.Delivered)
	assert.Equal(t, types.SuppressNoChannels, outcome.Reason)
	assert.Empty(t, sink.payloads)
}

func TestOnCreatedPrivateIssueSkipsSink(t *testing.T) {
	sink := &fakeSender{}
	a := newTestAssembler(t, sink)

	ev := createdEvent()
	ev.Private = true

	outcome, err := a.OnCreated(context.Background(), ev, baseConfig())
	require.NoError(t, err)
	assert.Equal(t, types.SuppressPrivateIssue, outcome.Reason)
	assert.Empty(t, sink.payloads)
}

func TestOnUpdatedNilChangeIsNoop(t *testing.T) {
	sink := &fakeSender{}
	a := newTestAssembler(t, sink)

	ev := createdEvent()
	ev.Kind = types.EventUpdated
	ev.Change = nil

	cfg := baseConfig()
	cfg.PostUpdates = true

	outcome, err := a.OnUpdated(context.Background(), ev, cfg)
	require.NoError(t, err)
	assert.Equal(t, types.SuppressNoChange, outcome.Reason)
	assert.Empty(t, sink.payloads)
}

func TestOnUpdatedTitleCarriesChangeAnchor(t *testing.T) {
	sink := &fakeSender{}
	a := newTestAssembler(t, sink)

	cfg := baseConfig()
	cfg.PostUpdates = true

	outcome, err := a.OnUpdated(context.Background(), updatedEvent(), cfg)
	require.NoError(t, err)
	assert.True(t, outcome.Delivered)

	require.Len(t, sink.payloads, 1)
	p := sink.payloads[0]
	assert.Contains(t, p.Text, "https://tracker.example.com/issues/42#change-7")
	assert.Contains(t, p.Text, "updated by Alice Smith")
}

func TestTitleMentionSuffix(t *testing.T) {
	sink := &fakeSender{}
	a := newTestAssembler(t, sink)

	ev := createdEvent()
	ev.Description = "please look @asmith"

	cfg := baseConfig()
	cfg.AutoMentions = true
	cfg.DefaultMentions = "@here"

	_, err := a.OnCreated(context.Background(), ev, cfg)
	require.NoError(t, err)

	require.Len(t, sink.payloads, 1)
	assert.Contains(t, sink.payloads[0].Text, "<@U456> @here")
}

func TestSinkErrorPropagatedAndLocaleRestored(t *testing.T) {
	sink := &fakeSender{err: errors.New("remote unreachable")}
	opts := DefaultAssemblerOptions()
	opts.DefaultLanguage = language.German
	a := NewAssembler(zap.NewNop(), sink, testResolver(), opts)

	_, err := a.OnCreated(context.Background(), createdEvent(), baseConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "remote unreachable")

	// The locale switch must be released even on the error path.
	assert.Equal(t, "Status", locale.Label(locale.KeyFieldStatus))
}

func TestFormattingUsesDefaultLanguage(t *testing.T) {
	sink := &fakeSender{}
	opts := DefaultAssemblerOptions()
	opts.DefaultLanguage = language.German
	a := NewAssembler(zap.NewNop(), sink, testResolver(), opts)

	_, err := a.OnCreated(context.Background(), createdEvent(), baseConfig())
	require.NoError(t, err)

	require.Len(t, sink.payloads, 1)
	require.Len(t, sink.payloads[0].Attachment.Fields, 2)
	assert.Equal(t, "Priorität", sink.payloads[0].Attachment.Fields[1].Title)

	// Restored after dispatch.
	assert.Equal(t, "Priority", locale.Label(locale.KeyFieldPriority))
}

// localeSamplingSender records the active priority label at delivery time.
type localeSamplingSender struct {
	labels []string
}

func (s *localeSamplingSender) Name() string { return "sampling" }

func (s *localeSamplingSender) Send(_ context.Context, _ types.Payload) error {
	s.labels = append(s.labels, locale.Label(locale.KeyFieldPriority))
	return nil
}

func TestLocaleReleasedBeforeSinkCall(t *testing.T) {
	sink := &localeSamplingSender{}
	opts := DefaultAssemblerOptions()
	opts.DefaultLanguage = language.German
	a := NewAssembler(zap.NewNop(), sink, testResolver(), opts)

	_, err := a.OnCreated(context.Background(), createdEvent(), baseConfig())
	require.NoError(t, err)

	// The payload is fully formatted before delivery, so the switch must
	// already be released when the sink runs.
	require.Len(t, sink.labels, 1)
	assert.Equal(t, "Priority", sink.labels[0])
}

func TestRateLimitSuppresses(t *testing.T) {
	sink := &fakeSender{}
	opts := DefaultAssemblerOptions()
	opts.RateLimitPerMinute = 1 // burst of 1
	a := NewAssembler(zap.NewNop(), sink, testResolver(), opts)

	outcome, err := a.OnCreated(context.Background(), createdEvent(), baseConfig())
	require.NoError(t, err)
	assert.True(t, outcome.Delivered)

	outcome, err = a.OnCreated(context.Background(), createdEvent(), baseConfig())
	require.NoError(t, err)
	assert.Equal(t, types.SuppressRateLimited, outcome.Reason)

	assert.Len(t, sink.payloads, 1)
}

func TestRateLimitIsPerProject(t *testing.T) {
	sink := &fakeSender{}
	opts := DefaultAssemblerOptions()
	opts.RateLimitPerMinute = 1
	a := NewAssembler(zap.NewNop(), sink, testResolver(), opts)

	_, err := a.OnCreated(context.Background(), createdEvent(), baseConfig())
	require.NoError(t, err)

	other := createdEvent()
	other.Project.Identifier = "intranet"
	outcome, err := a.OnCreated(context.Background(), other, baseConfig())
	require.NoError(t, err)
	assert.True(t, outcome.Delivered)
}
