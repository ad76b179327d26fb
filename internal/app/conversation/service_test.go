package conversation_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/datagent/internal/adapters/storage/memory"
	"github.com/PabloGalante/datagent/internal/app/conversation"
	"github.com/PabloGalante/datagent/internal/domain"
)

func newService(t *testing.T, r domain.Responder, cacheSize int) (*conversation.Service, *memory.TranscriptStore) {
	t.Helper()
	store := memory.NewTranscriptStore()
	svc, err := conversation.NewService(r, store, cacheSize)
	require.NoError(t, err)
	return svc, store
}

func TestStartSessionAndSendMessage(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(t, &scriptedResponder{reply: "本月营收为120万元"}, 0)

	out, err := svc.StartSession(ctx, conversation.StartSessionInput{
		Mode:  domain.ModeQuery,
		Title: "智能问数",
	})
	require.NoError(t, err)
	require.NotEmpty(t, out.Session.ID)
	assert.Equal(t, conversation.Greeting(domain.ModeQuery), out.Greeting.Content)

	sent, err := svc.SendMessage(ctx, conversation.SendMessageInput{
		SessionID: out.Session.ID,
		Text:      "本月营收是多少?",
	})
	require.NoError(t, err)
	assert.Equal(t, "本月营收是多少?", sent.UserEntry.Content)
	assert.Equal(t, "本月营收为120万元", sent.Reply.Content)
	assert.Equal(t, domain.KindPlain, sent.Reply.Kind)

	saved, err := store.LoadTranscript(ctx, out.Session.ID)
	require.NoError(t, err)
	assert.Len(t, saved.Entries, 3)
	assert.Equal(t, "智能问数", saved.Session.Title)
}

func TestSwitchModeResetsAndPersists(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(t, &scriptedResponder{reply: "ok"}, 0)

	out, err := svc.StartSession(ctx, conversation.StartSessionInput{Mode: domain.ModeQuery})
	require.NoError(t, err)
	_, err = svc.SendMessage(ctx, conversation.SendMessageInput{SessionID: out.Session.ID, Text: "hi"})
	require.NoError(t, err)

	switched, err := svc.SwitchMode(ctx, out.Session.ID, domain.ModeReport)
	require.NoError(t, err)
	assert.Equal(t, domain.ModeReport, switched.Session.Mode)
	assert.Equal(t, conversation.Greeting(domain.ModeReport), switched.Greeting.Content)

	saved, err := store.LoadTranscript(ctx, out.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ModeReport, saved.Session.Mode)
	assert.Len(t, saved.Entries, 1)

	tl, err := svc.GetSessionTimeline(ctx, out.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, "描述您的需求...", tl.Placeholder)
	assert.Len(t, tl.Suggestions, 2)
	assert.False(t, tl.Loading)
}

func TestEvictedSessionIsRehydrated(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, &scriptedResponder{reply: "ok"}, 1)

	first, err := svc.StartSession(ctx, conversation.StartSessionInput{Mode: domain.ModeAnalysis})
	require.NoError(t, err)
	_, err = svc.SendMessage(ctx, conversation.SendMessageInput{SessionID: first.Session.ID, Text: "why"})
	require.NoError(t, err)

	// Pushes the first session out of the single-slot cache.
	_, err = svc.StartSession(ctx, conversation.StartSessionInput{Mode: domain.ModeQuery})
	require.NoError(t, err)

	tl, err := svc.GetSessionTimeline(ctx, first.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ModeAnalysis, tl.Session.Mode)
	require.Len(t, tl.Entries, 3)
	assert.Equal(t, "why", tl.Entries[1].Content)
}

func TestUnknownSession(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, &scriptedResponder{}, 0)

	_, err := svc.GetSessionTimeline(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	_, err = svc.SendMessage(ctx, conversation.SendMessageInput{SessionID: "missing", Text: "x"})
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	assert.ErrorIs(t, svc.EndSession(ctx, "missing"), domain.ErrSessionNotFound)
}

func TestEndSession(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(t, &scriptedResponder{}, 0)

	out, err := svc.StartSession(ctx, conversation.StartSessionInput{Mode: domain.ModeQuery})
	require.NoError(t, err)
	require.NoError(t, svc.EndSession(ctx, out.Session.ID))

	_, err = store.LoadTranscript(ctx, out.Session.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	_, err = svc.GetSessionTimeline(ctx, out.Session.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSendBlankMessage(t *testing.T) {
	ctx := context.Background()
	r := &scriptedResponder{}
	svc, _ := newService(t, r, 0)

	out, err := svc.StartSession(ctx, conversation.StartSessionInput{Mode: domain.ModeQuery})
	require.NoError(t, err)

	_, err = svc.SendMessage(ctx, conversation.SendMessageInput{SessionID: out.Session.ID, Text: "  "})
	assert.ErrorIs(t, err, domain.ErrEmptyMessage)
	assert.Zero(t, r.Calls())
}

func TestPendingSessionSurvivesEviction(t *testing.T) {
	ctx := context.Background()
	r := newGatedResponder("ok")
	svc, store := newService(t, r, 1)

	first, err := svc.StartSession(ctx, conversation.StartSessionInput{Mode: domain.ModeQuery})
	require.NoError(t, err)
	id := first.Session.ID

	done := make(chan error, 1)
	go func() {
		_, err := svc.SendMessage(ctx, conversation.SendMessageInput{SessionID: id, Text: "first"})
		done <- err
	}()
	<-r.started

	// Pushes the busy session out of the single-slot cache.
	_, err = svc.StartSession(ctx, conversation.StartSessionInput{Mode: domain.ModeReport})
	require.NoError(t, err)

	_, err = svc.SendMessage(ctx, conversation.SendMessageInput{SessionID: id, Text: "second"})
	assert.ErrorIs(t, err, domain.ErrRequestInFlight)

	tl, err := svc.GetSessionTimeline(ctx, id)
	require.NoError(t, err)
	assert.True(t, tl.Loading)

	close(r.release)
	require.NoError(t, <-done)

	saved, err := store.LoadTranscript(ctx, id)
	require.NoError(t, err)
	require.Len(t, saved.Entries, 3)
	assert.Equal(t, "first", saved.Entries[1].Content)
	assert.Equal(t, "ok", saved.Entries[2].Content)
}

func TestEndSessionDiscardsPendingReply(t *testing.T) {
	ctx := context.Background()
	r := newGatedResponder("late")
	svc, store := newService(t, r, 0)

	out, err := svc.StartSession(ctx, conversation.StartSessionInput{Mode: domain.ModeQuery})
	require.NoError(t, err)
	id := out.Session.ID

	done := make(chan error, 1)
	go func() {
		_, err := svc.SendMessage(ctx, conversation.SendMessageInput{SessionID: id, Text: "q"})
		done <- err
	}()
	<-r.started

	require.NoError(t, svc.EndSession(ctx, id))

	close(r.release)
	assert.ErrorIs(t, <-done, domain.ErrSessionNotFound)

	_, err = store.LoadTranscript(ctx, id)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	_, err = svc.GetSessionTimeline(ctx, id)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.ErrorIs(t, svc.EndSession(ctx, id), domain.ErrSessionNotFound)
}

// slowStore blocks every load until gate is closed.
type slowStore struct {
	*memory.TranscriptStore
	loading chan struct{}
	gate    chan struct{}
}

func (s *slowStore) LoadTranscript(ctx context.Context, id domain.SessionID) (*domain.Transcript, error) {
	s.loading <- struct{}{}
	<-s.gate
	return s.TranscriptStore.LoadTranscript(ctx, id)
}

func TestSlowLoadDoesNotBlockCachedSessions(t *testing.T) {
	ctx := context.Background()
	store := &slowStore{
		TranscriptStore: memory.NewTranscriptStore(),
		loading:         make(chan struct{}, 1),
		gate:            make(chan struct{}),
	}
	svc, err := conversation.NewService(&scriptedResponder{reply: "ok"}, store, 1)
	require.NoError(t, err)

	evicted, err := svc.StartSession(ctx, conversation.StartSessionInput{Mode: domain.ModeQuery})
	require.NoError(t, err)
	cached, err := svc.StartSession(ctx, conversation.StartSessionInput{Mode: domain.ModeReport})
	require.NoError(t, err)

	loaded := make(chan error, 1)
	go func() {
		_, err := svc.GetSessionTimeline(ctx, evicted.Session.ID)
		loaded <- err
	}()
	<-store.loading

	served := make(chan error, 1)
	go func() {
		_, err := svc.GetSessionTimeline(ctx, cached.Session.ID)
		served <- err
	}()
	select {
	case err := <-served:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("cached session lookup waited on another session's load")
	}

	close(store.gate)
	require.NoError(t, <-loaded)
}
