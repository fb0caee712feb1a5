package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/judelwin/smart-study-assistant/internal/adapters/driven/backend/memory"
	"github.com/judelwin/smart-study-assistant/internal/core/domain"
	"github.com/judelwin/smart-study-assistant/internal/core/ports/driven"
)

// stubResolver is a controllable DocumentResolver. RefreshMappings
// merges pending names into the resolvable set.
type stubResolver struct {
	names        map[string]string
	pending      map[string]string
	refreshCalls int
}

func (r *stubResolver) Filename(id string) (string, bool) {
	name, ok := r.names[id]
	return name, ok
}

func (r *stubResolver) RefreshMappings(context.Context) error {
	r.refreshCalls++
	for id, name := range r.pending {
		r.names[id] = name
	}
	return nil
}

func newChatFixture(t *testing.T) (*memory.Backend, *stubResolver, *ChatService) {
	t.Helper()
	backend := memory.NewBackend()
	resolver := &stubResolver{names: map[string]string{}, pending: map[string]string{}}
	svc := NewChatService(backend, resolver, 3)
	svc.Reset("c1")
	return backend, resolver, svc
}

func TestChatService_SeedsGreeting(t *testing.T) {
	_, _, svc := newChatFixture(t)

	msgs := svc.Messages()
	require.Len(t, msgs, 1)
	assert.False(t, msgs[0].IsUser)
	assert.NotEmpty(t, msgs[0].Text)
}

func TestChatService_RejectsEmptyInput(t *testing.T) {
	backend, _, svc := newChatFixture(t)

	err := svc.Submit(context.Background(), "   \t ")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Len(t, svc.Messages(), 1, "no message appended")
	assert.Zero(t, backend.AskCalls)
}

func TestChatService_RejectsWithoutClass(t *testing.T) {
	backend := memory.NewBackend()
	resolver := &stubResolver{names: map[string]string{}}
	svc := NewChatService(backend, resolver, 3)

	err := svc.Submit(context.Background(), "what is mitosis?")

	assert.ErrorIs(t, err, domain.ErrNoClassSelected)
	assert.Len(t, svc.Messages(), 1)
	assert.Zero(t, backend.AskCalls)
}

func TestChatService_SubmitAppendsAnswerWithCitations(t *testing.T) {
	backend, resolver, svc := newChatFixture(t)
	resolver.names["d1"] = "syllabus.pdf"
	backend.SetAnswer("Mitosis is cell division.", []driven.ChunkRef{
		{DocumentID: "d1", PageNumber: 4, Score: 0.9},
	})

	require.NoError(t, svc.Submit(context.Background(), "what is mitosis?"))

	msgs := svc.Messages()
	require.Len(t, msgs, 3)
	assert.True(t, msgs[1].IsUser)
	assert.Equal(t, "what is mitosis?", msgs[1].Text)
	assert.False(t, msgs[2].IsUser)
	require.Len(t, msgs[2].Citations, 1)
	assert.Equal(t, domain.Citation{DocumentID: "d1", PageNumber: 4, Filename: "syllabus.pdf"},
		msgs[2].Citations[0])
}

func TestChatService_CitationsDedupedByFilenameAndPage(t *testing.T) {
	backend, resolver, svc := newChatFixture(t)
	resolver.names["d1"] = "syllabus.pdf"
	resolver.names["d2"] = "notes.pdf"
	// Two chunks land on syllabus.pdf page 2; only one citation survives.
	backend.SetAnswer("See the grading policy.", []driven.ChunkRef{
		{DocumentID: "d1", PageNumber: 2, Score: 0.9},
		{DocumentID: "d1", PageNumber: 2, Score: 0.8},
		{DocumentID: "d2", PageNumber: 1, Score: 0.7},
	})

	require.NoError(t, svc.Submit(context.Background(), "how is grading done?"))

	msgs := svc.Messages()
	citations := msgs[len(msgs)-1].Citations
	require.Len(t, citations, 2)
	assert.Equal(t, "syllabus.pdf", citations[0].Filename)
	assert.Equal(t, 2, citations[0].PageNumber)
	assert.Equal(t, "notes.pdf", citations[1].Filename)
}

func TestChatService_UnresolvedCitationRefreshesOnce(t *testing.T) {
	backend, resolver, svc := newChatFixture(t)
	// d9 is unknown until the mapping refresh catches up.
	resolver.pending["d9"] = "notes.pdf"
	backend.SetAnswer("Covered in the notes.", []driven.ChunkRef{
		{DocumentID: "d9", PageNumber: 7, Score: 0.9},
	})

	require.NoError(t, svc.Submit(context.Background(), "where is this covered?"))

	assert.Equal(t, 1, resolver.refreshCalls)
	msgs := svc.Messages()
	citations := msgs[len(msgs)-1].Citations
	require.Len(t, citations, 1)
	assert.Equal(t, "notes.pdf", citations[0].Filename)
	assert.Equal(t, 7, citations[0].PageNumber)
}

func TestChatService_StillUnresolvedCitationDropped(t *testing.T) {
	backend, resolver, svc := newChatFixture(t)
	resolver.names["d1"] = "syllabus.pdf"
	backend.SetAnswer("Partially covered.", []driven.ChunkRef{
		{DocumentID: "d1", PageNumber: 1, Score: 0.9},
		{DocumentID: "d-gone", PageNumber: 3, Score: 0.8},
	})

	require.NoError(t, svc.Submit(context.Background(), "where?"))

	assert.Equal(t, 1, resolver.refreshCalls, "exactly one refresh attempt")
	msgs := svc.Messages()
	citations := msgs[len(msgs)-1].Citations
	require.Len(t, citations, 1, "unresolvable citation is dropped, not shown unknown")
	assert.Equal(t, "syllabus.pdf", citations[0].Filename)
}

func TestChatService_NoAnswerSuppressesCitations(t *testing.T) {
	backend, resolver, svc := newChatFixture(t)
	resolver.names["d1"] = "syllabus.pdf"
	backend.SetAnswer("  i DON'T know.  ", []driven.ChunkRef{
		{DocumentID: "d1", PageNumber: 1, Score: 0.4},
	})

	require.NoError(t, svc.Submit(context.Background(), "what about quantum gravity?"))

	msgs := svc.Messages()
	assert.Empty(t, msgs[len(msgs)-1].Citations, "a non-answer must not appear sourced")
}

func TestChatService_QueryFailureVisibleInTranscript(t *testing.T) {
	backend, _, svc := newChatFixture(t)
	backend.AskErr = domain.ErrBackendUnreachable

	require.NoError(t, svc.Submit(context.Background(), "hello?"))

	msgs := svc.Messages()
	require.Len(t, msgs, 3)
	assert.False(t, msgs[2].IsUser)
	assert.Contains(t, msgs[2].Text, "couldn't reach")
}

func TestChatService_QueryFailureShowsServerDetail(t *testing.T) {
	backend, _, svc := newChatFixture(t)
	backend.AskErr = &domain.APIError{StatusCode: 429, Detail: "Rate limit exceeded"}

	require.NoError(t, svc.Submit(context.Background(), "hello?"))

	msgs := svc.Messages()
	assert.Contains(t, msgs[len(msgs)-1].Text, "Rate limit exceeded")
}

func TestChatService_ResetClearsTranscriptAndRebinds(t *testing.T) {
	backend, resolver, svc := newChatFixture(t)
	resolver.names["d1"] = "syllabus.pdf"
	backend.SetAnswer("An answer.", nil)
	require.NoError(t, svc.Submit(context.Background(), "question one"))
	require.Greater(t, len(svc.Messages()), 1)

	svc.Reset("c2")

	assert.Equal(t, "c2", svc.ClassID())
	msgs := svc.Messages()
	require.Len(t, msgs, 1, "transcript reduced to the greeting")
	assert.False(t, msgs[0].IsUser)
}

func TestChatService_MessageIDsIncrease(t *testing.T) {
	backend, _, svc := newChatFixture(t)
	backend.SetAnswer("ok", nil)
	require.NoError(t, svc.Submit(context.Background(), "one"))
	require.NoError(t, svc.Submit(context.Background(), "two"))

	msgs := svc.Messages()
	for i := 1; i < len(msgs); i++ {
		assert.Greater(t, msgs[i].ID, msgs[i-1].ID)
	}
}
