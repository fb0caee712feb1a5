package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/judelwin/smart-study-assistant/internal/core/domain"
	"github.com/judelwin/smart-study-assistant/internal/core/ports/driven"
	"github.com/judelwin/smart-study-assistant/internal/core/ports/driving"
	"github.com/judelwin/smart-study-assistant/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

const (
	defaultTopK = 3

	greetingText    = "Hi! Ask me anything about this class's materials."
	unreachableText = "Sorry, I couldn't reach the backend. Please try again."
	genericFailText = "Sorry, something went wrong answering that. Please try again."
)

// ChatService drives the question/answer exchange for one class. The
// transcript is append-only; submission failures surface as assistant
// messages so the user always sees what happened.
type ChatService struct {
	api      driven.QueryAPI
	resolver driving.DocumentResolver
	topK     int

	mu       sync.Mutex
	classID  string
	messages []domain.ChatMessage
	nextID   int64
	now      func() time.Time
}

// NewChatService creates a chat service bound to no class. topK <= 0
// falls back to the default of 3 retrieved chunks per question.
func NewChatService(api driven.QueryAPI, resolver driving.DocumentResolver, topK int) *ChatService {
	if topK <= 0 {
		topK = defaultTopK
	}
	s := &ChatService{api: api, resolver: resolver, topK: topK, now: time.Now}
	s.mu.Lock()
	s.appendLocked(greetingText, false, nil)
	s.mu.Unlock()
	return s
}

// Submit appends the user's question, asks the backend, resolves the
// returned chunk references into citations and appends the answer.
func (s *ChatService) Submit(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	classID := s.classID
	if classID == "" {
		s.mu.Unlock()
		return domain.ErrNoClassSelected
	}
	s.appendLocked(text, true, nil)
	s.mu.Unlock()

	resp, err := s.api.Ask(ctx, driven.QueryRequest{
		Query:   text,
		ClassID: classID,
		TopK:    s.topK,
	})
	if err != nil {
		// The failure stays visible in the transcript; it is not an
		// error to the caller, who already sees the outcome.
		logger.Warn("query failed: %v", err)
		s.mu.Lock()
		s.appendLocked(failureText(err), false, nil)
		s.mu.Unlock()
		return nil
	}

	citations := s.resolveCitations(ctx, resp.Chunks)
	if domain.IsNoAnswer(resp.Answer) {
		// An explicit non-answer must not appear sourced.
		citations = nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.appendLocked(resp.Answer, false, citations)
	return nil
}

// resolveCitations maps chunk references to citations via the document
// resolver. If any document id is unknown the mapping is refreshed once
// and resolution recomputed; citations still unresolved after that are
// dropped rather than shown with an unknown filename.
func (s *ChatService) resolveCitations(ctx context.Context, chunks []driven.ChunkRef) []domain.Citation {
	if len(chunks) == 0 {
		return nil
	}

	resolve := func() ([]domain.Citation, bool) {
		out := make([]domain.Citation, 0, len(chunks))
		allResolved := true
		for _, c := range chunks {
			name, ok := s.resolver.Filename(c.DocumentID)
			if !ok {
				allResolved = false
				continue
			}
			out = append(out, domain.Citation{
				DocumentID: c.DocumentID,
				PageNumber: c.PageNumber,
				Filename:   name,
			})
		}
		return out, allResolved
	}

	citations, allResolved := resolve()
	if !allResolved {
		// A document cited before our local list caught up. One refresh
		// covers it; documents still unknown after that are dropped.
		logger.Debug("unresolved citation, refreshing document mappings")
		if err := s.resolver.RefreshMappings(ctx); err != nil {
			logger.Warn("mapping refresh failed: %v", err)
		}
		citations, _ = resolve()
	}
	return domain.DedupeCitations(citations)
}

// failureText renders an error as a transcript message, preferring the
// backend's own detail text.
func failureText(err error) string {
	if apiErr, ok := domain.IsAPIError(err); ok && apiErr.Detail != "" {
		return "Sorry, that didn't work: " + apiErr.Detail
	}
	if _, ok := domain.IsAPIError(err); ok {
		return genericFailText
	}
	return unreachableText
}

// Messages returns a copy of the transcript in append order.
func (s *ChatService) Messages() []domain.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

// Reset clears the transcript, re-seeds the greeting and binds the
// session to classID. An empty id unbinds the session.
func (s *ChatService) Reset(classID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.classID = classID
	s.messages = nil
	s.appendLocked(greetingText, false, nil)
}

// ClassID returns the class the session is bound to.
func (s *ChatService) ClassID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.classID
}

// appendLocked adds a message to the transcript. Caller holds mu.
func (s *ChatService) appendLocked(text string, isUser bool, citations []domain.Citation) {
	s.nextID++
	s.messages = append(s.messages, domain.ChatMessage{
		ID:        s.nextID,
		Text:      text,
		IsUser:    isUser,
		Citations: citations,
		CreatedAt: s.now(),
	})
}
