package domain

import (
	"strings"
	"time"
)

// noAnswerText is the exact non-answer the backend's prompt instructs the
// model to produce when the context contains nothing relevant.
const noAnswerText = "i don't know."

// Citation points at the document and page that contributed to an answer.
// Citations are derived per answer from chunk references and are never
// persisted.
type Citation struct {
	// DocumentID is the cited document.
	DocumentID string

	// PageNumber is the 1-based page within the document.
	// Values <= 0 mean the page is unknown and must not be displayed.
	PageNumber int

	// Filename is the resolved display name of the document.
	Filename string
}

// ChatMessage is one entry in the conversation transcript.
// Messages are immutable once appended; the transcript is append-only
// and cleared wholesale on class switch.
type ChatMessage struct {
	// ID is unique and monotonically increasing within a session.
	ID int64

	// Text is the message body.
	Text string

	// IsUser is true for user-submitted messages, false for assistant ones.
	IsUser bool

	// Citations lists the sources backing an assistant answer, in order.
	// Empty for user messages and unsourced answers.
	Citations []Citation

	// CreatedAt is when the message was appended locally.
	CreatedAt time.Time
}

// IsNoAnswer reports whether an answer text is the model's explicit
// non-answer. Such answers must never be shown with citations: an "I
// don't know." that appears sourced misleads the user.
func IsNoAnswer(text string) bool {
	return strings.EqualFold(strings.TrimSpace(text), noAnswerText)
}

// DedupeCitations removes duplicate (filename, page) pairs, keeping the
// first occurrence and preserving order.
func DedupeCitations(citations []Citation) []Citation {
	type citeKey struct {
		filename string
		page     int
	}
	seen := make(map[citeKey]struct{}, len(citations))
	result := make([]Citation, 0, len(citations))
	for _, c := range citations {
		k := citeKey{filename: c.Filename, page: c.PageNumber}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		result = append(result, c)
	}
	return result
}
