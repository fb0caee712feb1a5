package driving

import (
	"context"

	"github.com/judelwin/smart-study-assistant/internal/core/domain"
)

// ChatService drives the question/answer exchange for the selected class.
// The transcript is append-only and reset on class switch.
type ChatService interface {
	// Submit appends the user's question and, on completion, the
	// assistant's answer with resolved citations. Empty input or a
	// missing class selection is rejected without appending anything.
	Submit(ctx context.Context, text string) error

	// Messages returns the transcript in append order.
	Messages() []domain.ChatMessage

	// Reset clears the transcript, re-seeds the greeting and binds the
	// session to a class ("" unbinds).
	Reset(classID string)

	// ClassID returns the class the session is bound to.
	ClassID() string
}
