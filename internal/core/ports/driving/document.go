package driving

import (
	"context"

	"github.com/judelwin/smart-study-assistant/internal/core/domain"
)

// DocumentService maintains the per-class document view: metadata kept
// fresh by polling while ingestion is in progress, and a time-bounded
// cache of presigned download links.
type DocumentService interface {
	DocumentResolver

	// SetClass switches the service to a new class, cancelling any
	// polling for the old one. An empty id resets to an idle, empty view.
	SetClass(ctx context.Context, classID string)

	// Fetch re-fetches the document list for the current class. Any
	// failure leaves an empty local list.
	Fetch(ctx context.Context) error

	// Documents returns the current local document list.
	Documents() []domain.Document

	// Polling reports whether the background poll task is running.
	Polling() bool

	// DownloadURL returns a presigned link for the document, from cache
	// when fresh, otherwise via a batched presign request.
	DownloadURL(ctx context.Context, documentID string) (string, error)

	// Delete removes a document. At most one delete may be in flight;
	// concurrent attempts fail with domain.ErrDeleteInFlight.
	Delete(ctx context.Context, documentID string) error

	// Close stops polling and the refresh subscription.
	Close()
}

// DocumentResolver is the narrow view ChatService needs to turn chunk
// references into citations.
type DocumentResolver interface {
	// Filename resolves a document id to its filename. Absence means the
	// document has not been fetched yet, not that it does not exist.
	Filename(documentID string) (string, bool)

	// RefreshMappings synchronously re-fetches the document metadata so
	// a just-processed document becomes resolvable.
	RefreshMappings(ctx context.Context) error
}
