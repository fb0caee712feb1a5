package driven

import (
	"context"
	"io"

	"github.com/judelwin/smart-study-assistant/internal/core/domain"
)

// UploadFile is one file in a multipart upload request.
type UploadFile struct {
	// Name is the filename sent to the backend.
	Name string

	// Content is the file data. The caller retains ownership and closes
	// any underlying resource.
	Content io.Reader
}

// UploadResult is the backend's acknowledgement of an upload.
type UploadResult struct {
	// Message is the human-readable summary from the backend.
	Message string `json:"message"`

	// Filenames lists the accepted files.
	Filenames []string `json:"filenames"`
}

// DocumentAPI is the backend's document surface: listing, deletion,
// uploads and presigned download links.
type DocumentAPI interface {
	// ListDocuments returns all document metadata for a class.
	ListDocuments(ctx context.Context, classID string) ([]domain.Document, error)

	// DeleteDocument removes a document and its derived data.
	DeleteDocument(ctx context.Context, id string) error

	// PresignBatch returns download URLs for the given ids in a single
	// request. Ids the backend cannot presign map to an empty string.
	PresignBatch(ctx context.Context, ids []string) (map[string]string, error)

	// Upload sends one or more files for a class. The backend queues the
	// documents for ingestion; status is observed via ListDocuments.
	Upload(ctx context.Context, classID string, files []UploadFile) (*UploadResult, error)
}
