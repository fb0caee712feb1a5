package domain

import "time"

// DocumentStatus is the backend-reported processing state of a document.
// The set of values is open: the ingestion pipeline may introduce new
// states, and any unrecognised value is treated as still-processing.
type DocumentStatus string

const (
	// StatusPending means the document is queued for processing.
	StatusPending DocumentStatus = "pending"

	// StatusProcessing means the ingestion pipeline is working on it.
	StatusProcessing DocumentStatus = "processing"

	// StatusProcessed means the document is fully ingested and searchable.
	StatusProcessed DocumentStatus = "processed"

	// StatusFailed means ingestion failed permanently.
	StatusFailed DocumentStatus = "failed"
)

// Terminal reports whether the status will no longer change on its own.
// Only "processed" is terminal; failed documents are re-polled so a
// backend-side retry becomes visible without user action.
func (s DocumentStatus) Terminal() bool {
	return s == StatusProcessed
}

// Document is the client's view of an uploaded document's metadata.
// Documents are created by the upload pipeline and only observed here;
// the status transitions externally and is picked up by re-fetching.
type Document struct {
	// ID is the server-assigned opaque identifier.
	ID string `json:"id"`

	// Filename is the original upload filename.
	Filename string `json:"filename"`

	// Status is the current processing state.
	Status DocumentStatus `json:"status"`

	// UploadedAt is when the backend accepted the upload.
	UploadedAt time.Time `json:"uploaded_at"`
}

// PresignedURL is a cached, time-limited download link for a document.
type PresignedURL struct {
	// DocumentID is the document this link belongs to.
	DocumentID string

	// URL is the backend-issued link. Opaque to the client.
	URL string

	// ExpiresAt is the client-assumed expiry. It is set conservatively
	// shorter than the backend's real token lifetime so a link is never
	// handed out moments before it stops working.
	ExpiresAt time.Time
}

// Valid reports whether the link may still be served at the given time.
func (p PresignedURL) Valid(now time.Time) bool {
	return now.Before(p.ExpiresAt)
}
