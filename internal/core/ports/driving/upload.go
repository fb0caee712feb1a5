package driving

import "context"

// UploadService submits files for ingestion into a class.
type UploadService interface {
	// Upload sends the files at the given paths to the backend and
	// signals the refresh bus on success. Returns the accepted filenames.
	Upload(ctx context.Context, classID string, paths []string) ([]string, error)
}
