package services

import (
	"context"
	"os"
	"path/filepath"

	"github.com/judelwin/smart-study-assistant/internal/core/domain"
	"github.com/judelwin/smart-study-assistant/internal/core/ports/driven"
	"github.com/judelwin/smart-study-assistant/internal/core/ports/driving"
	"github.com/judelwin/smart-study-assistant/internal/logger"
)

// Ensure UploadService implements the interface.
var _ driving.UploadService = (*UploadService)(nil)

// UploadService reads local files and submits them for ingestion. One
// request carries all files; on success the refresh bus is notified so
// the document view picks up the new pending entries.
type UploadService struct {
	api driven.DocumentAPI
	bus *RefreshBus
}

// NewUploadService creates an upload service. The bus may be nil.
func NewUploadService(api driven.DocumentAPI, bus *RefreshBus) *UploadService {
	return &UploadService{api: api, bus: bus}
}

// Upload sends the files at the given paths to the backend and returns
// the accepted filenames. All files are opened before anything is sent
// so a bad path fails the whole batch up front.
func (s *UploadService) Upload(ctx context.Context, classID string, paths []string) ([]string, error) {
	if classID == "" {
		return nil, domain.ErrNoClassSelected
	}
	if len(paths) == 0 {
		return nil, domain.ErrInvalidInput
	}

	files := make([]driven.UploadFile, 0, len(paths))
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			closeAll(files)
			return nil, err
		}
		files = append(files, driven.UploadFile{
			Name:    filepath.Base(path),
			Content: f,
		})
	}
	defer closeAll(files)

	logger.Info("uploading %d files to class %s", len(files), classID)
	result, err := s.api.Upload(ctx, classID, files)
	if err != nil {
		return nil, err
	}

	if s.bus != nil {
		s.bus.Notify()
	}
	return result.Filenames, nil
}

// closeAll closes the readers opened for an upload batch.
func closeAll(files []driven.UploadFile) {
	for _, f := range files {
		if c, ok := f.Content.(interface{ Close() error }); ok {
			_ = c.Close()
		}
	}
}
