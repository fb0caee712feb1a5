package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/judelwin/smart-study-assistant/internal/adapters/driven/backend/memory"
	"github.com/judelwin/smart-study-assistant/internal/core/domain"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestUploadService_UploadReturnsAcceptedNames(t *testing.T) {
	backend := memory.NewBackend()
	bus := NewRefreshBus()
	svc := NewUploadService(backend, bus)

	a := writeTempFile(t, "syllabus.pdf", "pdf bytes")
	b := writeTempFile(t, "notes.pdf", "more bytes")

	names, err := svc.Upload(context.Background(), "c1", []string{a, b})

	require.NoError(t, err)
	assert.Equal(t, []string{"syllabus.pdf", "notes.pdf"}, names)
	assert.Equal(t, uint64(1), bus.Version(), "upload signals the refresh bus")

	docs, err := backend.ListDocuments(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, domain.StatusPending, docs[0].Status)
}

func TestUploadService_RequiresClass(t *testing.T) {
	svc := NewUploadService(memory.NewBackend(), nil)
	_, err := svc.Upload(context.Background(), "", []string{"whatever.pdf"})
	assert.ErrorIs(t, err, domain.ErrNoClassSelected)
}

func TestUploadService_RequiresPaths(t *testing.T) {
	svc := NewUploadService(memory.NewBackend(), nil)
	_, err := svc.Upload(context.Background(), "c1", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUploadService_BadPathFailsBatchUpFront(t *testing.T) {
	backend := memory.NewBackend()
	svc := NewUploadService(backend, nil)
	good := writeTempFile(t, "a.pdf", "bytes")

	_, err := svc.Upload(context.Background(), "c1", []string{good, "/no/such/file.pdf"})

	require.Error(t, err)
	docs, listErr := backend.ListDocuments(context.Background(), "c1")
	require.NoError(t, listErr)
	assert.Empty(t, docs, "nothing sent when any file is unreadable")
}

func TestUploadService_BackendErrorPassesThrough(t *testing.T) {
	backend := memory.NewBackend()
	backend.UploadErr = &domain.APIError{StatusCode: 413, Detail: "File too large"}
	bus := NewRefreshBus()
	svc := NewUploadService(backend, bus)
	path := writeTempFile(t, "huge.pdf", "bytes")

	_, err := svc.Upload(context.Background(), "c1", []string{path})

	apiErr, ok := domain.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, 413, apiErr.StatusCode)
	assert.Zero(t, bus.Version(), "failed upload must not signal a refresh")
}
