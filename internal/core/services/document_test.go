package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/judelwin/smart-study-assistant/internal/adapters/driven/backend/memory"
	"github.com/judelwin/smart-study-assistant/internal/core/domain"
	"github.com/judelwin/smart-study-assistant/internal/core/ports/driven"
)

func testDocConfig() DocumentConfig {
	// Long poll interval so the ticker never fires unless a test wants it.
	return DocumentConfig{PollInterval: time.Hour}
}

func TestDocumentService_SetClassFetches(t *testing.T) {
	backend := memory.NewBackend()
	backend.SetDocuments("c1", []domain.Document{
		{ID: "d1", Filename: "syllabus.pdf", Status: domain.StatusProcessed},
	})
	svc := NewDocumentService(backend, nil, testDocConfig())
	defer svc.Close()

	svc.SetClass(context.Background(), "c1")

	docs := svc.Documents()
	require.Len(t, docs, 1)
	assert.Equal(t, "syllabus.pdf", docs[0].Filename)
}

func TestDocumentService_FetchErrorClearsList(t *testing.T) {
	backend := memory.NewBackend()
	backend.SetDocuments("c1", []domain.Document{
		{ID: "d1", Filename: "syllabus.pdf", Status: domain.StatusProcessed},
	})
	svc := NewDocumentService(backend, nil, testDocConfig())
	defer svc.Close()
	svc.SetClass(context.Background(), "c1")
	require.Len(t, svc.Documents(), 1)

	backend.ListDocumentsErr = domain.ErrBackendUnreachable
	err := svc.Fetch(context.Background())

	require.Error(t, err)
	assert.Empty(t, svc.Documents(), "unconfirmed documents must not be shown")
}

func TestDocumentService_FetchWithoutClassIsNoop(t *testing.T) {
	backend := memory.NewBackend()
	svc := NewDocumentService(backend, nil, testDocConfig())
	defer svc.Close()

	require.NoError(t, svc.Fetch(context.Background()))
	assert.Zero(t, backend.ListDocumentsCalls)
}

func TestDocumentService_PollingTracksIngestion(t *testing.T) {
	backend := memory.NewBackend()
	backend.SetDocuments("c1", []domain.Document{
		{ID: "d1", Filename: "a.pdf", Status: domain.StatusProcessing},
		{ID: "d2", Filename: "b.pdf", Status: domain.StatusProcessed},
	})
	svc := NewDocumentService(backend, nil, DocumentConfig{PollInterval: 10 * time.Millisecond})
	defer svc.Close()

	svc.SetClass(context.Background(), "c1")
	assert.True(t, svc.Polling(), "in-progress documents start the poll")

	backend.SetDocuments("c1", []domain.Document{
		{ID: "d1", Filename: "a.pdf", Status: domain.StatusProcessed},
		{ID: "d2", Filename: "b.pdf", Status: domain.StatusProcessed},
	})

	require.Eventually(t, func() bool { return !svc.Polling() },
		2*time.Second, 5*time.Millisecond, "poll stops once every document is terminal")
	assert.Greater(t, backend.ListDocumentsCalls, 1)
}

func TestDocumentService_UnknownStatusKeepsPolling(t *testing.T) {
	backend := memory.NewBackend()
	backend.SetDocuments("c1", []domain.Document{
		{ID: "d1", Filename: "a.pdf", Status: domain.DocumentStatus("reindexing")},
	})
	svc := NewDocumentService(backend, nil, testDocConfig())
	defer svc.Close()

	svc.SetClass(context.Background(), "c1")
	assert.True(t, svc.Polling())
}

func TestDocumentService_SetClassStopsPollingAndClears(t *testing.T) {
	backend := memory.NewBackend()
	backend.SetDocuments("c1", []domain.Document{
		{ID: "d1", Filename: "a.pdf", Status: domain.StatusPending},
	})
	svc := NewDocumentService(backend, nil, testDocConfig())
	defer svc.Close()
	svc.SetClass(context.Background(), "c1")
	require.True(t, svc.Polling())

	svc.SetClass(context.Background(), "")

	assert.False(t, svc.Polling())
	assert.Empty(t, svc.Documents())
}

func TestDocumentService_DownloadURLBatchesAndCaches(t *testing.T) {
	backend := memory.NewBackend()
	backend.SetDocuments("c1", []domain.Document{
		{ID: "d1", Filename: "a.pdf", Status: domain.StatusProcessed},
		{ID: "d2", Filename: "b.pdf", Status: domain.StatusProcessed},
	})
	backend.SetURL("d1", "https://cdn/a")
	backend.SetURL("d2", "https://cdn/b")
	svc := NewDocumentService(backend, nil, testDocConfig())
	defer svc.Close()
	svc.SetClass(context.Background(), "c1")

	// Loading the list prefetched one batch covering every document.
	require.Len(t, backend.PresignRequests, 1)
	assert.ElementsMatch(t, []string{"d1", "d2"}, backend.PresignRequests[0])

	// Both downloads are cache hits.
	url, err := svc.DownloadURL(context.Background(), "d1")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/a", url)

	url, err = svc.DownloadURL(context.Background(), "d2")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/b", url)
	assert.Equal(t, 1, backend.PresignCalls)
}

func TestDocumentService_DownloadURLExpiresEarly(t *testing.T) {
	backend := memory.NewBackend()
	backend.SetDocuments("c1", []domain.Document{
		{ID: "d1", Filename: "a.pdf", Status: domain.StatusProcessed},
	})
	backend.SetURL("d1", "https://cdn/a")
	svc := NewDocumentService(backend, nil, testDocConfig())
	defer svc.Close()

	current := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return current }
	svc.SetClass(context.Background(), "c1")

	_, err := svc.DownloadURL(context.Background(), "d1")
	require.NoError(t, err)
	require.Equal(t, 1, backend.PresignCalls)

	// Still fresh 49 minutes in.
	current = current.Add(49 * time.Minute)
	_, err = svc.DownloadURL(context.Background(), "d1")
	require.NoError(t, err)
	assert.Equal(t, 1, backend.PresignCalls)

	// At 50 minutes the safety margin has eaten the remaining lifetime.
	current = current.Add(time.Minute)
	_, err = svc.DownloadURL(context.Background(), "d1")
	require.NoError(t, err)
	assert.Equal(t, 2, backend.PresignCalls, "expired entry forces a new presign")
}

func TestDocumentService_DownloadURLUnpresignable(t *testing.T) {
	backend := memory.NewBackend()
	backend.SetDocuments("c1", []domain.Document{
		{ID: "d1", Filename: "a.pdf", Status: domain.StatusPending},
	})
	svc := NewDocumentService(backend, nil, testDocConfig())
	defer svc.Close()
	svc.SetClass(context.Background(), "c1")

	_, err := svc.DownloadURL(context.Background(), "d1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentService_DownloadURLPresignError(t *testing.T) {
	backend := memory.NewBackend()
	backend.SetDocuments("c1", []domain.Document{
		{ID: "d1", Filename: "a.pdf", Status: domain.StatusProcessed},
	})
	backend.PresignErr = domain.ErrBackendUnreachable
	svc := NewDocumentService(backend, nil, testDocConfig())
	defer svc.Close()
	svc.SetClass(context.Background(), "c1")

	_, err := svc.DownloadURL(context.Background(), "d1")
	assert.ErrorIs(t, err, domain.ErrBackendUnreachable)
}

func TestDocumentService_DeleteGuardRejectsConcurrent(t *testing.T) {
	backend := memory.NewBackend()
	backend.SetDocuments("c1", []domain.Document{
		{ID: "d1", Filename: "a.pdf", Status: domain.StatusProcessed},
	})
	svc := NewDocumentService(backend, nil, testDocConfig())
	defer svc.Close()
	svc.SetClass(context.Background(), "c1")

	svc.mu.Lock()
	svc.deleteBusy = true
	svc.mu.Unlock()

	err := svc.Delete(context.Background(), "d1")
	assert.ErrorIs(t, err, domain.ErrDeleteInFlight)
	assert.Len(t, svc.Documents(), 1, "rejected delete must not touch the backend")

	// Guard released: the next delete goes through.
	svc.mu.Lock()
	svc.deleteBusy = false
	svc.mu.Unlock()

	require.NoError(t, svc.Delete(context.Background(), "d1"))
	assert.Empty(t, svc.Documents())
}

func TestDocumentService_DeleteNotifiesBus(t *testing.T) {
	backend := memory.NewBackend()
	backend.SetDocuments("c1", []domain.Document{
		{ID: "d1", Filename: "a.pdf", Status: domain.StatusProcessed},
	})
	bus := NewRefreshBus()
	svc := NewDocumentService(backend, bus, testDocConfig())
	defer svc.Close()
	svc.SetClass(context.Background(), "c1")

	require.NoError(t, svc.Delete(context.Background(), "d1"))
	assert.Equal(t, uint64(1), bus.Version())
}

func TestDocumentService_DeleteGuardReleasedOnFailure(t *testing.T) {
	backend := memory.NewBackend()
	backend.SetDocuments("c1", []domain.Document{
		{ID: "d1", Filename: "a.pdf", Status: domain.StatusProcessed},
	})
	backend.DeleteDocErr = domain.ErrBackendUnreachable
	svc := NewDocumentService(backend, nil, testDocConfig())
	defer svc.Close()
	svc.SetClass(context.Background(), "c1")

	require.Error(t, svc.Delete(context.Background(), "d1"))

	backend.DeleteDocErr = nil
	assert.NoError(t, svc.Delete(context.Background(), "d1"))
}

func TestDocumentService_RefreshBusTriggersFetch(t *testing.T) {
	backend := memory.NewBackend()
	backend.SetDocuments("c1", []domain.Document{
		{ID: "d1", Filename: "a.pdf", Status: domain.StatusProcessed},
	})
	bus := NewRefreshBus()
	svc := NewDocumentService(backend, bus, testDocConfig())
	defer svc.Close()
	svc.SetClass(context.Background(), "c1")

	backend.SetDocuments("c1", []domain.Document{
		{ID: "d1", Filename: "a.pdf", Status: domain.StatusProcessed},
		{ID: "d2", Filename: "b.pdf", Status: domain.StatusProcessed},
	})
	bus.Notify()

	require.Eventually(t, func() bool { return len(svc.Documents()) == 2 },
		2*time.Second, 5*time.Millisecond)
}

// blockingDocAPI serialises ListDocuments responses through channels so
// tests control completion order.
type blockingDocAPI struct {
	calls chan chan []domain.Document
}

func (a *blockingDocAPI) ListDocuments(context.Context, string) ([]domain.Document, error) {
	reply := make(chan []domain.Document)
	a.calls <- reply
	return <-reply, nil
}

func (a *blockingDocAPI) DeleteDocument(context.Context, string) error { return nil }

func (a *blockingDocAPI) PresignBatch(context.Context, []string) (map[string]string, error) {
	return nil, nil
}

func (a *blockingDocAPI) Upload(
	context.Context, string, []driven.UploadFile,
) (*driven.UploadResult, error) {
	return &driven.UploadResult{}, nil
}

func TestDocumentService_StaleFetchResponseDiscarded(t *testing.T) {
	api := &blockingDocAPI{calls: make(chan chan []domain.Document, 2)}
	svc := NewDocumentService(api, nil, testDocConfig())
	defer svc.Close()

	svc.mu.Lock()
	svc.classID = "c1"
	svc.mu.Unlock()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_ = svc.Fetch(context.Background())
	}()
	slow := <-api.calls

	go func() {
		defer wg.Done()
		_ = svc.Fetch(context.Background())
	}()
	fast := <-api.calls

	// The later fetch completes first.
	fast <- []domain.Document{{ID: "d2", Filename: "new.pdf", Status: domain.StatusProcessed}}
	require.Eventually(t, func() bool {
		docs := svc.Documents()
		return len(docs) == 1 && docs[0].ID == "d2"
	}, 2*time.Second, 5*time.Millisecond)

	// The slow response from before must not overwrite the newer state.
	slow <- []domain.Document{{ID: "d1", Filename: "old.pdf", Status: domain.StatusProcessed}}
	wg.Wait()

	docs := svc.Documents()
	require.Len(t, docs, 1)
	assert.Equal(t, "d2", docs[0].ID)
}

func TestDocumentService_Filename(t *testing.T) {
	backend := memory.NewBackend()
	backend.SetDocuments("c1", []domain.Document{
		{ID: "d1", Filename: "syllabus.pdf", Status: domain.StatusProcessed},
	})
	svc := NewDocumentService(backend, nil, testDocConfig())
	defer svc.Close()
	svc.SetClass(context.Background(), "c1")

	name, ok := svc.Filename("d1")
	require.True(t, ok)
	assert.Equal(t, "syllabus.pdf", name)

	_, ok = svc.Filename("d9")
	assert.False(t, ok)
}

func TestDocumentService_CloseIsIdempotent(t *testing.T) {
	backend := memory.NewBackend()
	svc := NewDocumentService(backend, NewRefreshBus(), testDocConfig())
	svc.Close()
	svc.Close()
}
