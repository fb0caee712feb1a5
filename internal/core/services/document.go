package services

import (
	"context"
	"sync"
	"time"

	"github.com/judelwin/smart-study-assistant/internal/core/domain"
	"github.com/judelwin/smart-study-assistant/internal/core/ports/driven"
	"github.com/judelwin/smart-study-assistant/internal/core/ports/driving"
	"github.com/judelwin/smart-study-assistant/internal/logger"
)

// Ensure DocumentService implements the interfaces.
var (
	_ driving.DocumentService  = (*DocumentService)(nil)
	_ driving.DocumentResolver = (*DocumentService)(nil)
)

const (
	defaultPollInterval = 5 * time.Second
	defaultURLTTL       = 60 * time.Minute
	defaultURLMargin    = 10 * time.Minute
)

// DocumentConfig tunes the document service. Zero values fall back to
// the defaults (5s poll, 60m URL lifetime with a 10m safety margin).
type DocumentConfig struct {
	// PollInterval is the wait between list re-fetches while any
	// document is still being ingested.
	PollInterval time.Duration

	// URLTTL is the backend's presigned URL lifetime.
	URLTTL time.Duration

	// URLMargin is subtracted from URLTTL so a link handed out near the
	// end of its life is never already dead when the user opens it.
	URLMargin time.Duration
}

// DocumentService maintains the document view of one class: a metadata
// list kept fresh by polling while ingestion runs, and a cache of
// presigned download links that expire ahead of the backend's deadline.
type DocumentService struct {
	api driven.DocumentAPI
	bus *RefreshBus

	pollInterval time.Duration
	urlTTL       time.Duration
	urlMargin    time.Duration
	now          func() time.Time

	mu         sync.Mutex
	classID    string
	docs       []domain.Document
	urls       map[string]domain.PresignedURL
	fetchSeq   uint64 // last fetch started
	appliedSeq uint64 // last fetch whose result was applied
	deleteBusy bool
	polling    bool
	pollCancel context.CancelFunc

	busCancel func()
	done      chan struct{}
	closeOnce sync.Once
}

// NewDocumentService creates a document service. When bus is non-nil the
// service subscribes and re-fetches whenever another component signals a
// data change.
func NewDocumentService(api driven.DocumentAPI, bus *RefreshBus, cfg DocumentConfig) *DocumentService {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.URLTTL <= 0 {
		cfg.URLTTL = defaultURLTTL
	}
	if cfg.URLMargin <= 0 {
		cfg.URLMargin = defaultURLMargin
	}
	s := &DocumentService{
		api:          api,
		bus:          bus,
		pollInterval: cfg.PollInterval,
		urlTTL:       cfg.URLTTL,
		urlMargin:    cfg.URLMargin,
		now:          time.Now,
		urls:         make(map[string]domain.PresignedURL),
		done:         make(chan struct{}),
	}
	if bus != nil {
		ch, cancel := bus.Subscribe()
		s.busCancel = cancel
		go s.refreshLoop(ch)
	}
	return s
}

// refreshLoop re-fetches on every bus signal until the subscription is
// cancelled by Close.
func (s *DocumentService) refreshLoop(ch <-chan struct{}) {
	for {
		select {
		case <-s.done:
			return
		case <-ch:
			if err := s.Fetch(context.Background()); err != nil {
				logger.Warn("refresh-triggered document fetch failed: %v", err)
			}
		}
	}
}

// SetClass switches the service to a new class. Polling for the old
// class stops, the local list and URL cache are dropped, and when the
// new id is non-empty a fetch runs immediately.
func (s *DocumentService) SetClass(ctx context.Context, classID string) {
	s.mu.Lock()
	s.classID = classID
	s.docs = nil
	s.urls = make(map[string]domain.PresignedURL)
	s.stopPollingLocked()
	s.mu.Unlock()

	if classID == "" {
		return
	}
	if err := s.Fetch(ctx); err != nil {
		logger.Warn("initial document fetch for class %s failed: %v", classID, err)
	}
}

// Fetch re-fetches the document list for the current class.
//
// Responses are applied under a sequence guard: each fetch takes a
// number when it starts, and a response lands only if no later fetch
// has applied already. Without the guard a slow response from before a
// class switch or delete could overwrite newer state.
func (s *DocumentService) Fetch(ctx context.Context) error {
	s.mu.Lock()
	classID := s.classID
	if classID == "" {
		s.docs = nil
		s.stopPollingLocked()
		s.mu.Unlock()
		return nil
	}
	s.fetchSeq++
	seq := s.fetchSeq
	s.mu.Unlock()

	docs, err := s.api.ListDocuments(ctx, classID)

	s.mu.Lock()
	if seq <= s.appliedSeq || classID != s.classID {
		s.mu.Unlock()
		logger.Debug("discarding stale document response (seq %d)", seq)
		return nil
	}
	s.appliedSeq = seq

	if err != nil {
		// An unreadable list is worse than an empty one: documents we
		// cannot confirm must not be offered for download or deletion.
		s.docs = nil
		s.stopPollingLocked()
		s.mu.Unlock()
		return err
	}
	s.docs = docs
	logger.Debug("document list refreshed: %d documents", len(docs))

	if anyInProgress(docs) {
		s.startPollingLocked()
	} else {
		s.stopPollingLocked()
	}
	s.mu.Unlock()

	// Warm the URL cache so DownloadURL is a cache hit in the common
	// case. Best effort; a missing link surfaces on DownloadURL anyway.
	if len(docs) > 0 {
		if perr := s.presignMissing(ctx, ""); perr != nil {
			logger.Warn("presign prefetch failed: %v", perr)
		}
	}
	return nil
}

// anyInProgress reports whether any document still needs polling.
func anyInProgress(docs []domain.Document) bool {
	for _, d := range docs {
		if !d.Status.Terminal() {
			return true
		}
	}
	return false
}

// startPollingLocked starts the poll goroutine if not already running.
// Caller holds mu.
func (s *DocumentService) startPollingLocked() {
	if s.polling {
		return
	}
	s.polling = true
	ctx, cancel := context.WithCancel(context.Background())
	s.pollCancel = cancel
	logger.Debug("starting document poll every %s", s.pollInterval)
	go s.pollLoop(ctx)
}

// stopPollingLocked stops the poll goroutine. Caller holds mu.
func (s *DocumentService) stopPollingLocked() {
	if !s.polling {
		return
	}
	s.polling = false
	s.pollCancel()
	s.pollCancel = nil
	logger.Debug("document poll stopped")
}

// pollLoop re-fetches at the poll interval until cancelled. Fetch itself
// stops the poller once every document reaches a terminal status.
func (s *DocumentService) pollLoop(ctx context.Context) {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Fetch(ctx); err != nil {
				logger.Warn("document poll fetch failed: %v", err)
			}
		}
	}
}

// Documents returns a copy of the current local document list.
func (s *DocumentService) Documents() []domain.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Document, len(s.docs))
	copy(out, s.docs)
	return out
}

// Polling reports whether the background poll task is running.
func (s *DocumentService) Polling() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.polling
}

// DownloadURL returns a presigned link for the document. A fresh cache
// entry is returned directly; otherwise one batch request presigns every
// listed document whose entry is missing or expired, so browsing from
// one file to the next stays a cache hit.
func (s *DocumentService) DownloadURL(ctx context.Context, documentID string) (string, error) {
	s.mu.Lock()
	if entry, ok := s.urls[documentID]; ok && entry.Valid(s.now()) {
		s.mu.Unlock()
		logger.Debug("presigned URL cache hit for %s", documentID)
		return entry.URL, nil
	}
	s.mu.Unlock()

	if err := s.presignMissing(ctx, documentID); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.urls[documentID]
	if !ok || !entry.Valid(s.now()) {
		return "", domain.ErrNotFound
	}
	return entry.URL, nil
}

// presignMissing issues one batch presign covering every listed document
// without a fresh cache entry (plus extra, when non-empty and unlisted)
// and caches the returned links. Documents the backend cannot presign
// yet come back null and stay uncached.
func (s *DocumentService) presignMissing(ctx context.Context, extra string) error {
	s.mu.Lock()
	now := s.now()
	ids := make([]string, 0, len(s.docs)+1)
	listed := false
	for _, d := range s.docs {
		if entry, ok := s.urls[d.ID]; ok && entry.Valid(now) {
			continue
		}
		ids = append(ids, d.ID)
		if d.ID == extra {
			listed = true
		}
	}
	if extra != "" && !listed {
		ids = append(ids, extra)
	}
	s.mu.Unlock()

	if len(ids) == 0 {
		return nil
	}
	logger.Debug("presigning %d documents", len(ids))
	urls, err := s.api.PresignBatch(ctx, ids)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	expires := s.now().Add(s.urlTTL - s.urlMargin)
	for id, url := range urls {
		if url == "" {
			continue
		}
		s.urls[id] = domain.PresignedURL{DocumentID: id, URL: url, ExpiresAt: expires}
	}
	return nil
}

// Delete removes a document. A single delete may be in flight at a time;
// a second attempt fails immediately with domain.ErrDeleteInFlight
// rather than queueing, so the UI can tell the user to wait.
func (s *DocumentService) Delete(ctx context.Context, documentID string) error {
	s.mu.Lock()
	if s.deleteBusy {
		s.mu.Unlock()
		return domain.ErrDeleteInFlight
	}
	s.deleteBusy = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.deleteBusy = false
		s.mu.Unlock()
	}()

	if err := s.api.DeleteDocument(ctx, documentID); err != nil {
		return err
	}
	logger.Info("document deleted: %s", documentID)

	s.mu.Lock()
	delete(s.urls, documentID)
	s.mu.Unlock()

	if s.bus != nil {
		s.bus.Notify()
	}
	return s.Fetch(ctx)
}

// Filename resolves a document id to its filename from the local list.
func (s *DocumentService) Filename(documentID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.docs {
		if d.ID == documentID {
			return d.Filename, true
		}
	}
	return "", false
}

// RefreshMappings synchronously re-fetches the document list so a
// just-processed document becomes resolvable.
func (s *DocumentService) RefreshMappings(ctx context.Context) error {
	return s.Fetch(ctx)
}

// Close stops polling and the refresh subscription. Safe to call more
// than once.
func (s *DocumentService) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.stopPollingLocked()
		s.mu.Unlock()
		if s.busCancel != nil {
			s.busCancel()
		}
		close(s.done)
	})
}
