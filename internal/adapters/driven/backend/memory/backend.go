// Package memory provides an in-memory fake of the backend API ports.
// It backs the core service tests and the offline smoke tests of the
// CLI and TUI adapters; state is mutated directly and errors are injected
// through the exported fields.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/judelwin/smart-study-assistant/internal/core/domain"
	"github.com/judelwin/smart-study-assistant/internal/core/ports/driven"
)

// Ensure Backend implements all backend API ports.
var (
	_ driven.ClassAPI    = (*Backend)(nil)
	_ driven.DocumentAPI = (*Backend)(nil)
	_ driven.QueryAPI    = (*Backend)(nil)
	_ driven.AuthAPI     = (*Backend)(nil)
)

// Backend is an in-memory stand-in for the ingestion, query and auth
// services. All fields are safe for concurrent use through the internal
// mutex; tests mutate state via the setter methods or read the call
// counters to assert interaction patterns.
type Backend struct {
	mu sync.Mutex

	classes   []domain.Class
	documents map[string][]domain.Document // class id -> documents
	urls      map[string]string            // document id -> presigned URL
	answer    string
	chunks    []driven.ChunkRef
	accounts  map[string]string // email -> password
	profile   domain.UserProfile

	// Injected errors. When set, the corresponding call fails.
	ListClassesErr   error
	CreateClassErr   error
	DeleteClassErr   error
	ListDocumentsErr error
	DeleteDocErr     error
	PresignErr       error
	UploadErr        error
	AskErr           error
	LoginErr         error
	RegisterErr      error
	MeErr            error

	// Call counters.
	ListClassesCalls   int
	ListDocumentsCalls int
	PresignCalls       int
	AskCalls           int

	// PresignRequests records the id sets of each presign call.
	PresignRequests [][]string
}

// NewBackend creates an empty fake backend.
func NewBackend() *Backend {
	return &Backend{
		documents: make(map[string][]domain.Document),
		urls:      make(map[string]string),
		accounts:  make(map[string]string),
	}
}

// SetClasses replaces the class set.
func (b *Backend) SetClasses(classes []domain.Class) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.classes = classes
}

// SetDocuments replaces the document list for a class.
func (b *Backend) SetDocuments(classID string, docs []domain.Document) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.documents[classID] = docs
}

// SetURL sets the presigned URL returned for a document id.
func (b *Backend) SetURL(documentID, url string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.urls[documentID] = url
}

// SetAnswer sets the answer and chunk references returned by Ask.
func (b *Backend) SetAnswer(answer string, chunks []driven.ChunkRef) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.answer = answer
	b.chunks = chunks
}

// AddAccount registers an email/password pair accepted by Login.
func (b *Backend) AddAccount(email, password string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.accounts[email] = password
}

// ListClasses implements driven.ClassAPI.
func (b *Backend) ListClasses(_ context.Context) ([]domain.Class, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ListClassesCalls++
	if b.ListClassesErr != nil {
		return nil, b.ListClassesErr
	}
	out := make([]domain.Class, len(b.classes))
	copy(out, b.classes)
	return out, nil
}

// CreateClass implements driven.ClassAPI.
func (b *Backend) CreateClass(_ context.Context, name string) (*domain.Class, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.CreateClassErr != nil {
		return nil, b.CreateClassErr
	}
	class := domain.Class{ID: uuid.New().String(), Name: name}
	b.classes = append(b.classes, class)
	return &class, nil
}

// DeleteClass implements driven.ClassAPI.
func (b *Backend) DeleteClass(_ context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.DeleteClassErr != nil {
		return b.DeleteClassErr
	}
	kept := b.classes[:0]
	for _, c := range b.classes {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	b.classes = kept
	delete(b.documents, id)
	return nil
}

// ListDocuments implements driven.DocumentAPI.
func (b *Backend) ListDocuments(_ context.Context, classID string) ([]domain.Document, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ListDocumentsCalls++
	if b.ListDocumentsErr != nil {
		return nil, b.ListDocumentsErr
	}
	docs := b.documents[classID]
	out := make([]domain.Document, len(docs))
	copy(out, docs)
	return out, nil
}

// DeleteDocument implements driven.DocumentAPI.
func (b *Backend) DeleteDocument(_ context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.DeleteDocErr != nil {
		return b.DeleteDocErr
	}
	for classID, docs := range b.documents {
		kept := docs[:0]
		for _, d := range docs {
			if d.ID != id {
				kept = append(kept, d)
			}
		}
		b.documents[classID] = kept
	}
	delete(b.urls, id)
	return nil
}

// PresignBatch implements driven.DocumentAPI.
func (b *Backend) PresignBatch(_ context.Context, ids []string) (map[string]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.PresignCalls++
	b.PresignRequests = append(b.PresignRequests, append([]string(nil), ids...))
	if b.PresignErr != nil {
		return nil, b.PresignErr
	}
	result := make(map[string]string, len(ids))
	for _, id := range ids {
		result[id] = b.urls[id]
	}
	return result, nil
}

// Upload implements driven.DocumentAPI. Uploaded documents appear in the
// class with status pending, mirroring the ingestion pipeline.
func (b *Backend) Upload(
	_ context.Context, classID string, files []driven.UploadFile,
) (*driven.UploadResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.UploadErr != nil {
		return nil, b.UploadErr
	}
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.Name)
		b.documents[classID] = append(b.documents[classID], domain.Document{
			ID:         uuid.New().String(),
			Filename:   f.Name,
			Status:     domain.StatusPending,
			UploadedAt: time.Now(),
		})
	}
	return &driven.UploadResult{Message: "queued", Filenames: names}, nil
}

// Ask implements driven.QueryAPI.
func (b *Backend) Ask(_ context.Context, _ driven.QueryRequest) (*driven.QueryResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.AskCalls++
	if b.AskErr != nil {
		return nil, b.AskErr
	}
	chunks := make([]driven.ChunkRef, len(b.chunks))
	copy(chunks, b.chunks)
	return &driven.QueryResponse{Answer: b.answer, Chunks: chunks}, nil
}

// Login implements driven.AuthAPI.
func (b *Backend) Login(_ context.Context, email, password string) (*domain.Credential, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.LoginErr != nil {
		return nil, b.LoginErr
	}
	if stored, ok := b.accounts[email]; !ok || stored != password {
		return nil, &domain.APIError{StatusCode: 401, Detail: "Invalid email or password"}
	}
	return &domain.Credential{AccessToken: "token-" + email, TokenType: "bearer"}, nil
}

// Register implements driven.AuthAPI.
func (b *Backend) Register(_ context.Context, email, password string) (*domain.Credential, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.RegisterErr != nil {
		return nil, b.RegisterErr
	}
	if _, ok := b.accounts[email]; ok {
		return nil, &domain.APIError{StatusCode: 400, Detail: "Email already registered"}
	}
	b.accounts[email] = password
	return &domain.Credential{AccessToken: "token-" + email, TokenType: "bearer"}, nil
}

// Me implements driven.AuthAPI.
func (b *Backend) Me(_ context.Context) (*domain.UserProfile, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.MeErr != nil {
		return nil, b.MeErr
	}
	return &b.profile, nil
}

// SetProfile sets the profile returned by Me.
func (b *Backend) SetProfile(p domain.UserProfile) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.profile = p
}
