package driven

import (
	"context"

	"github.com/judelwin/smart-study-assistant/internal/core/domain"
)

// ClassAPI is the backend's class management surface.
type ClassAPI interface {
	// ListClasses returns all classes owned by the authenticated user.
	ListClasses(ctx context.Context) ([]domain.Class, error)

	// CreateClass creates a class with the given name.
	CreateClass(ctx context.Context, name string) (*domain.Class, error)

	// DeleteClass deletes a class; the backend cascades to its documents.
	DeleteClass(ctx context.Context, id string) error
}
