package driving

import (
	"context"

	"github.com/judelwin/smart-study-assistant/internal/core/domain"
)

// ClassService owns the local set of classes and the current selection.
type ClassService interface {
	// Refresh re-fetches the class set. On a transport failure the
	// existing set is kept (stale but usable); on an authoritative API
	// error the set and selection are cleared.
	Refresh(ctx context.Context) error

	// Create submits a new class name (trimmed, non-empty) and refreshes
	// on success.
	Create(ctx context.Context, name string) error

	// Delete removes a class and refreshes; if the deleted class was
	// selected, selection falls back to the first remaining class.
	Delete(ctx context.Context, id string) error

	// Select changes the local selection. Unknown ids are ignored.
	Select(id string)

	// Classes returns the current local class set in listing order.
	Classes() []domain.Class

	// Selected returns the selected class, or nil when none is selected.
	Selected() *domain.Class
}
