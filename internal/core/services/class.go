package services

import (
	"context"
	"strings"
	"sync"

	"github.com/judelwin/smart-study-assistant/internal/core/domain"
	"github.com/judelwin/smart-study-assistant/internal/core/ports/driven"
	"github.com/judelwin/smart-study-assistant/internal/core/ports/driving"
	"github.com/judelwin/smart-study-assistant/internal/logger"
)

// Ensure ClassService implements the interface.
var _ driving.ClassService = (*ClassService)(nil)

// ClassService owns the local class set and the current selection.
// The set is a cache of the backend's listing; Refresh reconciles it.
type ClassService struct {
	api driven.ClassAPI
	bus *RefreshBus

	mu       sync.Mutex
	classes  []domain.Class
	selected string // selected class id, "" when none
}

// NewClassService creates a class service. The bus may be nil when no
// other component needs change notifications.
func NewClassService(api driven.ClassAPI, bus *RefreshBus) *ClassService {
	return &ClassService{api: api, bus: bus}
}

// Refresh re-fetches the class set from the backend.
//
// Failure handling is deliberately asymmetric: a transport failure keeps
// the existing set (stale data beats an empty screen when the backend is
// merely unreachable), while an authoritative API error clears set and
// selection because the backend has told us our view is wrong.
func (s *ClassService) Refresh(ctx context.Context) error {
	classes, err := s.api.ListClasses(ctx)
	if err != nil {
		if _, ok := domain.IsAPIError(err); ok {
			logger.Warn("class list rejected by backend, clearing local set: %v", err)
			s.mu.Lock()
			s.classes = nil
			s.selected = ""
			s.mu.Unlock()
		} else {
			logger.Warn("class list fetch failed, keeping stale set: %v", err)
		}
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.classes = classes
	logger.Debug("class set refreshed: %d classes", len(classes))

	// Drop a selection whose class vanished; fall back to the first class
	// so the user always has a working context when any class exists.
	if s.selected != "" && s.findLocked(s.selected) == nil {
		s.selected = ""
	}
	if s.selected == "" && len(s.classes) > 0 {
		s.selected = s.classes[0].ID
	}
	return nil
}

// Create submits a new class. The name is trimmed; an empty result is
// rejected with domain.ErrInvalidInput. On success the set is refreshed
// so the new class appears with its backend-assigned id.
func (s *ClassService) Create(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.ErrInvalidInput
	}
	if _, err := s.api.CreateClass(ctx, name); err != nil {
		return err
	}
	logger.Info("class created: %s", name)
	return s.Refresh(ctx)
}

// Delete removes a class and refreshes the set. Selection fallback is
// handled by Refresh.
func (s *ClassService) Delete(ctx context.Context, id string) error {
	if err := s.api.DeleteClass(ctx, id); err != nil {
		return err
	}
	logger.Info("class deleted: %s", id)
	if s.bus != nil {
		s.bus.Notify()
	}
	return s.Refresh(ctx)
}

// Select changes the local selection. Ids not present in the local set
// are ignored so a stale UI cannot select a deleted class.
func (s *ClassService) Select(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == "" {
		s.selected = ""
		return
	}
	if s.findLocked(id) != nil {
		s.selected = id
	}
}

// Classes returns a copy of the local class set in listing order.
func (s *ClassService) Classes() []domain.Class {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Class, len(s.classes))
	copy(out, s.classes)
	return out
}

// Selected returns the selected class, or nil when none is selected.
func (s *ClassService) Selected() *domain.Class {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findLocked(s.selected)
}

// findLocked returns a copy of the class with the given id. Caller holds mu.
func (s *ClassService) findLocked(id string) *domain.Class {
	for i := range s.classes {
		if s.classes[i].ID == id {
			c := s.classes[i]
			return &c
		}
	}
	return nil
}
