// Package tui provides the interactive terminal interface for study.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"errors"

	"github.com/judelwin/smart-study-assistant/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Auth manages the login session.
	Auth driving.AuthService

	// Class owns the class set and selection.
	Class driving.ClassService

	// Document maintains the per-class document view.
	Document driving.DocumentService

	// Chat drives the question/answer transcript.
	Chat driving.ChatService

	// Upload submits files for ingestion.
	Upload driving.UploadService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return errors.New("ports not configured")
	}
	if p.Auth == nil {
		return errors.New("auth service is required")
	}
	if p.Class == nil {
		return errors.New("class service is required")
	}
	if p.Document == nil {
		return errors.New("document service is required")
	}
	if p.Chat == nil {
		return errors.New("chat service is required")
	}
	if p.Upload == nil {
		return errors.New("upload service is required")
	}
	return nil
}
