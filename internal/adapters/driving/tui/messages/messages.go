// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/judelwin/smart-study-assistant/internal/core/domain"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewLogin is the email/password form.
	ViewLogin ViewType = iota
	// ViewClasses is the class picker.
	ViewClasses
	// ViewChat is the question/answer transcript.
	ViewChat
	// ViewDocuments lists the selected class's documents.
	ViewDocuments
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewLogin:
		return "login"
	case ViewClasses:
		return "classes"
	case ViewChat:
		return "chat"
	case ViewDocuments:
		return "documents"
	default:
		return "unknown"
	}
}

// LoggedIn is sent when authentication succeeds.
type LoggedIn struct {
	Email string
}

// ClassesLoaded carries the refreshed class set back to the model.
type ClassesLoaded struct {
	Classes []domain.Class
	Err     error
}

// ClassChosen is sent when the user picks a class.
type ClassChosen struct {
	Class domain.Class
}

// AnswerArrived signals that a submitted question finished and the
// transcript changed.
type AnswerArrived struct {
	Err error
}

// DocumentsTick drives the periodic re-render of the documents view
// while ingestion is in progress.
type DocumentsTick struct{}

// ErrorOccurred signals that an operation failed.
type ErrorOccurred struct {
	Err error
}
