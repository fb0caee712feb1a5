package domain

// Class is a named collection of uploaded documents.
// Instances are created and deleted by the backend; the client never
// mutates a class after creation.
type Class struct {
	// ID is the server-assigned opaque identifier.
	ID string `json:"id"`

	// Name is the user-chosen display name.
	Name string `json:"name"`
}
