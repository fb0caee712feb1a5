package driven

import "context"

// ChunkRef is a backend-supplied pointer to the document and page that
// contributed to an answer, prior to resolution into a citation.
type ChunkRef struct {
	// DocumentID identifies the source document.
	DocumentID string `json:"document_id"`

	// PageNumber is the 1-based page; -1 when unknown.
	PageNumber int `json:"page_number"`

	// Content is the retrieved chunk text.
	Content string `json:"content"`

	// ChunkIndex is the chunk's ordinal within the document; -1 when unknown.
	ChunkIndex int `json:"chunk_index"`

	// Score is the retrieval similarity score.
	Score float64 `json:"score"`
}

// QueryRequest is a question scoped to a class.
type QueryRequest struct {
	// Query is the natural-language question.
	Query string `json:"query"`

	// ClassID scopes retrieval to one class.
	ClassID string `json:"class_id"`

	// TopK is the number of chunks to retrieve.
	TopK int `json:"top_k"`
}

// QueryResponse is the synthesised answer plus its supporting chunks.
type QueryResponse struct {
	// Answer is the model's answer text.
	Answer string `json:"answer"`

	// Chunks lists the retrieved chunk references, best match first.
	Chunks []ChunkRef `json:"chunks"`
}

// QueryAPI is the question-answering surface of the backend.
type QueryAPI interface {
	// Ask submits a question and returns the answer with chunk references.
	Ask(ctx context.Context, req QueryRequest) (*QueryResponse, error)
}
