// Package domain contains the core entities of the study assistant client:
// classes, documents with their processing status, chat messages with
// citations, presigned download links and the authenticated user.
//
// The domain layer has no dependencies on adapters or external services.
// All state observed here is an eventually-consistent local view of the
// backend; staleness is resolved by re-fetching, never by merging.
package domain
